package connectome

import (
	"context"
	"fmt"
	"sort"

	"github.com/NikDrummond/pntools/sampling"
	"github.com/NikDrummond/pntools/skeleton"
)

const (
	// defaultProject scopes stored neurons when none is configured.
	defaultProject = "default"

	// mergeNeuronQuery upserts one neuron with its summary metrics.
	mergeNeuronQuery = `
		MERGE (n:Neuron {skeletonId: $skeletonId})
		SET n.name = $name,
		    n.project = $project,
		    n.cableLength = $cableLength,
		    n.nodeCount = $nodeCount,
		    n.preCount = $preCount,
		    n.postCount = $postCount
	`

	// mergeConnectionQuery upserts one weighted pre → post connection.
	mergeConnectionQuery = `
		MERGE (pre:Neuron {skeletonId: $preId})
		MERGE (post:Neuron {skeletonId: $postId})
		MERGE (pre)-[r:CONNECTS_TO]->(post)
		SET r.weight = $weight,
		    r.sheetId = $sheetId
	`

	// adjacencyQuery reads the weighted edges among a set of neurons.
	adjacencyQuery = `
		MATCH (pre:Neuron)-[r:CONNECTS_TO]->(post:Neuron)
		WHERE pre.skeletonId IN $ids AND post.skeletonId IN $ids
		RETURN pre.skeletonId AS pre, post.skeletonId AS post, r.weight AS weight
		ORDER BY pre, post
	`

	// wipeQuery removes the neurons of one project and their
	// relationships.
	wipeQuery = `MATCH (n:Neuron {project: $project}) DETACH DELETE n`
)

// Store persists skeletons and sampled connectivity under one project
// tag, so several datasets can share a database.
type Store struct {
	svc     Service
	project string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithProject sets the project tag stamped on stored neurons.
func WithProject(name string) StoreOption {
	return func(st *Store) { st.project = name }
}

// NewStore wraps a database service.
func NewStore(svc Service, opts ...StoreOption) (*Store, error) {
	if svc == nil {
		return nil, ErrNilService
	}

	st := &Store{svc: svc, project: defaultProject}
	for _, opt := range opts {
		opt(st)
	}

	return st, nil
}

// ImportSkeleton upserts the neuron node with its summary metrics.
func (st *Store) ImportSkeleton(ctx context.Context, s *skeleton.Skeleton) error {
	if s == nil {
		return skeleton.ErrNoNodes
	}

	return st.svc.ExecuteWriteQuery(ctx, mergeNeuronQuery, map[string]any{
		"skeletonId":  s.ID(),
		"name":        s.Name(),
		"project":     st.project,
		"cableLength": s.CableLength(),
		"nodeCount":   s.NumNodes(),
		"preCount":    len(s.Presynapses()),
		"postCount":   len(s.Postsynapses()),
	})
}

// ImportSheet stores the upstream partners of a sheet as weighted
// connections onto the sheet's neuron. The weight of a partner is its
// input count (rows per upstream skeleton).
func (st *Store) ImportSheet(ctx context.Context, sheet *sampling.Sheet) error {
	if sheet == nil {
		return fmt.Errorf("%w: nil sheet", ErrBadRecord)
	}

	weights := make(map[int64]int64, len(sheet.Rows))
	for _, r := range sheet.Rows {
		weights[r.SkeletonID]++
	}
	partners := make([]int64, 0, len(weights))
	for pre := range weights {
		partners = append(partners, pre)
	}
	sort.Slice(partners, func(i, j int) bool { return partners[i] < partners[j] })

	for _, pre := range partners {
		err := st.svc.ExecuteWriteQuery(ctx, mergeConnectionQuery, map[string]any{
			"preId":   fmt.Sprintf("%d", pre),
			"postId":  sheet.SkeletonID,
			"weight":  weights[pre],
			"sheetId": sheet.ID.String(),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// AdjacencyBetween reads the weighted edges among the given skeleton IDs,
// ordered by (pre, post).
func (st *Store) AdjacencyBetween(ctx context.Context, skeletonIDs []string) ([]Edge, error) {
	records, err := st.svc.ExecuteReadQuery(ctx, adjacencyQuery, map[string]any{"ids": skeletonIDs})
	if err != nil {
		return nil, err
	}

	edges := make([]Edge, 0, len(records))
	for _, rec := range records {
		pre, okPre := rec.Get("pre")
		post, okPost := rec.Get("post")
		weight, okWeight := rec.Get("weight")
		if !okPre || !okPost || !okWeight {
			return nil, fmt.Errorf("%w: missing column", ErrBadRecord)
		}
		preID, okPre := pre.(string)
		postID, okPost := post.(string)
		w, okWeight := weight.(int64)
		if !okPre || !okPost || !okWeight {
			return nil, fmt.Errorf("%w: unexpected column type", ErrBadRecord)
		}
		edges = append(edges, Edge{From: preID, To: postID, Weight: w})
	}

	return edges, nil
}

// Wipe removes every neuron of the store's project. The confirm flag is
// a hard gate.
func (st *Store) Wipe(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrNotConfirmed
	}

	return st.svc.ExecuteWriteQuery(ctx, wipeQuery, map[string]any{"project": st.project})
}
