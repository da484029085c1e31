package sampling

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/NikDrummond/pntools/skeleton"
)

// MissingUpstream is one postsynaptic connector with no upstream treenode
// traced yet.
type MissingUpstream struct {
	ConnectorID int64
	X, Y, Z     float64

	// ManualURL opens the connector location in the tracing tool.
	ManualURL string
}

// Row is one upstream partner entry of a review sheet.
type Row struct {
	SkeletonID  int64
	ConnectorID int64
	TreenodeID  int64
	ParentID    int64
	X, Y, Z     float64

	// ManualURL opens the upstream node in the traced dataset; AutoURL is
	// the same view in the segmentation dataset.
	ManualURL string
	AutoURL   string

	// FragmentID is the segmentation fragment (Auto order only; 0 =
	// unresolved). Hits is the rank count backing the chosen order.
	FragmentID int64
	Hits       int
}

// Sheet is an ordered upstream review sheet.
type Sheet struct {
	// ID tags the sheet for filing and cross-referencing exports.
	ID uuid.UUID

	// SkeletonID is the neuron the sheet was generated for.
	SkeletonID string

	// Order records the ranking that produced the row order.
	Order Order

	// Rows holds the ranked entries.
	Rows []Row
}

// UpstreamCheck audits the postsynaptic connectors of skel for missing
// upstream treenodes. A nil result means every input has one.
//
// The skeleton should already be pruned to the region of interest when a
// spatial restriction is wanted; this keeps the audit free of geometry
// concerns.
func UpstreamCheck(ctx context.Context, src Source, skel *skeleton.Skeleton) ([]MissingUpstream, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if skel == nil {
		return nil, ErrNilSkeleton
	}

	post := skel.Postsynapses()
	if len(post) == 0 {
		return nil, nil
	}
	byID := make(map[int64]skeleton.Connector, len(post))
	ids := make([]int64, 0, len(post))
	for _, c := range post {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	details, err := src.ConnectorDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("sampling: connector details: %w", err)
	}

	var missing []MissingUpstream
	for _, d := range details {
		if d.PresynapticToNode != nil {
			continue
		}
		c, ok := byID[d.ConnectorID]
		if !ok {
			continue
		}
		link, err := src.URLToCoordinates([3]float64{c.X, c.Y, c.Z}, sheetZoom)
		if err != nil {
			return nil, err
		}
		missing = append(missing, MissingUpstream{
			ConnectorID: d.ConnectorID,
			X:           c.X, Y: c.Y, Z: c.Z,
			ManualURL: link,
		})
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].ConnectorID < missing[j].ConnectorID })

	return missing, nil
}

// UpstreamSheet builds the ranked upstream review sheet for skel, and the
// missing-upstream audit alongside it. The caller decides which of the
// two to act on; nothing prompts.
//
// Manual order ranks by per-skeleton input count, Auto by segmentation
// fragment hits (requires WithResolver), Random shuffles with the seeded
// RNG. Ties and hit groups keep a stable secondary order by connector ID.
func UpstreamSheet(ctx context.Context, src Source, skel *skeleton.Skeleton, opts ...Option) (*Sheet, []MissingUpstream, error) {
	if src == nil {
		return nil, nil, ErrNilSource
	}
	if skel == nil {
		return nil, nil, ErrNilSkeleton
	}

	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Order == Auto && o.Resolver == nil {
		return nil, nil, ErrNoResolver
	}
	dataset, err := o.Version.dataset()
	if err != nil {
		return nil, nil, err
	}

	// 1. Audit first: the sheet and the audit are produced together.
	missing, err := UpstreamCheck(ctx, src, skel)
	if err != nil {
		return nil, nil, err
	}

	// 2. Resolve upstream treenodes of all traced inputs.
	post := skel.Postsynapses()
	ids := make([]int64, 0, len(post))
	for _, c := range post {
		ids = append(ids, c.ID)
	}
	details, err := src.ConnectorDetails(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("sampling: connector details: %w", err)
	}

	nodeToConnector := make(map[int64]int64, len(details))
	var nodeIDs []int64
	for _, d := range details {
		if d.PresynapticToNode == nil {
			continue
		}
		if _, seen := nodeToConnector[*d.PresynapticToNode]; !seen {
			nodeIDs = append(nodeIDs, *d.PresynapticToNode)
		}
		nodeToConnector[*d.PresynapticToNode] = d.ConnectorID
	}
	upstream, err := src.FindTreenodes(ctx, nodeIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("sampling: upstream treenodes: %w", err)
	}

	// 3. Assemble rows with both URLs.
	rows := make([]Row, 0, len(upstream))
	for _, tn := range upstream {
		manual, err := src.URLToCoordinates([3]float64{tn.X, tn.Y, tn.Z}, sheetZoom)
		if err != nil {
			return nil, nil, err
		}
		parent := int64(skeleton.NoParent)
		if tn.ParentID != nil {
			parent = *tn.ParentID
		}
		rows = append(rows, Row{
			SkeletonID:  tn.SkeletonID,
			ConnectorID: nodeToConnector[tn.ID],
			TreenodeID:  tn.ID,
			ParentID:    parent,
			X:           tn.X, Y: tn.Y, Z: tn.Z,
			ManualURL: manual,
			AutoURL:   strings.Replace(manual, "v14", dataset, 1),
		})
	}

	// 4. Rank.
	if err = rank(ctx, rows, o); err != nil {
		return nil, nil, err
	}

	return &Sheet{
		ID:         uuid.New(),
		SkeletonID: skel.ID(),
		Order:      o.Order,
		Rows:       rows,
	}, missing, nil
}

// rank orders rows in place according to the configured Order.
func rank(ctx context.Context, rows []Row, o Options) error {
	switch o.Order {
	case Manual:
		hits := make(map[int64]int, len(rows))
		for _, r := range rows {
			hits[r.SkeletonID]++
		}
		for i := range rows {
			rows[i].Hits = hits[rows[i].SkeletonID]
		}
		sortByHits(rows)
	case Auto:
		coords := make([][3]float64, len(rows))
		for i, r := range rows {
			coords[i] = [3]float64{r.X, r.Y, r.Z}
		}
		frags, err := o.Resolver.SegmentIDs(ctx, coords)
		if err != nil {
			return fmt.Errorf("sampling: segment lookup: %w", err)
		}
		counts := make(map[int64]int, len(frags))
		for _, f := range frags {
			if f != 0 {
				counts[f]++
			}
		}
		for i := range rows {
			rows[i].FragmentID = frags[i]
			rows[i].Hits = counts[frags[i]]
		}
		sortByHits(rows)
	case Random:
		rng := rngFromSeed(o.Seed)
		rng.Shuffle(len(rows), func(i, j int) {
			rows[i], rows[j] = rows[j], rows[i]
		})
	}

	return nil
}

// sortByHits orders descending by Hits, then by connector ID for a stable
// tiebreak.
func sortByHits(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Hits != rows[j].Hits {
			return rows[i].Hits > rows[j].Hits
		}

		return rows[i].ConnectorID < rows[j].ConnectorID
	})
}

// sheetHeader is the CSV column order of WriteCSV.
var sheetHeader = []string{
	"skeleton_id", "connector_id", "treenode_id", "parent_id",
	"x", "y", "z", "manual_url", "auto_url", "fragment_id", "hits",
}

// WriteCSV writes the sheet as CSV, header first.
func (s *Sheet) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheetHeader); err != nil {
		return fmt.Errorf("sampling: write header: %w", err)
	}
	for _, r := range s.Rows {
		rec := []string{
			strconv.FormatInt(r.SkeletonID, 10),
			strconv.FormatInt(r.ConnectorID, 10),
			strconv.FormatInt(r.TreenodeID, 10),
			strconv.FormatInt(r.ParentID, 10),
			strconv.FormatFloat(r.X, 'f', -1, 64),
			strconv.FormatFloat(r.Y, 'f', -1, 64),
			strconv.FormatFloat(r.Z, 'f', -1, 64),
			r.ManualURL,
			r.AutoURL,
			strconv.FormatInt(r.FragmentID, 10),
			strconv.Itoa(r.Hits),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("sampling: write row: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}
