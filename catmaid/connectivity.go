package catmaid

import (
	"context"
	"fmt"
	"net/url"

	"github.com/NikDrummond/pntools/skeleton"
)

// ConnectorDetails fetches synapse detail for the given connector IDs.
// An empty ID list is a no-op returning nil.
func (c *Client) ConnectorDetails(ctx context.Context, connectorIDs []int64) ([]ConnectorDetail, error) {
	if len(connectorIDs) == 0 {
		return nil, nil
	}

	form := url.Values{}
	for i, id := range connectorIDs {
		form.Set(fmt.Sprintf("connector_ids[%d]", i), fmt.Sprintf("%d", id))
	}
	var out []ConnectorDetail
	if err := c.postForm(ctx, "connector/info", form, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// FindTreenodes resolves traced nodes by ID. Unknown IDs are absent from
// the result rather than an error; an empty input is a no-op.
func (c *Client) FindTreenodes(ctx context.Context, treenodeIDs []int64) ([]Treenode, error) {
	if len(treenodeIDs) == 0 {
		return nil, nil
	}

	form := url.Values{}
	for i, id := range treenodeIDs {
		form.Set(fmt.Sprintf("treenode_ids[%d]", i), fmt.Sprintf("%d", id))
	}
	var out []Treenode
	if err := c.postForm(ctx, "treenodes/detail", form, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// skeletonDetail is the server payload for one reconstruction.
type skeletonDetail struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Nodes []struct {
		ID       int64   `json:"id"`
		ParentID *int64  `json:"parent_id"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Z        float64 `json:"z"`
		Radius   float64 `json:"radius"`
		Label    int     `json:"label"`
	} `json:"nodes"`
	Connectors []struct {
		ID       int64   `json:"id"`
		NodeID   int64   `json:"node_id"`
		Relation string  `json:"relation"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Z        float64 `json:"z"`
	} `json:"connectors"`
}

// GetSkeleton downloads one reconstruction as a Skeleton.
//
// Server rows arrive in arbitrary order; insertion is staged so parents
// always precede children.
func (c *Client) GetSkeleton(ctx context.Context, skeletonID int64) (*skeleton.Skeleton, error) {
	var det skeletonDetail
	if err := c.getJSON(ctx, fmt.Sprintf("skeletons/%d/detail", skeletonID), nil, &det); err != nil {
		return nil, err
	}

	s, err := skeleton.New(fmt.Sprintf("%d", skeletonID), skeleton.WithName(det.Name))
	if err != nil {
		return nil, err
	}

	// Index children so nodes can be added root-first.
	kids := make(map[int64][]int, len(det.Nodes))
	var roots []int
	for i, n := range det.Nodes {
		if n.ParentID == nil {
			roots = append(roots, i)
			continue
		}
		kids[*n.ParentID] = append(kids[*n.ParentID], i)
	}

	var add func(i int) error
	add = func(i int) error {
		n := det.Nodes[i]
		parent := skeleton.NoParent
		if n.ParentID != nil {
			parent = *n.ParentID
		}
		if err = s.AddNode(skeleton.Node{
			ID:       n.ID,
			ParentID: parent,
			X:        n.X,
			Y:        n.Y,
			Z:        n.Z,
			Radius:   n.Radius,
			Label:    n.Label,
		}); err != nil {
			return err
		}
		for _, child := range kids[n.ID] {
			if err = add(child); err != nil {
				return err
			}
		}

		return nil
	}
	for _, r := range roots {
		if err = add(r); err != nil {
			return nil, fmt.Errorf("catmaid: skeleton %d: %w", skeletonID, err)
		}
	}

	for _, conn := range det.Connectors {
		rel := skeleton.Postsynaptic
		if conn.Relation == "presynaptic_to" {
			rel = skeleton.Presynaptic
		}
		if err = s.AddConnector(skeleton.Connector{
			ID:       conn.ID,
			NodeID:   conn.NodeID,
			Relation: rel,
			X:        conn.X,
			Y:        conn.Y,
			Z:        conn.Z,
		}); err != nil {
			return nil, fmt.Errorf("catmaid: skeleton %d: %w", skeletonID, err)
		}
	}

	return s, nil
}
