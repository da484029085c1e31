package prune

import (
	"context"
	"fmt"

	"github.com/NikDrummond/pntools/skeleton"
	"github.com/NikDrummond/pntools/volume"
)

// ByVolume restricts s to the cable inside (Mode In) or outside (Mode Out)
// the mesh.
//
// The result may be fragmented: a dendritic tree threading in and out of a
// neuropil legitimately splits into several pieces. Use
// WithPreventFragments to collapse to the single best component.
//
// Returns ErrNothingKept when the restriction removes every node.
// Complexity: O(V·F) for V nodes against F mesh faces.
func ByVolume(s *skeleton.Skeleton, m *volume.Mesh, opts ...Option) (*skeleton.Skeleton, error) {
	// 1. Validate inputs
	if s == nil {
		return nil, ErrNilSkeleton
	}
	if m == nil {
		return nil, ErrNilMesh
	}

	// 2. Apply options
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 3. Resize a private copy of the mesh when requested
	mesh := m
	if o.Scale != 1 {
		mesh = m.Clone()
		if err := mesh.Resize(o.Scale); err != nil {
			return nil, err
		}
	}

	// 4. Containment test per node
	keep, err := nodesInMesh(s, mesh, o.Mode, o.Ctx)
	if err != nil {
		return nil, err
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("%w: %q against %q", ErrNothingKept, s.ID(), mesh.Name)
	}

	// 5. Subset
	return s.Subset(keep, skeleton.SubsetOptions{PreventFragments: o.PreventFragments})
}

// ByStrahler removes every node whose Strahler order is in drop.
//
// Passing nil drops the single highest order present, which strips the
// backbone and leaves terminal arbors.
func ByStrahler(s *skeleton.Skeleton, drop []int, opts ...Option) (*skeleton.Skeleton, error) {
	if s == nil {
		return nil, ErrNilSkeleton
	}

	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	order := s.Strahler()
	if len(order) == 0 {
		return nil, skeleton.ErrNoNodes
	}
	if drop == nil {
		drop = []int{s.MaxStrahler()}
	}
	dropSet := make(map[int]struct{}, len(drop))
	for _, d := range drop {
		dropSet[d] = struct{}{}
	}

	keep := make(map[int64]struct{}, len(order))
	for id, ord := range order {
		if _, gone := dropSet[ord]; !gone {
			keep[id] = struct{}{}
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("%w: all orders dropped on %q", ErrNothingKept, s.ID())
	}

	return s.Subset(keep, skeleton.SubsetOptions{PreventFragments: o.PreventFragments})
}

// nodesInMesh returns the node IDs on the kept side of the mesh.
func nodesInMesh(s *skeleton.Skeleton, m *volume.Mesh, mode Mode, ctx context.Context) (map[int64]struct{}, error) {
	keep := make(map[int64]struct{})
	for _, n := range s.Nodes() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		in, err := m.Contains([3]float64{n.X, n.Y, n.Z})
		if err != nil {
			return nil, err
		}
		if (mode == In) == in {
			keep[n.ID] = struct{}{}
		}
	}

	return keep, nil
}
