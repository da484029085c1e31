package prune

import (
	"errors"
	"fmt"

	"github.com/NikDrummond/pntools/skeleton"
	"github.com/NikDrummond/pntools/volume"
)

// ToVolume prunes a neuron to the cable inside mesh that is likely to
// synapse there.
//
// The skeleton is first rerooted to its soma (falling back to the current
// root when no soma is tagged). Under the Primary strategy the primary
// neurite (longest root-to-leaf path) is then cut: when the neurite tip
// ends inside the mesh, everything distal to the in-mesh branch point
// closest to the root survives; otherwise the whole primary neurite is
// subtracted. Under Legacy the volume restriction is simply followed by
// stripping the highest Strahler order.
//
// WithScale resizes the mesh before testing; WithPreventFragments forces
// a single connected result (a fragmented result is usually the better
// prune, but some analyses need one subgraph).
func ToVolume(s *skeleton.Skeleton, m *volume.Mesh, opts ...Option) (*skeleton.Skeleton, error) {
	if s == nil {
		return nil, ErrNilSkeleton
	}
	if m == nil {
		return nil, ErrNilMesh
	}

	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 1. Work on a rerooted copy so the input survives untouched.
	work := s.Clone()
	if err := work.RerootToSoma(); err != nil && !errors.Is(err, skeleton.ErrNoSoma) {
		return nil, err
	}

	// 2. Resize a private mesh copy when requested.
	mesh := m
	if o.Scale != 1 {
		mesh = m.Clone()
		if err := mesh.Resize(o.Scale); err != nil {
			return nil, err
		}
	}

	if o.Strategy == Legacy {
		return legacyToVolume(work, mesh, o)
	}

	return primaryToVolume(work, mesh, o)
}

// legacyToVolume is the older two-pass behavior: connected volume prune,
// then strip the highest Strahler order.
func legacyToVolume(s *skeleton.Skeleton, m *volume.Mesh, o Options) (*skeleton.Skeleton, error) {
	vol, err := ByVolume(s, m, WithContext(o.Ctx), WithPreventFragments())
	if err != nil {
		return nil, err
	}

	return ByStrahler(vol, nil)
}

// primaryToVolume cuts along the primary neurite before restricting.
func primaryToVolume(s *skeleton.Skeleton, m *volume.Mesh, o Options) (*skeleton.Skeleton, error) {
	// 1. Primary neurite and its tip.
	neurite, _, err := s.LongestNeurite()
	if err != nil {
		return nil, err
	}
	tip := neurite[len(neurite)-1]
	neuriteSet := make(map[int64]struct{}, len(neurite))
	for _, id := range neurite {
		neuriteSet[id] = struct{}{}
	}

	// 2. Connected restriction to the mesh.
	vol, err := ByVolume(s, m, WithContext(o.Ctx), WithPreventFragments())
	if err != nil {
		return nil, err
	}
	volSet := make(map[int64]struct{}, vol.NumNodes())
	for _, n := range vol.Nodes() {
		volSet[n.ID] = struct{}{}
	}

	// 3. Branch points on the primary neurite that survived the restriction.
	root, err := s.Root()
	if err != nil {
		return nil, err
	}
	var candidates []int64
	for _, b := range s.BranchNodes() {
		if _, onNeurite := neuriteSet[b]; !onNeurite {
			continue
		}
		if _, inVol := volSet[b]; !inVol {
			continue
		}
		candidates = append(candidates, b)
	}

	// 4. Decide what part of the neurite to subtract.
	tipNode, err := s.Node(tip)
	if err != nil {
		return nil, err
	}
	tipIn, err := m.Contains([3]float64{tipNode.X, tipNode.Y, tipNode.Z})
	if err != nil {
		return nil, err
	}

	subtract := neuriteSet
	if tipIn && len(candidates) > 0 {
		// Cut at the parent of the surviving branch closest to the root;
		// the proximal neurite is what gets subtracted.
		cut, err := closestBranch(s, root, candidates, true)
		if err != nil {
			return nil, err
		}
		cutNode, err := s.Node(cut)
		if err != nil {
			return nil, err
		}
		subtract, err = proximalNeurite(s, neurite, cutNode.ParentID)
		if err != nil {
			return nil, err
		}
	}

	// 5. Subtract and subset.
	keep := make(map[int64]struct{}, len(volSet))
	for id := range volSet {
		if _, gone := subtract[id]; !gone {
			keep[id] = struct{}{}
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("%w: %q against %q", ErrNothingKept, s.ID(), m.Name)
	}

	return vol.Subset(keep, skeleton.SubsetOptions{PreventFragments: o.PreventFragments})
}

// closestBranch returns the candidate with the minimum (or, when min is
// false, maximum) geodesic distance to ref.
func closestBranch(s *skeleton.Skeleton, ref int64, candidates []int64, min bool) (int64, error) {
	best := candidates[0]
	bestDist, err := s.PathLength(best, ref)
	if err != nil {
		return 0, err
	}
	for _, c := range candidates[1:] {
		d, err := s.PathLength(c, ref)
		if err != nil {
			return 0, err
		}
		if (min && d < bestDist) || (!min && d > bestDist) {
			best, bestDist = c, d
		}
	}

	return best, nil
}

// proximalNeurite returns the neurite nodes from the root up to and
// including cut. A cut of NoParent yields the empty set.
func proximalNeurite(s *skeleton.Skeleton, neurite []int64, cut int64) (map[int64]struct{}, error) {
	out := make(map[int64]struct{})
	if cut == skeleton.NoParent {
		return out, nil
	}
	for _, id := range neurite {
		out[id] = struct{}{}
		if id == cut {
			return out, nil
		}
	}

	return nil, fmt.Errorf("%w: cut %d not on neurite", ErrNoNeurite, cut)
}
