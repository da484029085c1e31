package prune

import (
	"errors"
	"fmt"

	"github.com/NikDrummond/pntools/skeleton"
	"github.com/NikDrummond/pntools/volume"
)

// AxonRegions bundles the anatomy Axon needs: the full neuropil set used
// to locate the primary neurite's target, plus the two antennal-lobe
// meshes whose cable (the dendrites, for a projection neuron) is removed.
type AxonRegions struct {
	// Neuropils is the full region set, e.g. catmaid.Client.CoreNeuropils.
	Neuropils volume.Set

	// AntennalR and AntennalL are the right and left antennal-lobe meshes.
	AntennalR *volume.Mesh
	AntennalL *volume.Mesh
}

// Axon roughly prunes a projection neuron down to its axon.
//
// Stage one isolates the primary neurite and cuts it at a branch point:
// the one closest to the root when the neurite tip lands inside a known
// neuropil, or the one farthest from the root when it does not. Stage two
// removes all cable inside the (optionally resized) antennal lobes, then
// subtracts the proximal neurite itself.
//
// Returns ErrNoNeurite when the neurite tip lies outside every region in
// the set; batch callers should report such skeletons rather than fail
// the run (see AxonAll).
func Axon(s *skeleton.Skeleton, regions AxonRegions, opts ...Option) (*skeleton.Skeleton, error) {
	if s == nil {
		return nil, ErrNilSkeleton
	}
	if regions.AntennalR == nil || regions.AntennalL == nil {
		return nil, ErrNilMesh
	}

	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	work := s.Clone()
	if err := work.RerootToSoma(); err != nil && !errors.Is(err, skeleton.ErrNoSoma) {
		return nil, err
	}

	// 1. Primary neurite; locate the neuropil its tip innervates.
	neurite, _, err := work.LongestNeurite()
	if err != nil {
		return nil, err
	}
	tip, err := work.Node(neurite[len(neurite)-1])
	if err != nil {
		return nil, err
	}
	homes, err := regions.Neuropils.Containing([3]float64{tip.X, tip.Y, tip.Z})
	if err != nil {
		return nil, err
	}
	if len(homes) == 0 {
		return nil, fmt.Errorf("%w: %q tip in no neuropil", ErrNoNeurite, work.ID())
	}
	target := regions.Neuropils[homes[0]]

	// 2. Branch points along the neurite; split by target membership.
	neuriteSet := make(map[int64]struct{}, len(neurite))
	for _, id := range neurite {
		neuriteSet[id] = struct{}{}
	}
	root, err := work.Root()
	if err != nil {
		return nil, err
	}
	var onNeurite, inTarget []int64
	for _, b := range work.BranchNodes() {
		if _, ok := neuriteSet[b]; !ok {
			continue
		}
		onNeurite = append(onNeurite, b)
		n, err := work.Node(b)
		if err != nil {
			return nil, err
		}
		in, err := target.Contains([3]float64{n.X, n.Y, n.Z})
		if err != nil {
			return nil, err
		}
		if in {
			inTarget = append(inTarget, b)
		}
	}
	if len(onNeurite) == 0 {
		return nil, fmt.Errorf("%w: %q has no branch on the primary neurite", ErrNoNeurite, work.ID())
	}

	// 3. Pick the cut: nearest-to-root branch inside the target when any
	// exists, farthest-from-root branch otherwise.
	var cut int64
	if len(inTarget) > 0 {
		cut, err = closestBranch(work, root, inTarget, true)
	} else {
		cut, err = closestBranch(work, root, onNeurite, false)
	}
	if err != nil {
		return nil, err
	}
	cutNode, err := work.Node(cut)
	if err != nil {
		return nil, err
	}
	proximal, err := proximalNeurite(work, neurite, cutNode.ParentID)
	if err != nil {
		return nil, err
	}

	// 4. Strip antennal-lobe cable, both hemispheres.
	alR, alL := regions.AntennalR, regions.AntennalL
	if o.AntennalScale != 1 {
		alR, alL = alR.Clone(), alL.Clone()
		if err = alR.Resize(o.AntennalScale); err != nil {
			return nil, err
		}
		if err = alL.Resize(o.AntennalScale); err != nil {
			return nil, err
		}
	}
	pruned, err := ByVolume(work, alR, WithContext(o.Ctx), WithMode(Out))
	if err != nil {
		return nil, err
	}
	pruned, err = ByVolume(pruned, alL, WithContext(o.Ctx), WithMode(Out))
	if err != nil {
		return nil, err
	}

	// 5. Subtract the proximal neurite.
	keep := make(map[int64]struct{}, pruned.NumNodes())
	for _, n := range pruned.Nodes() {
		if _, gone := proximal[n.ID]; !gone {
			keep[n.ID] = struct{}{}
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNothingKept, work.ID())
	}

	return pruned.Subset(keep, skeleton.SubsetOptions{PreventFragments: o.PreventFragments})
}

// AxonAll runs Axon over a batch. Skeletons whose primary neurite cannot
// be resolved are skipped and their IDs reported; any other failure
// aborts the batch.
func AxonAll(skels []*skeleton.Skeleton, regions AxonRegions, opts ...Option) (pruned []*skeleton.Skeleton, skipped []string, err error) {
	var out *skeleton.Skeleton
	for _, s := range skels {
		out, err = Axon(s, regions, opts...)
		switch {
		case err == nil:
			pruned = append(pruned, out)
		case isSkippable(err):
			skipped = append(skipped, s.ID())
			err = nil
		default:
			return nil, nil, fmt.Errorf("prune: axon %q: %w", s.ID(), err)
		}
	}

	return pruned, skipped, nil
}

// ToVolumeAll runs ToVolume over a batch, failing fast on any error.
func ToVolumeAll(skels []*skeleton.Skeleton, m *volume.Mesh, opts ...Option) ([]*skeleton.Skeleton, error) {
	out := make([]*skeleton.Skeleton, 0, len(skels))
	for _, s := range skels {
		p, err := ToVolume(s, m, opts...)
		if err != nil {
			return nil, fmt.Errorf("prune: %q: %w", s.ID(), err)
		}
		out = append(out, p)
	}

	return out, nil
}

func isSkippable(err error) bool {
	return errors.Is(err, ErrNoNeurite) || errors.Is(err, ErrNothingKept)
}
