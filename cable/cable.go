package cable

import (
	"fmt"
	"math"

	"github.com/NikDrummond/pntools/skeleton"
	"github.com/NikDrummond/pntools/volume"
)

// Ends returns the count of leaf nodes each skeleton has inside each
// volume. End tags are ignored: a leaf is every node without a child.
//
// The result is commonly turned into a mask (AsMask) for Lengths, zeroing
// regions a neuron merely passes through without terminating.
// Complexity: O(S · L · F) for S skeletons, L leaves, F mesh faces.
func Ends(skels []*skeleton.Skeleton, vols volume.Set) (*Matrix, error) {
	if len(skels) == 0 {
		return nil, ErrNoSkeletons
	}
	if len(vols) == 0 {
		return nil, ErrNoVolumes
	}

	m := NewMatrix(skeletonIDs(skels), vols.Names())
	for i, s := range skels {
		leaves := s.Leaves()
		pts := make([][3]float64, 0, len(leaves))
		for _, id := range leaves {
			n, err := s.Node(id)
			if err != nil {
				return nil, err
			}
			pts = append(pts, [3]float64{n.X, n.Y, n.Z})
		}
		for j, name := range m.Cols {
			inside, err := vols[name].ContainsAll(pts)
			if err != nil {
				return nil, fmt.Errorf("cable: ends of %q in %q: %w", s.ID(), name, err)
			}
			var count float64
			for _, in := range inside {
				if in {
					count++
				}
			}
			m.Set(i, j, count)
		}
	}

	return m, nil
}

// Lengths returns the cable length (nm) each skeleton has inside each
// volume. A parent link contributes its full length when both endpoints
// lie inside the region, matching subset-then-measure semantics.
//
// Masking, when requested, is applied before normalisation.
// Complexity: O(S · V · F) node containment tests dominate.
func Lengths(skels []*skeleton.Skeleton, vols volume.Set, opts ...Option) (*Matrix, error) {
	if len(skels) == 0 {
		return nil, ErrNoSkeletons
	}
	if len(vols) == 0 {
		return nil, ErrNoVolumes
	}

	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	m := NewMatrix(skeletonIDs(skels), vols.Names())
	for i, s := range skels {
		nodes := s.Nodes()
		pts := make([][3]float64, len(nodes))
		index := make(map[int64]int, len(nodes))
		for k, n := range nodes {
			pts[k] = [3]float64{n.X, n.Y, n.Z}
			index[n.ID] = k
		}
		for j, name := range m.Cols {
			inside, err := vols[name].ContainsAll(pts)
			if err != nil {
				return nil, fmt.Errorf("cable: lengths of %q in %q: %w", s.ID(), name, err)
			}
			var total float64
			for k, n := range nodes {
				if n.ParentID == skeleton.NoParent || !inside[k] {
					continue
				}
				p, ok := index[n.ParentID]
				if !ok || !inside[p] {
					continue
				}
				total += segmentLength(pts[k], pts[p])
			}
			m.Set(i, j, total)
		}
	}

	// Mask, then normalise.
	if o.Mask != nil {
		if err := m.applyMask(o.Mask); err != nil {
			return nil, err
		}
	}
	switch o.Normalise {
	case ByNeuron:
		m.normaliseRows()
	case ByVolume:
		divisors := make([]float64, len(m.Cols))
		for j, name := range m.Cols {
			enc, err := vols[name].Enclosed()
			if err != nil {
				return nil, fmt.Errorf("cable: volume of %q: %w", name, err)
			}
			divisors[j] = enc
		}
		m.scaleCols(divisors)
	}

	return m, nil
}

// Volumes returns a one-column "Volume" matrix holding the enclosed
// volume of each region in cubic nanometers.
func Volumes(vols volume.Set) (*Matrix, error) {
	if len(vols) == 0 {
		return nil, ErrNoVolumes
	}
	m := NewMatrix(vols.Names(), []string{"Volume"})
	for i, name := range m.Rows {
		enc, err := vols[name].Enclosed()
		if err != nil {
			return nil, fmt.Errorf("cable: volume of %q: %w", name, err)
		}
		m.Set(i, 0, enc)
	}

	return m, nil
}

func skeletonIDs(skels []*skeleton.Skeleton) []string {
	out := make([]string, len(skels))
	for i, s := range skels {
		out[i] = s.ID()
	}

	return out
}

func segmentLength(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
