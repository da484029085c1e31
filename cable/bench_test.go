package cable_test

import (
	"testing"

	"github.com/NikDrummond/pntools/cable"
	"github.com/NikDrummond/pntools/skeleton"
	"github.com/NikDrummond/pntools/volume"
)

// BenchmarkLengths measures the cable matrix over 20 skeletons of 500
// nodes each against two volumes. Complexity: O(S * V * F) with one
// containment test per node per mesh.
func BenchmarkLengths(b *testing.B) {
	vols := volume.Set{"A": box("A", 0, 10), "B": box("B", 20, 30)}
	skels := make([]*skeleton.Skeleton, 20)
	for i := range skels {
		s, err := skeleton.New(string(rune('a' + i)))
		if err != nil {
			b.Fatal(err)
		}
		for j := int64(1); j <= 500; j++ {
			n := skeleton.Node{ID: j, ParentID: j - 1, X: float64(j) * 0.06, Y: 4, Z: 3}
			if j == 1 {
				n.ParentID = skeleton.NoParent
			}
			if err = s.AddNode(n); err != nil {
				b.Fatal(err)
			}
		}
		skels[i] = s
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cable.Lengths(skels, vols)
	}
}
