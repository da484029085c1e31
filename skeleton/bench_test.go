package skeleton_test

import (
	"testing"

	"github.com/NikDrummond/pntools/skeleton"
)

// benchChain builds a linear skeleton of n nodes with unit links.
func benchChain(b *testing.B, n int) *skeleton.Skeleton {
	b.Helper()

	s, err := skeleton.New("bench")
	if err != nil {
		b.Fatal(err)
	}
	if err = s.AddNode(skeleton.Node{ID: 1, ParentID: skeleton.NoParent, Y: 4, Z: 3}); err != nil {
		b.Fatal(err)
	}
	for i := int64(2); i <= int64(n); i++ {
		if err = s.AddNode(skeleton.Node{ID: i, ParentID: i - 1, X: float64(i), Y: 4, Z: 3}); err != nil {
			b.Fatal(err)
		}
	}

	return s
}

// BenchmarkStrahler_Chain10000 measures Strahler ordering on a 10,000
// node chain. Complexity: O(V) per call.
func BenchmarkStrahler_Chain10000(b *testing.B) {
	s := benchChain(b, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Strahler()
	}
}

// BenchmarkLongestNeurite_Chain10000 measures the longest-path search on
// the same chain.
func BenchmarkLongestNeurite_Chain10000(b *testing.B) {
	s := benchChain(b, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.LongestNeurite()
	}
}
