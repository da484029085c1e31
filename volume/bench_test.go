package volume_test

import (
	"testing"
)

// BenchmarkMesh_Contains measures point containment on the unit cube,
// the kernel every volume prune and cable matrix calls per node.
// Complexity: O(F) per query with F=12.
func BenchmarkMesh_Contains(b *testing.B) {
	m := unitCube("cube")
	p := [3]float64{0.3, 0.4, 0.35}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Contains(p)
	}
}

// BenchmarkMesh_ContainsAll measures the batch mask over 1,000 points.
func BenchmarkMesh_ContainsAll(b *testing.B) {
	m := unitCube("cube")
	pts := make([][3]float64, 1000)
	for i := range pts {
		pts[i] = [3]float64{float64(i%3) * 0.3, 0.4, 0.35}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.ContainsAll(pts)
	}
}
