package volume_test

import (
	"fmt"

	"github.com/NikDrummond/pntools/volume"
)

// ExampleMesh_Contains tests a point against a unit cube.
func ExampleMesh_Contains() {
	cube := &volume.Mesh{
		Name: "cube",
		Verts: [][3]float64{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
		Faces: [][3]int32{
			{0, 2, 1}, {0, 3, 2},
			{4, 5, 6}, {4, 6, 7},
			{0, 1, 5}, {0, 5, 4},
			{2, 3, 7}, {2, 7, 6},
			{0, 4, 7}, {0, 7, 3},
			{1, 2, 6}, {1, 6, 5},
		},
	}

	inside, _ := cube.Contains([3]float64{0.3, 0.4, 0.35})
	enclosed, _ := cube.Enclosed()
	fmt.Println(inside, enclosed)
	// Output: true 1
}
