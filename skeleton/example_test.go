package skeleton_test

import (
	"fmt"

	"github.com/NikDrummond/pntools/skeleton"
)

// ExampleSkeleton builds a tiny morphology and reports its cable length.
func ExampleSkeleton() {
	s, _ := skeleton.New("1", skeleton.WithName("demo"))
	_ = s.AddNode(skeleton.Node{ID: 1, ParentID: skeleton.NoParent, Label: skeleton.SomaLabel})
	_ = s.AddNode(skeleton.Node{ID: 2, ParentID: 1, X: 3, Y: 4})
	_ = s.AddNode(skeleton.Node{ID: 3, ParentID: 2, X: 3, Y: 10})

	fmt.Println(s.NumNodes(), s.CableLength())
	// Output: 3 11
}
