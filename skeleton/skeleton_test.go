package skeleton_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikDrummond/pntools/skeleton"
)

// buildY constructs the shared Y-shaped fixture:
//
//	1(soma) → 2 → 3 ─┬→ 4 → 5
//	                 └→ 6 → 7
//
// All links are unit length, so the total cable is 6.
func buildY(t *testing.T) *skeleton.Skeleton {
	t.Helper()

	s, err := skeleton.New("42", skeleton.WithName("PN right"))
	require.NoError(t, err)

	nodes := []skeleton.Node{
		{ID: 1, ParentID: skeleton.NoParent, X: 0, Y: 0, Z: 0, Label: skeleton.SomaLabel},
		{ID: 2, ParentID: 1, X: 1, Y: 0, Z: 0},
		{ID: 3, ParentID: 2, X: 2, Y: 0, Z: 0},
		{ID: 4, ParentID: 3, X: 2, Y: 1, Z: 0},
		{ID: 5, ParentID: 4, X: 2, Y: 2, Z: 0},
		{ID: 6, ParentID: 3, X: 3, Y: 0, Z: 0},
		{ID: 7, ParentID: 6, X: 4, Y: 0, Z: 0},
	}
	for _, n := range nodes {
		require.NoError(t, s.AddNode(n))
	}

	return s
}

// TestNew_EmptyID verifies the empty-ID guard.
func TestNew_EmptyID(t *testing.T) {
	_, err := skeleton.New("")
	assert.ErrorIs(t, err, skeleton.ErrEmptySkeletonID)
}

// TestAddNode_Errors covers duplicate IDs and missing parents.
func TestAddNode_Errors(t *testing.T) {
	s := buildY(t)

	err := s.AddNode(skeleton.Node{ID: 3, ParentID: 2})
	assert.ErrorIs(t, err, skeleton.ErrNodeExists)

	err = s.AddNode(skeleton.Node{ID: 99, ParentID: 1000})
	assert.ErrorIs(t, err, skeleton.ErrParentNotFound)
}

// TestSkeleton_Accessors checks the basic read surface of the fixture.
func TestSkeleton_Accessors(t *testing.T) {
	s := buildY(t)

	assert.Equal(t, "42", s.ID())
	assert.Equal(t, "PN right", s.Name())
	assert.Equal(t, 7, s.NumNodes())
	assert.False(t, s.Fragmented())

	root, err := s.Root()
	require.NoError(t, err)
	assert.Equal(t, int64(1), root)

	soma, err := s.Soma()
	require.NoError(t, err)
	assert.Equal(t, int64(1), soma)

	kids, err := s.Children(3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{4, 6}, kids)

	_, err = s.Node(1000)
	assert.ErrorIs(t, err, skeleton.ErrNodeNotFound)
}

// TestSkeleton_Morphology checks leaves, branch points, cable, and paths.
func TestSkeleton_Morphology(t *testing.T) {
	s := buildY(t)

	assert.Equal(t, []int64{5, 7}, s.Leaves())
	assert.Equal(t, []int64{3}, s.BranchNodes())
	assert.InDelta(t, 6.0, s.CableLength(), 1e-12)

	// Geodesic between the two leaves crosses the branch point.
	d, err := s.PathLength(5, 7)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, d, 1e-12)

	// A node is at zero distance from itself.
	d, err = s.PathLength(3, 3)
	require.NoError(t, err)
	assert.Zero(t, d)

	distal, err := s.DistalTo(3)
	require.NoError(t, err)
	assert.Len(t, distal, 4)
	assert.Contains(t, distal, int64(7))
	assert.NotContains(t, distal, int64(3))
}

// TestLongestNeurite_TieBreaksToLowerLeaf verifies the deterministic pick
// between the two equally long branches.
func TestLongestNeurite_TieBreaksToLowerLeaf(t *testing.T) {
	s := buildY(t)

	path, length, err := s.LongestNeurite()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, path)
	assert.InDelta(t, 4.0, length, 1e-12)
}

// TestStrahler_YShape checks orders on the fixture: leaves are 1, the
// branch point and everything proximal of it is 2.
func TestStrahler_YShape(t *testing.T) {
	s := buildY(t)

	order := s.Strahler()
	want := map[int64]int{1: 2, 2: 2, 3: 2, 4: 1, 5: 1, 6: 1, 7: 1}
	assert.Equal(t, want, order)
	assert.Equal(t, 2, s.MaxStrahler())
}

// TestReroot_PreservesCableAndPaths reverses links without changing the
// edge multiset.
func TestReroot_PreservesCableAndPaths(t *testing.T) {
	s := buildY(t)

	require.NoError(t, s.Reroot(5))
	root, err := s.Root()
	require.NoError(t, err)
	assert.Equal(t, int64(5), root)
	assert.InDelta(t, 6.0, s.CableLength(), 1e-12)

	d, err := s.PathLength(1, 7)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, d, 1e-12)

	// Rerooting back to the soma restores the original root.
	require.NoError(t, s.RerootToSoma())
	root, err = s.Root()
	require.NoError(t, err)
	assert.Equal(t, int64(1), root)
}

// TestSubset_Connected keeps a proximal run of the fixture.
func TestSubset_Connected(t *testing.T) {
	s := buildY(t)

	sub, err := s.Subset(map[int64]struct{}{1: {}, 2: {}, 3: {}}, skeleton.SubsetOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, sub.NumNodes())
	assert.False(t, sub.Fragmented())
	assert.InDelta(t, 2.0, sub.CableLength(), 1e-12)
}

// TestSingleNode treats the sole node as both root and leaf, with zero
// cable and a one-node longest neurite.
func TestSingleNode(t *testing.T) {
	s, err := skeleton.New("1")
	require.NoError(t, err)
	require.NoError(t, s.AddNode(skeleton.Node{ID: 5, ParentID: skeleton.NoParent, X: 2, Y: 4, Z: 3}))

	root, err := s.Root()
	require.NoError(t, err)
	assert.Equal(t, int64(5), root)
	assert.Equal(t, []int64{5}, s.Leaves())
	assert.Empty(t, s.BranchNodes())
	assert.Zero(t, s.CableLength())

	path, length, err := s.LongestNeurite()
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, path)
	assert.Zero(t, length)
}

// TestSubset_PreventFragments keeps only the soma fragment when the kept
// set splits in two.
func TestSubset_PreventFragments(t *testing.T) {
	s := buildY(t)
	keep := map[int64]struct{}{1: {}, 2: {}, 4: {}, 5: {}}

	frag, err := s.Subset(keep, skeleton.SubsetOptions{})
	require.NoError(t, err)
	assert.True(t, frag.Fragmented())
	assert.Len(t, frag.Roots(), 2)

	whole, err := s.Subset(keep, skeleton.SubsetOptions{PreventFragments: true})
	require.NoError(t, err)
	assert.False(t, whole.Fragmented())
	assert.Equal(t, 2, whole.NumNodes())
	assert.True(t, whole.HasNode(1))
	assert.True(t, whole.HasNode(2))
}

// TestSubset_PreventFragments_NoSoma falls back to the fragment whose
// root sits nearest the source root when no soma is tagged. The far
// fragment carries more cable and must still lose.
func TestSubset_PreventFragments_NoSoma(t *testing.T) {
	s, err := skeleton.New("7")
	require.NoError(t, err)
	for _, n := range []skeleton.Node{
		{ID: 1, ParentID: skeleton.NoParent, X: 0, Y: 4, Z: 3},
		{ID: 2, ParentID: 1, X: 1, Y: 4, Z: 3},
		{ID: 3, ParentID: 2, X: 2, Y: 4, Z: 3},
		{ID: 4, ParentID: 3, X: 3, Y: 4, Z: 3},
		{ID: 5, ParentID: 4, X: 5, Y: 4, Z: 3},
	} {
		require.NoError(t, s.AddNode(n))
	}

	whole, err := s.Subset(map[int64]struct{}{2: {}, 4: {}, 5: {}},
		skeleton.SubsetOptions{PreventFragments: true})
	require.NoError(t, err)
	assert.False(t, whole.Fragmented())
	assert.Equal(t, 1, whole.NumNodes())
	assert.True(t, whole.HasNode(2))
}

// TestSubset_NoMatch errors on an empty keep set.
func TestSubset_NoMatch(t *testing.T) {
	s := buildY(t)

	_, err := s.Subset(map[int64]struct{}{1000: {}}, skeleton.SubsetOptions{})
	assert.ErrorIs(t, err, skeleton.ErrNoNodes)
}

// TestSubset_CarriesConnectors keeps connectors on kept nodes only.
func TestSubset_CarriesConnectors(t *testing.T) {
	s := buildY(t)
	require.NoError(t, s.AddConnector(skeleton.Connector{ID: 10, NodeID: 2, Relation: skeleton.Presynaptic}))
	require.NoError(t, s.AddConnector(skeleton.Connector{ID: 11, NodeID: 7, Relation: skeleton.Postsynaptic}))

	sub, err := s.Subset(map[int64]struct{}{1: {}, 2: {}, 3: {}}, skeleton.SubsetOptions{})
	require.NoError(t, err)
	assert.Len(t, sub.Connectors(), 1)
	assert.Len(t, sub.Presynapses(), 1)
	assert.Empty(t, sub.Postsynapses())
}

// TestPruneDistalTo cuts at the branch point and keeps it.
func TestPruneDistalTo(t *testing.T) {
	s := buildY(t)

	pruned, err := s.PruneDistalTo(3)
	require.NoError(t, err)
	assert.Equal(t, 3, pruned.NumNodes())
	assert.True(t, pruned.HasNode(3))
	assert.False(t, pruned.HasNode(4))
	assert.InDelta(t, 2.0, pruned.CableLength(), 1e-12)

	// The source skeleton is untouched.
	assert.Equal(t, 7, s.NumNodes())
}

// TestClone_Independence mutates the copy and checks the original.
func TestClone_Independence(t *testing.T) {
	s := buildY(t)

	cp := s.Clone()
	require.NoError(t, cp.AddNode(skeleton.Node{ID: 8, ParentID: 7, X: 5}))
	assert.Equal(t, 8, cp.NumNodes())
	assert.Equal(t, 7, s.NumNodes())

	require.NoError(t, cp.Reroot(7))
	root, err := s.Root()
	require.NoError(t, err)
	assert.Equal(t, int64(1), root)
}
