package swc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikDrummond/pntools/skeleton"
	"github.com/NikDrummond/pntools/swc"
)

const sample = `# exported reconstruction
# id label x y z radius parent
1 1 0 0 0 2.5 -1
2 0 3 4 0 1 1
3 5 3 10 0 1 2
4 6 3 10 8 0.5 3
`

// TestDecode parses an ordinary file, tagging the soma from label 1.
func TestDecode(t *testing.T) {
	s, err := swc.Decode(strings.NewReader(sample), "42")
	require.NoError(t, err)

	assert.Equal(t, "42", s.ID())
	assert.Equal(t, 4, s.NumNodes())
	soma, err := s.Soma()
	require.NoError(t, err)
	assert.Equal(t, int64(1), soma)
	root, err := s.Root()
	require.NoError(t, err)
	assert.Equal(t, int64(1), root)
	assert.InDelta(t, 19, s.CableLength(), 1e-9)

	n, err := s.Node(4)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n.ParentID)
	assert.Equal(t, 6, n.Label)
	assert.Equal(t, 0.5, n.Radius)
}

// TestDecode_UnorderedRows accepts children listed before their parents.
func TestDecode_UnorderedRows(t *testing.T) {
	in := `4 0 3 10 8 1 3
3 0 3 10 0 1 2
2 0 3 4 0 1 1
1 1 0 0 0 1 -1
`
	s, err := swc.Decode(strings.NewReader(in), "42")
	require.NoError(t, err)
	assert.Equal(t, 4, s.NumNodes())
	root, err := s.Root()
	require.NoError(t, err)
	assert.Equal(t, int64(1), root)
}

// TestDecode_Errors covers the malformed-input sentinels.
func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"six fields", "1 1 0 0 0 -1\n", swc.ErrBadLine},
		{"bad coordinate", "1 1 x 0 0 1 -1\n", swc.ErrBadLine},
		{"duplicate id", "1 1 0 0 0 1 -1\n1 0 1 0 0 1 1\n", swc.ErrDuplicateNode},
		{"missing parent", "1 1 0 0 0 1 -1\n3 0 1 0 0 1 2\n", swc.ErrOrphanNode},
		{"comments only", "# nothing here\n\n", swc.ErrEmptyFile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := swc.Decode(strings.NewReader(tc.in), "42")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// TestEncode round-trips a decoded skeleton, rows sorted by node ID.
func TestEncode(t *testing.T) {
	s, err := swc.Decode(strings.NewReader(sample), "42")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, swc.Encode(&sb, s))

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "# skeleton 42\n"))
	assert.Contains(t, out, "1 1 0 0 0 2.5 -1\n")
	assert.Contains(t, out, "4 6 3 10 8 0.5 3\n")

	back, err := swc.Decode(strings.NewReader(out), "42")
	require.NoError(t, err)
	assert.Equal(t, s.Nodes(), back.Nodes())
}

// TestEncode_Empty rejects a nil or empty skeleton.
func TestEncode_Empty(t *testing.T) {
	var sb strings.Builder
	assert.ErrorIs(t, swc.Encode(&sb, nil), swc.ErrEmptyFile)

	s, err := skeleton.New("7")
	require.NoError(t, err)
	assert.ErrorIs(t, swc.Encode(&sb, s), swc.ErrEmptyFile)
}
