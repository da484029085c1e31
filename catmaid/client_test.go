package catmaid_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikDrummond/pntools/catmaid"
)

// cubeJSON is the mesh payload every test volume serves: a unit cube.
const cubeJSON = `{
	"vertices": [
		[0,0,0],[1,0,0],[1,1,0],[0,1,0],
		[0,0,1],[1,0,1],[1,1,1],[0,1,1]
	],
	"faces": [
		[0,2,1],[0,3,2],[4,5,6],[4,6,7],
		[0,1,5],[0,5,4],[2,3,7],[2,7,6],
		[0,4,7],[0,7,3],[1,2,6],[1,6,5]
	]
}`

// testServer serves a small CATMAID project with a volume catalog and one
// skeleton. The token seen on the last request is recorded for assertion.
func testServer(t *testing.T, catalog []catmaid.VolumeInfo) (*httptest.Server, *string) {
	t.Helper()

	var lastToken string
	mux := http.NewServeMux()
	mux.HandleFunc("/1/volumes/", func(w http.ResponseWriter, r *http.Request) {
		lastToken = r.Header.Get("X-Authorization")
		if r.URL.Path == "/1/volumes/" {
			require.NoError(t, json.NewEncoder(w).Encode(catalog))
			return
		}
		// Any /1/volumes/<id>/ detail request serves the cube.
		_, err := w.Write([]byte(cubeJSON))
		require.NoError(t, err)
	})
	mux.HandleFunc("/1/skeletons/42/detail", func(w http.ResponseWriter, r *http.Request) {
		lastToken = r.Header.Get("X-Authorization")
		_, err := w.Write([]byte(`{
			"id": 42,
			"name": "PN demo",
			"nodes": [
				{"id": 3, "parent_id": 2, "x": 2, "y": 0, "z": 0},
				{"id": 1, "parent_id": null, "x": 0, "y": 0, "z": 0, "label": 1},
				{"id": 2, "parent_id": 1, "x": 1, "y": 0, "z": 0}
			],
			"connectors": [
				{"id": 10, "node_id": 2, "relation": "presynaptic_to", "x": 1, "y": 1, "z": 0},
				{"id": 11, "node_id": 3, "relation": "postsynaptic_to", "x": 2, "y": 1, "z": 0}
			]
		}`))
		require.NoError(t, err)
	})
	mux.HandleFunc("/1/connector/info", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(`[
			{"connector_id": 11, "presynaptic_to": 7, "presynaptic_to_node": 70, "postsynaptic_to": [42], "x": 2, "y": 1, "z": 0}
		]`))
		require.NoError(t, err)
	})
	mux.HandleFunc("/1/treenodes/detail", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(`[
			{"id": 70, "skeleton_id": 7, "parent_id": 69, "x": 5, "y": 5, "z": 5}
		]`))
		require.NoError(t, err)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, &lastToken
}

// TestClient_NoServer rejects every call on an unconfigured client.
func TestClient_NoServer(t *testing.T) {
	c := catmaid.NewClient("", "", 1)

	_, err := c.ListVolumes(context.Background())
	assert.ErrorIs(t, err, catmaid.ErrNoServer)
	_, err = c.URLToCoordinates([3]float64{1, 2, 3}, 5)
	assert.ErrorIs(t, err, catmaid.ErrNoServer)
}

// TestClient_StatusError surfaces non-2xx responses with the body.
func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such project", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := catmaid.NewClient(srv.URL, "", 1)
	_, err := c.ListVolumes(context.Background())
	assert.ErrorIs(t, err, catmaid.ErrStatus)
	assert.ErrorContains(t, err, "404")
}

// TestListVolumes fetches the catalog and sends the API token.
func TestListVolumes(t *testing.T) {
	srv, token := testServer(t, []catmaid.VolumeInfo{
		{ID: 1, Name: "LH_R"},
		{ID: 2, Name: "AL_R"},
	})
	c := catmaid.NewClient(srv.URL, "secret", 1)

	infos, err := c.ListVolumes(context.Background())
	require.NoError(t, err)
	assert.Len(t, infos, 2)
	assert.Equal(t, "Token secret", *token)
}

// TestGetVolumes validates meshes and flags unknown names.
func TestGetVolumes(t *testing.T) {
	srv, _ := testServer(t, []catmaid.VolumeInfo{{ID: 1, Name: "LH_R"}})
	c := catmaid.NewClient(srv.URL, "", 1)

	set, err := c.GetVolumes(context.Background(), []string{"LH_R"})
	require.NoError(t, err)
	require.Contains(t, set, "LH_R")
	vol, err := set["LH_R"].Enclosed()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vol, 1e-12)

	_, err = c.GetVolumes(context.Background(), []string{"nope"})
	assert.ErrorIs(t, err, catmaid.ErrVolumeUnknown)

	_, err = c.GetVolumes(context.Background(), nil)
	assert.ErrorIs(t, err, catmaid.ErrEmptyNames)
}

// TestGlomeruli_FAFBFilter applies the v14 naming rules per hemisphere.
func TestGlomeruli_FAFBFilter(t *testing.T) {
	catalog := []catmaid.VolumeInfo{
		{ID: 1, Name: "v14.DA1"},
		{ID: 2, Name: "v14.DA1_L"},
		{ID: 3, Name: "v14.DM6_new"},
		{ID: 4, Name: "v14.VP1"},          // superseded exact name
		{ID: 5, Name: "v14.Lo_left"},      // optic lobe fragment
		{ID: 6, Name: "v14.AL_neuropil"},  // whole neuropil
		{ID: 7, Name: "odd_volume"},       // no v14 prefix
		{ID: 8, Name: "v14.right_ORNs_b"}, // ORN set
	}

	srv, _ := testServer(t, catalog)
	c := catmaid.NewClient(srv.URL, "", 1)

	right, err := c.Glomeruli(context.Background(), catmaid.Right)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"DA1", "DM6"}, right.Names())

	left, err := c.Glomeruli(context.Background(), catmaid.Left)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"DA1_L"}, left.Names())

	both, err := c.Glomeruli(context.Background(), catmaid.Both)
	require.NoError(t, err)
	assert.Len(t, both.Names(), 3)
}

// TestGlomeruli_FIB keeps the FIB-prefixed set and strips the prefix.
func TestGlomeruli_FIB(t *testing.T) {
	catalog := []catmaid.VolumeInfo{
		{ID: 1, Name: "FIB.DA1"},
		{ID: 2, Name: "FIB.whole_neuropil"},
		{ID: 3, Name: "v14.DA1"},
	}

	srv, _ := testServer(t, catalog)
	c := catmaid.NewClient(srv.URL, "", 1)

	set, err := c.Glomeruli(context.Background(), catmaid.FIB)
	require.NoError(t, err)
	assert.Equal(t, []string{"DA1"}, set.Names())
}

// TestGetSkeleton handles out-of-order node rows and connector relations.
func TestGetSkeleton(t *testing.T) {
	srv, _ := testServer(t, nil)
	c := catmaid.NewClient(srv.URL, "", 1)

	s, err := c.GetSkeleton(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "42", s.ID())
	assert.Equal(t, "PN demo", s.Name())
	assert.Equal(t, 3, s.NumNodes())

	root, err := s.Root()
	require.NoError(t, err)
	assert.Equal(t, int64(1), root)

	soma, err := s.Soma()
	require.NoError(t, err)
	assert.Equal(t, int64(1), soma)

	assert.Len(t, s.Presynapses(), 1)
	assert.Len(t, s.Postsynapses(), 1)
}

// TestConnectorDetails_AndTreenodes decodes the synapse lookups.
func TestConnectorDetails_AndTreenodes(t *testing.T) {
	srv, _ := testServer(t, nil)
	c := catmaid.NewClient(srv.URL, "", 1)

	det, err := c.ConnectorDetails(context.Background(), []int64{11})
	require.NoError(t, err)
	require.Len(t, det, 1)
	assert.Equal(t, int64(11), det[0].ConnectorID)
	require.NotNil(t, det[0].PresynapticToNode)
	assert.Equal(t, int64(70), *det[0].PresynapticToNode)

	nodes, err := c.FindTreenodes(context.Background(), []int64{70})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, int64(7), nodes[0].SkeletonID)

	// Empty ID lists never touch the server.
	det, err = c.ConnectorDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, det)
}

// TestURLToCoordinates composes a tracing-tool deep link.
func TestURLToCoordinates(t *testing.T) {
	c := catmaid.NewClient("https://catmaid.example.org/", "", 1, catmaid.WithStackID(5))

	u, err := c.URLToCoordinates([3]float64{100, 200, 300}, 5)
	require.NoError(t, err)
	assert.Contains(t, u, "https://catmaid.example.org/?")
	assert.Contains(t, u, "pid=1")
	assert.Contains(t, u, "xp=100")
	assert.Contains(t, u, "yp=200")
	assert.Contains(t, u, "zp=300")
	assert.Contains(t, u, "tool=tracingtool")
	assert.Contains(t, u, "sid0=5")
}

// TestParseSide maps user strings onto hemisphere values.
func TestParseSide(t *testing.T) {
	assert.Equal(t, catmaid.Right, catmaid.ParseSide("right"))
	assert.Equal(t, catmaid.Left, catmaid.ParseSide("left"))
	assert.Equal(t, catmaid.Both, catmaid.ParseSide("both"))
	assert.Equal(t, catmaid.FIB, catmaid.ParseSide("fib"))
	assert.Equal(t, catmaid.Right, catmaid.ParseSide("??"))
}
