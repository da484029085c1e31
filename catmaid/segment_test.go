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
	"github.com/NikDrummond/pntools/sampling"
)

// TestSegmentClient_SegmentIDs posts voxel-converted coordinates and
// reads fragment IDs back in input order.
func TestSegmentClient_SegmentIDs(t *testing.T) {
	var gotPath string
	var gotBody struct {
		X []float64 `json:"x"`
		Y []float64 `json:"y"`
		Z []float64 `json:"z"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, err := w.Write([]byte(`{"values": [1234, 0]}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	sc := catmaid.NewSegmentClient(srv.URL, "flywire_190410", 2)
	ids, err := sc.SegmentIDs(context.Background(), [][3]float64{
		{400, 800, 4000},
		{40, 80, 400},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1234, 0}, ids)
	assert.Equal(t, "/query/dataset/flywire_190410/s/2/values_array", gotPath)

	// Nanometers divided by the 4 x 4 x 40 grid.
	assert.Equal(t, []float64{100, 10}, gotBody.X)
	assert.Equal(t, []float64{200, 20}, gotBody.Y)
	assert.Equal(t, []float64{100, 10}, gotBody.Z)
}

// TestSegmentClient_Guards covers the unconfigured and empty-input paths.
func TestSegmentClient_Guards(t *testing.T) {
	sc := catmaid.NewSegmentClient("", "flywire_190410", 0)
	_, err := sc.SegmentIDs(context.Background(), [][3]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, catmaid.ErrNoServer)

	sc = catmaid.NewSegmentClient("http://unused.invalid", "flywire_190410", 0)
	ids, err := sc.SegmentIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

// TestSegmentClient_ShortResponse rejects a value array that does not
// match the request length.
func TestSegmentClient_ShortResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(`{"values": [1]}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	sc := catmaid.NewSegmentClient(srv.URL, "flywire_190410", 0)
	_, err := sc.SegmentIDs(context.Background(), [][3]float64{{1, 2, 3}, {4, 5, 6}})
	assert.ErrorIs(t, err, catmaid.ErrStatus)
}

// The sampling package's auto ordering accepts the client directly.
var _ sampling.SegmentResolver = (*catmaid.SegmentClient)(nil)
