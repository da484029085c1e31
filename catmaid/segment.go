package catmaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// defaultSegmentResolution converts nanometer coordinates to the voxel
// grid of the FAFB segmentation datasets (4 x 4 x 40 nm).
var defaultSegmentResolution = [3]float64{4, 4, 40}

// SegmentClient resolves coordinates to segmentation fragment IDs via a
// remote lookup service (values_array endpoint of a transform service).
// A zero fragment ID means the location is unresolved.
//
// It satisfies the resolver interface the sampling package uses for
// auto-ordered review sheets.
type SegmentClient struct {
	baseURL string
	dataset string
	scale   int
	res     [3]float64

	http *http.Client
}

// SegmentOption configures a SegmentClient.
type SegmentOption func(*SegmentClient)

// WithSegmentHTTPClient swaps the underlying HTTP client.
func WithSegmentHTTPClient(h *http.Client) SegmentOption {
	return func(sc *SegmentClient) { sc.http = h }
}

// WithSegmentResolution sets the nm-per-voxel resolution used to map
// coordinates onto the dataset grid.
func WithSegmentResolution(res [3]float64) SegmentOption {
	return func(sc *SegmentClient) { sc.res = res }
}

// NewSegmentClient builds a resolver against the given service base URL,
// dataset tag (e.g. "flywire_190410") and mip scale. An empty base URL
// makes every lookup fail with ErrNoServer.
func NewSegmentClient(baseURL, dataset string, scale int, opts ...SegmentOption) *SegmentClient {
	sc := &SegmentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		dataset: dataset,
		scale:   scale,
		res:     defaultSegmentResolution,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(sc)
	}

	return sc
}

// SegmentIDs maps each coordinate (nm) to its segmentation fragment ID,
// in input order. Unresolved locations come back as 0.
func (sc *SegmentClient) SegmentIDs(ctx context.Context, coords [][3]float64) ([]int64, error) {
	if sc.baseURL == "" {
		return nil, ErrNoServer
	}
	if len(coords) == 0 {
		return nil, nil
	}

	// 1. Convert nm to voxel coordinates, one axis array per field.
	payload := struct {
		X []float64 `json:"x"`
		Y []float64 `json:"y"`
		Z []float64 `json:"z"`
	}{
		X: make([]float64, len(coords)),
		Y: make([]float64, len(coords)),
		Z: make([]float64, len(coords)),
	}
	for i, p := range coords {
		payload.X[i] = p[0] / sc.res[0]
		payload.Y[i] = p[1] / sc.res[1]
		payload.Z[i] = p[2] / sc.res[2]
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("catmaid: encode segment query: %w", err)
	}

	// 2. POST the batch and decode the value array.
	u := fmt.Sprintf("%s/query/dataset/%s/s/%d/values_array", sc.baseURL, sc.dataset, sc.scale)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("catmaid: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("segment lookup", "url", u, "locations", len(coords))

	resp, err := sc.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catmaid: POST %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: POST %s: %d", ErrStatus, req.URL.Path, resp.StatusCode)
	}

	var out struct {
		Values []int64 `json:"values"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("catmaid: decode %s: %w", req.URL.Path, err)
	}
	if len(out.Values) != len(coords) {
		return nil, fmt.Errorf("%w: POST %s: %d values for %d locations", ErrStatus, req.URL.Path, len(out.Values), len(coords))
	}

	return out.Values, nil
}
