// Package catmaid is a thin client for the CATMAID annotation server: the
// source of volumes (neuropils, glomeruli), skeletons, and connector
// detail that the rest of the toolbox consumes.
//
// Every call takes a context and returns wrapped errors; the client never
// retries on its own. Requests authenticate with the project API token in
// the X-Authorization header. Debug-level slog records each request.
//
// Errors:
//
//	ErrNoServer      - client has no base URL configured.
//	ErrEmptyNames    - a volume fetch was given no names.
//	ErrVolumeUnknown - a requested volume name is not on the server.
//	ErrStatus        - server answered with a non-2xx status.
package catmaid

import (
	"errors"
	"net/http"
	"time"
)

// Sentinel errors for client operations.
var (
	// ErrNoServer indicates the client has no base URL configured.
	ErrNoServer = errors.New("catmaid: no server configured")

	// ErrEmptyNames indicates a volume fetch was given no names.
	ErrEmptyNames = errors.New("catmaid: no volume names given")

	// ErrVolumeUnknown indicates a requested volume name is not on the server.
	ErrVolumeUnknown = errors.New("catmaid: volume not found on server")

	// ErrStatus indicates a non-2xx server response.
	ErrStatus = errors.New("catmaid: unexpected response status")
)

// defaultTimeout bounds a single request when the caller's context has no
// earlier deadline.
const defaultTimeout = 60 * time.Second

// Side selects a hemisphere when fetching glomeruli.
type Side int

const (
	// Right keeps right-hemisphere glomeruli (default).
	Right Side = iota

	// Left keeps left-hemisphere glomeruli.
	Left

	// Both keeps both hemispheres.
	Both

	// FIB selects the FIB-SEM glomeruli of a local instance instead of
	// the FAFB v14 set.
	FIB
)

// String returns the flag spelling of the side.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Both:
		return "both"
	case FIB:
		return "fib"
	default:
		return "right"
	}
}

// ParseSide maps a flag spelling onto a Side; unknown spellings fall back
// to Right.
func ParseSide(s string) Side {
	switch s {
	case "left", "Left", "L":
		return Left
	case "both", "Both":
		return Both
	case "fib", "FIB":
		return FIB
	default:
		return Right
	}
}

// VolumeInfo is one row of the server's volume listing.
type VolumeInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ConnectorDetail describes one synaptic connector.
//
// PresynapticToNode is nil when no upstream treenode has been traced yet,
// which is exactly the state the sampling audit looks for.
type ConnectorDetail struct {
	ConnectorID       int64   `json:"connector_id"`
	PresynapticTo     int64   `json:"presynaptic_to"`
	PresynapticToNode *int64  `json:"presynaptic_to_node"`
	PostsynapticTo    []int64 `json:"postsynaptic_to"`
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	Z                 float64 `json:"z"`
}

// Treenode is one traced node as returned by the node lookup.
type Treenode struct {
	ID         int64   `json:"id"`
	SkeletonID int64   `json:"skeleton_id"`
	ParentID   *int64  `json:"parent_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Radius     float64 `json:"radius"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying *http.Client (tests, transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithStackID sets the stack used when composing coordinate URLs.
func WithStackID(id int64) Option {
	return func(c *Client) { c.stackID = id }
}
