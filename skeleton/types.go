// Package skeleton defines the central Skeleton, Node, and Connector types,
// and provides thread-safe primitives for building, querying, and cloning
// neuron reconstructions.
//
// A Skeleton is a spatial tree: every node carries 3-D coordinates (nm) and
// a radius, and points at exactly one parent. Reconstructions may be
// fragmented (more than one root), which is the normal outcome of pruning
// a neuron to a volume without forcing connectivity.
//
// All mutating APIs take a sync.RWMutex internally, so skeletons can be
// shared across goroutines.
//
// This file declares Node, Connector, Skeleton, Option, sentinel errors,
// and the New constructor.
//
// Errors:
//
//	ErrEmptySkeletonID  - skeleton ID is the empty string.
//	ErrNodeExists       - node ID already present.
//	ErrNodeNotFound     - requested node does not exist.
//	ErrParentNotFound   - node references a parent that is not present.
//	ErrNoNodes          - operation requires a non-empty skeleton.
//	ErrFragmented       - operation requires a single connected tree.
//	ErrNoSoma           - operation requires a tagged soma.
package skeleton

import (
	"errors"
	"sync"
)

// NoParent marks a node as a root of its fragment.
const NoParent int64 = -1

// SomaLabel is the SWC structure label conventionally used for soma nodes.
const SomaLabel = 1

// Sentinel errors for skeleton operations.
var (
	// ErrEmptySkeletonID indicates that the provided skeleton ID is empty.
	ErrEmptySkeletonID = errors.New("skeleton: skeleton ID is empty")

	// ErrNodeExists indicates an attempt to add a node whose ID is taken.
	ErrNodeExists = errors.New("skeleton: node already exists")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("skeleton: node not found")

	// ErrParentNotFound indicates a node references a parent that is not present.
	ErrParentNotFound = errors.New("skeleton: parent node not found")

	// ErrNoNodes indicates the skeleton holds no nodes.
	ErrNoNodes = errors.New("skeleton: skeleton has no nodes")

	// ErrFragmented indicates the skeleton has more than one root where a
	// single connected tree is required.
	ErrFragmented = errors.New("skeleton: skeleton is fragmented")

	// ErrNoSoma indicates the skeleton has no tagged soma node.
	ErrNoSoma = errors.New("skeleton: no soma tagged")
)

// Node is a single treenode of a reconstruction.
//
// ID uniquely identifies the node within its Skeleton. ParentID is the ID
// of the parent node, or NoParent for a fragment root. Coordinates are in
// nanometers.
type Node struct {
	// ID is the unique identifier for this node.
	ID int64

	// ParentID is the parent node ID, or NoParent for a root.
	ParentID int64

	// X, Y, Z are the node coordinates in nanometers.
	X, Y, Z float64

	// Radius is the reconstruction radius at this node, in nanometers.
	Radius float64

	// Label is the SWC structure label (1 = soma). Zero when untagged.
	Label int
}

// Relation describes which side of a synapse the owning neuron is on.
type Relation int

const (
	// Presynaptic marks a connector at which the neuron provides output.
	Presynaptic Relation = iota

	// Postsynaptic marks a connector at which the neuron receives input.
	Postsynaptic
)

// Connector is a synaptic site attached to one node of the skeleton.
type Connector struct {
	// ID is the connector identifier (unique per server project).
	ID int64

	// NodeID is the treenode this connector is attached to.
	NodeID int64

	// Relation is the owning neuron's relation to the connector.
	Relation Relation

	// X, Y, Z are the connector coordinates in nanometers.
	X, Y, Z float64
}

// Option configures a Skeleton at construction time.
type Option func(s *Skeleton)

// WithName sets a human-readable neuron name.
func WithName(name string) Option {
	return func(s *Skeleton) { s.name = name }
}

// WithSoma pre-tags the soma node ID. The node does not need to exist yet.
func WithSoma(id int64) Option {
	return func(s *Skeleton) { s.soma = id }
}

// Skeleton is the in-memory neuron reconstruction.
//
// nodes maps node ID to Node; children is the downstream adjacency index;
// roots tracks fragment roots. All three are guarded by mu.
type Skeleton struct {
	mu sync.RWMutex

	id   string // skeleton identifier, e.g. a CATMAID skeleton ID
	name string // optional neuron name
	soma int64  // soma node ID, 0 when untagged

	nodes      map[int64]*Node             // node ID → node
	children   map[int64]map[int64]struct{} // parent ID → child ID set
	roots      map[int64]struct{}           // fragment roots
	connectors []Connector                  // synaptic sites, append-only
}

// New creates an empty Skeleton with the given ID and options.
// Complexity: O(1)
func New(id string, opts ...Option) (*Skeleton, error) {
	// 1. Validate ID
	if id == "" {
		return nil, ErrEmptySkeletonID
	}

	// 2. Allocate storage
	s := &Skeleton{
		id:       id,
		nodes:    make(map[int64]*Node),
		children: make(map[int64]map[int64]struct{}),
		roots:    make(map[int64]struct{}),
	}

	// 3. Apply options
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}
