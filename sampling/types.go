// Package sampling builds the review material for a neuron's inputs: an
// audit of postsynaptic connectors that still lack an upstream treenode,
// and an upstream review sheet ordering the traced partners for sampling.
//
// Server access goes through the Source interface (satisfied by
// *catmaid.Client); segmentation lookups for auto-ordering go through
// SegmentResolver (catmaid.SegmentClient is the stock implementation)
// so the backend stays swappable. The random order uses
// the deterministic-seed policy shared across the toolbox (seed 0 = fixed
// default).
//
// Errors:
//
//	ErrNilSource      - no server source supplied.
//	ErrNilSkeleton    - no skeleton supplied.
//	ErrNoResolver     - auto order requested without a SegmentResolver.
//	ErrUnknownVersion - segmentation version tag unrecognised.
package sampling

import (
	"context"
	"errors"
	"math/rand"

	"github.com/NikDrummond/pntools/catmaid"
)

// Sentinel errors for sampling operations.
var (
	// ErrNilSource indicates no server source was supplied.
	ErrNilSource = errors.New("sampling: source is nil")

	// ErrNilSkeleton indicates no skeleton was supplied.
	ErrNilSkeleton = errors.New("sampling: skeleton is nil")

	// ErrNoResolver indicates auto ordering without a SegmentResolver.
	ErrNoResolver = errors.New("sampling: auto order needs a segment resolver")

	// ErrUnknownVersion indicates an unrecognised segmentation version tag.
	ErrUnknownVersion = errors.New("sampling: unknown segmentation version")
)

// sheetZoom is the zoom level baked into review URLs.
const sheetZoom = 5

// defaultSeed keeps Random ordering reproducible when seed==0.
const defaultSeed int64 = 1

// Source is the server surface sampling needs. *catmaid.Client satisfies it.
type Source interface {
	ConnectorDetails(ctx context.Context, connectorIDs []int64) ([]catmaid.ConnectorDetail, error)
	FindTreenodes(ctx context.Context, treenodeIDs []int64) ([]catmaid.Treenode, error)
	URLToCoordinates(xyz [3]float64, zoom int) (string, error)
}

// SegmentResolver maps coordinates onto segmentation fragment IDs, with 0
// meaning unresolved. Implementations wrap whichever auto-segmentation
// service is in use.
type SegmentResolver interface {
	SegmentIDs(ctx context.Context, coords [][3]float64) ([]int64, error)
}

// Order selects how an upstream sheet is ranked.
type Order int

const (
	// Manual ranks partners by the number of inputs from each traced
	// skeleton (default).
	Manual Order = iota

	// Auto ranks partners by segmentation-fragment hit count.
	Auto

	// Random shuffles the sheet with a deterministic seed.
	Random
)

// AutoVersion tags the segmentation dataset used for Auto URLs.
type AutoVersion string

const (
	// AutoV1 is the original v14 segmentation.
	AutoV1 AutoVersion = "v1"

	// AutoV2 is the spring 2019 segmentation.
	AutoV2 AutoVersion = "v2"

	// AutoV3 is the autumn 2019 segmentation (default).
	AutoV3 AutoVersion = "v3"
)

// dataset maps a version tag onto the dataset name substituted into URLs.
func (v AutoVersion) dataset() (string, error) {
	switch v {
	case AutoV1:
		return "v14-seg", nil
	case AutoV2:
		return "v14seg-Li-190411.0", nil
	case AutoV3, "":
		return "v14-seg-li-190805.0", nil
	}

	return "", ErrUnknownVersion
}

// Option configures UpstreamSheet.
type Option func(*Options)

// Options holds the upstream-sheet configuration.
type Options struct {
	// Order selects Manual, Auto, or Random ranking.
	Order Order

	// Version selects the segmentation dataset for Auto URLs.
	Version AutoVersion

	// Resolver supplies fragment IDs for Auto ordering.
	Resolver SegmentResolver

	// Seed feeds the Random order; 0 selects the fixed default.
	Seed int64
}

// DefaultOptions returns Manual ordering with the v3 segmentation.
func DefaultOptions() Options {
	return Options{Order: Manual, Version: AutoV3}
}

// WithOrder selects the sheet ranking.
func WithOrder(o Order) Option {
	return func(opts *Options) { opts.Order = o }
}

// WithVersion selects the segmentation dataset tag.
func WithVersion(v AutoVersion) Option {
	return func(opts *Options) { opts.Version = v }
}

// WithResolver installs the segmentation backend for Auto ordering.
func WithResolver(r SegmentResolver) Option {
	return func(opts *Options) { opts.Resolver = r }
}

// WithSeed sets the Random-order seed (0 = fixed default).
func WithSeed(seed int64) Option {
	return func(opts *Options) { opts.Seed = seed }
}

func rngFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultSeed
	}

	return rand.New(rand.NewSource(s))
}
