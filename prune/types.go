// Package prune restricts neuron skeletons to anatomical regions.
//
// Three families of operations are provided:
//
//   - ByVolume: keep the cable inside (or outside) a single mesh.
//   - ByStrahler: drop branches by Strahler stream order.
//   - ToVolume / Axon: the compound strategies used on projection neurons,
//     which combine a volume restriction with a cut along the primary
//     neurite so that the surviving cable is the part likely to synapse.
//
// All operations return new skeletons; inputs are never mutated. Meshes
// are cloned before any resize, for the same reason.
//
// Options:
//
//   - WithContext(ctx)        cancel long batch runs.
//   - WithMode(mode)          In (default) or Out volume restriction.
//   - WithScale(f)            resize the mesh before testing (1 = as-is).
//   - WithPreventFragments()  force a single connected component.
//   - WithStrategy(s)         Primary (default) or Legacy compound prune.
//   - WithAntennalScale(f)    Axon: resize of the antennal-lobe meshes.
//
// Errors:
//
//	ErrNilSkeleton  - skeleton pointer is nil.
//	ErrNilMesh      - mesh pointer is nil.
//	ErrNothingKept  - restriction removed every node.
//	ErrNoNeurite    - compound prune could not resolve the primary neurite.
package prune

import (
	"context"
	"errors"
)

// Sentinel errors for pruning operations.
var (
	// ErrNilSkeleton indicates a nil *skeleton.Skeleton input.
	ErrNilSkeleton = errors.New("prune: skeleton is nil")

	// ErrNilMesh indicates a nil *volume.Mesh input.
	ErrNilMesh = errors.New("prune: mesh is nil")

	// ErrNothingKept indicates the restriction removed every node.
	ErrNothingKept = errors.New("prune: no nodes inside restriction")

	// ErrNoNeurite indicates the primary neurite could not be resolved,
	// typically because its tip never lands in any known neuropil.
	ErrNoNeurite = errors.New("prune: primary neurite unresolved")
)

// Mode selects which side of the mesh survives ByVolume.
type Mode int

const (
	// In keeps nodes inside the mesh.
	In Mode = iota

	// Out keeps nodes outside the mesh.
	Out
)

// Strategy selects the compound ToVolume behavior.
type Strategy int

const (
	// Primary locates the branch point on the primary neurite closest to
	// the root and cuts there; the fragment inside the target volume is
	// what remains.
	Primary Strategy = iota

	// Legacy reproduces the older behavior: volume restriction followed by
	// stripping the highest Strahler order.
	Legacy
)

// Option configures pruning behavior.
type Option func(*Options)

// Options holds configurable parameters shared by the prune operations.
type Options struct {
	// Ctx allows cancellation of batch runs; defaults to context.Background().
	Ctx context.Context

	// Mode selects In or Out volume restriction (ByVolume only).
	Mode Mode

	// Scale resizes the mesh before testing; 1 leaves it untouched.
	Scale float64

	// PreventFragments forces the result to a single connected component.
	PreventFragments bool

	// Strategy selects Primary or Legacy compound pruning (ToVolume only).
	Strategy Strategy

	// AntennalScale resizes the antennal-lobe meshes in Axon; 1 = as-is.
	AntennalScale float64
}

// DefaultOptions returns the baseline configuration: background context,
// In mode, no resize, fragmenting allowed, Primary strategy.
func DefaultOptions() Options {
	return Options{
		Ctx:           context.Background(),
		Mode:          In,
		Scale:         1,
		Strategy:      Primary,
		AntennalScale: 1,
	}
}

// WithContext sets the cancellation context. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithMode selects which side of the mesh survives.
func WithMode(m Mode) Option {
	return func(o *Options) { o.Mode = m }
}

// WithScale resizes the mesh before containment testing.
func WithScale(f float64) Option {
	return func(o *Options) { o.Scale = f }
}

// WithPreventFragments forces a single connected result.
func WithPreventFragments() Option {
	return func(o *Options) { o.PreventFragments = true }
}

// WithStrategy selects the compound prune strategy.
func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// WithAntennalScale resizes the antennal-lobe meshes during Axon pruning.
func WithAntennalScale(f float64) Option {
	return func(o *Options) { o.AntennalScale = f }
}
