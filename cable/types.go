// Package cable summarises where a neuron's arbor lives: dense matrices of
// end-node counts and cable lengths per anatomical volume, with the
// normalisations the downstream statistics expect.
//
// A Matrix has one row per skeleton and one column per volume, both in
// stable label order, backed by a row-major float64 slice.
//
// Errors:
//
//	ErrNoSkeletons   - input skeleton batch is empty.
//	ErrNoVolumes     - input volume set is empty.
//	ErrLabelNotFound - row or column label unknown.
//	ErrShapeMismatch - mask labels do not match the matrix.
package cable

import "errors"

// Sentinel errors for cable matrices.
var (
	// ErrNoSkeletons indicates an empty skeleton batch.
	ErrNoSkeletons = errors.New("cable: no skeletons given")

	// ErrNoVolumes indicates an empty volume set.
	ErrNoVolumes = errors.New("cable: no volumes given")

	// ErrLabelNotFound indicates a row or column label is unknown.
	ErrLabelNotFound = errors.New("cable: label not found")

	// ErrShapeMismatch indicates mask labels do not match the matrix.
	ErrShapeMismatch = errors.New("cable: mask shape mismatch")
)

// Normalisation selects how Lengths scales raw cable.
type Normalisation int

const (
	// None returns raw cable length in nanometers.
	None Normalisation = iota

	// ByNeuron divides each row by its sum: the fraction of a neuron's
	// in-volume cable that falls in each region.
	ByNeuron

	// ByVolume divides each column by the region's enclosed volume
	// (cable per cubic nanometer).
	ByVolume
)

// Option configures Lengths.
type Option func(*Options)

// Options holds the Lengths configuration.
type Options struct {
	// Mask zeroes cells whose mask entry is zero, before normalisation.
	// Labels must match the produced matrix exactly.
	Mask *Matrix

	// Normalise selects None, ByNeuron, or ByVolume scaling.
	Normalise Normalisation
}

// DefaultOptions returns raw, unmasked lengths.
func DefaultOptions() Options {
	return Options{Normalise: None}
}

// WithMask installs a mask matrix (nonzero = keep).
func WithMask(m *Matrix) Option {
	return func(o *Options) { o.Mask = m }
}

// WithNormalisation selects the scaling applied after masking.
func WithNormalisation(n Normalisation) Option {
	return func(o *Options) { o.Normalise = n }
}
