// Package stats provides the descriptive and resampling statistics used on
// per-volume response and cable profiles: lifetime kurtosis, lifetime
// sparseness, and a two-sample label-permutation test.
//
// Randomisation follows a deterministic-seed policy: seed 0 selects a
// fixed default, so published results are reproducible by default and a
// caller opts in to a fresh stream explicitly.
//
// Errors:
//
//	ErrTooFewValues  - statistic needs more finite values than supplied.
//	ErrEmptySample   - permutation test received an empty side.
//	ErrBadRounds     - permutation rounds must be positive.
//	ErrNaNInput      - permutation samples must be finite.
package stats

import (
	"errors"
	"math/rand"
)

// Sentinel errors for statistics operations.
var (
	// ErrTooFewValues indicates the statistic needs more finite values.
	ErrTooFewValues = errors.New("stats: too few finite values")

	// ErrEmptySample indicates an empty permutation-test side.
	ErrEmptySample = errors.New("stats: empty sample")

	// ErrBadRounds indicates a non-positive permutation round count.
	ErrBadRounds = errors.New("stats: rounds must be positive")

	// ErrNaNInput indicates a non-finite value in a permutation sample.
	ErrNaNInput = errors.New("stats: sample contains non-finite values")
)

// defaultSeed is the fixed seed used when callers pass seed==0, keeping
// default runs reproducible across platforms.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand; seed 0 maps to the
// fixed default.
func rngFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultSeed
	}

	return rand.New(rand.NewSource(s))
}

// Alternative selects the tail of the permutation test.
type Alternative int

const (
	// TwoSided tests |statistic| against |observed|.
	TwoSided Alternative = iota

	// Greater tests statistic >= observed.
	Greater

	// Less tests statistic <= observed.
	Less
)

// Statistic maps two samples to a scalar, e.g. MeanDiff.
type Statistic func(a, b []float64) float64

// PermOption configures Permutation.
type PermOption func(*PermOptions)

// PermOptions holds the permutation-test configuration.
type PermOptions struct {
	// Rounds is the number of label permutations. Default 10000.
	Rounds int

	// Seed feeds the RNG; 0 selects the fixed default seed.
	Seed int64

	// Alternative selects the test tail. Default TwoSided.
	Alternative Alternative

	// Statistic is the test statistic. Default MeanDiff.
	Statistic Statistic

	// ReturnDistribution retains the permuted statistics in the result.
	ReturnDistribution bool
}

// DefaultPermOptions returns 10000 two-sided MeanDiff rounds with the
// default seed.
func DefaultPermOptions() PermOptions {
	return PermOptions{
		Rounds:      10000,
		Alternative: TwoSided,
		Statistic:   MeanDiff,
	}
}

// WithRounds sets the permutation count.
func WithRounds(n int) PermOption {
	return func(o *PermOptions) { o.Rounds = n }
}

// WithSeed sets the RNG seed (0 = fixed default).
func WithSeed(seed int64) PermOption {
	return func(o *PermOptions) { o.Seed = seed }
}

// WithAlternative selects the test tail.
func WithAlternative(a Alternative) PermOption {
	return func(o *PermOptions) { o.Alternative = a }
}

// WithStatistic installs a custom test statistic.
func WithStatistic(fn Statistic) PermOption {
	return func(o *PermOptions) {
		if fn != nil {
			o.Statistic = fn
		}
	}
}

// WithDistribution retains the permutation distribution in the result.
func WithDistribution() PermOption {
	return func(o *PermOptions) { o.ReturnDistribution = true }
}

// PermResult is the outcome of a permutation test.
type PermResult struct {
	// Observed is the statistic on the original labelling.
	Observed float64

	// P is the permutation p-value, (hits+1)/(rounds+1).
	P float64

	// Rounds is the number of permutations performed.
	Rounds int

	// Distribution holds the permuted statistics when requested, else nil.
	Distribution []float64
}
