package stats_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikDrummond/pntools/stats"
)

// TestLifetimeKurtosis_KnownValues checks two hand-computed profiles.
func TestLifetimeKurtosis_KnownValues(t *testing.T) {
	// A symmetric two-point profile has excess kurtosis -2.
	got, err := stats.LifetimeKurtosis([]float64{-1, 1, -1, 1})
	require.NoError(t, err)
	assert.InDelta(t, -2.0, got, 1e-12)

	// One strong response among weak ones: sum(z^4)/N - 3 = 28/12 - 3.
	got, err = stats.LifetimeKurtosis([]float64{1, 1, 1, 7})
	require.NoError(t, err)
	assert.InDelta(t, 28.0/12.0-3.0, got, 1e-12)
}

// TestLifetimeKurtosis_DropsNaN ignores non-finite entries.
func TestLifetimeKurtosis_DropsNaN(t *testing.T) {
	clean, err := stats.LifetimeKurtosis([]float64{-1, 1, -1, 1})
	require.NoError(t, err)

	dirty, err := stats.LifetimeKurtosis([]float64{-1, math.NaN(), 1, -1, math.Inf(1), 1})
	require.NoError(t, err)
	assert.Equal(t, clean, dirty)
}

// TestLifetimeKurtosis_Errors covers short and flat profiles.
func TestLifetimeKurtosis_Errors(t *testing.T) {
	_, err := stats.LifetimeKurtosis([]float64{1})
	assert.ErrorIs(t, err, stats.ErrTooFewValues)

	_, err = stats.LifetimeKurtosis([]float64{3, 3, 3})
	assert.ErrorIs(t, err, stats.ErrTooFewValues)
}

// TestLifetimeSparseness_Bounds checks the two extreme profiles.
func TestLifetimeSparseness_Bounds(t *testing.T) {
	// A single active response is maximally sparse.
	got, err := stats.LifetimeSparseness([]float64{1, 0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	// A flat profile has zero sparseness.
	got, err = stats.LifetimeSparseness([]float64{2, 2, 2, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)

	_, err = stats.LifetimeSparseness([]float64{0, 0, 0})
	assert.ErrorIs(t, err, stats.ErrTooFewValues)
}

// TestMeanDiff is the default permutation statistic.
func TestMeanDiff(t *testing.T) {
	assert.InDelta(t, 2.0, stats.MeanDiff([]float64{4, 6}, []float64{2, 4}), 1e-12)
}

// TestPermutation_Deterministic runs twice with one seed and expects
// identical results.
func TestPermutation_Deterministic(t *testing.T) {
	a := []float64{5, 6, 7, 8, 9}
	b := []float64{1, 2, 3, 4, 5}

	r1, err := stats.Permutation(a, b, stats.WithRounds(200), stats.WithSeed(7))
	require.NoError(t, err)
	r2, err := stats.Permutation(a, b, stats.WithRounds(200), stats.WithSeed(7))
	require.NoError(t, err)

	assert.Equal(t, r1.P, r2.P)
	assert.InDelta(t, 4.0, r1.Observed, 1e-12)
	assert.Equal(t, 200, r1.Rounds)
}

// TestPermutation_DetectsShift expects a small p for clearly separated
// samples and a large one for identical samples.
func TestPermutation_DetectsShift(t *testing.T) {
	far, err := stats.Permutation(
		[]float64{10, 11, 12, 13, 14, 15},
		[]float64{1, 2, 3, 4, 5, 6},
		stats.WithRounds(500),
	)
	require.NoError(t, err)
	assert.Less(t, far.P, 0.05)

	same, err := stats.Permutation(
		[]float64{1, 2, 3, 4, 5, 6},
		[]float64{1, 2, 3, 4, 5, 6},
		stats.WithRounds(500),
	)
	require.NoError(t, err)
	assert.Greater(t, same.P, 0.5)
}

// TestPermutation_Alternatives flips the rejection side.
func TestPermutation_Alternatives(t *testing.T) {
	a := []float64{10, 11, 12, 13, 14, 15}
	b := []float64{1, 2, 3, 4, 5, 6}

	greater, err := stats.Permutation(a, b, stats.WithRounds(500), stats.WithAlternative(stats.Greater))
	require.NoError(t, err)
	assert.Less(t, greater.P, 0.05)

	// The observed shift is the wrong way for a "less" alternative.
	less, err := stats.Permutation(a, b, stats.WithRounds(500), stats.WithAlternative(stats.Less))
	require.NoError(t, err)
	assert.Greater(t, less.P, 0.9)
}

// TestPermutation_CustomStatisticAndDistribution plugs in a median-free
// custom statistic and collects the null distribution.
func TestPermutation_CustomStatisticAndDistribution(t *testing.T) {
	sumDiff := func(a, b []float64) float64 {
		var sa, sb float64
		for _, v := range a {
			sa += v
		}
		for _, v := range b {
			sb += v
		}
		return sa - sb
	}

	res, err := stats.Permutation(
		[]float64{5, 6, 7},
		[]float64{1, 2, 3},
		stats.WithRounds(100),
		stats.WithStatistic(sumDiff),
		stats.WithDistribution(),
	)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, res.Observed, 1e-12)
	assert.Len(t, res.Distribution, 100)
}

// TestPermutation_Errors covers empty, NaN, and bad-round inputs.
func TestPermutation_Errors(t *testing.T) {
	_, err := stats.Permutation(nil, []float64{1})
	assert.ErrorIs(t, err, stats.ErrEmptySample)

	_, err = stats.Permutation([]float64{1, math.NaN()}, []float64{1})
	assert.ErrorIs(t, err, stats.ErrNaNInput)

	_, err = stats.Permutation([]float64{1}, []float64{2}, stats.WithRounds(-1))
	assert.ErrorIs(t, err, stats.ErrBadRounds)
}
