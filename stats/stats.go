package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// dropNonFinite returns xs without NaN or Inf entries.
func dropNonFinite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}

	return out
}

// LifetimeKurtosis returns the lifetime kurtosis of a response profile:
// the population excess kurtosis sum(((x-μ)/σ)⁴)/N − 3.
//
// Higher values indicate a profile dominated by a few strong responses.
// NaNs are dropped first; fewer than two finite values (or zero variance)
// return ErrTooFewValues.
func LifetimeKurtosis(xs []float64) (float64, error) {
	x := dropNonFinite(xs)
	if len(x) < 2 {
		return 0, ErrTooFewValues
	}

	mean := stat.Mean(x, nil)
	std := stat.PopStdDev(x, nil)
	if std == 0 {
		return 0, ErrTooFewValues
	}

	var sum float64
	for _, v := range x {
		z := (v - mean) / std
		sum += z * z * z * z
	}

	return sum/float64(len(x)) - 3, nil
}

// LifetimeSparseness returns the Willmore–Tolhurst lifetime sparseness of
// a response profile:
//
//	S = 1/(1-1/N) · (1 − (Σx/N)² / Σ(x²/N))
//
// 0 means a flat profile, 1 a maximally selective one. NaNs are dropped;
// fewer than two finite values or an all-zero profile return
// ErrTooFewValues.
func LifetimeSparseness(xs []float64) (float64, error) {
	x := dropNonFinite(xs)
	if len(x) < 2 {
		return 0, ErrTooFewValues
	}

	n := float64(len(x))
	var lin, quad float64
	for _, v := range x {
		lin += v / n
		quad += v * v / n
	}
	if quad == 0 {
		return 0, ErrTooFewValues
	}

	return 1 / (1 - 1/n) * (1 - lin*lin/quad), nil
}

// MeanDiff is the default permutation statistic: mean(a) − mean(b).
func MeanDiff(a, b []float64) float64 {
	return stat.Mean(a, nil) - stat.Mean(b, nil)
}

// Permutation runs a two-sample label-permutation test of a against b.
//
// The pooled values are reshuffled Rounds times; each permutation is split
// back into the original group sizes and scored with the configured
// Statistic. The p-value uses the (hits+1)/(rounds+1) correction so it is
// never exactly zero.
// Complexity: O(Rounds · (len(a)+len(b)))
func Permutation(a, b []float64, opts ...PermOption) (*PermResult, error) {
	// 1. Validate inputs
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptySample
	}
	for _, xs := range [][]float64{a, b} {
		for _, x := range xs {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, ErrNaNInput
			}
		}
	}

	// 2. Apply options
	o := DefaultPermOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Rounds <= 0 {
		return nil, ErrBadRounds
	}

	// 3. Observed statistic and pooled sample
	observed := o.Statistic(a, b)
	pool := make([]float64, 0, len(a)+len(b))
	pool = append(pool, a...)
	pool = append(pool, b...)
	rng := rngFromSeed(o.Seed)

	// 4. Permute, split, score
	var dist []float64
	if o.ReturnDistribution {
		dist = make([]float64, 0, o.Rounds)
	}
	hits := 0
	na := len(a)
	for r := 0; r < o.Rounds; r++ {
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		s := o.Statistic(pool[:na], pool[na:])
		if dist != nil {
			dist = append(dist, s)
		}
		switch o.Alternative {
		case TwoSided:
			if math.Abs(s) >= math.Abs(observed) {
				hits++
			}
		case Greater:
			if s >= observed {
				hits++
			}
		case Less:
			if s <= observed {
				hits++
			}
		}
	}

	return &PermResult{
		Observed:     observed,
		P:            float64(hits+1) / float64(o.Rounds+1),
		Rounds:       o.Rounds,
		Distribution: dist,
	}, nil
}
