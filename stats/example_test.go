package stats_test

import (
	"fmt"

	"github.com/NikDrummond/pntools/stats"
)

// ExampleLifetimeSparseness scores a maximally selective response vector.
func ExampleLifetimeSparseness() {
	lts, _ := stats.LifetimeSparseness([]float64{1, 0, 0, 0})
	fmt.Println(lts)
	// Output: 1
}

// ExamplePermutation compares two clearly separated samples.
func ExamplePermutation() {
	a := []float64{10, 11, 12, 13, 14}
	b := []float64{0, 1, 2, 3, 4}

	res, _ := stats.Permutation(a, b, stats.WithRounds(999))
	fmt.Println(res.P < 0.05)
	// Output: true
}
