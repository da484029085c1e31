package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NikDrummond/pntools/stats"
)

// readValues loads one float per line, skipping blanks and # comments.
func readValues(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var xs []float64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", path, err)
		}
		xs = append(xs, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return xs, nil
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Lifetime kurtosis, sparseness, and permutation tests",
	}
	cmd.AddCommand(ltkCmd(), ltsCmd(), permCmd())
	return cmd
}

func ltkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ltk VALUES",
		Short: "Lifetime kurtosis of a tuning profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xs, err := readValues(args[0])
			if err != nil {
				return err
			}
			v, err := stats.LifetimeKurtosis(xs)
			if err != nil {
				return err
			}
			fmt.Printf("%g\n", v)
			return nil
		},
	}
}

func ltsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lts VALUES",
		Short: "Lifetime sparseness of a tuning profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xs, err := readValues(args[0])
			if err != nil {
				return err
			}
			v, err := stats.LifetimeSparseness(xs)
			if err != nil {
				return err
			}
			fmt.Printf("%g\n", v)
			return nil
		},
	}
}

func permCmd() *cobra.Command {
	var (
		rounds      int
		seed        int64
		alternative string
	)
	cmd := &cobra.Command{
		Use:   "perm A B",
		Short: "Permutation test on the mean difference of two samples",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readValues(args[0])
			if err != nil {
				return err
			}
			b, err := readValues(args[1])
			if err != nil {
				return err
			}
			opts := []stats.PermOption{
				stats.WithRounds(rounds),
				stats.WithSeed(seed),
			}
			switch alternative {
			case "two-sided":
				opts = append(opts, stats.WithAlternative(stats.TwoSided))
			case "greater":
				opts = append(opts, stats.WithAlternative(stats.Greater))
			case "less":
				opts = append(opts, stats.WithAlternative(stats.Less))
			default:
				return fmt.Errorf("pntools: unknown alternative %q", alternative)
			}
			res, err := stats.Permutation(a, b, opts...)
			if err != nil {
				return err
			}
			fmt.Printf("observed=%g p=%g rounds=%d\n", res.Observed, res.P, res.Rounds)
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 10000, "permutation rounds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed (0 = fixed default)")
	cmd.Flags().StringVar(&alternative, "alternative", "two-sided", "two-sided, greater, or less")
	return cmd
}
