package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NikDrummond/pntools/prune"
)

// pruneOptions assembles the shared prune flag set.
func pruneOptions(mode, strategy string, scale float64, preventFragments bool) ([]prune.Option, error) {
	opts := []prune.Option{prune.WithScale(scale)}
	switch mode {
	case "in":
		opts = append(opts, prune.WithMode(prune.In))
	case "out":
		opts = append(opts, prune.WithMode(prune.Out))
	default:
		return nil, fmt.Errorf("pntools: unknown mode %q (want in or out)", mode)
	}
	switch strategy {
	case "primary":
		opts = append(opts, prune.WithStrategy(prune.Primary))
	case "legacy":
		opts = append(opts, prune.WithStrategy(prune.Legacy))
	default:
		return nil, fmt.Errorf("pntools: unknown strategy %q (want primary or legacy)", strategy)
	}
	if preventFragments {
		opts = append(opts, prune.WithPreventFragments())
	}
	return opts, nil
}

func pruneCmd() *cobra.Command {
	var (
		volumeName       string
		mode             string
		strategy         string
		scale            float64
		preventFragments bool
		byVolume         bool
		out              string
	)
	cmd := &cobra.Command{
		Use:   "prune IN.swc",
		Short: "Prune an SWC morphology to a volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := pruneOptions(mode, strategy, scale, preventFragments)
			if err != nil {
				return err
			}
			opts = append(opts, prune.WithContext(cmd.Context()))

			skels, err := loadSkeletons(args)
			if err != nil {
				return err
			}
			c, err := client()
			if err != nil {
				return err
			}
			set, err := c.GetVolumes(cmd.Context(), []string{volumeName})
			if err != nil {
				return err
			}
			mesh := set[volumeName]

			pruned := skels[0]
			if byVolume {
				pruned, err = prune.ByVolume(pruned, mesh, opts...)
			} else {
				pruned, err = prune.ToVolume(pruned, mesh, opts...)
			}
			if err != nil {
				return err
			}
			return writeSkeleton(pruned, out)
		},
	}
	cmd.Flags().StringVar(&volumeName, "volume", "", "volume name on the server")
	cmd.Flags().StringVar(&mode, "mode", "in", "keep nodes in or out of the volume")
	cmd.Flags().StringVar(&strategy, "strategy", "primary", "compound prune strategy: primary or legacy")
	cmd.Flags().Float64Var(&scale, "scale", 1, "resize factor applied to the mesh first")
	cmd.Flags().BoolVar(&preventFragments, "prevent-fragments", false, "keep only the largest surviving fragment")
	cmd.Flags().BoolVar(&byVolume, "by-volume", false, "plain containment prune instead of the compound strategy")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output SWC path (default stdout)")
	_ = cmd.MarkFlagRequired("volume")
	return cmd
}

func axonCmd() *cobra.Command {
	var (
		scale         float64
		antennalScale float64
		out           string
	)
	cmd := &cobra.Command{
		Use:   "axon IN.swc",
		Short: "Extract the axonic arbour of a projection neuron",
		Long: "Extract the axonic arbour of a projection neuron by cutting at the\n" +
			"primary neurite branch closest to the target neuropil and stripping\n" +
			"the antennal lobes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skels, err := loadSkeletons(args)
			if err != nil {
				return err
			}
			c, err := client()
			if err != nil {
				return err
			}
			neuropils, err := c.CoreNeuropils(cmd.Context())
			if err != nil {
				return err
			}
			lobes, err := c.GetVolumes(cmd.Context(), []string{"AL_R", "AL_L"})
			if err != nil {
				return err
			}
			regions := prune.AxonRegions{
				Neuropils: neuropils,
				AntennalR: lobes["AL_R"],
				AntennalL: lobes["AL_L"],
			}
			axon, err := prune.Axon(skels[0], regions,
				prune.WithContext(cmd.Context()),
				prune.WithScale(scale),
				prune.WithAntennalScale(antennalScale))
			if err != nil {
				return err
			}
			return writeSkeleton(axon, out)
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 1, "resize factor for the neuropil meshes")
	cmd.Flags().Float64Var(&antennalScale, "antennal-scale", 1.1, "resize factor for the antennal lobe meshes")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output SWC path (default stdout)")
	return cmd
}
