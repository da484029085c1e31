package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NikDrummond/pntools/catmaid"
	"github.com/NikDrummond/pntools/sampling"
)

func upstreamCmd() *cobra.Command {
	var (
		skeletonID int64
		order      string
		version    string
		seed       int64
		out        string

		segService string
		segDataset string
		segScale   int
	)
	cmd := &cobra.Command{
		Use:   "upstream",
		Short: "Build an upstream review sheet for a skeleton",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			skel, err := c.GetSkeleton(cmd.Context(), skeletonID)
			if err != nil {
				return err
			}

			opts := []sampling.Option{
				sampling.WithVersion(sampling.AutoVersion(version)),
				sampling.WithSeed(seed),
			}
			switch order {
			case "manual":
				opts = append(opts, sampling.WithOrder(sampling.Manual))
			case "random":
				opts = append(opts, sampling.WithOrder(sampling.Random))
			case "auto":
				if segService == "" {
					return fmt.Errorf("pntools: auto order needs --segment-service")
				}
				resolver := catmaid.NewSegmentClient(segService, segDataset, segScale)
				opts = append(opts, sampling.WithOrder(sampling.Auto), sampling.WithResolver(resolver))
			default:
				return fmt.Errorf("pntools: unknown order %q (want manual, auto, or random)", order)
			}

			sheet, missing, err := sampling.UpstreamSheet(cmd.Context(), c, skel, opts...)
			if err != nil {
				return err
			}
			for _, m := range missing {
				fmt.Fprintf(os.Stderr, "untraced input at connector %d: %s\n", m.ConnectorID, m.ManualURL)
			}

			if out == "" {
				return sheet.WriteCSV(os.Stdout)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := sheet.WriteCSV(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().Int64Var(&skeletonID, "skeleton", 0, "skeleton ID")
	cmd.Flags().StringVar(&order, "order", "manual", "sheet order: manual, auto, or random")
	cmd.Flags().StringVar(&version, "version", "v3", "segmentation dataset for auto URLs: v1, v2, or v3")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random-order seed (0 = fixed default)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV path (default stdout)")
	cmd.Flags().StringVar(&segService, "segment-service", "", "segmentation lookup service base URL (auto order)")
	cmd.Flags().StringVar(&segDataset, "segment-dataset", "flywire_190410", "segmentation dataset tag (auto order)")
	cmd.Flags().IntVar(&segScale, "segment-scale", 0, "segmentation mip scale (auto order)")
	_ = cmd.MarkFlagRequired("skeleton")
	return cmd
}

func checkUpstreamCmd() *cobra.Command {
	var skeletonID int64
	cmd := &cobra.Command{
		Use:   "check-upstream",
		Short: "Audit a skeleton for untraced inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			skel, err := c.GetSkeleton(cmd.Context(), skeletonID)
			if err != nil {
				return err
			}
			missing, err := sampling.UpstreamCheck(cmd.Context(), c, skel)
			if err != nil {
				return err
			}
			if len(missing) == 0 {
				fmt.Println("all inputs traced")
				return nil
			}
			for _, m := range missing {
				fmt.Printf("%d\t%.0f %.0f %.0f\t%s\n", m.ConnectorID, m.X, m.Y, m.Z, m.ManualURL)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&skeletonID, "skeleton", 0, "skeleton ID")
	_ = cmd.MarkFlagRequired("skeleton")
	return cmd
}
