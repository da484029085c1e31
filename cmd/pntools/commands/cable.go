package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NikDrummond/pntools/cable"
	"github.com/NikDrummond/pntools/radar"
	"github.com/NikDrummond/pntools/volume"
)

// fetchVolumes resolves the --volumes / --core flag pair into a mesh set.
func fetchVolumes(cmd *cobra.Command, names string, core bool) (volume.Set, error) {
	c, err := client()
	if err != nil {
		return nil, err
	}
	if core {
		return c.CoreNeuropils(cmd.Context())
	}
	if names == "" {
		return nil, fmt.Errorf("pntools: no volumes requested (set --volumes or --core)")
	}
	return c.GetVolumes(cmd.Context(), strings.Split(names, ","))
}

// writeMatrixCSV writes m with a leading label column.
func writeMatrixCSV(w io.Writer, m *cable.Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, m.Cols...)); err != nil {
		return err
	}
	for i, label := range m.Rows {
		rec := make([]string, 0, len(m.Cols)+1)
		rec = append(rec, label)
		for j := range m.Cols {
			rec = append(rec, strconv.FormatFloat(m.At(i, j), 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// matrixToFile writes m to path, or stdout when path is empty.
func matrixToFile(m *cable.Matrix, path string) error {
	if path == "" {
		return writeMatrixCSV(os.Stdout, m)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeMatrixCSV(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cableCmd() *cobra.Command {
	var (
		volumeNames string
		core        bool
		normalise   string
		out         string
	)
	cmd := &cobra.Command{
		Use:   "cable IN.swc...",
		Short: "Cable-length matrix of morphologies across volumes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skels, err := loadSkeletons(args)
			if err != nil {
				return err
			}
			vols, err := fetchVolumes(cmd, volumeNames, core)
			if err != nil {
				return err
			}
			opts := []cable.Option{}
			switch normalise {
			case "":
			case "neuron":
				opts = append(opts, cable.WithNormalisation(cable.ByNeuron))
			case "volume":
				opts = append(opts, cable.WithNormalisation(cable.ByVolume))
			default:
				return fmt.Errorf("pntools: unknown normalisation %q (want neuron or volume)", normalise)
			}
			m, err := cable.Lengths(skels, vols, opts...)
			if err != nil {
				return err
			}
			return matrixToFile(m, out)
		},
	}
	cmd.Flags().StringVar(&volumeNames, "volumes", "", "comma-separated volume names")
	cmd.Flags().BoolVar(&core, "core", false, "use the core neuropil set")
	cmd.Flags().StringVar(&normalise, "normalise", "", "normalisation: neuron or volume")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV path (default stdout)")
	return cmd
}

func endsCmd() *cobra.Command {
	var (
		volumeNames string
		core        bool
		out         string
	)
	cmd := &cobra.Command{
		Use:   "ends IN.swc...",
		Short: "End-node matrix of morphologies across volumes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skels, err := loadSkeletons(args)
			if err != nil {
				return err
			}
			vols, err := fetchVolumes(cmd, volumeNames, core)
			if err != nil {
				return err
			}
			m, err := cable.Ends(skels, vols)
			if err != nil {
				return err
			}
			return matrixToFile(m, out)
		},
	}
	cmd.Flags().StringVar(&volumeNames, "volumes", "", "comma-separated volume names")
	cmd.Flags().BoolVar(&core, "core", false, "use the core neuropil set")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV path (default stdout)")
	return cmd
}

func radarCmd() *cobra.Command {
	var (
		volumeNames string
		core        bool
		useEnds     bool
		title       string
		out         string
	)
	cmd := &cobra.Command{
		Use:   "radar IN.swc...",
		Short: "Radar chart of a cable or ends matrix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skels, err := loadSkeletons(args)
			if err != nil {
				return err
			}
			vols, err := fetchVolumes(cmd, volumeNames, core)
			if err != nil {
				return err
			}
			var m *cable.Matrix
			if useEnds {
				m, err = cable.Ends(skels, vols)
			} else {
				m, err = cable.Lengths(skels, vols)
			}
			if err != nil {
				return err
			}
			chart, err := radar.New(m, nil, radar.WithTitle(title))
			if err != nil {
				return err
			}
			return chart.Save(out)
		},
	}
	cmd.Flags().StringVar(&volumeNames, "volumes", "", "comma-separated volume names")
	cmd.Flags().BoolVar(&core, "core", false, "use the core neuropil set")
	cmd.Flags().BoolVar(&useEnds, "ends", false, "chart end-node counts instead of cable length")
	cmd.Flags().StringVar(&title, "title", "", "chart title")
	cmd.Flags().StringVarP(&out, "out", "o", "radar.png", "output image path (.png, .svg, .pdf)")
	return cmd
}
