package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NikDrummond/pntools/catmaid"
	"github.com/NikDrummond/pntools/skeleton"
	"github.com/NikDrummond/pntools/swc"
)

// errNoServerFlag reports a command that needs server access without one
// configured.
var errNoServerFlag = errors.New("pntools: no CATMAID server configured (set --server or PNTOOLS_SERVER)")

var (
	server  string
	token   string
	project int64
	verbose bool
)

func Execute() error {
	root := &cobra.Command{
		Use:           "pntools",
		Short:         "Connectomics toolbox for olfactory projection neurons",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; missing files are fine.
			_ = godotenv.Load()

			v := viper.New()
			v.SetEnvPrefix("PNTOOLS")
			v.AutomaticEnv()
			if err := v.BindPFlag("server", cmd.Flags().Lookup("server")); err != nil {
				return err
			}
			if err := v.BindPFlag("token", cmd.Flags().Lookup("token")); err != nil {
				return err
			}
			if err := v.BindPFlag("project", cmd.Flags().Lookup("project")); err != nil {
				return err
			}
			server = v.GetString("server")
			token = v.GetString("token")
			project = v.GetInt64("project")

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&server, "server", "", "CATMAID server URL")
	root.PersistentFlags().StringVar(&token, "token", "", "CATMAID API token")
	root.PersistentFlags().Int64Var(&project, "project", 1, "CATMAID project ID")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		volumesCmd(), glomsCmd(),
		pruneCmd(), axonCmd(),
		cableCmd(), endsCmd(), radarCmd(),
		upstreamCmd(), checkUpstreamCmd(),
		statsCmd(), exportCmd(),
	)
	return root.Execute()
}

// client builds the CATMAID client from the resolved configuration.
func client() (*catmaid.Client, error) {
	if server == "" {
		return nil, errNoServerFlag
	}
	return catmaid.NewClient(server, token, project), nil
}

// loadSkeletons decodes each SWC file, naming the skeleton after the file
// stem.
func loadSkeletons(paths []string) ([]*skeleton.Skeleton, error) {
	skels := make([]*skeleton.Skeleton, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		s, err := swc.Decode(f, id)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", path, err)
		}
		skels = append(skels, s)
	}
	return skels, nil
}

// writeSkeleton encodes s to path, or to stdout when path is empty.
func writeSkeleton(s *skeleton.Skeleton, path string) error {
	if path == "" {
		return swc.Encode(os.Stdout, s)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := swc.Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
