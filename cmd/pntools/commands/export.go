package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NikDrummond/pntools/connectome"
	"github.com/NikDrummond/pntools/sampling"
)

func exportCmd() *cobra.Command {
	var (
		skeletonIDs []int64
		uri         string
		user        string
		password    string
		database    string
		graphTag    string
		withSheets  bool
		wipe        bool
		yes         bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Push skeletons and review sheets into Neo4j",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := connectome.NewService(ctx, uri, user, password, database)
			if err != nil {
				return err
			}
			defer svc.Close(ctx)

			st, err := connectome.NewStore(svc, connectome.WithProject(graphTag))
			if err != nil {
				return err
			}
			if wipe {
				if err := st.Wipe(ctx, yes); err != nil {
					return err
				}
			}

			c, err := client()
			if err != nil {
				return err
			}
			for _, id := range skeletonIDs {
				skel, err := c.GetSkeleton(ctx, id)
				if err != nil {
					return err
				}
				if err := st.ImportSkeleton(ctx, skel); err != nil {
					return err
				}
				if !withSheets {
					continue
				}
				sheet, _, err := sampling.UpstreamSheet(ctx, c, skel)
				if err != nil {
					return err
				}
				if err := st.ImportSheet(ctx, sheet); err != nil {
					return err
				}
				fmt.Printf("skeleton %d: %d upstream rows\n", id, len(sheet.Rows))
			}
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&skeletonIDs, "skeleton", nil, "skeleton IDs to export (repeatable)")
	cmd.Flags().StringVar(&uri, "uri", "bolt://localhost:7687", "Neo4j bolt URI")
	cmd.Flags().StringVar(&user, "user", "neo4j", "Neo4j user")
	cmd.Flags().StringVar(&password, "password", "", "Neo4j password")
	cmd.Flags().StringVar(&database, "database", "neo4j", "Neo4j database name")
	cmd.Flags().StringVar(&graphTag, "graph-project", "default", "project tag stamped on stored neurons")
	cmd.Flags().BoolVar(&withSheets, "sheets", false, "also export upstream review sheets")
	cmd.Flags().BoolVar(&wipe, "wipe", false, "wipe the project's neurons before importing")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destructive operations")
	_ = cmd.MarkFlagRequired("skeleton")
	return cmd
}
