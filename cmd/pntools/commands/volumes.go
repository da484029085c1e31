package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NikDrummond/pntools/catmaid"
)

func volumesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "List or fetch CATMAID volume meshes",
	}
	cmd.AddCommand(volumesListCmd(), volumesGetCmd())
	return cmd
}

func volumesListCmd() *cobra.Command {
	var core bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the volumes of the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if core {
				for _, name := range catmaid.CoreNeuropilNames() {
					fmt.Println(name)
				}
				return nil
			}
			c, err := client()
			if err != nil {
				return err
			}
			infos, err := c.ListVolumes(cmd.Context())
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Printf("%d\t%s\n", info.ID, info.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&core, "core", false, "print the fixed core neuropil list instead")
	return cmd
}

func volumesGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get NAME...",
		Short: "Fetch volumes and print their mesh summaries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			set, err := c.GetVolumes(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, name := range set.Names() {
				m := set[name]
				vol, err := m.Enclosed()
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%d verts\t%d faces\t%.4g nm^3\n",
					name, len(m.Verts), len(m.Faces), vol)
			}
			return nil
		},
	}
	return cmd
}

func glomsCmd() *cobra.Command {
	var side string
	cmd := &cobra.Command{
		Use:   "gloms",
		Short: "List glomerulus meshes for one hemisphere",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			set, err := c.Glomeruli(cmd.Context(), catmaid.ParseSide(side))
			if err != nil {
				return err
			}
			for _, name := range set.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&side, "side", "right", "hemisphere: right, left, both, or fib")
	return cmd
}
