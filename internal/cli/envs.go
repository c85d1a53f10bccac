package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func envsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "envs",
		Short: "Manage environments",
	}
	c.AddCommand(envsListCmd())
	return c
}

func envsListCmd() *cobra.Command {
	var workspace string

	c := &cobra.Command{
		Use:   "list",
		Short: "List environments in the workspace",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			refs, err := ws.envCatalog.ListEnvironments(ws.root)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				fmt.Fprintln(os.Stdout, "No environments found.")
				return nil
			}

			for _, ref := range refs {
				marker := " "
				if ref.Name == ws.cfg.Defaults.Environment {
					marker = "*"
				}
				fmt.Fprintf(os.Stdout, "%s %s %s\n", marker, ref.Name, faintStyle.Render(ref.Path))
			}
			fmt.Fprintf(os.Stdout, "\nDefault: %s\n", ws.cfg.Defaults.Environment)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return c
}
