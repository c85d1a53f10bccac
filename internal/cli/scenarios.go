package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ltsch/scimcheck/internal/catalog"
	"github.com/ltsch/scimcheck/internal/domain"
)

func scenariosCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "scenarios",
		Short: "Manage contract scenarios",
	}
	c.AddCommand(scenariosListCmd())
	return c
}

func scenariosListCmd() *cobra.Command {
	var workspace string

	c := &cobra.Command{
		Use:   "list",
		Short: "List built-in and workspace scenarios",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintln(os.Stdout, headStyle.Render("Built-in (catalog):"))
			for _, name := range catalog.SortedNames() {
				sc, _ := catalog.ByName(name)
				fmt.Fprintf(os.Stdout, "  %s %s\n", name, faintStyle.Render(sc.Description))
			}

			ws, err := loadWorkspace(workspace)
			if err != nil {
				// No workspace is fine; the catalog alone is still useful.
				return nil
			}

			refs, err := ws.scenCat.ListScenarios(ws.root)
			if err != nil {
				if domain.IsKind(err, domain.KindNotFound) {
					return nil
				}
				return err
			}
			if len(refs) == 0 {
				return nil
			}

			fmt.Fprintf(os.Stdout, "\n%s\n", headStyle.Render("Workspace:"))
			for _, ref := range refs {
				fmt.Fprintf(os.Stdout, "  %s %s\n", ref.Name, faintStyle.Render(ref.Path))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return c
}
