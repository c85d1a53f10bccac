package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ltsch/scimcheck/internal/infra/fsworkspace"
	"github.com/ltsch/scimcheck/internal/usecase"
)

func initCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a scimcheck workspace with config, envs and a sample scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid workspace path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(root, force); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Workspace initialized at %s\n", root)
			fmt.Fprintln(os.Stdout, "Next: edit env/local.yaml, then run `scimcheck run`.")
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "Overwrite files that already exist")
	return c
}
