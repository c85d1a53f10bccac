package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ltsch/scimcheck/internal/usecase"
)

func validateCmd() *cobra.Command {
	var workspace string
	var scenarios []string
	var env string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate scenarios against an environment without running them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			envArg, err := resolveEnvironmentArg(ws, env)
			if err != nil {
				return err
			}
			environment, err := ws.envs.LoadEnvironment(envArg)
			if err != nil {
				return err
			}

			selected, err := gatherScenarios(ws, scenarios)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				return fmt.Errorf("no scenarios to validate")
			}

			for _, sc := range selected {
				if err := usecase.ValidateScenario(sc, environment.Vars); err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s %s\n", passMark, sc.Name)
			}
			fmt.Fprintf(os.Stdout, "\nOK: %d scenario(s) valid against env %q\n", len(selected), environment.Name)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringArrayVarP(&scenarios, "scenario", "s", nil, "Scenario name or path (repeatable; default: catalog + workspace)")
	c.Flags().StringVarP(&env, "env", "e", "", "Environment name or path (optional; defaults to workspace default env)")

	return c
}
