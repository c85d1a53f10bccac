package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/infra/scimdiscovery"
)

func probeCmd() *cobra.Command {
	var workspace string
	var env string

	c := &cobra.Command{
		Use:   "probe",
		Short: "Probe the SCIM server behind an environment's endpoint",
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

			endpoint, _ := domain.Get(environment.Vars, "endpoint")
			apiKey, _ := domain.Get(environment.Vars, "api_key")
			if strings.TrimSpace(endpoint) == "" {
				return fmt.Errorf("env %q has no endpoint var", environment.Name)
			}

			prober := scimdiscovery.New()
			info, err := prober.Discover(cmd.Context(), domain.ServerConfig{
				Endpoint: endpoint,
				APIKey:   apiKey,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "%s %s\n", headStyle.Render("Endpoint:"), info.Endpoint)
			if info.Documentation != "" {
				fmt.Fprintf(os.Stdout, "%s %s\n", headStyle.Render("Docs:    "), info.Documentation)
			}
			fmt.Fprintf(os.Stdout, "%s %s\n", headStyle.Render("Types:   "), strings.Join(info.ResourceTypes, ", "))
			fmt.Fprintf(os.Stdout, "%s %s\n", headStyle.Render("Nav:     "), strings.Join(info.NavLabels, ", "))
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&env, "env", "e", "", "Environment name or path (optional; defaults to workspace default env)")
	return c
}
