package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/infra/httpclient"
	"github.com/ltsch/scimcheck/internal/infra/logger"
	"github.com/ltsch/scimcheck/internal/infra/uisurface"
	"github.com/ltsch/scimcheck/internal/tui"
	"github.com/ltsch/scimcheck/internal/usecase"
)

func runCmd() *cobra.Command {
	var workspace string
	var scenarios []string
	var env string
	var parallel int
	var noSave bool
	var format string
	var watch bool

	c := &cobra.Command{
		Use:   "run",
		Short: "Run contract scenarios against a running SCIM client",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			envArg, err := resolveEnvironmentArg(ws, env)
			if err != nil {
				return err
			}

			selected, err := gatherScenarios(ws, scenarios)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				return fmt.Errorf("no scenarios to run")
			}

			clientURL, err := resolveClientURL(ws, envArg)
			if err != nil {
				return err
			}

			driver := uisurface.New(clientURL, httpclient.New(httpclient.DefaultConfig()))
			runner := usecase.NewRunScenario(driver)

			var store = ws.store
			if noSave {
				store = nil
			}

			if parallel <= 0 {
				parallel = ws.cfg.Defaults.Parallel
			}

			suiteName := suiteNameFor(scenarios)
			log := logger.Suite(suiteName, envArg)
			log.Info("suite.start", "scenarios", len(selected), "parallel", parallel, "client_url", clientURL)

			var suite domain.SuiteResult
			var id string
			if watch {
				suite, id, err = tui.RunWatch(cmd.Context(), tui.Deps{
					Runner:    runner,
					Envs:      ws.envs,
					Store:     store,
					SuiteName: suiteName,
					Scenarios: selected,
					EnvArg:    envArg,
					Parallel:  parallel,
				})
			} else {
				uc := usecase.NewRunSuite(runner, ws.envs, store,
					usecase.WithParallelism(parallel))
				suite, id, err = uc.Execute(cmd.Context(), suiteName, selected, envArg)
			}
			if err != nil {
				_ = printSuite(os.Stdout, suite, id, format)
				return err
			}

			if err := printSuite(os.Stdout, suite, id, format); err != nil {
				return err
			}

			log.Info("suite.done", "scenarios", len(suite.Scenarios), "failures", suite.Failures(), "report", id)
			if n := suite.Failures(); n > 0 {
				return fmt.Errorf("suite failed (%d failed scenario(s))", n)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringArrayVarP(&scenarios, "scenario", "s", nil, "Scenario name or path (repeatable; default: catalog + workspace)")
	c.Flags().StringVarP(&env, "env", "e", "", "Environment name or path (optional; defaults to workspace default env)")
	c.Flags().IntVar(&parallel, "parallel", 0, "Max concurrent scenarios (default: workspace setting)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save a report artifact under reports/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().BoolVar(&watch, "watch", false, "Show live progress while the suite runs")

	return c
}

// resolveClientURL picks the automation-bridge base URL: the SCIMCHECK_CLIENT_URL
// override wins over the environment's client_url var.
func resolveClientURL(ws *workspaceCtx, envArg string) (string, error) {
	if ws.clientURL != "" {
		return ws.clientURL, nil
	}

	env, err := ws.envs.LoadEnvironment(envArg)
	if err != nil {
		return "", err
	}
	if url, ok := domain.Get(env.Vars, "client_url"); ok && strings.TrimSpace(url) != "" {
		return url, nil
	}
	return "", fmt.Errorf("client URL not configured: set client_url in env %q or SCIMCHECK_CLIENT_URL", env.Name)
}

func suiteNameFor(selectors []string) string {
	if len(selectors) == 0 {
		return "full"
	}
	return strings.Join(selectors, "+")
}
