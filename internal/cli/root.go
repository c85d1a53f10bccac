// Package cli wires the scimcheck commands: contract-suite execution against
// a running client, scenario and environment management, SCIM server
// discovery, and the e2e script dispatcher.
package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ltsch/scimcheck/internal/dispatch"
	"github.com/ltsch/scimcheck/internal/infra/logger"
	"github.com/ltsch/scimcheck/internal/infra/workspacefinder"
)

func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		code := 1
		var ee *dispatch.ExitError
		if errors.As(err, &ee) {
			code = ee.Code
		}
		os.Exit(code)
	}
}

func NewRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "scimcheck",
		Short:         "scimcheck — behavioral contract checks for SCIM client UIs",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			logRoot := wd
			if root, ferr := workspacefinder.NewFinder().FindRoot(wd); ferr == nil && root != "" {
				logRoot = root
			}

			// Logging is best effort; a read-only directory must not block
			// the run itself.
			_, _ = logger.Setup(logger.Config{Root: logRoot, Debug: debug})
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .scimcheck/logs/scimcheck.log")

	cmd.AddCommand(
		runCmd(),
		validateCmd(),
		scenariosCmd(),
		envsCmd(),
		probeCmd(),
		initCmd(),
		e2eCmd(),
		proxyCmd(),
		versionCmd(),
	)
	return cmd
}
