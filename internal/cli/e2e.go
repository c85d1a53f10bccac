package cli

import (
	"github.com/spf13/cobra"

	"github.com/ltsch/scimcheck/internal/dispatch"
)

func e2eCmd() *cobra.Command {
	var script string

	c := &cobra.Command{
		Use:   "e2e [mode]",
		Short: "Run the repository's e2e test script (api|browser|setup|help)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			return dispatch.New(script).Run(cmd.Context(), arg)
		},
	}

	c.Flags().StringVar(&script, "script", "", "Path to the e2e test script (default: "+dispatch.ScriptName+" next to the scimcheck binary)")
	return c
}
