package cli

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ltsch/scimcheck/internal/infra/corsproxy"
	"github.com/ltsch/scimcheck/internal/infra/logger"
)

func proxyCmd() *cobra.Command {
	var port int

	c := &cobra.Command{
		Use:   "proxy",
		Short: "Run a local CORS proxy for browser-side SCIM calls",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := &http.Client{Timeout: 30 * time.Second}
			srv := corsproxy.New(client,
				corsproxy.WithPort(port),
				corsproxy.WithLogger(logger.L()),
			)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	c.Flags().IntVar(&port, "port", corsproxy.DefaultPort, "Port to listen on")
	return c
}
