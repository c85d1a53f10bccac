package ports

import (
	"context"

	"github.com/ltsch/scimcheck/internal/domain"
)

// ServerInfo is what SCIM v2 discovery reveals about the server behind the
// configured endpoint.
type ServerInfo struct {
	Endpoint      string
	Documentation string
	ResourceTypes []string // SCIM resource type names, e.g. "User", "Group"
	NavLabels     []string // navigation labels the client is expected to expose
}

// Discoverer performs SCIM v2 discovery against the server the client talks to.
type Discoverer interface {
	Discover(ctx context.Context, cfg domain.ServerConfig) (ServerInfo, error)
}
