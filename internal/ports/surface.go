package ports

import (
	"context"

	"github.com/ltsch/scimcheck/internal/domain"
)

// Session is one isolated browsing session against the client surface.
// Operations within a session are strictly sequential; sessions never share
// state with each other.
type Session interface {
	// Configure submits the configuration form. A rejected credential does
	// not return an error here: it surfaces as ConfigError in the state.
	Configure(ctx context.Context, cfg domain.ServerConfig) error

	// Navigate selects a navigation item by label.
	Navigate(ctx context.Context, label string) error

	// State observes the current surface snapshot. Bounded waits poll it.
	State(ctx context.Context) (domain.SurfaceState, error)

	// OpenCreate presses the creation-trigger control of the current view.
	OpenCreate(ctx context.Context) error

	// SubmitCreate fills and submits the open creation form.
	SubmitCreate(ctx context.Context, fields map[string]string) error

	Close() error
}

// Surface creates isolated sessions against the client under test.
type Surface interface {
	NewSession(ctx context.Context, vp domain.Viewport) (Session, error)
}
