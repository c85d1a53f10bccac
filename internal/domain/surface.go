package domain

import "encoding/json"

// ServerConfig is the configuration payload submitted to the client surface.
type ServerConfig struct {
	Endpoint string
	APIKey   string
}

// Viewport is the browsing viewport a session is created with.
type Viewport struct {
	Width  int
	Height int
}

// Common viewports used by the catalog.
var (
	ViewportDesktop = Viewport{Width: 1280, Height: 800}
	ViewportMobile  = Viewport{Width: 375, Height: 667}
)

// BannerKind classifies the client's transient indicator banner.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
	BannerInfo    BannerKind = "info"
)

// Banner is a visible success/error indicator.
type Banner struct {
	Kind    BannerKind
	Message string
}

// ListState describes the populated-or-empty indicator of a list view.
type ListState struct {
	Count int
	Empty bool
}

// FormState describes an open creation form, including any field-level
// validation indicators the client currently shows.
type FormState struct {
	Title      string
	Fields     []string
	Validation map[string]string
}

// InspectorState is the paired request/response inspection panel every
// resource list view exposes.
type InspectorState struct {
	Method   string
	URL      string
	Status   int
	Request  json.RawMessage
	Response json.RawMessage
}

// SurfaceState is one observable snapshot of the client surface. The runner
// treats the client as opaque: everything it asserts on is in here.
type SurfaceState struct {
	Path        string
	Configured  bool
	ConfigError string
	Loading     bool
	Heading     string
	Navigation  []string
	Controls    []string
	List        *ListState
	Form        *FormState
	Banner      *Banner
	Inspector   *InspectorState
}

// HasNav reports whether a navigation label is currently discoverable.
func (s SurfaceState) HasNav(label string) bool {
	for _, l := range s.Navigation {
		if l == label {
			return true
		}
	}
	return false
}

// HasControl reports whether a labeled action control is currently visible.
func (s SurfaceState) HasControl(label string) bool {
	for _, l := range s.Controls {
		if l == label {
			return true
		}
	}
	return false
}

// ValidationShown reports whether any field-level validation indicator is
// visible on the open form.
func (s SurfaceState) ValidationShown() bool {
	return s.Form != nil && len(s.Form.Validation) > 0
}
