package ports

import "github.com/ltsch/scimcheck/internal/domain"

// EnvironmentLoader loads environment variables from a source (e.g., filesystem).
type EnvironmentLoader interface {
	LoadEnvironment(nameOrPath string) (domain.Environment, error)
}

// EnvironmentRef is a lightweight reference to an environment file.
type EnvironmentRef struct {
	Name string
	Path string
}

// EnvironmentCatalog lists environments available in a workspace.
type EnvironmentCatalog interface {
	ListEnvironments(root string) ([]EnvironmentRef, error)
}
