package ports

import "github.com/ltsch/scimcheck/internal/domain"

// ReportStore persists suite run artifacts.
type ReportStore interface {
	SaveSuite(artifact domain.SuiteArtifact) (string, error)
}
