package domain

import "time"

// RunErrorKind is a high-level classification of runtime failures.
type RunErrorKind string

const (
	RunErrorUnknown RunErrorKind = "unknown"
	RunErrorTimeout RunErrorKind = "timeout"
	RunErrorDNS     RunErrorKind = "dns"
	RunErrorConn    RunErrorKind = "connection"
	RunErrorHTTP    RunErrorKind = "http"
	RunErrorSurface RunErrorKind = "surface"
)

// RunError represents a structured failure produced while driving the surface.
// A timeout kind means a bounded wait expired; it is scenario-fatal and is
// never retried.
type RunError struct {
	Kind    RunErrorKind
	Message string
}

// CheckResult is the outcome of a single observable-state check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// ExtractResult reports one inspector-extraction rule.
type ExtractResult struct {
	Name    string
	Success bool
	Message string
}

// ScenarioResult records one scenario run: the state trace it traversed, the
// checks it evaluated and any fatal error.
type ScenarioResult struct {
	Name        string
	Description string
	Viewport    Viewport

	StartedAt time.Time
	EndedAt   time.Time

	// Trace is the sequence of scenario states actually traversed.
	Trace []ScenarioState

	Checks    []CheckResult
	Extracts  []ExtractResult
	Extracted Vars

	Error *RunError
}

// Failed reports whether the scenario missed its contract.
func (r ScenarioResult) Failed() bool {
	if r.Error != nil {
		return true
	}
	for _, c := range r.Checks {
		if !c.Passed {
			return true
		}
	}
	for _, e := range r.Extracts {
		if !e.Success {
			return true
		}
	}
	return false
}

// FinalState returns the last traversed state, or StateUnconfigured for an
// empty trace.
func (r ScenarioResult) FinalState() ScenarioState {
	if len(r.Trace) == 0 {
		return StateUnconfigured
	}
	return r.Trace[len(r.Trace)-1]
}

// SuiteResult aggregates one execution of a scenario set.
type SuiteResult struct {
	SuiteName       string
	EnvironmentName string
	ClientURL       string

	StartedAt time.Time
	EndedAt   time.Time

	Scenarios []ScenarioResult
}

// Failures counts failed scenarios.
func (s SuiteResult) Failures() int {
	n := 0
	for _, r := range s.Scenarios {
		if r.Failed() {
			n++
		}
	}
	return n
}

// SuiteArtifact is a persisted suite run for reproducibility.
type SuiteArtifact struct {
	ID string

	SuiteName       string
	EnvironmentName string
	ClientURL       string

	StartedAt  time.Time
	FinishedAt time.Time

	Scenarios []ScenarioResult
}
