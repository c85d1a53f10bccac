package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
	"github.com/ltsch/scimcheck/internal/usecase"
)

type stubEnvs struct{}

func (stubEnvs) LoadEnvironment(string) (domain.Environment, error) {
	return domain.Environment{Name: "local", Vars: domain.Vars{
		"endpoint": "http://localhost:7001/scim-identifier/test-hr-server/scim/v2",
		"api_key":  "api-key-12345",
	}}, nil
}

type stubSession struct{ st domain.SurfaceState }

func (s *stubSession) Configure(_ context.Context, _ domain.ServerConfig) error {
	s.st.Configured = true
	s.st.Navigation = domain.NavLabels()
	return nil
}

func (s *stubSession) Navigate(_ context.Context, label string) error {
	s.st.Heading = label
	return nil
}

func (s *stubSession) State(_ context.Context) (domain.SurfaceState, error) {
	return s.st, nil
}

func (s *stubSession) OpenCreate(context.Context) error { return nil }

func (s *stubSession) SubmitCreate(context.Context, map[string]string) error { return nil }

func (s *stubSession) Close() error { return nil }

type stubSurface struct{}

func (stubSurface) NewSession(context.Context, domain.Viewport) (ports.Session, error) {
	return &stubSession{}, nil
}

func TestWatchModel_TracksProgressAndQuitsOnDone(t *testing.T) {
	deps := Deps{Scenarios: []domain.Scenario{{Name: "a"}, {Name: "b"}}}
	events := make(chan tea.Msg, 4)
	m := newWatchModel(deps, events, func() {})

	next, _ := m.Update(progressMsg{ev: usecase.SuiteEvent{Scenario: "a"}})
	m = next.(watchModel)
	if m.status["a"] != statusRunning {
		t.Fatalf("status[a]=%v, want running", m.status["a"])
	}
	if m.status["b"] != statusPending {
		t.Fatalf("status[b]=%v, want pending", m.status["b"])
	}

	next, _ = m.Update(progressMsg{ev: usecase.SuiteEvent{
		Scenario: "a",
		Done:     true,
		Result:   &domain.ScenarioResult{Name: "a"},
	}})
	m = next.(watchModel)
	if m.status["a"] != statusPassed {
		t.Fatalf("status[a]=%v, want passed", m.status["a"])
	}

	failed := &domain.ScenarioResult{
		Name:  "b",
		Error: &domain.RunError{Kind: domain.RunErrorTimeout, Message: "wait timed out"},
	}
	next, _ = m.Update(progressMsg{ev: usecase.SuiteEvent{Scenario: "b", Done: true, Result: failed}})
	m = next.(watchModel)
	if m.status["b"] != statusFailed {
		t.Fatalf("status[b]=%v, want failed", m.status["b"])
	}

	next, cmd := m.Update(suiteDoneMsg{suite: domain.SuiteResult{SuiteName: "full"}, id: "r1"})
	m = next.(watchModel)
	if !m.done {
		t.Fatal("expected done after suiteDoneMsg")
	}
	if m.out.id != "r1" {
		t.Fatalf("out.id=%q", m.out.id)
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg, got %T", cmd())
	}
}

// A canceled watch must still hand the caller the suite goroutine's result
// instead of blocking on event plumbing the dead program no longer drains.
func TestRunWatch_ReturnsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	deps := Deps{
		Runner:    usecase.NewRunScenario(stubSurface{}),
		Envs:      stubEnvs{},
		SuiteName: "full",
		Scenarios: []domain.Scenario{{
			Name:   "configure-and-discover",
			Config: domain.ServerConfig{Endpoint: "{{endpoint}}", APIKey: "{{api_key}}"},
		}},
		EnvArg:   "local",
		Parallel: 1,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = runWatch(ctx, deps, tea.WithInput(nil), tea.WithoutRenderer())
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}
