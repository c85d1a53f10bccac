package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ltsch/scimcheck/internal/domain"
)

type fakeEnvLoader struct {
	env domain.Environment
	err error
}

func (f fakeEnvLoader) LoadEnvironment(_ string) (domain.Environment, error) {
	return f.env, f.err
}

type fakeStore struct {
	mu    sync.Mutex
	saved bool
	last  domain.SuiteArtifact
}

func (s *fakeStore) SaveSuite(a domain.SuiteArtifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = true
	s.last = a
	return "suite-123", nil
}

func suiteScenarios() []domain.Scenario {
	out := make([]domain.Scenario, 0, 4)
	for _, p := range domain.Profiles() {
		out = append(out, domain.Scenario{
			Name:   string(p.Kind) + "-list",
			Config: domain.ServerConfig{Endpoint: "http://client.test", APIKey: "k"},
			Steps: []domain.Step{
				{Navigate: p.NavLabel},
				{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
				{Assert: &domain.AssertStep{HeadingContains: p.NavLabel, CreateTrigger: p.CreateLabel}},
			},
		})
	}
	return out
}

func TestRunSuite_ParallelIsolatedSessions(t *testing.T) {
	surface := &fakeSurface{validKey: "k"}
	store := &fakeStore{}
	envs := fakeEnvLoader{env: domain.Environment{
		Name: "local",
		Vars: domain.Vars{"client_url": "http://client.test"},
	}}

	var (
		evMu   sync.Mutex
		events []SuiteEvent
	)

	uc := NewRunSuite(testRunner(surface), envs, store,
		WithParallelism(4),
		WithEvents(func(ev SuiteEvent) {
			evMu.Lock()
			events = append(events, ev)
			evMu.Unlock()
		}),
	)

	scenarios := suiteScenarios()
	res, id, err := uc.Execute(context.Background(), "catalog", scenarios, "local")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Failures() != 0 {
		t.Fatalf("expected no failures, got %d: %+v", res.Failures(), res.Scenarios)
	}
	if id != "suite-123" || !store.saved {
		t.Fatalf("expected saved artifact, id=%q", id)
	}

	// Results keep input order regardless of completion order.
	for i, sc := range scenarios {
		if res.Scenarios[i].Name != sc.Name {
			t.Fatalf("result[%d]=%q, want %q", i, res.Scenarios[i].Name, sc.Name)
		}
	}

	// One isolated session per scenario.
	if len(surface.sessions) != len(scenarios) {
		t.Fatalf("sessions=%d, want %d", len(surface.sessions), len(scenarios))
	}
	for i, s := range surface.sessions {
		if !s.closed {
			t.Fatalf("session %d not closed", i)
		}
	}

	// Every scenario emits a start and a done event.
	evMu.Lock()
	defer evMu.Unlock()
	done := 0
	for _, ev := range events {
		if ev.Done {
			done++
			if ev.Result == nil {
				t.Fatalf("done event without result: %+v", ev)
			}
		}
	}
	if done != len(scenarios) {
		t.Fatalf("done events=%d, want %d", done, len(scenarios))
	}
}

func TestRunSuite_EnvLoadError(t *testing.T) {
	surface := &fakeSurface{validKey: "k"}
	wantErr := errors.New("no such environment")

	uc := NewRunSuite(testRunner(surface), fakeEnvLoader{err: wantErr}, nil)
	_, _, err := uc.Execute(context.Background(), "catalog", suiteScenarios(), "missing")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected env error, got %v", err)
	}
	if len(surface.sessions) != 0 {
		t.Fatalf("no sessions should be created")
	}
}

func TestRunSuite_ContextCanceled(t *testing.T) {
	surface := &fakeSurface{validKey: "k"}
	store := &fakeStore{}
	envs := fakeEnvLoader{env: domain.Environment{Name: "local", Vars: domain.Vars{}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewRunSuite(testRunner(surface), envs, store)
	_, _, err := uc.Execute(ctx, "catalog", suiteScenarios(), "local")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.saved {
		t.Fatalf("canceled run must not persist an artifact")
	}
}

func TestRunSuite_FailureAggregation(t *testing.T) {
	surface := &fakeSurface{validKey: "k"}
	envs := fakeEnvLoader{env: domain.Environment{Name: "local", Vars: domain.Vars{}}}

	scenarios := []domain.Scenario{
		{
			Name:   "ok",
			Config: domain.ServerConfig{Endpoint: "http://client.test", APIKey: "k"},
			Steps: []domain.Step{
				{Navigate: "Users"},
				{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			},
		},
		{
			Name:   "timeout",
			Config: domain.ServerConfig{Endpoint: "http://client.test", APIKey: "k"},
			Steps: []domain.Step{
				{Navigate: "Settings"},
				{Wait: &domain.WaitStep{For: domain.CondListOrEmpty, Timeout: 50 * time.Millisecond}},
			},
		},
	}

	uc := NewRunSuite(testRunner(surface), envs, nil, WithParallelism(2))
	res, _, err := uc.Execute(context.Background(), "mixed", scenarios, "local")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Failures() != 1 {
		t.Fatalf("failures=%d, want 1", res.Failures())
	}
}
