package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
)

// SuiteEvent reports progress of one scenario inside a suite run.
type SuiteEvent struct {
	Scenario string
	Index    int
	Total    int
	Done     bool
	Result   *domain.ScenarioResult // set when Done
}

// RunSuite executes a set of scenarios with bounded parallelism. Every
// scenario gets its own session, so ordering across scenarios does not
// matter and concurrent execution is safe.
type RunSuite struct {
	runner   *RunScenario
	envs     ports.EnvironmentLoader
	store    ports.ReportStore // optional
	parallel int
	onEvent  func(SuiteEvent)
}

type RunSuiteOption func(*RunSuite)

// WithParallelism bounds concurrent scenarios. Values below 1 mean sequential.
func WithParallelism(n int) RunSuiteOption {
	return func(s *RunSuite) { s.parallel = n }
}

// WithEvents registers a progress callback. It may be invoked from multiple
// goroutines; the callback must be safe for concurrent use.
func WithEvents(fn func(SuiteEvent)) RunSuiteOption {
	return func(s *RunSuite) { s.onEvent = fn }
}

func NewRunSuite(runner *RunScenario, envs ports.EnvironmentLoader, store ports.ReportStore, opts ...RunSuiteOption) *RunSuite {
	s := &RunSuite{
		runner:   runner,
		envs:     envs,
		store:    store,
		parallel: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs all scenarios and returns the aggregated result plus the saved
// artifact id (empty when no store is configured). Results keep the input
// scenario order regardless of completion order.
func (s *RunSuite) Execute(ctx context.Context, suiteName string, scenarios []domain.Scenario, envNameOrPath string) (domain.SuiteResult, string, error) {
	env, err := s.envs.LoadEnvironment(envNameOrPath)
	if err != nil {
		return domain.SuiteResult{}, "", err
	}

	res := domain.SuiteResult{
		SuiteName:       suiteName,
		EnvironmentName: env.Name,
		ClientURL:       env.Vars["client_url"],
		StartedAt:       time.Now(),
		Scenarios:       make([]domain.ScenarioResult, len(scenarios)),
	}

	if err := ctx.Err(); err != nil {
		res.EndedAt = time.Now()
		return res, "", err
	}

	limit := s.parallel
	if limit < 1 {
		limit = 1
	}

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, limit)
		mu  sync.Mutex
	)

	total := len(scenarios)
	for i, sc := range scenarios {
		s.emit(SuiteEvent{Scenario: sc.Name, Index: i, Total: total})

		wg.Add(1)
		go func(i int, sc domain.Scenario) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			// Each scenario is an isolated session with its own var runtime.
			r, runErr := s.runner.Execute(ctx, sc, env.Vars)
			if runErr != nil && r.Error == nil {
				r.Error = &domain.RunError{Kind: domain.RunErrorUnknown, Message: runErr.Error()}
			}

			mu.Lock()
			res.Scenarios[i] = r
			mu.Unlock()

			s.emit(SuiteEvent{Scenario: sc.Name, Index: i, Total: total, Done: true, Result: &r})
		}(i, sc)
	}

	wg.Wait()
	res.EndedAt = time.Now()

	if err := ctx.Err(); err != nil {
		return res, "", err
	}

	var id string
	if s.store != nil {
		id, err = s.store.SaveSuite(domain.SuiteArtifact{
			SuiteName:       res.SuiteName,
			EnvironmentName: res.EnvironmentName,
			ClientURL:       res.ClientURL,
			StartedAt:       res.StartedAt,
			FinishedAt:      res.EndedAt,
			Scenarios:       res.Scenarios,
		})
		if err != nil {
			return res, "", err
		}
	}

	return res, id, nil
}

func (s *RunSuite) emit(ev SuiteEvent) {
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}
