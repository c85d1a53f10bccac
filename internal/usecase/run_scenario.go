package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
	"github.com/ltsch/scimcheck/internal/usecase/check"
	"github.com/ltsch/scimcheck/internal/usecase/wait"
)

// RunScenario drives one scenario over a fresh, isolated session.
type RunScenario struct {
	surface  ports.Surface
	resolver *domain.VarResolver
	interval time.Duration
}

type RunScenarioOption func(*RunScenario)

// WithResolver overrides the variable resolver (useful for tests).
func WithResolver(vr *domain.VarResolver) RunScenarioOption {
	return func(r *RunScenario) { r.resolver = vr }
}

// WithPollInterval overrides the bounded-wait polling cadence.
func WithPollInterval(d time.Duration) RunScenarioOption {
	return func(r *RunScenario) { r.interval = d }
}

func NewRunScenario(surface ports.Surface, opts ...RunScenarioOption) *RunScenario {
	r := &RunScenario{
		surface:  surface,
		resolver: domain.NewVarResolver(),
		interval: wait.DefaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs the scenario against the surface. Assertion mismatches and
// bounded-wait timeouts are recorded in the result, not returned as an error;
// the error return is reserved for setup-level problems (unresolvable vars,
// session creation failure) and context cancellation.
func (r *RunScenario) Execute(ctx context.Context, sc domain.Scenario, vars domain.Vars) (domain.ScenarioResult, error) {
	res := domain.ScenarioResult{
		Name:        sc.Name,
		Description: sc.Description,
		Viewport:    sc.EffectiveViewport(),
		StartedAt:   time.Now(),
		Trace:       []domain.ScenarioState{domain.StateUnconfigured},
		Checks:      []domain.CheckResult{},
		Extracts:    []domain.ExtractResult{},
		Extracted:   domain.Vars{},
	}
	defer func() { res.EndedAt = time.Now() }()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	rt := r.resolver.NewRuntime(vars)

	cfg, err := rt.ResolveConfig(sc.Config)
	if err != nil {
		return res, err
	}

	session, err := r.surface.NewSession(ctx, sc.EffectiveViewport())
	if err != nil {
		return res, &domain.OpError{Op: "scenario.session", Kind: domain.KindSession, Err: err}
	}
	defer session.Close()

	run := &scenarioRun{
		runner:  r,
		session: session,
		rt:      rt,
		res:     &res,
	}

	if !run.configure(ctx, cfg, sc.ExpectConfigError) {
		return res, ctx.Err()
	}

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !run.step(ctx, i, step) {
			break
		}
	}

	return res, ctx.Err()
}

// scenarioRun carries the mutable state of one execution.
type scenarioRun struct {
	runner  *RunScenario
	session ports.Session
	rt      *domain.RuntimeResolver
	res     *domain.ScenarioResult
}

func (s *scenarioRun) push(state domain.ScenarioState) {
	s.res.Trace = append(s.res.Trace, state)
}

// fatal records a scenario-fatal error. Returns false so callers can
// `return s.fatal(...)`.
func (s *scenarioRun) fatal(kind domain.RunErrorKind, format string, args ...any) bool {
	s.res.Error = &domain.RunError{Kind: kind, Message: fmt.Sprintf(format, args...)}
	return false
}

// fatalErr records a scenario-fatal surface error, classified by cause.
func (s *scenarioRun) fatalErr(op string, err error) bool {
	re := domain.NewRunError(err)
	if re.Kind == domain.RunErrorUnknown {
		re.Kind = domain.RunErrorSurface
	}
	re.Message = op + ": " + re.Message
	s.res.Error = re
	return false
}

// configure submits the configuration payload and waits for either the
// post-configuration navigation indicator or, when expected, the error
// indicator. Returns false when the scenario cannot proceed.
func (s *scenarioRun) configure(ctx context.Context, cfg domain.ServerConfig, expectError bool) bool {
	s.push(domain.StateConfiguring)

	if err := s.session.Configure(ctx, cfg); err != nil {
		return s.fatalErr("submit configuration", err)
	}

	cond := domain.CondConfigured
	if expectError {
		cond = domain.CondConfigError
	}

	st, ok := s.waitFor(ctx, cond, cond.DefaultTimeout())
	if !ok {
		return false
	}
	s.push(stateAfter(cond, st))

	if expectError {
		// The contract: invalid credentials must never reach a configured,
		// navigated state.
		if st.Configured {
			s.res.Checks = append(s.res.Checks, domain.CheckResult{
				Name:    "config.error",
				Passed:  false,
				Message: "invalid credentials reached a configured state",
			})
			return false
		}
		s.res.Checks = append(s.res.Checks, domain.CheckResult{
			Name:    "config.error",
			Passed:  true,
			Message: fmt.Sprintf("configuration error surfaced: %s", configErrorText(st)),
		})
	}
	return true
}

// step executes one scenario step. Returns false when the scenario must stop.
func (s *scenarioRun) step(ctx context.Context, idx int, step domain.Step) bool {
	switch {
	case step.Navigate != "":
		s.push(domain.StateListing)
		if err := s.session.Navigate(ctx, step.Navigate); err != nil {
			return s.fatalErr(fmt.Sprintf("steps[%d] navigate %q", idx, step.Navigate), err)
		}
		return true

	case step.Wait != nil:
		timeout := step.Wait.Timeout
		if timeout <= 0 {
			timeout = step.Wait.For.DefaultTimeout()
		}
		if timeout > domain.MaxWaitTimeout {
			timeout = domain.MaxWaitTimeout
		}
		st, ok := s.waitFor(ctx, step.Wait.For, timeout)
		if !ok {
			return false
		}
		s.push(stateAfter(step.Wait.For, st))
		return true

	case step.Assert != nil:
		st, err := s.session.State(ctx)
		if err != nil {
			return s.fatalErr(fmt.Sprintf("steps[%d] observe state", idx), err)
		}
		s.res.Checks = append(s.res.Checks, check.Evaluate(*step.Assert, st)...)
		return true

	case step.Create != nil:
		return s.create(ctx, idx, *step.Create)

	case len(step.Extract) > 0:
		s.extract(ctx, step.Extract)
		return true
	}

	return s.fatal(domain.RunErrorUnknown, "steps[%d]: empty step", idx)
}

func (s *scenarioRun) create(ctx context.Context, idx int, cs domain.CreateStep) bool {
	fields, err := s.rt.ResolveFields(cs.Fields)
	if err != nil {
		return s.fatal(domain.RunErrorUnknown, "steps[%d] resolve fields: %v", idx, err)
	}

	s.push(domain.StateCreating)

	if err := s.session.OpenCreate(ctx); err != nil {
		return s.fatalErr(fmt.Sprintf("steps[%d] open creation form", idx), err)
	}
	if err := s.session.SubmitCreate(ctx, fields); err != nil {
		return s.fatalErr(fmt.Sprintf("steps[%d] submit creation form", idx), err)
	}
	return true
}

// extract pulls values from the inspector's response document into the
// runtime vars, so later steps can reference e.g. a created resource id.
func (s *scenarioRun) extract(ctx context.Context, rules domain.ExtractStep) {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names) // stable output for tests/UI

	st, err := s.session.State(ctx)
	if err != nil {
		for _, name := range names {
			s.res.Extracts = append(s.res.Extracts, domain.ExtractResult{
				Name:    name,
				Success: false,
				Message: fmt.Sprintf("extract %q: observe state: %v", name, err),
			})
		}
		return
	}

	var doc any
	if st.Inspector == nil || len(st.Inspector.Response) == 0 {
		for _, name := range names {
			s.res.Extracts = append(s.res.Extracts, domain.ExtractResult{
				Name:    name,
				Success: false,
				Message: fmt.Sprintf("extract %q: no inspector response captured", name),
			})
		}
		return
	}
	if err := json.Unmarshal(st.Inspector.Response, &doc); err != nil {
		for _, name := range names {
			s.res.Extracts = append(s.res.Extracts, domain.ExtractResult{
				Name:    name,
				Success: false,
				Message: fmt.Sprintf("extract %q: inspector response is not valid JSON", name),
			})
		}
		return
	}

	for _, name := range names {
		expr := strings.TrimSpace(rules[name])
		if expr == "" {
			s.res.Extracts = append(s.res.Extracts, domain.ExtractResult{
				Name:    name,
				Success: false,
				Message: fmt.Sprintf("extract %q: empty jsonpath expression", name),
			})
			continue
		}

		val, getErr := jsonpath.Get(expr, doc)
		if getErr != nil {
			s.res.Extracts = append(s.res.Extracts, domain.ExtractResult{
				Name:    name,
				Success: false,
				Message: fmt.Sprintf("extract %q (%s): jsonpath error: %v", name, expr, getErr),
			})
			continue
		}

		text, convErr := extractToString(val)
		if convErr != nil {
			s.res.Extracts = append(s.res.Extracts, domain.ExtractResult{
				Name:    name,
				Success: false,
				Message: fmt.Sprintf("extract %q (%s): %v", name, expr, convErr),
			})
			continue
		}

		s.rt.Put(name, text)
		s.res.Extracted = domain.Set(s.res.Extracted, name, text)
		s.res.Extracts = append(s.res.Extracts, domain.ExtractResult{
			Name:    name,
			Success: true,
			Message: fmt.Sprintf("extracted %q", name),
		})
	}
}

// waitFor polls the session state until the condition is observable or the
// bounded timeout expires. A timeout is scenario-fatal and not retried.
func (s *scenarioRun) waitFor(ctx context.Context, cond domain.Condition, timeout time.Duration) (domain.SurfaceState, bool) {
	var last domain.SurfaceState

	out := wait.Until(ctx, timeout, s.runner.interval, func(ctx context.Context) (bool, error) {
		st, err := s.session.State(ctx)
		if err != nil {
			return false, err
		}
		last = st
		return conditionHolds(cond, st), nil
	})

	switch out.Status {
	case wait.Satisfied:
		return last, true
	case wait.TimedOut:
		return last, s.fatal(domain.RunErrorTimeout, "wait %s: timed out after %s", cond, timeout)
	case wait.Canceled:
		return last, s.fatal(domain.RunErrorUnknown, "wait %s: %v", cond, out.Err)
	default:
		return last, s.fatalErr(fmt.Sprintf("wait %s", cond), out.Err)
	}
}

func configErrorText(st domain.SurfaceState) string {
	if st.ConfigError != "" {
		return st.ConfigError
	}
	if st.Banner != nil {
		return st.Banner.Message
	}
	return "(no message)"
}

func extractToString(v any) (string, error) {
	// Common case: jsonpath returns a slice with 1 element.
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return "", fmt.Errorf("empty array")
		}
		if len(arr) == 1 {
			return extractToString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64, bool, int, int64, uint64:
		return fmt.Sprint(t), nil
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case nil:
		return "", fmt.Errorf("no value found")
	default:
		return fmt.Sprint(t), nil
	}
}
