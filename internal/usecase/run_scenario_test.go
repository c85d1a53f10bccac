package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ltsch/scimcheck/internal/catalog"
	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
)

// fakeSession simulates the client surface: configuration gating on a known
// api key, per-section list views with a short loading phase, creation forms
// with required-field validation, and an inspector panel.
type fakeSession struct {
	mu sync.Mutex

	validKey string
	closed   bool

	// silentCreate makes a successful submit land back on the list with no
	// banner, the way clients without toast notifications behave.
	silentCreate bool

	st          domain.SurfaceState
	pendingLoad int // State() calls that still report loading after a navigate
	kind        domain.ResourceKind
}

func newFakeSession(validKey string) *fakeSession {
	return &fakeSession{
		validKey: validKey,
		st:       domain.SurfaceState{Path: "/"},
	}
}

func (f *fakeSession) Configure(_ context.Context, cfg domain.ServerConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cfg.APIKey != f.validKey {
		f.st.Configured = false
		f.st.ConfigError = "invalid credentials"
		f.st.Banner = &domain.Banner{Kind: domain.BannerError, Message: "invalid credentials"}
		return nil
	}

	f.st.Configured = true
	f.st.ConfigError = ""
	f.st.Banner = nil
	f.st.Navigation = domain.NavLabels()
	return nil
}

func (f *fakeSession) Navigate(_ context.Context, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.st.Configured {
		return fmt.Errorf("not configured")
	}
	if !f.st.HasNav(label) {
		return fmt.Errorf("no navigation item %q", label)
	}

	f.st.Heading = label
	f.st.Form = nil
	f.st.Banner = nil
	f.st.List = nil
	f.st.Controls = nil
	f.st.Inspector = nil
	f.kind = ""
	f.pendingLoad = 2
	f.st.Loading = true

	if label == domain.NavServerConfig {
		f.st.Heading = domain.ServerConfigHeading
		f.pendingLoad = 0
		f.st.Loading = false
		return nil
	}

	for _, p := range domain.Profiles() {
		if p.NavLabel == label {
			f.kind = p.Kind
		}
	}
	return nil
}

func (f *fakeSession) State(_ context.Context) (domain.SurfaceState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.st.Loading {
		if f.pendingLoad > 0 {
			f.pendingLoad--
		}
		if f.pendingLoad == 0 {
			f.st.Loading = false
			if f.kind != "" {
				p, _ := domain.ProfileFor(f.kind)
				f.st.List = &domain.ListState{Count: 0, Empty: true}
				f.st.Controls = []string{p.CreateLabel}
				f.st.Inspector = &domain.InspectorState{
					Method:   "GET",
					URL:      "/scim/v2/" + p.NavLabel,
					Status:   200,
					Response: json.RawMessage(`{"totalResults":0,"Resources":[]}`),
				}
			}
		}
	}

	return cloneState(f.st), nil
}

func (f *fakeSession) OpenCreate(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.kind == "" {
		return fmt.Errorf("no creation trigger on this view")
	}
	p, _ := domain.ProfileFor(f.kind)
	f.st.Form = &domain.FormState{Title: p.CreateLabel, Fields: p.Required}
	return nil
}

func (f *fakeSession) SubmitCreate(_ context.Context, fields map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.st.Form == nil {
		return fmt.Errorf("no open form")
	}

	p, _ := domain.ProfileFor(f.kind)
	missing := map[string]string{}
	for _, req := range p.Required {
		if fields[req] == "" {
			missing[req] = "required"
		}
	}

	if len(missing) > 0 {
		// Validation errors never navigate away.
		f.st.Form.Validation = missing
		return nil
	}

	f.st.Form = nil
	f.st.List = &domain.ListState{Count: 1, Empty: false}

	if f.silentCreate {
		f.st.Banner = nil
		f.st.Inspector = &domain.InspectorState{
			Method:   "GET",
			URL:      "/scim/v2/" + p.NavLabel,
			Status:   200,
			Response: json.RawMessage(`{"totalResults":1,"Resources":[{"id":"2819c223"}]}`),
		}
		return nil
	}

	f.st.Banner = &domain.Banner{Kind: domain.BannerSuccess, Message: p.CreateLabel + " succeeded"}
	f.st.Inspector = &domain.InspectorState{
		Method:   "POST",
		URL:      "/scim/v2/" + p.NavLabel,
		Status:   201,
		Response: json.RawMessage(`{"id":"2819c223","meta":{"resourceType":"` + p.NavLabel + `"}}`),
	}
	return nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func cloneState(st domain.SurfaceState) domain.SurfaceState {
	out := st
	out.Navigation = append([]string(nil), st.Navigation...)
	out.Controls = append([]string(nil), st.Controls...)
	if st.List != nil {
		l := *st.List
		out.List = &l
	}
	if st.Form != nil {
		fm := *st.Form
		fm.Fields = append([]string(nil), st.Form.Fields...)
		fm.Validation = map[string]string{}
		for k, v := range st.Form.Validation {
			fm.Validation[k] = v
		}
		out.Form = &fm
	}
	if st.Banner != nil {
		b := *st.Banner
		out.Banner = &b
	}
	if st.Inspector != nil {
		ins := *st.Inspector
		out.Inspector = &ins
	}
	return out
}

type fakeSurface struct {
	mu           sync.Mutex
	validKey     string
	silentCreate bool
	sessions     []*fakeSession
}

func (f *fakeSurface) NewSession(_ context.Context, _ domain.Viewport) (ports.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := newFakeSession(f.validKey)
	s.silentCreate = f.silentCreate
	f.sessions = append(f.sessions, s)
	return s, nil
}

func testRunner(surface ports.Surface) *RunScenario {
	return NewRunScenario(surface, WithPollInterval(time.Millisecond))
}

func TestRunScenario_ListAndCreate(t *testing.T) {
	surface := &fakeSurface{validKey: "api-key-12345"}

	empty := true
	sc := domain.Scenario{
		Name:   "users-list-and-create",
		Config: domain.ServerConfig{Endpoint: "{{endpoint}}", APIKey: "{{api_key}}"},
		Steps: []domain.Step{
			{Navigate: "Users"},
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			{Assert: &domain.AssertStep{
				HeadingContains: "Users",
				CreateTrigger:   "Create User",
				ListEmpty:       &empty,
				InspectorShown:  true,
				LoadingHidden:   true,
			}},
			{Create: &domain.CreateStep{Kind: domain.KindUser, Fields: map[string]string{
				"userName":    "testuser-e2e",
				"displayName": "Test User E2E",
				"email":       "teste2e@example.com",
			}}},
			{Wait: &domain.WaitStep{For: domain.CondCreatedOrList}},
			{Extract: domain.ExtractStep{"user_id": "$.id"}},
		},
	}

	res, err := testRunner(surface).Execute(context.Background(), sc, domain.Vars{
		"endpoint": "http://localhost:7001/scim-identifier/test-hr-server/scim/v2",
		"api_key":  "api-key-12345",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Failed() {
		t.Fatalf("expected pass, got %+v (error=%+v)", res.Checks, res.Error)
	}
	if res.Extracted["user_id"] != "2819c223" {
		t.Fatalf("extracted user_id=%q", res.Extracted["user_id"])
	}
	if got := res.FinalState(); got != domain.StateCreated {
		t.Fatalf("final state=%s, want Created", got)
	}
	if len(surface.sessions) != 1 || !surface.sessions[0].closed {
		t.Fatalf("expected a single closed session")
	}
}

// A client that finishes a creation by returning to the list with no success
// banner is still compliant; the canonical scenarios must pass it even though
// the inspector then holds the list reload rather than the created resource.
func TestRunScenario_CatalogCreateWithoutSuccessBanner(t *testing.T) {
	surface := &fakeSurface{validKey: "api-key-12345", silentCreate: true}

	sc, ok := catalog.ByName("users-list-and-create")
	if !ok {
		t.Fatal("catalog scenario users-list-and-create missing")
	}

	res, err := testRunner(surface).Execute(context.Background(), sc, domain.Vars{
		"endpoint": "http://localhost:7001/scim-identifier/test-hr-server/scim/v2",
		"api_key":  "api-key-12345",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Failed() {
		t.Fatalf("expected pass, got checks=%+v extracts=%+v (error=%+v)",
			res.Checks, res.Extracts, res.Error)
	}
	if got := res.FinalState(); got != domain.StateCreated {
		t.Fatalf("final state=%s, want Created", got)
	}
}

func TestRunScenario_ValidationError(t *testing.T) {
	surface := &fakeSurface{validKey: "k"}

	sc := domain.Scenario{
		Name:   "users-missing-required",
		Config: domain.ServerConfig{Endpoint: "http://client.test", APIKey: "k"},
		Steps: []domain.Step{
			{Navigate: "Users"},
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			{Create: &domain.CreateStep{Kind: domain.KindUser, Fields: map[string]string{}}},
			{Wait: &domain.WaitStep{For: domain.CondValidationError}},
			{Assert: &domain.AssertStep{
				HeadingContains: "Users",
				NoSuccessBanner: true,
				ValidationFor:   []string{"userName", "displayName", "email"},
			}},
		},
	}

	res, err := testRunner(surface).Execute(context.Background(), sc, domain.Vars{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Failed() {
		t.Fatalf("expected pass, got %+v (error=%+v)", res.Checks, res.Error)
	}
	if got := res.FinalState(); got != domain.StateValidationError {
		t.Fatalf("final state=%s, want ValidationError", got)
	}
}

func TestRunScenario_InvalidCredentials(t *testing.T) {
	surface := &fakeSurface{validKey: "right"}

	sc := domain.Scenario{
		Name:              "invalid-credentials",
		Config:            domain.ServerConfig{Endpoint: "http://client.test", APIKey: "wrong"},
		ExpectConfigError: true,
	}

	res, err := testRunner(surface).Execute(context.Background(), sc, domain.Vars{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Failed() {
		t.Fatalf("expected pass, got %+v (error=%+v)", res.Checks, res.Error)
	}
	if got := res.FinalState(); got != domain.StateConfigError {
		t.Fatalf("final state=%s, want ConfigError", got)
	}
}

func TestRunScenario_WaitTimeoutIsFatal(t *testing.T) {
	surface := &fakeSurface{validKey: "k"}

	sc := domain.Scenario{
		Name:   "timeout",
		Config: domain.ServerConfig{Endpoint: "http://client.test", APIKey: "k"},
		Steps: []domain.Step{
			{Navigate: "Settings"},
			// Settings has no list view, so this wait can never be satisfied.
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty, Timeout: 50 * time.Millisecond}},
			{Assert: &domain.AssertStep{HeadingContains: "never evaluated"}},
		},
	}

	res, err := testRunner(surface).Execute(context.Background(), sc, domain.Vars{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Error == nil || res.Error.Kind != domain.RunErrorTimeout {
		t.Fatalf("expected timeout error, got %+v", res.Error)
	}
	// Steps after the timed-out wait must not run.
	for _, c := range res.Checks {
		if c.Name == "heading.contains" {
			t.Fatalf("assert step ran after fatal timeout")
		}
	}
}

func TestRunScenario_MissingVarFailsSetup(t *testing.T) {
	surface := &fakeSurface{validKey: "k"}

	sc := domain.Scenario{
		Name:   "missing-var",
		Config: domain.ServerConfig{Endpoint: "{{endpoint}}", APIKey: "{{api_key}}"},
	}

	_, err := testRunner(surface).Execute(context.Background(), sc, domain.Vars{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindMissingVar) {
		t.Fatalf("expected missing-variable kind, got %v", err)
	}
}

func TestRunScenario_ContextCanceled(t *testing.T) {
	surface := &fakeSurface{validKey: "k"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := domain.Scenario{
		Name:   "canceled",
		Config: domain.ServerConfig{Endpoint: "http://client.test", APIKey: "k"},
	}

	_, err := testRunner(surface).Execute(ctx, sc, domain.Vars{})
	if err == nil {
		t.Fatalf("expected context error")
	}
	if len(surface.sessions) != 0 {
		t.Fatalf("no session should be created after cancellation")
	}
}

func TestRunScenario_MobileViewportPropagated(t *testing.T) {
	surface := &fakeSurface{validKey: "k"}

	sc := domain.Scenario{
		Name:     "mobile",
		Viewport: domain.ViewportMobile,
		Config:   domain.ServerConfig{Endpoint: "http://client.test", APIKey: "k"},
		Steps: []domain.Step{
			{Navigate: "Users"},
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			{Assert: &domain.AssertStep{HeadingContains: "Users"}},
		},
	}

	res, err := testRunner(surface).Execute(context.Background(), sc, domain.Vars{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Failed() {
		t.Fatalf("mobile flow must not diverge from desktop: %+v", res.Checks)
	}
	if res.Viewport != domain.ViewportMobile {
		t.Fatalf("viewport=%+v", res.Viewport)
	}
}
