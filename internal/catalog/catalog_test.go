package catalog

import (
	"testing"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/usecase"
)

var fixtureVars = domain.Vars{
	"endpoint": "http://localhost:7001/scim-identifier/test-hr-server/scim/v2",
	"api_key":  "api-key-12345",
}

func TestSuite_AllScenariosValidate(t *testing.T) {
	for _, sc := range Suite() {
		if err := usecase.ValidateScenario(sc, fixtureVars); err != nil {
			t.Fatalf("scenario %s does not validate: %v", sc.Name, err)
		}
	}
}

func TestSuite_NamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range Names() {
		if seen[name] {
			t.Fatalf("duplicate scenario name %q", name)
		}
		seen[name] = true
	}
}

func TestSuite_CoversEveryResourceKind(t *testing.T) {
	byKind := map[domain.ResourceKind]bool{}
	for _, sc := range Suite() {
		for _, step := range sc.Steps {
			if step.Create != nil {
				byKind[step.Create.Kind] = true
			}
		}
	}
	for _, p := range domain.Profiles() {
		if !byKind[p.Kind] {
			t.Fatalf("no create scenario for kind %s", p.Kind)
		}
	}
}

func TestSuite_CreateScenariosFillRequiredFields(t *testing.T) {
	for _, sc := range Suite() {
		if sc.Name == "user-missing-required-validation" {
			continue // deliberately incomplete
		}
		for _, step := range sc.Steps {
			if step.Create == nil {
				continue
			}
			p, ok := domain.ProfileFor(step.Create.Kind)
			if !ok {
				t.Fatalf("scenario %s: unknown kind %s", sc.Name, step.Create.Kind)
			}
			for _, f := range p.Required {
				if step.Create.Fields[f] == "" {
					t.Fatalf("scenario %s: required field %s is empty", sc.Name, f)
				}
			}
		}
	}
}

func TestSuite_InvalidCredentialsExpectsConfigError(t *testing.T) {
	sc, ok := ByName("config-invalid-credentials")
	if !ok {
		t.Fatalf("scenario missing")
	}
	if !sc.ExpectConfigError {
		t.Fatalf("expected ExpectConfigError")
	}
	if sc.Config.APIKey == "{{api_key}}" {
		t.Fatalf("invalid-credentials scenario must not use the valid key")
	}
}

func TestSuite_MobileScenarioUsesMobileViewport(t *testing.T) {
	sc, ok := ByName("mobile-viewport-navigation")
	if !ok {
		t.Fatalf("scenario missing")
	}
	if sc.EffectiveViewport() != domain.ViewportMobile {
		t.Fatalf("viewport=%+v", sc.Viewport)
	}
}

func TestByName_Unknown(t *testing.T) {
	if _, ok := ByName("no-such-scenario"); ok {
		t.Fatalf("expected miss")
	}
}

func TestSuite_ReturnsFreshCopies(t *testing.T) {
	a := Suite()
	a[0].Name = "mutated"
	b := Suite()
	if b[0].Name == "mutated" {
		t.Fatalf("Suite returns shared state")
	}
}
