package check

import (
	"encoding/json"
	"testing"

	"github.com/ltsch/scimcheck/internal/domain"
)

func usersState() domain.SurfaceState {
	return domain.SurfaceState{
		Path:       "/users",
		Configured: true,
		Heading:    "Users",
		Navigation: []string{"Users", "Groups", "Entitlements", "Roles", "Server Config", "Settings"},
		Controls:   []string{"Create User"},
		List:       &domain.ListState{Count: 2, Empty: false},
		Inspector: &domain.InspectorState{
			Method:   "GET",
			URL:      "/scim/v2/Users",
			Status:   200,
			Response: json.RawMessage(`{"totalResults":2,"Resources":[{"id":"abc","userName":"alice"}]}`),
		},
	}
}

func TestHeadingChecks(t *testing.T) {
	st := usersState()

	if r := HeadingContains("Users", st.Heading); !r.Passed {
		t.Fatalf("HeadingContains failed: %s", r.Message)
	}
	if r := HeadingContains("Groups", st.Heading); r.Passed {
		t.Fatalf("HeadingContains should fail")
	}
	if r := HeadingEquals("Users", st.Heading); !r.Passed {
		t.Fatalf("HeadingEquals failed: %s", r.Message)
	}
}

func TestNavExactly(t *testing.T) {
	st := usersState()

	r := NavExactly(domain.NavLabels(), st.Navigation)
	if !r.Passed {
		t.Fatalf("NavExactly failed: %s", r.Message)
	}

	// Order must not matter.
	r = NavExactly([]string{"Settings", "Users", "Groups", "Roles", "Entitlements", "Server Config"}, st.Navigation)
	if !r.Passed {
		t.Fatalf("NavExactly should be order-insensitive: %s", r.Message)
	}

	r = NavExactly([]string{"Users", "Groups"}, st.Navigation)
	if r.Passed {
		t.Fatalf("NavExactly should fail on a subset")
	}
}

func TestCreateTrigger(t *testing.T) {
	st := usersState()

	if r := CreateTrigger("Create User", st); !r.Passed {
		t.Fatalf("CreateTrigger failed: %s", r.Message)
	}
	if r := CreateTrigger("Create Group", st); r.Passed {
		t.Fatalf("CreateTrigger should fail for absent control")
	}

	// An open form with the trigger's title also satisfies the check.
	form := st
	form.Controls = nil
	form.Form = &domain.FormState{Title: "Create User", Fields: []string{"userName"}}
	if r := CreateTrigger("Create User", form); !r.Passed {
		t.Fatalf("CreateTrigger via open form failed: %s", r.Message)
	}
}

func TestListChecks(t *testing.T) {
	st := usersState()

	wantEmpty := false
	if r := ListEmpty(wantEmpty, st); !r.Passed {
		t.Fatalf("ListEmpty failed: %s", r.Message)
	}

	wantPopulated := true
	if r := ListPopulated(wantPopulated, st); !r.Passed {
		t.Fatalf("ListPopulated failed: %s", r.Message)
	}

	noList := st
	noList.List = nil
	if r := ListEmpty(true, noList); r.Passed {
		t.Fatalf("ListEmpty should fail without a list indicator")
	}
}

func TestValidationFor(t *testing.T) {
	st := usersState()
	st.Form = &domain.FormState{
		Title:      "Create User",
		Fields:     []string{"userName", "displayName", "email"},
		Validation: map[string]string{"userName": "required"},
	}

	if r := ValidationFor("userName", st); !r.Passed {
		t.Fatalf("ValidationFor failed: %s", r.Message)
	}
	if r := ValidationFor("email", st); r.Passed {
		t.Fatalf("ValidationFor should fail for unflagged field")
	}

	st.Form = nil
	if r := ValidationFor("userName", st); r.Passed {
		t.Fatalf("ValidationFor should fail without an open form")
	}
}

func TestNoSuccessBanner(t *testing.T) {
	st := usersState()
	if r := NoSuccessBanner(st); !r.Passed {
		t.Fatalf("NoSuccessBanner failed: %s", r.Message)
	}

	st.Banner = &domain.Banner{Kind: domain.BannerSuccess, Message: "User created"}
	if r := NoSuccessBanner(st); r.Passed {
		t.Fatalf("NoSuccessBanner should fail when a success indicator is shown")
	}
}

func TestConfigPanel(t *testing.T) {
	st := usersState()
	st.Heading = domain.ServerConfigHeading
	if r := ConfigPanel(st); !r.Passed {
		t.Fatalf("ConfigPanel failed: %s", r.Message)
	}

	st.Heading = "Users"
	if r := ConfigPanel(st); r.Passed {
		t.Fatalf("ConfigPanel should fail on wrong heading")
	}
}

func TestInspectorJSONPath(t *testing.T) {
	st := usersState()

	eq := "2"
	contains := "alice"
	results := InspectorJSONPath(map[string]domain.JSONPathCheck{
		"$.totalResults":           {Exists: true, Eq: &eq},
		"$.Resources[0].userName":  {Contains: &contains},
		"$.Resources[0].undefined": {Exists: true},
	}, st)

	byName := map[string]int{}
	passed := 0
	for _, r := range results {
		byName[r.Name]++
		if r.Passed {
			passed++
		}
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	if passed != 3 {
		t.Fatalf("expected 3 passing checks, got %d: %+v", passed, results)
	}
}

func TestInspectorJSONPath_NoInspector(t *testing.T) {
	st := usersState()
	st.Inspector = nil

	results := InspectorJSONPath(map[string]domain.JSONPathCheck{
		"$.totalResults": {Exists: true},
	}, st)

	if len(results) != 1 || results[0].Passed {
		t.Fatalf("expected a single failing result, got %+v", results)
	}
}

func TestEvaluate(t *testing.T) {
	st := usersState()
	empty := false

	step := domain.AssertStep{
		HeadingContains: "Users",
		NavExactly:      domain.NavLabels(),
		CreateTrigger:   "Create User",
		ListEmpty:       &empty,
		InspectorShown:  true,
		LoadingHidden:   true,
	}

	results := Evaluate(step, st)
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %s failed: %s", r.Name, r.Message)
		}
	}
}
