// Package catalog carries the built-in contract suite: the canonical set of
// scenarios every SCIM client surface is expected to pass against the local
// fixture server. Workspace scenario files extend this set; the catalog is
// always available, even in a bare workspace.
package catalog

import (
	"fmt"
	"sort"

	"github.com/ltsch/scimcheck/internal/domain"
)

const SuiteName = "canonical"

var configPlaceholders = domain.ServerConfig{
	Endpoint: "{{endpoint}}",
	APIKey:   "{{api_key}}",
}

// Suite returns the canonical scenarios in execution order. The returned
// slice is a fresh copy on every call.
func Suite() []domain.Scenario {
	scenarios := []domain.Scenario{
		configureAndDiscover(),
		invalidCredentials(),
		navigateAllSections(),
		serverConfigPanel(),
		loadingResolves(),
		repeatNavigationStable(),
		mobileNavigation(),
	}
	for _, p := range domain.Profiles() {
		scenarios = append(scenarios, listAndCreate(p))
	}
	scenarios = append(scenarios, missingRequiredValidation())
	return scenarios
}

// Names lists scenario names in the order Suite returns them.
func Names() []string {
	s := Suite()
	out := make([]string, len(s))
	for i, sc := range s {
		out[i] = sc.Name
	}
	return out
}

// ByName returns a catalog scenario, or false when the name is unknown.
func ByName(name string) (domain.Scenario, bool) {
	for _, sc := range Suite() {
		if sc.Name == name {
			return sc, true
		}
	}
	return domain.Scenario{}, false
}

// SortedNames is Names in lexical order, for listings.
func SortedNames() []string {
	out := Names()
	sort.Strings(out)
	return out
}

func configureAndDiscover() domain.Scenario {
	return domain.Scenario{
		Name:        "configure-and-discover",
		Description: "Submitting valid server settings reveals the full navigation set.",
		Config:      configPlaceholders,
		Steps: []domain.Step{
			{Assert: &domain.AssertStep{NavExactly: domain.NavLabels()}},
		},
	}
}

func invalidCredentials() domain.Scenario {
	return domain.Scenario{
		Name:        "config-invalid-credentials",
		Description: "A rejected API key shows a distinguishable error and never unlocks navigation.",
		Config: domain.ServerConfig{
			Endpoint: "{{endpoint}}",
			APIKey:   "{{api_key}}-invalid",
		},
		ExpectConfigError: true,
	}
}

func navigateAllSections() domain.Scenario {
	steps := []domain.Step{}
	for _, p := range domain.Profiles() {
		steps = append(steps,
			domain.Step{Navigate: p.NavLabel},
			domain.Step{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			domain.Step{Assert: &domain.AssertStep{HeadingContains: p.NavLabel}},
		)
	}
	steps = append(steps,
		domain.Step{Navigate: domain.NavSettings},
		domain.Step{Wait: &domain.WaitStep{For: domain.CondLoadingGone}},
		domain.Step{Assert: &domain.AssertStep{HeadingContains: domain.NavSettings}},
	)
	return domain.Scenario{
		Name:        "navigate-all-sections",
		Description: "Every navigation entry opens its own section with a matching heading.",
		Config:      configPlaceholders,
		Steps:       steps,
	}
}

func serverConfigPanel() domain.Scenario {
	return domain.Scenario{
		Name:        "server-config-panel",
		Description: "The server configuration section shows the expected panel heading.",
		Config:      configPlaceholders,
		Steps: []domain.Step{
			{Navigate: domain.NavServerConfig},
			{Wait: &domain.WaitStep{For: domain.CondLoadingGone}},
			{Assert: &domain.AssertStep{ConfigPanel: true}},
		},
	}
}

func loadingResolves() domain.Scenario {
	return domain.Scenario{
		Name:        "loading-indicator-resolves",
		Description: "The loading indicator on a list view gives way to content within its bound.",
		Config:      configPlaceholders,
		Steps: []domain.Step{
			{Navigate: "Users"},
			{Wait: &domain.WaitStep{For: domain.CondLoadingGone}},
			{Assert: &domain.AssertStep{LoadingHidden: true, InspectorShown: true}},
		},
	}
}

func repeatNavigationStable() domain.Scenario {
	return domain.Scenario{
		Name:        "repeat-navigation-stable",
		Description: "Re-opening a section after visiting another renders the same view again.",
		Config:      configPlaceholders,
		Steps: []domain.Step{
			{Navigate: "Users"},
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			{Navigate: "Groups"},
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			{Navigate: "Users"},
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			{Assert: &domain.AssertStep{HeadingEquals: "Users", CreateTrigger: "Create User"}},
		},
	}
}

func mobileNavigation() domain.Scenario {
	return domain.Scenario{
		Name:        "mobile-viewport-navigation",
		Description: "The same contract holds on a phone-sized viewport.",
		Viewport:    domain.ViewportMobile,
		Config:      configPlaceholders,
		Steps: []domain.Step{
			{Assert: &domain.AssertStep{NavExactly: domain.NavLabels()}},
			{Navigate: "Users"},
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			{Assert: &domain.AssertStep{HeadingEquals: "Users"}},
		},
	}
}

func listAndCreate(p domain.ResourceProfile) domain.Scenario {
	return domain.Scenario{
		Name: fmt.Sprintf("%ss-list-and-create", p.Kind),
		Description: fmt.Sprintf(
			"The %s list resolves to rows or an empty state, and %q creates a new entry.",
			p.NavLabel, p.CreateLabel),
		Config: configPlaceholders,
		Steps: []domain.Step{
			{Navigate: p.NavLabel},
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			{Assert: &domain.AssertStep{
				HeadingEquals:  p.NavLabel,
				CreateTrigger:  p.CreateLabel,
				InspectorShown: true,
			}},
			{Create: &domain.CreateStep{Kind: p.Kind, Fields: createFields(p)}},
			// A compliant client may land back on the list with no success
			// banner, leaving the list reload in the inspector. Extracting
			// the new id here would fail such a client, so the canonical
			// scenarios stop at the outcome wait; id extraction stays a
			// workspace-scenario concern.
			{Wait: &domain.WaitStep{For: domain.CondCreatedOrList}},
		},
	}
}

// createFields fills every required field of a profile with fixture-safe
// values. Timestamps keep repeat runs from colliding on unique fields.
func createFields(p domain.ResourceProfile) map[string]string {
	fields := make(map[string]string, len(p.Required))
	for _, f := range p.Required {
		switch f {
		case "userName":
			fields[f] = "testuser-{{$timestamp}}"
		case "displayName":
			fields[f] = fmt.Sprintf("Contract Check %s {{$timestamp}}", p.Kind)
		case "email":
			fields[f] = "testuser-{{$timestamp}}@example.com"
		case "description":
			fields[f] = fmt.Sprintf("Created by the %s contract scenario", p.Kind)
		case "type":
			if p.TypeField == domain.TypeFieldEnumerated {
				fields[f] = "License"
			} else {
				fields[f] = "Administrator"
			}
		default:
			fields[f] = "{{$uuid}}"
		}
	}
	return fields
}

func missingRequiredValidation() domain.Scenario {
	return domain.Scenario{
		Name:        "user-missing-required-validation",
		Description: "Submitting the user form without required fields surfaces validation and no success.",
		Config:      configPlaceholders,
		Steps: []domain.Step{
			{Navigate: "Users"},
			{Wait: &domain.WaitStep{For: domain.CondListOrEmpty}},
			{Create: &domain.CreateStep{
				Kind:   domain.KindUser,
				Fields: map[string]string{"displayName": "No Username"},
			}},
			{Wait: &domain.WaitStep{For: domain.CondValidationError}},
			{Assert: &domain.AssertStep{
				ValidationFor:   []string{"userName", "email"},
				NoSuccessBanner: true,
			}},
		},
	}
}
