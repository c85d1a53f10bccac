// Package check evaluates assert steps against observed surface snapshots.
// Every helper is a pure function returning a CheckResult; nothing here
// touches the network.
package check

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ltsch/scimcheck/internal/domain"
)

// Evaluate applies an assert step to a snapshot and returns one CheckResult
// per configured check.
func Evaluate(step domain.AssertStep, st domain.SurfaceState) []domain.CheckResult {
	var out []domain.CheckResult

	if step.HeadingEquals != "" {
		out = append(out, HeadingEquals(step.HeadingEquals, st.Heading))
	}
	if step.HeadingContains != "" {
		out = append(out, HeadingContains(step.HeadingContains, st.Heading))
	}
	if len(step.NavExactly) > 0 {
		out = append(out, NavExactly(step.NavExactly, st.Navigation))
	}
	for _, label := range step.NavContains {
		out = append(out, NavContains(label, st))
	}
	if step.CreateTrigger != "" {
		out = append(out, CreateTrigger(step.CreateTrigger, st))
	}
	if step.ListEmpty != nil {
		out = append(out, ListEmpty(*step.ListEmpty, st))
	}
	if step.ListPopulated != nil {
		out = append(out, ListPopulated(*step.ListPopulated, st))
	}
	if step.InspectorShown {
		out = append(out, InspectorShown(st))
	}
	if step.ConfigPanel {
		out = append(out, ConfigPanel(st))
	}
	if step.LoadingHidden {
		out = append(out, LoadingHidden(st))
	}
	if step.NoSuccessBanner {
		out = append(out, NoSuccessBanner(st))
	}
	for _, field := range step.ValidationFor {
		out = append(out, ValidationFor(field, st))
	}
	if len(step.Inspector) > 0 {
		out = append(out, InspectorJSONPath(step.Inspector, st)...)
	}

	return out
}

func HeadingEquals(expected, got string) domain.CheckResult {
	if got == expected {
		return pass("heading.equals", fmt.Sprintf("heading is %q", got))
	}
	return fail("heading.equals", fmt.Sprintf("expected heading %q, got %q", expected, got))
}

func HeadingContains(sub, got string) domain.CheckResult {
	if strings.Contains(got, sub) {
		return pass("heading.contains", fmt.Sprintf("heading %q contains %q", got, sub))
	}
	return fail("heading.contains", fmt.Sprintf("heading %q does not contain %q", got, sub))
}

// NavExactly checks the discovered navigation labels against the expected set,
// order-insensitively.
func NavExactly(expected []string, got []string) domain.CheckResult {
	e := sortedCopy(expected)
	g := sortedCopy(got)

	if equalStrings(e, g) {
		return pass("nav.exactly", fmt.Sprintf("navigation is exactly %v", expected))
	}
	return fail("nav.exactly", fmt.Sprintf("expected navigation %v, got %v", expected, got))
}

func NavContains(label string, st domain.SurfaceState) domain.CheckResult {
	if st.HasNav(label) {
		return pass("nav.contains", fmt.Sprintf("navigation contains %q", label))
	}
	return fail("nav.contains", fmt.Sprintf("navigation %v does not contain %q", st.Navigation, label))
}

// CreateTrigger checks that the creation-trigger control of the current view
// carries the expected label. An already-open creation form with that title
// counts as well.
func CreateTrigger(label string, st domain.SurfaceState) domain.CheckResult {
	if st.HasControl(label) {
		return pass("create.trigger", fmt.Sprintf("creation trigger %q present", label))
	}
	if st.Form != nil && st.Form.Title == label {
		return pass("create.trigger", fmt.Sprintf("creation form %q is open", label))
	}
	return fail("create.trigger", fmt.Sprintf("creation trigger %q not found (controls: %v)", label, st.Controls))
}

func ListEmpty(want bool, st domain.SurfaceState) domain.CheckResult {
	if st.List == nil {
		return fail("list.empty", "no list indicator visible")
	}
	if st.List.Empty == want {
		return pass("list.empty", fmt.Sprintf("list empty=%t", st.List.Empty))
	}
	return fail("list.empty", fmt.Sprintf("expected list empty=%t, got empty=%t (count=%d)", want, st.List.Empty, st.List.Count))
}

func ListPopulated(want bool, st domain.SurfaceState) domain.CheckResult {
	if st.List == nil {
		return fail("list.populated", "no list indicator visible")
	}
	populated := !st.List.Empty && st.List.Count > 0
	if populated == want {
		return pass("list.populated", fmt.Sprintf("list populated=%t (count=%d)", populated, st.List.Count))
	}
	return fail("list.populated", fmt.Sprintf("expected list populated=%t, got count=%d", want, st.List.Count))
}

func InspectorShown(st domain.SurfaceState) domain.CheckResult {
	if st.Inspector != nil {
		return pass("inspector.shown", "request/response inspection panel present")
	}
	return fail("inspector.shown", "request/response inspection panel missing")
}

// ConfigPanel checks the server-configuration view surface: its heading and
// panel structure.
func ConfigPanel(st domain.SurfaceState) domain.CheckResult {
	if st.Heading != domain.ServerConfigHeading {
		return fail("config.panel", fmt.Sprintf("expected heading %q, got %q", domain.ServerConfigHeading, st.Heading))
	}
	return pass("config.panel", fmt.Sprintf("server configuration view with heading %q", st.Heading))
}

func LoadingHidden(st domain.SurfaceState) domain.CheckResult {
	if !st.Loading {
		return pass("loading.hidden", "loading indicator replaced by content")
	}
	return fail("loading.hidden", "loading indicator still visible")
}

// NoSuccessBanner guards the validation-error contract: a rejected submission
// must never surface a success indicator.
func NoSuccessBanner(st domain.SurfaceState) domain.CheckResult {
	if st.Banner != nil && st.Banner.Kind == domain.BannerSuccess {
		return fail("banner.no_success", fmt.Sprintf("unexpected success indicator: %q", st.Banner.Message))
	}
	return pass("banner.no_success", "no success indicator shown")
}

func ValidationFor(field string, st domain.SurfaceState) domain.CheckResult {
	if st.Form == nil {
		return fail("validation.field", fmt.Sprintf("field %q: no form open", field))
	}
	if msg, ok := st.Form.Validation[field]; ok && msg != "" {
		return pass("validation.field", fmt.Sprintf("field %q flagged: %s", field, msg))
	}
	return fail("validation.field", fmt.Sprintf("field %q: no validation indicator", field))
}

// InspectorJSONPath evaluates JSONPath checks over the inspector's captured
// response document.
func InspectorJSONPath(checks map[string]domain.JSONPathCheck, st domain.SurfaceState) []domain.CheckResult {
	exprs := make([]string, 0, len(checks))
	for expr := range checks {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs) // stable output for tests/UI

	if st.Inspector == nil || len(st.Inspector.Response) == 0 {
		out := make([]domain.CheckResult, 0, len(exprs))
		for _, expr := range exprs {
			out = append(out, fail("inspector.jsonpath", fmt.Sprintf("jsonpath %q: no inspector response captured", expr)))
		}
		return out
	}

	var doc any
	if err := json.Unmarshal(st.Inspector.Response, &doc); err != nil {
		out := make([]domain.CheckResult, 0, len(exprs))
		for _, expr := range exprs {
			out = append(out, fail("inspector.jsonpath", fmt.Sprintf("jsonpath %q: inspector response is not valid JSON", expr)))
		}
		return out
	}

	var out []domain.CheckResult
	for _, expr := range exprs {
		out = append(out, jsonPathChecks(expr, checks[expr], doc)...)
	}
	return out
}

func jsonPathChecks(expr string, c domain.JSONPathCheck, doc any) []domain.CheckResult {
	val, getErr := jsonpath.Get(expr, doc)

	var out []domain.CheckResult
	if c.Exists {
		out = append(out, checkExists(expr, val, getErr))
	}
	if c.Eq != nil {
		out = append(out, checkEq(expr, val, getErr, *c.Eq))
	}
	if c.Contains != nil {
		out = append(out, checkContains(expr, val, getErr, *c.Contains))
	}
	return out
}

func checkExists(expr string, val any, getErr error) domain.CheckResult {
	if getErr != nil {
		return fail("inspector.exists", fmt.Sprintf("jsonpath %q: %v", expr, getErr))
	}
	if isEmptyJSONValue(val) {
		return fail("inspector.exists", fmt.Sprintf("jsonpath %q: expected value to exist, got empty", expr))
	}
	return pass("inspector.exists", fmt.Sprintf("jsonpath %q exists", expr))
}

func checkEq(expr string, val any, getErr error, expected string) domain.CheckResult {
	if getErr != nil {
		return fail("inspector.eq", fmt.Sprintf("jsonpath %q: %v", expr, getErr))
	}
	s, err := jsonValueToString(val)
	if err != nil {
		return fail("inspector.eq", fmt.Sprintf("jsonpath %q: %v", expr, err))
	}
	if s == expected {
		return pass("inspector.eq", fmt.Sprintf("jsonpath %q eq %q", expr, expected))
	}
	return fail("inspector.eq", fmt.Sprintf("jsonpath %q: expected %q, got %q", expr, expected, s))
}

func checkContains(expr string, val any, getErr error, sub string) domain.CheckResult {
	if getErr != nil {
		return fail("inspector.contains", fmt.Sprintf("jsonpath %q: %v", expr, getErr))
	}
	s, err := jsonValueToString(val)
	if err != nil {
		return fail("inspector.contains", fmt.Sprintf("jsonpath %q: %v", expr, err))
	}
	if strings.Contains(s, sub) {
		return pass("inspector.contains", fmt.Sprintf("jsonpath %q contains %q", expr, sub))
	}
	return fail("inspector.contains", fmt.Sprintf("jsonpath %q: %q does not contain %q", expr, s, sub))
}

func jsonValueToString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("value is null")
	default:
		return fmt.Sprint(v), nil
	}
}

func isEmptyJSONValue(v any) bool {
	if v == nil {
		return true
	}

	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func pass(name, msg string) domain.CheckResult {
	return domain.CheckResult{Name: name, Passed: true, Message: msg}
}

func fail(name, msg string) domain.CheckResult {
	return domain.CheckResult{Name: name, Passed: false, Message: msg}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
