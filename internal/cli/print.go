package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ltsch/scimcheck/internal/domain"
)

var (
	passMark = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✓")
	failMark = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	headStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

func printSuite(w io.Writer, suite domain.SuiteResult, reportID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"report_id": reportID,
			"suite":     suite,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettySuite(w, suite, reportID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettySuite(w io.Writer, suite domain.SuiteResult, reportID string) {
	total := suite.EndedAt.Sub(suite.StartedAt)
	if suite.StartedAt.IsZero() || suite.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "%s %s\n", headStyle.Render("Suite:"), suite.SuiteName)
	fmt.Fprintf(w, "%s %s\n", headStyle.Render("Env:  "), suite.EnvironmentName)
	if suite.ClientURL != "" {
		fmt.Fprintf(w, "%s %s\n", headStyle.Render("Client:"), suite.ClientURL)
	}
	fmt.Fprintf(w, "%s %s\n", headStyle.Render("Took: "), total.Round(time.Millisecond))
	if reportID != "" {
		fmt.Fprintf(w, "%s %s\n", headStyle.Render("Report:"), reportID)
	}
	fmt.Fprintln(w)

	for _, r := range suite.Scenarios {
		mark := passMark
		if r.Failed() {
			mark = failMark
		}
		fmt.Fprintf(w, "%s %s %s\n", mark, r.Name, faintStyle.Render(traceString(r)))

		if r.Error != nil {
			fmt.Fprintf(w, "    error: %s (%s)\n", r.Error.Message, r.Error.Kind)
		}

		for _, c := range r.Checks {
			if c.Passed {
				continue
			}
			fmt.Fprintf(w, "    %s %s: %s\n", failMark, c.Name, c.Message)
		}
		for _, e := range r.Extracts {
			if e.Success {
				continue
			}
			fmt.Fprintf(w, "    %s extract %s: %s\n", failMark, e.Name, e.Message)
		}

		if len(r.Extracted) > 0 {
			keys := make([]string, 0, len(r.Extracted))
			for k := range r.Extracted {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "    %s\n", faintStyle.Render(fmt.Sprintf("%s = %s", k, r.Extracted[k])))
			}
		}
	}

	fmt.Fprintln(w)
	fails := suite.Failures()
	if fails == 0 {
		fmt.Fprintf(w, "%s %d scenario(s) passed\n", passMark, len(suite.Scenarios))
	} else {
		fmt.Fprintf(w, "%s %d of %d scenario(s) failed\n", failMark, fails, len(suite.Scenarios))
	}
}

// traceString renders the traversed state machine path, e.g.
// "Configured → Listing → Populated".
func traceString(r domain.ScenarioResult) string {
	if len(r.Trace) == 0 {
		return string(domain.StateUnconfigured)
	}
	out := ""
	for i, st := range r.Trace {
		if i > 0 {
			out += " → "
		}
		out += string(st)
	}
	return out
}
