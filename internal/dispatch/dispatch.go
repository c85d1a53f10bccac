// Package dispatch wraps the repository's run-e2e-tests.sh entry point. The
// e2e subcommand accepts a small mode vocabulary and maps it onto the
// script's own flags, so CI and developers share one invocation surface.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ScriptName is the runner script the dispatcher wraps. Its default location
// is next to the scimcheck executable, not the working directory.
const ScriptName = "run-e2e-tests.sh"

// DefaultScript resolves the script beside the running executable, falling
// back to the working directory when the executable path is unavailable.
func DefaultScript() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join(".", ScriptName)
	}
	return filepath.Join(filepath.Dir(exe), ScriptName)
}

// Mode selects which part of the e2e suite the script runs.
type Mode int

const (
	ModeAll Mode = iota
	ModeAPI
	ModeBrowser
	ModeSetup
	ModeHelp
)

// ErrUnknownMode wraps the diagnostic for an unrecognized argument.
var ErrUnknownMode = errors.New("unknown option")

// ExitError carries the script's exit code to the caller unchanged.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("script exited with code %d", e.Code)
}

// ParseMode maps the user-facing argument onto a mode. Both bare words and
// flag spellings are accepted.
func ParseMode(arg string) (Mode, error) {
	switch strings.TrimSpace(arg) {
	case "":
		return ModeAll, nil
	case "api", "--api":
		return ModeAPI, nil
	case "browser", "--browser":
		return ModeBrowser, nil
	case "setup", "--setup":
		return ModeSetup, nil
	case "help", "--help", "-h":
		return ModeHelp, nil
	default:
		return ModeAll, fmt.Errorf("%w: %s", ErrUnknownMode, arg)
	}
}

// scriptArgs maps a mode to the flags the script understands.
func scriptArgs(mode Mode) []string {
	switch mode {
	case ModeAPI:
		return []string{"--api-only"}
	case ModeBrowser:
		return []string{"--browser-only"}
	case ModeSetup:
		return []string{"--setup-only"}
	default:
		return nil
	}
}

// Usage is printed for ModeHelp and alongside unknown-option diagnostics.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: scimcheck e2e [mode]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modes:")
	fmt.Fprintln(w, "  (none)    run the full e2e suite")
	fmt.Fprintln(w, "  api       run API-level tests only")
	fmt.Fprintln(w, "  browser   run browser-driven tests only")
	fmt.Fprintln(w, "  setup     prepare fixtures and exit")
	fmt.Fprintln(w, "  help      show this message")
}

type Dispatcher struct {
	Script string
	Stdout io.Writer
	Stderr io.Writer
}

func New(script string) *Dispatcher {
	if script == "" {
		script = DefaultScript()
	}
	return &Dispatcher{
		Script: script,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run resolves the mode and executes the script with the mapped flags. Help
// prints usage without touching the script and deliberately wins over the
// missing-script check: asking for usage succeeds even when no script is
// installed. For every other mode a missing script fails before exec, with a
// clear diagnostic instead of a shell error.
func (d *Dispatcher) Run(ctx context.Context, arg string) error {
	mode, err := ParseMode(arg)
	if err != nil {
		fmt.Fprintf(d.Stderr, "Unknown option: %s\n\n", arg)
		Usage(d.Stderr)
		return err
	}

	if mode == ModeHelp {
		Usage(d.Stdout)
		return nil
	}

	if _, err := os.Stat(d.Script); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("e2e script not found at %s (install it next to the scimcheck binary or pass --script)", d.Script)
		}
		return fmt.Errorf("e2e script %s: %w", d.Script, err)
	}

	cmd := exec.CommandContext(ctx, d.Script, scriptArgs(mode)...)
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return &ExitError{Code: ee.ExitCode()}
		}
		return err
	}
	return nil
}
