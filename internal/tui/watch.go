// Package tui renders live suite progress while scenarios run against the
// client surface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
	"github.com/ltsch/scimcheck/internal/usecase"
)

// Deps carries everything the watch screen needs to execute a suite.
type Deps struct {
	Runner    *usecase.RunScenario
	Envs      ports.EnvironmentLoader
	Store     ports.ReportStore // optional
	SuiteName string
	Scenarios []domain.Scenario
	EnvArg    string
	Parallel  int
}

type scenarioStatus int

const (
	statusPending scenarioStatus = iota
	statusRunning
	statusPassed
	statusFailed
)

type watchModel struct {
	theme Theme
	spin  spinner.Model

	names  []string
	status map[string]scenarioStatus

	events <-chan tea.Msg
	done   bool
	out    suiteDoneMsg

	cancel context.CancelFunc
}

// RunWatch executes the suite while rendering live progress and returns the
// aggregated result, the saved report id and the execution error, exactly as
// the non-interactive path would.
func RunWatch(ctx context.Context, deps Deps) (domain.SuiteResult, string, error) {
	return runWatch(ctx, deps)
}

func runWatch(ctx context.Context, deps Deps, opts ...tea.ProgramOption) (domain.SuiteResult, string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered to full capacity: two events per scenario, so the progress
	// callback never blocks even after the screen stops reading.
	events := make(chan tea.Msg, len(deps.Scenarios)*2)

	uc := usecase.NewRunSuite(deps.Runner, deps.Envs, deps.Store,
		usecase.WithParallelism(deps.Parallel),
		usecase.WithEvents(func(ev usecase.SuiteEvent) {
			events <- progressMsg{ev: ev}
		}),
	)

	m := newWatchModel(deps, events, cancel)
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	// The done result travels outside the event channel. A killed program
	// leaves its last event reader blocked on the channel, and that leaked
	// reader would race the caller for an in-band done message.
	var out suiteDoneMsg
	finished := make(chan struct{})
	go func() {
		suite, id, err := uc.Execute(ctx, deps.SuiteName, deps.Scenarios, deps.EnvArg)
		out = suiteDoneMsg{suite: suite, id: id, err: err}
		close(events)
		close(finished)
		p.Send(out)
	}()

	final, err := p.Run()
	if wm, ok := final.(watchModel); ok && wm.done {
		return wm.out.suite, wm.out.id, wm.out.err
	}

	// The program exited before the done message arrived (cancel, bad
	// terminal). The suite goroutine still finishes; wait for its result so
	// callers always get the partial suite.
	<-finished
	if err != nil {
		return out.suite, out.id, err
	}
	return out.suite, out.id, out.err
}

func newWatchModel(deps Deps, events <-chan tea.Msg, cancel context.CancelFunc) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	names := make([]string, 0, len(deps.Scenarios))
	status := make(map[string]scenarioStatus, len(deps.Scenarios))
	for _, sc := range deps.Scenarios {
		names = append(names, sc.Name)
		status[sc.Name] = statusPending
	}

	return watchModel{
		theme:  DefaultTheme(),
		spin:   sp,
		names:  names,
		status: status,
		events: events,
		cancel: cancel,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.nextEvent())
}

func (m watchModel) nextEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancel()
			return m, nil
		}
		return m, nil

	case progressMsg:
		ev := msg.ev
		if ev.Done {
			st := statusPassed
			if ev.Result != nil && ev.Result.Failed() {
				st = statusFailed
			}
			m.status[ev.Scenario] = st
		} else {
			m.status[ev.Scenario] = statusRunning
		}
		return m, m.nextEvent()

	case suiteDoneMsg:
		m.done = true
		m.out = msg
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	done := 0
	for _, st := range m.status {
		if st == statusPassed || st == statusFailed {
			done++
		}
	}

	b.WriteString(m.theme.Title.Render("scimcheck"))
	b.WriteString(m.theme.Dim.Render(fmt.Sprintf("  %d/%d scenarios", done, len(m.names))))
	b.WriteString("\n\n")

	for _, name := range m.names {
		switch m.status[name] {
		case statusRunning:
			b.WriteString(fmt.Sprintf("%s %s\n", m.spin.View(), name))
		case statusPassed:
			b.WriteString(fmt.Sprintf("%s %s\n", m.theme.Pass.Render("✓"), name))
		case statusFailed:
			b.WriteString(fmt.Sprintf("%s %s\n", m.theme.Fail.Render("✗"), name))
		default:
			b.WriteString(m.theme.Dim.Render(fmt.Sprintf("· %s\n", name)))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("q/ctrl+c cancel"))
	return m.theme.Card.Render(b.String())
}
