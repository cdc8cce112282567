package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"deal-notifier-go/pkg/cli/deals"
	"deal-notifier-go/pkg/cli/logger"
	"deal-notifier-go/pkg/cli/tui/runmonitor"
	"deal-notifier-go/pkg/monitor"
	"deal-notifier-go/pkg/services"
	"deal-notifier-go/pkg/stream"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// RunOpener opens the event stream of a new run
type RunOpener func(ctx context.Context, force bool) monitor.Source

// MonitorOptions configures a run monitor
type MonitorOptions struct {
	Force        bool
	WatchTimeout time.Duration // 0 = no watchdog
	NoColor      bool
}

// monitorModel drives one run at a time through a monitor.Machine and shows
// its console, counters and deals.
type monitorModel struct {
	open    RunOpener
	history *services.HistoryService
	machine *monitor.Machine
	opts    MonitorOptions

	run  runmonitor.RunState
	snap monitor.Snapshot
	step int

	console     viewport.Model
	browser     dealBrowser
	showDetails bool

	archiveNote string
	archiveErr  error

	clock        func() time.Time
	lastActivity time.Time // last event of the current run, for the watchdog

	now    time.Time
	width  int
	height int
}

// NewMonitorModel creates the run monitor flow. history may be nil when
// run archiving is disabled.
func NewMonitorModel(open RunOpener, history *services.HistoryService, opts MonitorOptions) tea.Model {
	model := newMonitorModel(open, history, opts)

	title := "Deal Run"
	if opts.Force {
		title = "Deal Run (forced)"
	}
	return NewViewportWrapper(model, ViewportConfig{
		Title:       title,
		ShowHeader:  true,
		ShowFooter:  true,
		UseViewport: false, // the console pane scrolls on its own
		EnableHelp:  true,
		EnableMenu:  true,
		HelpContent: MonitorHelpContent,
		MinWidth:    60,
		MinHeight:   16,
	})
}

func newMonitorModel(open RunOpener, history *services.HistoryService, opts MonitorOptions) *monitorModel {
	m := &monitorModel{
		open:    open,
		history: history,
		machine: monitor.NewMachine(),
		opts:    opts,
		step:    runmonitor.StepConsole,
		console: viewport.New(runmonitor.DefaultWidth-4, 10),
		browser: newDealBrowser(opts.NoColor),
		clock:   time.Now,
		now:     time.Now(),
		width:   runmonitor.DefaultWidth,
		height:  runmonitor.DefaultHeight,
	}
	m.machine.Subscribe(m.onSnapshot)
	m.snap = m.machine.Snapshot()
	return m
}

func (m *monitorModel) Init() tea.Cmd {
	return tea.Batch(m.startRun(), tick())
}

// onSnapshot receives every state change of the machine
func (m *monitorModel) onSnapshot(s monitor.Snapshot) {
	follow := m.console.AtBottom() || len(m.snap.Log) == 0 || s.RunID != m.snap.RunID
	m.snap = s
	m.console.SetContent(renderLogLines(s.Log))
	if follow {
		m.console.GotoBottom()
	}
	m.browser.SetItems(s.Items)
}

// startRun opens a new stream and hands it to the machine, which closes the
// previous run's stream. Messages still in flight for the previous run carry
// its ID and are rejected.
func (m *monitorModel) startRun() tea.Cmd {
	m.run.Release()

	ctx, cancel := context.WithCancel(context.Background())
	src := m.open(ctx, m.opts.Force)
	id := m.machine.Start(src)
	m.run = runmonitor.RunState{ID: id, Source: src, Ctx: ctx, Cancel: cancel, Force: m.opts.Force}
	m.lastActivity = m.clock()
	m.archiveNote = ""
	m.archiveErr = nil
	m.showDetails = false
	logger.Log("run %s started (force=%v)", id, m.opts.Force)

	cmds := []tea.Cmd{waitForEvent(id, src)}
	if m.opts.WatchTimeout > 0 {
		cmds = append(cmds, watchdog(id, m.opts.WatchTimeout))
	}
	return tea.Batch(cmds...)
}

// stopRun abandons the current run
func (m *monitorModel) stopRun(reason string) {
	if m.machine.Stop() {
		logger.Log("run %s stopped: %s", m.run.ID, reason)
	}
	m.run.Release()
}

// Close stops the run when the flow is left
func (m *monitorModel) Close() {
	m.stopRun("monitor closed")
}

// CapturingInput reports whether keys should go to the search box
func (m *monitorModel) CapturingInput() bool {
	return m.step == runmonitor.StepDeals && m.browser.Searching()
}

// finishRun releases the finished run and archives it when history is on
func (m *monitorModel) finishRun() tea.Cmd {
	snap := m.machine.Snapshot()
	m.run.Release()
	logger.Log("run %s finished: phase=%s outcome=%q progress=%s deals=%d",
		snap.RunID, snap.Phase, snap.Outcome, snap.Progress(), len(snap.Items))

	if m.history == nil {
		return nil
	}
	history := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		recorded, err := history.Record(ctx, snap)
		return runmonitor.ArchivedMsg{RunID: snap.RunID, Recorded: recorded, Err: err}
	}
}

// waitForEvent blocks until the next event of run id, or the end of its stream
func waitForEvent(id uuid.UUID, src monitor.Source) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-src.Events()
		if !ok {
			return runmonitor.ClosedMsg{RunID: id, Err: src.Err()}
		}
		return runmonitor.EventMsg{RunID: id, Event: ev}
	}
}

func watchdog(id uuid.UUID, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return runmonitor.WatchdogMsg{RunID: id}
	})
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return runmonitor.TickMsg(t)
	})
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width == 0 {
			m.width = runmonitor.DefaultWidth
		}
		m.layout()
		return m, nil

	case runmonitor.EventMsg:
		applied := m.machine.Apply(msg.RunID, msg.Event)
		if msg.RunID != m.machine.RunID() {
			logger.Log("dropped %s event of stale run %s", msg.Event.Kind, msg.RunID)
			return m, nil
		}
		if applied {
			m.lastActivity = m.clock()
		}
		if m.machine.Phase() == monitor.PhaseRunning {
			return m, waitForEvent(msg.RunID, m.run.Source)
		}
		if applied && m.machine.Phase().Terminal() {
			return m, m.finishRun()
		}
		return m, nil

	case runmonitor.ClosedMsg:
		if msg.RunID != m.machine.RunID() {
			return m, nil
		}
		err := msg.Err
		if err == nil && m.machine.Phase() == monitor.PhaseRunning {
			err = monitor.ErrStreamClosed
		}
		if err != nil && m.machine.Fail(msg.RunID, err) {
			logger.LogError(err, "run %s lost its stream", msg.RunID)
			return m, m.finishRun()
		}
		return m, nil

	case runmonitor.WatchdogMsg:
		if msg.RunID != m.machine.RunID() || m.machine.Phase() != monitor.PhaseRunning {
			return m, nil
		}
		timeout := m.opts.WatchTimeout
		if quiet := m.clock().Sub(m.lastActivity); quiet < timeout {
			return m, watchdog(msg.RunID, timeout-quiet)
		}
		cause := stream.NewInactivityError(timeout)
		if m.machine.Fail(msg.RunID, cause) {
			logger.LogError(cause, "run %s timed out", msg.RunID)
			return m, m.finishRun()
		}
		return m, nil

	case runmonitor.ArchivedMsg:
		if msg.RunID != m.machine.RunID() {
			return m, nil
		}
		switch {
		case msg.Err != nil:
			logger.LogError(msg.Err, "archiving run %s", msg.RunID)
			m.archiveErr = msg.Err
		case msg.Recorded:
			m.archiveNote = "Run saved to history."
		}
		return m, nil

	case runmonitor.TickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m *monitorModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.CapturingInput() {
		cmd, _ := m.browser.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "tab":
		if m.step == runmonitor.StepConsole {
			m.step = runmonitor.StepDeals
		} else {
			m.step = runmonitor.StepConsole
		}
		m.showDetails = false
		return m, nil
	case "s", "x":
		m.stopRun("stopped by user")
		return m, nil
	case "r":
		return m, m.startRun()
	}

	switch m.step {
	case runmonitor.StepConsole:
		var cmd tea.Cmd
		m.console, cmd = m.console.Update(msg)
		return m, cmd
	case runmonitor.StepDeals:
		switch msg.String() {
		case "enter":
			m.showDetails = !m.showDetails
			return m, nil
		case "esc", "b":
			if m.showDetails {
				m.showDetails = false
			} else {
				m.step = runmonitor.StepConsole
			}
			return m, nil
		}
		cmd, _ := m.browser.Update(msg)
		return m, cmd
	}
	return m, nil
}

// layout sizes the console and the deal table to the window
func (m *monitorModel) layout() {
	bodyHeight := m.height - 12
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.console.Width = m.width - 4
	m.console.Height = bodyHeight
	m.browser.SetSize(m.width-2, bodyHeight-2)
}

func (m *monitorModel) View() string {
	var b strings.Builder

	b.WriteString(renderPhase(m.snap))
	if m.run.Force {
		b.WriteString("  " + warningStyle.Render("[force]"))
	}
	b.WriteString("\n")

	b.WriteString(fieldLabelStyle.Render("Processed:"))
	b.WriteString(m.snap.Progress())
	b.WriteString("   ")
	b.WriteString(fieldLabelStyle.Render("Deals:"))
	b.WriteString(fmt.Sprintf("%d", len(m.snap.Items)))
	b.WriteString("   ")
	b.WriteString(fieldLabelStyle.Render("Elapsed:"))
	b.WriteString(deals.FormatDuration(m.snap.Elapsed(m.now)))
	if m.snap.RunID != uuid.Nil {
		b.WriteString("   ")
		b.WriteString(runIDStyle.Render(deals.ShortenID(m.snap.RunID)))
	}
	b.WriteString("\n")

	switch {
	case m.snap.Notice == "":
	case m.snap.Phase == monitor.PhaseFailed:
		b.WriteString(renderError(strings.TrimSpace(wrapText(m.snap.Notice, m.width-4, ""))))
		b.WriteString("\n")
	case m.snap.Phase == monitor.PhaseIdle:
		b.WriteString(renderWarning(m.snap.Notice))
		b.WriteString("\n")
	}
	if m.archiveErr != nil {
		b.WriteString(renderInlineError(fmt.Errorf("run not saved to history: %w", m.archiveErr)))
		b.WriteString("\n")
	} else if m.archiveNote != "" {
		b.WriteString(mutedStyle.Render(m.archiveNote))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.step {
	case runmonitor.StepConsole:
		b.WriteString(consoleStyle.Render(m.console.View()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("(↑/↓ scroll, Tab deals, s stop, r new run)") + "\n")
	case runmonitor.StepDeals:
		if item, ok := m.browser.Selected(); ok && m.showDetails {
			b.WriteString(renderDealDetails(item))
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("(Enter/Esc back to list)") + "\n")
			break
		}
		b.WriteString(m.browser.View())
		b.WriteString(helpStyle.Render("(/ search, o sort, c clear, Enter details, Tab console)") + "\n")
	}

	return b.String()
}

func (m *monitorModel) renderTabs() string {
	console := "Console"
	dealsTab := fmt.Sprintf("Deals (%d)", len(m.snap.Items))
	if m.step == runmonitor.StepConsole {
		return selectedStyle.Render("["+console+"]") + "  " + mutedStyle.Render(dealsTab)
	}
	return mutedStyle.Render(console) + "  " + selectedStyle.Render("["+dealsTab+"]")
}
