package tui

import (
	"strings"
	"time"

	"deal-notifier-go/pkg/cli/logger"
	"deal-notifier-go/pkg/services"

	tea "github.com/charmbracelet/bubbletea"
)

// MenuNavigationMsg asks the root model to close the active flow and show
// the menu again
type MenuNavigationMsg struct{}

// Deps are the dependencies shared by the flows
type Deps struct {
	OpenRun      RunOpener
	Settings     *services.SettingsService
	History      *services.HistoryService // nil when history is disabled
	WatchTimeout time.Duration
	Timeout      time.Duration
	HistoryLimit int
	NoColor      bool
}

// rootModel is the Bubble Tea model that acts as an app shell for multiple flows.
// It presents a simple menu and then hands control to a specific flow model.
type rootModel struct {
	deps Deps

	// Current active flow (when nil, we are in the main menu)
	current tea.Model
}

// NewRootModel constructs the root app-shell model that can launch multiple flows.
func NewRootModel(deps Deps) tea.Model {
	return &rootModel{deps: deps}
}

// IsDelegating reports whether a flow is active
func (m *rootModel) IsDelegating() bool {
	return m.current != nil
}

func (m *rootModel) Init() tea.Cmd {
	return nil
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(MenuNavigationMsg); ok {
		if c, ok := m.current.(closer); ok {
			c.Close()
		}
		m.current = nil
		logger.Log("returned to main menu")
		return m, nil
	}

	// If we have an active flow, delegate all messages to it.
	if m.current != nil {
		var cmd tea.Cmd
		m.current, cmd = m.current.Update(msg)
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "1":
		return m, m.launch("run", m.newMonitor(false))
	case "2":
		return m, m.launch("force run", m.newMonitor(true))
	case "3":
		return m, m.launch("emails", NewEmailsModel(m.deps.Settings, m.deps.Timeout))
	case "4":
		if m.deps.History != nil {
			return m, m.launch("history", NewHistoryModel(m.deps.History, m.deps.HistoryLimit, m.deps.NoColor))
		}
	}
	return m, nil
}

func (m *rootModel) newMonitor(force bool) tea.Model {
	return NewMonitorModel(m.deps.OpenRun, m.deps.History, MonitorOptions{
		Force:        force,
		WatchTimeout: m.deps.WatchTimeout,
		NoColor:      m.deps.NoColor,
	})
}

func (m *rootModel) launch(name string, flow tea.Model) tea.Cmd {
	logger.Log("opening %s flow", name)
	m.current = flow
	return flow.Init()
}

func (m *rootModel) View() string {
	// When a flow is active, defer to its view.
	if m.current != nil {
		return m.current.View()
	}

	var b strings.Builder

	b.WriteString(renderTitle("Deal Notifier"))
	b.WriteString(renderDivider(60))
	b.WriteString("\n\n")
	b.WriteString(boldStyle.Render("Select an action:") + "\n\n")
	b.WriteString("  " + selectedMarkerStyle.Render("1)") + " Run check\n")
	b.WriteString("  " + selectedMarkerStyle.Render("2)") + " Force run (notify for every game)\n")
	b.WriteString("  " + selectedMarkerStyle.Render("3)") + " Notification emails\n")
	if m.deps.History != nil {
		b.WriteString("  " + selectedMarkerStyle.Render("4)") + " Run history\n")
	} else {
		b.WriteString("  " + mutedStyle.Render("4) Run history (disabled in config)") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press the number of an option, or 'q' / Esc to quit.") + "\n")

	return b.String()
}

// Close releases the active flow, if any
func (m *rootModel) Close() {
	if c, ok := m.current.(closer); ok {
		c.Close()
	}
	m.current = nil
}
