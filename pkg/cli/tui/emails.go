package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"deal-notifier-go/pkg/cli/logger"
	"deal-notifier-go/pkg/services"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type emailsLoadedMsg struct {
	err error
}

type emailsSavedMsg struct {
	message string
	err     error
}

// emailsModel edits the notification email list. Every add or remove is
// saved right away; keys are ignored while a request is in flight.
type emailsModel struct {
	settings *services.SettingsService
	timeout  time.Duration

	emails   []string
	selected int
	adding   bool
	input    textinput.Model

	loading bool
	saving  bool
	loadErr error
	err     error
	notice  string
}

// NewEmailsModel creates the email list flow
func NewEmailsModel(settings *services.SettingsService, timeout time.Duration) tea.Model {
	return NewViewportWrapper(newEmailsModel(settings, timeout), ViewportConfig{
		Title:       "Notification Emails",
		ShowHeader:  true,
		ShowFooter:  true,
		UseViewport: false,
		EnableHelp:  true,
		EnableMenu:  true,
		HelpContent: EmailsHelpContent,
		MinWidth:    50,
		MinHeight:   12,
	})
}

func newEmailsModel(settings *services.SettingsService, timeout time.Duration) *emailsModel {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ti := textinput.New()
	ti.Placeholder = "name@example.com"
	ti.CharLimit = 254
	ti.Width = 40

	return &emailsModel{
		settings: settings,
		timeout:  timeout,
		input:    ti,
		loading:  true,
	}
}

func (m *emailsModel) Init() tea.Cmd {
	settings := m.settings
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return emailsLoadedMsg{err: settings.Load(ctx)}
	}
}

// CapturingInput reports whether the add box has focus
func (m *emailsModel) CapturingInput() bool {
	return m.adding
}

func (m *emailsModel) save() tea.Cmd {
	m.saving = true
	settings := m.settings
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		message, err := settings.Save(ctx)
		return emailsSavedMsg{message: message, err: err}
	}
}

func (m *emailsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case emailsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			logger.LogError(msg.err, "loading settings")
			m.loadErr = msg.err
			return m, nil
		}
		m.emails = m.settings.Emails()
		return m, nil

	case emailsSavedMsg:
		m.saving = false
		if msg.err != nil {
			logger.LogError(msg.err, "saving settings")
			m.err = userFacingError(msg.err)
			m.notice = ""
			return m, nil
		}
		m.err = nil
		m.notice = msg.message
		return m, nil

	case tea.KeyMsg:
		if m.loading || m.saving {
			return m, nil
		}
		if m.loadErr != nil {
			return m, func() tea.Msg { return MenuNavigationMsg{} }
		}
		if m.adding {
			return m.handleAddKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	return m, nil
}

func (m *emailsModel) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		m.err = nil
		return m, nil
	case "enter":
		email, err := m.settings.AddEmail(m.input.Value())
		if err != nil {
			m.err = userFacingError(err)
			return m, nil
		}
		logger.Log("added notification email %s", email)
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		m.err = nil
		m.emails = m.settings.Emails()
		m.selected = len(m.emails) - 1
		return m, m.save()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *emailsModel) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if next, ok := handleListNavigation(key, m.selected, len(m.emails)); ok {
		m.selected = next
		return m, nil
	}

	switch key {
	case "a":
		m.adding = true
		m.notice = ""
		m.err = nil
		return m, m.input.Focus()
	case "d", "delete":
		email, err := m.settings.RemoveEmail(m.selected)
		if err != nil {
			return m, nil
		}
		logger.Log("removed notification email %s", email)
		m.emails = m.settings.Emails()
		if m.selected >= len(m.emails) && m.selected > 0 {
			m.selected--
		}
		m.notice = ""
		return m, m.save()
	}
	return m, nil
}

func (m *emailsModel) View() string {
	if m.loading {
		return renderLoadingState("Loading settings...")
	}
	if m.loadErr != nil {
		return renderErrorView(userFacingError(m.loadErr))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Currency: %s\n\n", boldStyle.Render(m.settings.Currency())))

	if len(m.emails) == 0 {
		b.WriteString(mutedStyle.Render("No notification emails yet.") + "\n")
	}
	for i, email := range m.emails {
		if i == m.selected && !m.adding {
			b.WriteString(selectedMarkerStyle.Render("▶ ") + selectedStyle.Render(email) + "\n")
		} else {
			b.WriteString("  " + email + "\n")
		}
	}
	b.WriteString("\n")

	if m.adding {
		b.WriteString(fieldLabelStyle.Render("New email:") + "\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString(helpStyle.Render("(Enter to add, Esc to cancel)") + "\n")
	}

	switch {
	case m.saving:
		b.WriteString(infoStyle.Render("Saving...") + "\n")
	case m.err != nil:
		b.WriteString(renderInlineError(m.err) + "\n")
	case m.notice != "":
		b.WriteString(renderSuccess(m.notice) + "\n")
	}

	if !m.adding {
		b.WriteString(helpStyle.Render("(a add, d remove, ↑/↓ move)") + "\n")
	}
	return b.String()
}
