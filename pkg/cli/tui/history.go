package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"deal-notifier-go/pkg/cli/deals"
	"deal-notifier-go/pkg/cli/logger"
	"deal-notifier-go/pkg/models"
	"deal-notifier-go/pkg/services"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

const (
	historyStepRuns = iota
	historyStepDeals
)

type runsLoadedMsg struct {
	runs []models.RunRecord
	err  error
}

type runItemsLoadedMsg struct {
	runID uuid.UUID
	items []models.Item
	err   error
}

// historyModel lists archived runs and the deals each of them found
type historyModel struct {
	history *services.HistoryService
	limit   int

	step     int
	runs     []models.RunRecord
	selected int
	loading  bool
	err      error

	openRun     models.RunRecord
	browser     dealBrowser
	showDetails bool
}

// NewHistoryModel creates the run history flow
func NewHistoryModel(history *services.HistoryService, limit int, noColor bool) tea.Model {
	return NewViewportWrapper(newHistoryModel(history, limit, noColor), ViewportConfig{
		Title:       "Run History",
		ShowHeader:  true,
		ShowFooter:  true,
		EnableHelp:  true,
		EnableMenu:  true,
		HelpContent: HistoryHelpContent,
		MinWidth:    60,
		MinHeight:   12,
	})
}

func newHistoryModel(history *services.HistoryService, limit int, noColor bool) *historyModel {
	return &historyModel{
		history: history,
		limit:   limit,
		step:    historyStepRuns,
		loading: true,
		browser: newDealBrowser(noColor),
	}
}

func (m *historyModel) Init() tea.Cmd {
	history := m.history
	limit := m.limit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		runs, err := history.RecentRuns(ctx, limit)
		return runsLoadedMsg{runs: runs, err: err}
	}
}

func (m *historyModel) loadRun(run models.RunRecord) tea.Cmd {
	m.loading = true
	m.openRun = run
	history := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		archived, err := history.RunItems(ctx, run.ID)
		if err != nil {
			return runItemsLoadedMsg{runID: run.ID, err: err}
		}
		found := make([]models.Item, len(archived))
		for i, a := range archived {
			found[i] = a.Item
		}
		return runItemsLoadedMsg{runID: run.ID, items: found}
	}
}

// CapturingInput reports whether the deal search box has focus
func (m *historyModel) CapturingInput() bool {
	return m.step == historyStepDeals && m.browser.Searching()
}

func (m *historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.browser.SetSize(msg.Width-2, msg.Height-12)
		return m, nil

	case runsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			logger.LogError(msg.err, "loading run history")
			m.err = msg.err
			return m, nil
		}
		m.runs = msg.runs
		m.selected = 0
		return m, nil

	case runItemsLoadedMsg:
		if msg.runID != m.openRun.ID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			logger.LogError(msg.err, "loading deals of run %s", msg.runID)
			m.err = msg.err
			return m, nil
		}
		m.browser.SetItems(msg.items)
		m.step = historyStepDeals
		m.showDetails = false
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.err != nil {
			// any key dismisses the error
			m.err = nil
			return m, nil
		}
		if m.step == historyStepDeals {
			return m.handleDealKeys(msg)
		}
		return m.handleRunKeys(msg)
	}
	return m, nil
}

func (m *historyModel) handleRunKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if next, ok := handleListNavigation(key, m.selected, len(m.runs)); ok {
		m.selected = next
		return m, nil
	}
	switch key {
	case "enter":
		if m.selected < len(m.runs) {
			return m, m.loadRun(m.runs[m.selected])
		}
	case "r":
		m.loading = true
		return m, m.Init()
	}
	return m, nil
}

func (m *historyModel) handleDealKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.browser.Searching() {
		cmd, _ := m.browser.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "enter":
		m.showDetails = !m.showDetails
		return m, nil
	case "b", "esc":
		if m.showDetails {
			m.showDetails = false
			return m, nil
		}
		m.step = historyStepRuns
		return m, nil
	}
	cmd, _ := m.browser.Update(msg)
	return m, cmd
}

func (m *historyModel) View() string {
	if m.loading {
		return renderLoadingState("Loading history...")
	}
	if m.err != nil {
		return renderErrorView(m.err)
	}

	if m.step == historyStepDeals {
		return m.renderDeals()
	}
	return m.renderRuns()
}

func (m *historyModel) renderRuns() string {
	if len(m.runs) == 0 {
		return renderEmptyState("No archived runs yet. Finished runs are saved here.")
	}

	var b strings.Builder
	for i, run := range m.runs {
		line := fmt.Sprintf("%s  %-9s  %5s  %3d deals  %s",
			deals.ShortenID(run.ID),
			run.Phase,
			fmt.Sprintf("%d/%d", run.Processed, run.Total),
			run.ItemCount,
			deals.FormatDate(run.StartedAt),
		)
		if i == m.selected {
			b.WriteString(selectedMarkerStyle.Render("▶ ") + selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("(Enter show deals, r reload, ↑/↓ move)") + "\n")
	return b.String()
}

func (m *historyModel) renderDeals() string {
	var b strings.Builder

	b.WriteString(fieldLabelStyle.Render("Run:"))
	b.WriteString(runIDStyle.Render(deals.ShortenID(m.openRun.ID)))
	b.WriteString(fmt.Sprintf("  %s  %s\n\n", m.openRun.Phase, deals.FormatDate(m.openRun.StartedAt)))

	if item, ok := m.browser.Selected(); ok && m.showDetails {
		b.WriteString(renderDealDetails(item))
		b.WriteString("\n" + helpStyle.Render("(Enter/Esc back to list)") + "\n")
		return b.String()
	}

	if len(m.browser.all) == 0 {
		b.WriteString(mutedStyle.Render("This run found no deals.") + "\n")
	} else {
		b.WriteString(m.browser.View())
	}
	b.WriteString(helpStyle.Render("(/ search, o sort, Enter details, b back)") + "\n")
	return b.String()
}
