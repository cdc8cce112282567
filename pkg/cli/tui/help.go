package tui

import (
	"fmt"
	"strings"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// CommonHelpContent returns help for common commands
func CommonHelpContent() string {
	items := []HelpItem{
		{"?", "Toggle help"},
		{"m", "Return to main menu"},
		{"q / Ctrl+C", "Quit application"},
	}
	return renderHelpItems(items)
}

// RootMenuHelpContent returns help for root menu
func RootMenuHelpContent() string {
	items := []HelpItem{
		{"1-4", "Select menu option (Run / Force run / Emails / History)"},
		{"q / Esc", "Quit"},
		{"?", "Show this help"},
	}
	return renderHelpItems(items)
}

// MonitorHelpContent returns help for the run monitor
func MonitorHelpContent() string {
	items := []HelpItem{
		{"Tab", "Switch between console and deals"},
		{"↑ / ↓ / PgUp / PgDn", "Scroll console / move in deals"},
		{"/", "Search deals by title"},
		{"o", "Cycle sort order"},
		{"c", "Clear search"},
		{"s", "Stop the run"},
		{"r", "Start a new run"},
		{"m", "Return to menu (stops the run)"},
	}
	return renderHelpItems(items)
}

// EmailsHelpContent returns help for the notification email list
func EmailsHelpContent() string {
	items := []HelpItem{
		{"↑ / ↓ / j / k", "Navigate email list"},
		{"a", "Add an email"},
		{"d / Delete", "Remove selected email"},
		{"Enter", "Save new email (while adding)"},
		{"Esc", "Cancel adding"},
	}
	return renderHelpItems(items)
}

// HistoryHelpContent returns help for the run history
func HistoryHelpContent() string {
	items := []HelpItem{
		{"↑ / ↓ / j / k", "Navigate runs"},
		{"Enter", "Show the deals of a run"},
		{"/ / o", "Search / sort deals"},
		{"b", "Back to run list"},
	}
	return renderHelpItems(items)
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	for _, item := range items {
		keyStyle := boldStyle.Foreground(colorPrimary)
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}
