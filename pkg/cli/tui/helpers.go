package tui

import (
	"errors"
	"fmt"
	"strings"

	"deal-notifier-go/pkg/cli/client"
	"deal-notifier-go/pkg/cli/deals"
	"deal-notifier-go/pkg/models"
	"deal-notifier-go/pkg/monitor"
	"deal-notifier-go/pkg/services"
	"deal-notifier-go/pkg/stream"
)

// renderErrorView renders a standard error view with exit message
func renderErrorView(err error) string {
	return "\n" + renderError(fmt.Sprintf("Error: %v", err)) + "\n\n" +
		helpStyle.Render("Press any key to go back...") + "\n"
}

// renderEmptyState renders a standard empty state message
func renderEmptyState(message string) string {
	return "\n" + mutedStyle.Render(message) + "\n"
}

// renderLoadingState renders a standard loading message
func renderLoadingState(message string) string {
	return "\n" + infoStyle.Render(message) + "\n"
}

// renderPhase renders the run status line in the color of its phase
func renderPhase(snap monitor.Snapshot) string {
	line := snap.StatusLine()
	switch snap.Phase {
	case monitor.PhaseCompleted:
		return successStyle.Render("✓ " + line)
	case monitor.PhaseFailed:
		return errorStyle.Render("✗ " + line)
	case monitor.PhaseRunning:
		return infoStyle.Render("⏳ " + line)
	default:
		return mutedStyle.Render(line)
	}
}

// renderLogLines renders console lines, one per row
func renderLogLines(lines []monitor.LogLine) string {
	if len(lines) == 0 {
		return mutedStyle.Render("Waiting for output...")
	}
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(levelStyle(line.Level).Render(line.Text))
	}
	return b.String()
}

// renderDealDetails renders every field of one deal
func renderDealDetails(item models.Item) string {
	var b strings.Builder

	b.WriteString(fieldLabelStyle.Render("Title:"))
	b.WriteString(fmt.Sprintf(" %s\n", dealTitleStyle.Render(deals.GetTitle(item))))

	b.WriteString(fieldLabelStyle.Render("Price:"))
	if item.IsFree {
		b.WriteString(" " + freeStyle.Render(item.DisplayPrice()) + "\n")
	} else {
		b.WriteString(fmt.Sprintf(" %s\n", item.DisplayPrice()))
	}

	b.WriteString(fieldLabelStyle.Render("URL:"))
	if item.URL != "" {
		b.WriteString(" " + dealURLStyle.Render(item.URL) + "\n")
	} else {
		b.WriteString(" " + mutedStyle.Render("(not set)") + "\n")
	}

	if item.ImageURL != "" {
		b.WriteString(fieldLabelStyle.Render("Image:"))
		b.WriteString(" " + dealURLStyle.Render(item.ImageURL) + "\n")
	}

	return b.String()
}

// wrapText wraps text to a specified width, breaking at word boundaries
func wrapText(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + "\n"
	}

	var b strings.Builder
	line := ""
	for _, word := range words {
		if len(line)+len(word)+1 > width {
			b.WriteString(fmt.Sprintf("%s%s\n", indent, line))
			line = word
		} else {
			if line != "" {
				line += " "
			}
			line += word
		}
	}
	if line != "" {
		b.WriteString(fmt.Sprintf("%s%s\n", indent, line))
	}
	return b.String()
}

// handleListNavigation handles common navigation keys for list views (up/down/j/k)
// Returns the new selected index and whether navigation occurred
func handleListNavigation(key string, selected int, total int) (newSelected int, handled bool) {
	switch key {
	case "up", "k":
		if selected > 0 {
			return selected - 1, true
		}
		return selected, true
	case "down", "j":
		if selected < total-1 {
			return selected + 1, true
		}
		return selected, true
	}
	return selected, false
}

// renderInlineError renders an error message inline (without full error view formatting)
func renderInlineError(err error) string {
	if err == nil {
		return ""
	}
	return renderError(err.Error())
}

// userFacingError converts structured errors into the messages shown to the
// operator, while leaving other error types unchanged.
func userFacingError(err error) error {
	if err == nil {
		return nil
	}

	var streamErr *stream.Error
	if errors.As(err, &streamErr) {
		return errors.New(streamErr.UserMessage())
	}

	switch {
	case errors.Is(err, client.ErrSaveSettings):
		return errors.New("Failed to save settings")
	case errors.Is(err, services.ErrInvalidEmail):
		return errors.New("Please enter a valid email")
	case errors.Is(err, services.ErrDuplicateEmail):
		return errors.New("Email already exists in list")
	}

	return err
}
