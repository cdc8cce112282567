package deals

import (
	"time"

	"deal-notifier-go/pkg/models"

	"github.com/google/uuid"
)

// GetTitle returns the title of a deal, or a default value if missing
func GetTitle(item models.Item) string {
	if item.Title != "" {
		return item.Title
	}
	return "(untitled)"
}

// TruncateURL truncates a URL to the specified max length
func TruncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}

// ShortenID returns a shortened version of a UUID (first 8 characters + "...")
func ShortenID(id uuid.UUID) string {
	return id.String()[:8] + "..."
}

// FormatDate formats a time as a readable date string
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

// FormatDuration renders a run duration rounded to the second
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(time.Second).String()
}
