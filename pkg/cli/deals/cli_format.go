package deals

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"deal-notifier-go/pkg/models"
)

// FormatTableOutput formats deals as a table for CLI output
func FormatTableOutput(items []models.Item) string {
	if len(items) == 0 {
		return "No deals found."
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("Deals Found")
	b.WriteString("\n")

	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tTitle\tPrice\tURL")
	fmt.Fprintln(w, strings.Repeat("─", 3)+"\t"+strings.Repeat("─", 40)+"\t"+strings.Repeat("─", 10)+"\t"+strings.Repeat("─", 50))

	for i, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			i+1,
			GetTitle(item),
			item.DisplayPrice(),
			TruncateURL(item.URL, 50),
		)
	}

	w.Flush()
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %d deal(s)\n", len(items)))

	return b.String()
}

// FormatRunsTable formats archived runs, newest first
func FormatRunsTable(runs []models.RunRecord) string {
	if len(runs) == 0 {
		return "No runs recorded yet."
	}

	var b strings.Builder
	b.WriteString("\nRun History\n")

	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tStarted\tDuration\tResult\tProgress\tDeals")
	fmt.Fprintln(w, strings.Repeat("─", 11)+"\t"+strings.Repeat("─", 16)+"\t"+strings.Repeat("─", 8)+"\t"+strings.Repeat("─", 9)+"\t"+strings.Repeat("─", 8)+"\t"+strings.Repeat("─", 5))

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%d\n",
			ShortenID(run.ID),
			FormatDate(run.StartedAt),
			FormatDuration(run.FinishedAt.Sub(run.StartedAt)),
			run.Phase,
			run.Processed,
			run.Total,
			run.ItemCount,
		)
	}

	w.Flush()
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %d run(s)\n", len(runs)))
	return b.String()
}

// FormatEmailList formats the notification email list with 1-based indexes
func FormatEmailList(emails []string) string {
	if len(emails) == 0 {
		return "No notification emails configured."
	}
	var b strings.Builder
	for i, e := range emails {
		b.WriteString(fmt.Sprintf("%3d  %s\n", i+1, e))
	}
	return b.String()
}

// FormatSuccessMessage formats a success message
func FormatSuccessMessage(message string) string {
	return fmt.Sprintf("✓ %s\n", message)
}

// FormatErrorMessage formats an error message consistently
func FormatErrorMessage(err error) string {
	return fmt.Sprintf("❌ Error: %v\n", err)
}

// WriteToStdout writes formatted output to stdout with proper handling
func WriteToStdout(content string) {
	fmt.Fprint(os.Stdout, content)
}

// WriteToStderr writes formatted output to stderr
func WriteToStderr(content string) {
	fmt.Fprint(os.Stderr, content)
}
