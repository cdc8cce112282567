package cli

import (
	"context"
	"fmt"

	"deal-notifier-go/pkg/cli/deals"
	"deal-notifier-go/pkg/models"

	"github.com/google/uuid"
)

// ListHistory prints the most recent archived runs
func (a *App) ListHistory(ctx context.Context, limit int) error {
	history, err := a.getHistory(ctx)
	if err != nil {
		return err
	}
	if history == nil {
		return fmt.Errorf("run history is disabled (set history.enabled=true)")
	}

	runs, err := history.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	fmt.Fprintln(a.out, deals.FormatRunsTable(runs))
	return nil
}

// ShowRun prints the deals found by one archived run
func (a *App) ShowRun(ctx context.Context, id string) error {
	runID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", id, err)
	}

	history, err := a.getHistory(ctx)
	if err != nil {
		return err
	}
	if history == nil {
		return fmt.Errorf("run history is disabled (set history.enabled=true)")
	}

	archived, err := history.RunItems(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	found := make([]models.Item, len(archived))
	for i, it := range archived {
		found[i] = it.Item
	}
	fmt.Fprintln(a.out, deals.FormatTableOutput(found))
	return nil
}
