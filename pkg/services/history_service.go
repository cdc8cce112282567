package services

import (
	"context"
	"fmt"

	"deal-notifier-go/pkg/models"
	"deal-notifier-go/pkg/monitor"

	"github.com/google/uuid"
)

// Archive stores finished runs. *db.DB implements it.
type Archive interface {
	SaveRun(ctx context.Context, run models.RunRecord, found []models.Item) error
	ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error)
	ListRunItems(ctx context.Context, runID uuid.UUID) ([]models.ArchivedItem, error)
}

// HistoryService handles business logic for the run history
type HistoryService struct {
	archive Archive
}

// NewHistoryService creates a new history service
func NewHistoryService(archive Archive) *HistoryService {
	return &HistoryService{archive: archive}
}

// Record archives a finished run. Snapshots of runs that are not Completed
// or Failed are skipped and reported as not recorded.
func (s *HistoryService) Record(ctx context.Context, snap monitor.Snapshot) (bool, error) {
	if !snap.Phase.Terminal() {
		return false, nil
	}

	run := models.RunRecord{
		ID:         snap.RunID,
		Phase:      string(snap.Phase),
		Outcome:    string(snap.Outcome),
		Processed:  snap.Processed,
		Total:      snap.Total,
		ItemCount:  len(snap.Items),
		StartedAt:  snap.StartedAt,
		FinishedAt: snap.FinishedAt,
	}
	if err := s.archive.SaveRun(ctx, run, snap.Items); err != nil {
		return false, fmt.Errorf("failed to archive run %s: %w", snap.RunID, err)
	}
	return true, nil
}

// RecentRuns lists the newest runs first
func (s *HistoryService) RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.archive.ListRuns(ctx, limit)
}

// RunItems lists the deals found by one run in arrival order
func (s *HistoryService) RunItems(ctx context.Context, runID uuid.UUID) ([]models.ArchivedItem, error) {
	return s.archive.ListRunItems(ctx, runID)
}
