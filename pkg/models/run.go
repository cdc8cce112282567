package models

import (
	"time"

	"github.com/google/uuid"
)

// RunRecord is an archived run summary
type RunRecord struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Phase      string    `db:"phase" json:"phase"`
	Outcome    string    `db:"outcome" json:"outcome,omitempty"`
	Processed  int       `db:"processed" json:"processed"`
	Total      int       `db:"total" json:"total"`
	ItemCount  int       `db:"item_count" json:"item_count"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}

// ArchivedItem is a deal stored with the run that found it
type ArchivedItem struct {
	RunID    uuid.UUID `db:"run_id" json:"run_id"`
	Position int       `db:"position" json:"position"`
	Item
}
