package monitor

import (
	"fmt"
	"time"

	"deal-notifier-go/pkg/events"
	"deal-notifier-go/pkg/models"

	"github.com/google/uuid"
)

// Phase is the lifecycle position of a run
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// Terminal reports whether the phase ends a run
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// LogLine is one line of the run console
type LogLine struct {
	Text  string
	Level events.Level
}

// Snapshot is an immutable copy of the run state handed to renderers. Log and
// Items share storage with the machine and must not be modified.
type Snapshot struct {
	RunID      uuid.UUID
	Phase      Phase
	Outcome    events.Status
	Processed  int
	Total      int
	Log        []LogLine
	Items      []models.Item
	Notice     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Progress renders the counters as "processed/total"
func (s Snapshot) Progress() string {
	return fmt.Sprintf("%d/%d", s.Processed, s.Total)
}

// Elapsed returns how long the run has been going, or how long it took
func (s Snapshot) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if !s.FinishedAt.IsZero() {
		return s.FinishedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

// StatusLine is the one-line summary shown above the console
func (s Snapshot) StatusLine() string {
	switch s.Phase {
	case PhaseRunning:
		return "Checking for games..."
	case PhaseCompleted:
		return "Run Complete!"
	case PhaseFailed:
		return "Run Failed!"
	default:
		if s.RunID != uuid.Nil {
			return "Run stopped"
		}
		return "Ready"
	}
}
