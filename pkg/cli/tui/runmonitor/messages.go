package runmonitor

import (
	"time"

	"deal-notifier-go/pkg/events"

	"github.com/google/uuid"
)

// EventMsg carries one event of the run identified by RunID
type EventMsg struct {
	RunID uuid.UUID
	Event events.RunEvent
}

// ClosedMsg is emitted when the run's stream has ended. Err is nil when the
// stream was closed by the client or after the run completed.
type ClosedMsg struct {
	RunID uuid.UUID
	Err   error
}

// WatchdogMsg asks whether the run has gone without an event for the
// configured watch timeout
type WatchdogMsg struct {
	RunID uuid.UUID
}

// ArchivedMsg reports the outcome of saving a finished run to the history
type ArchivedMsg struct {
	RunID    uuid.UUID
	Recorded bool
	Err      error
}

// TickMsg refreshes the elapsed time display
type TickMsg time.Time
