package runmonitor

import (
	"context"

	"deal-notifier-go/pkg/monitor"

	"github.com/google/uuid"
)

// RunState holds the transport side of the current run
type RunState struct {
	ID     uuid.UUID
	Source monitor.Source
	Ctx    context.Context
	Cancel context.CancelFunc
	Force  bool
}

// Release cancels the run's context. Safe on a zero RunState.
func (s *RunState) Release() {
	if s.Cancel != nil {
		s.Cancel()
		s.Cancel = nil
	}
}
