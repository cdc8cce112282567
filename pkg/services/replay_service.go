package services

import (
	"fmt"
	"os"
	"slices"
	"time"

	"deal-notifier-go/pkg/events"
)

// ReplayService serves a recorded run capture as if it were a live run
type ReplayService struct {
	events   []events.RunEvent
	interval time.Duration
}

// NewReplayService replays evs with interval between events. A capture
// without a trailing complete event gets one appended.
func NewReplayService(evs []events.RunEvent, interval time.Duration) *ReplayService {
	evs = slices.Clone(evs)
	if len(evs) == 0 || evs[len(evs)-1].Kind != events.KindComplete {
		evs = append(evs, events.Complete())
	}
	return &ReplayService{events: evs, interval: interval}
}

// LoadReplayService reads a capture file
func LoadReplayService(path string, interval time.Duration) (*ReplayService, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	evs, err := events.ReadCapture(f)
	if err != nil {
		return nil, err
	}
	return NewReplayService(evs, interval), nil
}

// Interval is the pause between two replayed events
func (s *ReplayService) Interval() time.Duration {
	return s.interval
}

// Events returns the events of one replayed run. A forced run starts with a
// warning that notifications are sent again.
func (s *ReplayService) Events(force bool) []events.RunEvent {
	if !force {
		return slices.Clone(s.events)
	}
	out := make([]events.RunEvent, 0, len(s.events)+1)
	out = append(out, events.Log(events.LevelWarning, "Force run: notifications will be sent for every game found"))
	return append(out, s.events...)
}
