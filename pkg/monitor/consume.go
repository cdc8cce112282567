package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Consume feeds src into m for the run runID, one event at a time and in
// order, until the run ends. A failed or prematurely closed source fails the
// run. When ctx ends, a plain cancellation stops the run and any other cause
// (a deadline, a watchdog) fails it with context.Cause(ctx). Consume returns
// the phase the run ended in.
//
// While Consume runs it is the machine's only caller.
func Consume(ctx context.Context, m *Machine, runID uuid.UUID, src Source) Phase {
	for {
		select {
		case <-ctx.Done():
			return interrupt(ctx, m, runID)

		case ev, ok := <-src.Events():
			// a source torn down by ctx reports its own error; ctx decides
			if ctx.Err() != nil {
				return interrupt(ctx, m, runID)
			}
			if !ok {
				err := src.Err()
				if err == nil && m.RunID() == runID && m.Phase() == PhaseRunning {
					err = ErrStreamClosed
				}
				if err != nil {
					m.Fail(runID, err)
				}
				return m.Phase()
			}
			m.Apply(runID, ev)
			if m.RunID() != runID || m.Phase() != PhaseRunning {
				return m.Phase()
			}
		}
	}
}

func interrupt(ctx context.Context, m *Machine, runID uuid.UUID) Phase {
	if m.RunID() != runID || m.Phase() != PhaseRunning {
		return m.Phase()
	}
	if cause := context.Cause(ctx); errors.Is(cause, context.Canceled) {
		m.Stop()
	} else {
		m.Fail(runID, cause)
	}
	return m.Phase()
}

// WithInactivityTimeout returns a context that is cancelled with cause once
// m has published no change for idle. Every published change restarts the
// countdown. The machine should serve a single run: the subscription is
// never removed.
func WithInactivityTimeout(parent context.Context, m *Machine, idle time.Duration, cause error) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	timer := time.AfterFunc(idle, func() { cancel(cause) })
	m.Subscribe(func(Snapshot) {
		if ctx.Err() == nil {
			timer.Reset(idle)
		}
	})
	return ctx, func() {
		timer.Stop()
		cancel(context.Canceled)
	}
}
