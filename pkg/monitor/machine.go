package monitor

import (
	"errors"
	"slices"
	"time"

	"deal-notifier-go/pkg/events"
	"deal-notifier-go/pkg/items"

	"github.com/google/uuid"
)

// Source is an ordered stream of run events. The Events channel closes when
// the stream ends; Err then reports a transport failure, or nil when the
// stream was closed by its consumer or finished normally.
type Source interface {
	Events() <-chan events.RunEvent
	Err() error
	Close() error
}

// ErrStreamClosed is the failure cause used when a source ends while the run
// is still going without reporting an error of its own.
var ErrStreamClosed = errors.New("run stream closed before the run completed")

const lostConnectionNotice = "Connection to the run was lost."

// Machine owns the state of one run at a time and applies run events to it.
//
// A Machine is driven by a single consumer: every method must be called from
// the same goroutine (the Bubble Tea update loop, or Consume).
type Machine struct {
	runID      uuid.UUID
	phase      Phase
	outcome    events.Status
	processed  int
	total      int
	log        []LogLine
	items      *items.Store
	notice     string
	failed     bool
	startedAt  time.Time
	finishedAt time.Time

	source      Source
	subscribers []func(Snapshot)
	now         func() time.Time
}

// NewMachine returns an idle machine
func NewMachine() *Machine {
	return &Machine{
		phase: PhaseIdle,
		items: items.NewStore(),
		now:   time.Now,
	}
}

// Subscribe registers fn to receive a snapshot after every state change
func (m *Machine) Subscribe(fn func(Snapshot)) {
	m.subscribers = append(m.subscribers, fn)
}

// RunID returns the identifier of the current (or last) run
func (m *Machine) RunID() uuid.UUID {
	return m.runID
}

// Phase returns the current phase
func (m *Machine) Phase() Phase {
	return m.phase
}

// Start begins a new run fed by src. Any previous source is closed first and
// all previous state is discarded, so events of an earlier run can no longer
// be applied. It returns the new run's ID, which callers pass back with
// every event.
func (m *Machine) Start(src Source) uuid.UUID {
	m.closeSource()

	m.runID = uuid.New()
	m.phase = PhaseRunning
	m.outcome = ""
	m.processed = 0
	m.total = 0
	m.log = nil
	m.items.Reset()
	m.notice = ""
	m.failed = false
	m.startedAt = m.now()
	m.finishedAt = time.Time{}
	m.source = src

	m.publish()
	return m.runID
}

// Apply applies ev to the run identified by runID. It returns false, and
// changes nothing, when runID is not the current run or the run is no
// longer running.
func (m *Machine) Apply(runID uuid.UUID, ev events.RunEvent) bool {
	if runID != m.runID || m.phase != PhaseRunning {
		return false
	}

	switch ev.Kind {
	case events.KindLog:
		m.log = append(m.log, LogLine{Text: ev.Message, Level: events.ParseLevel(string(ev.Level))})
	case events.KindProgress:
		// Counters are sparse: a missing field keeps its last value.
		if ev.Processed != nil {
			m.processed = *ev.Processed
		}
		if ev.Total != nil {
			m.total = *ev.Total
		}
	case events.KindFound:
		m.items.Append(ev.Item)
	case events.KindStatus:
		m.outcome = ev.Status
	case events.KindComplete:
		if m.outcome == events.StatusFailure {
			m.finish(PhaseFailed)
		} else {
			m.finish(PhaseCompleted)
		}
		m.closeSource()
	case events.KindError:
		m.log = append(m.log, LogLine{Text: ev.Message, Level: events.LevelError})
	default:
		return false
	}

	m.publish()
	return true
}

// Fail records a transport failure for runID: the run becomes Failed
// whatever phase it was in, its source is closed and one failure notice is
// added. A run fails at most once; later calls return false.
func (m *Machine) Fail(runID uuid.UUID, cause error) bool {
	if runID != m.runID || m.phase == PhaseIdle || m.failed {
		return false
	}

	m.failed = true
	m.closeSource()
	m.notice = lostConnectionNotice
	var friendly interface{ UserMessage() string }
	if errors.As(cause, &friendly) {
		m.notice = friendly.UserMessage()
	}
	m.log = append(m.log, LogLine{Text: m.notice, Level: events.LevelError})
	if m.phase != PhaseFailed {
		m.finish(PhaseFailed)
	}

	m.publish()
	return true
}

// Stop abandons the running run: the source is closed at once and the
// machine returns to Idle. The counters, log and items of the stopped run
// stay readable until the next Start.
func (m *Machine) Stop() bool {
	if m.phase != PhaseRunning {
		m.closeSource()
		return false
	}

	m.closeSource()
	m.phase = PhaseIdle
	m.finishedAt = m.now()
	m.notice = "Run stopped."
	m.log = append(m.log, LogLine{Text: m.notice, Level: events.LevelWarning})

	m.publish()
	return true
}

// Snapshot returns the current state
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		RunID:      m.runID,
		Phase:      m.phase,
		Outcome:    m.outcome,
		Processed:  m.processed,
		Total:      m.total,
		Log:        slices.Clip(m.log),
		Items:      m.items.All(),
		Notice:     m.notice,
		StartedAt:  m.startedAt,
		FinishedAt: m.finishedAt,
	}
}

func (m *Machine) finish(phase Phase) {
	m.phase = phase
	m.finishedAt = m.now()
}

func (m *Machine) closeSource() {
	if m.source == nil {
		return
	}
	_ = m.source.Close()
	m.source = nil
}

func (m *Machine) publish() {
	if len(m.subscribers) == 0 {
		return
	}
	snap := m.Snapshot()
	for _, fn := range m.subscribers {
		fn(snap)
	}
}
