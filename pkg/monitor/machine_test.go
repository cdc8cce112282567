package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"deal-notifier-go/pkg/events"
	"deal-notifier-go/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ch     chan events.RunEvent
	err    error
	mu     sync.Mutex
	closes int
}

func newFakeSource(evs ...events.RunEvent) *fakeSource {
	ch := make(chan events.RunEvent, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	return &fakeSource{ch: ch}
}

func (f *fakeSource) Events() <-chan events.RunEvent { return f.ch }
func (f *fakeSource) Err() error                     { return f.err }

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeSource) closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

type userError struct{}

func (userError) Error() string       { return "boom" }
func (userError) UserMessage() string { return "Service is down." }

func testMachine() *Machine {
	m := NewMachine()
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return m
}

func TestStartResetsState(t *testing.T) {
	m := testMachine()
	first := m.Start(newFakeSource())
	m.Apply(first, events.Log(events.LevelInfo, "hello"))
	m.Apply(first, events.Found(models.Item{Title: "Zelda"}))

	src := newFakeSource()
	second := m.Start(src)

	assert.NotEqual(t, first, second)
	snap := m.Snapshot()
	assert.Equal(t, PhaseRunning, snap.Phase)
	assert.Empty(t, snap.Log)
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.Processed)
	assert.Zero(t, snap.Total)
	assert.Equal(t, "0/0", snap.Progress())
	assert.False(t, snap.StartedAt.IsZero())
}

func TestStartClosesPreviousSource(t *testing.T) {
	m := testMachine()
	old := newFakeSource()
	oldID := m.Start(old)
	m.Start(newFakeSource())

	assert.Equal(t, 1, old.closed())
	assert.False(t, m.Apply(oldID, events.Log(events.LevelInfo, "late")))
	assert.Empty(t, m.Snapshot().Log)
}

func TestProgressIsSparse(t *testing.T) {
	m := testMachine()
	id := m.Start(newFakeSource())

	require.True(t, m.Apply(id, events.Progress(events.Int(3), events.Int(10))))
	require.True(t, m.Apply(id, events.Progress(events.Int(4), nil)))
	snap := m.Snapshot()
	assert.Equal(t, 4, snap.Processed)
	assert.Equal(t, 10, snap.Total)

	require.True(t, m.Apply(id, events.Progress(nil, events.Int(12))))
	snap = m.Snapshot()
	assert.Equal(t, 4, snap.Processed)
	assert.Equal(t, 12, snap.Total)
}

func TestLogAndErrorLines(t *testing.T) {
	m := testMachine()
	id := m.Start(newFakeSource())

	m.Apply(id, events.Log(events.LevelSuccess, "found one"))
	m.Apply(id, events.Log("loud", "odd level"))
	m.Apply(id, events.Error("scraper hiccup"))

	assert.Equal(t, []LogLine{
		{Text: "found one", Level: events.LevelSuccess},
		{Text: "odd level", Level: events.LevelInfo},
		{Text: "scraper hiccup", Level: events.LevelError},
	}, m.Snapshot().Log)
	assert.Equal(t, PhaseRunning, m.Phase())
}

func TestFoundKeepsArrivalOrder(t *testing.T) {
	m := testMachine()
	id := m.Start(newFakeSource())
	for _, title := range []string{"B", "A", "C"} {
		m.Apply(id, events.Found(models.Item{Title: title}))
	}

	var got []string
	for _, it := range m.Snapshot().Items {
		got = append(got, it.Title)
	}
	assert.Equal(t, []string{"B", "A", "C"}, got)
}

func TestCompleteIsTerminal(t *testing.T) {
	m := testMachine()
	src := newFakeSource()
	id := m.Start(src)
	m.Apply(id, events.Found(models.Item{Title: "A"}))

	require.True(t, m.Apply(id, events.Complete()))
	assert.Equal(t, PhaseCompleted, m.Phase())
	assert.Equal(t, 1, src.closed())
	before := m.Snapshot()

	assert.False(t, m.Apply(id, events.Found(models.Item{Title: "B"})))
	assert.False(t, m.Apply(id, events.Log(events.LevelInfo, "late")))
	assert.False(t, m.Apply(id, events.Progress(events.Int(9), events.Int(9))))
	assert.Equal(t, before, m.Snapshot())
	assert.Equal(t, "Run Complete!", before.StatusLine())
}

func TestFailureStatusFailsOnComplete(t *testing.T) {
	m := testMachine()
	id := m.Start(newFakeSource())

	m.Apply(id, events.StatusOf(events.StatusFailure))
	assert.Equal(t, PhaseRunning, m.Phase())

	m.Apply(id, events.Complete())
	assert.Equal(t, PhaseFailed, m.Phase())
	assert.Equal(t, events.StatusFailure, m.Snapshot().Outcome)
}

func TestSuccessStatusCompletes(t *testing.T) {
	m := testMachine()
	id := m.Start(newFakeSource())
	m.Apply(id, events.StatusOf(events.StatusFailure))
	m.Apply(id, events.StatusOf(events.StatusSuccess))
	m.Apply(id, events.Complete())
	assert.Equal(t, PhaseCompleted, m.Phase())
}

func TestFailWhileRunning(t *testing.T) {
	m := testMachine()
	src := newFakeSource()
	id := m.Start(src)
	m.Apply(id, events.Found(models.Item{Title: "kept"}))

	require.True(t, m.Fail(id, errors.New("reset by peer")))
	snap := m.Snapshot()
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, 1, src.closed())
	assert.Equal(t, lostConnectionNotice, snap.Notice)
	assert.Len(t, snap.Items, 1)
	require.Len(t, snap.Log, 1)
	assert.Equal(t, events.LevelError, snap.Log[0].Level)

	assert.False(t, m.Fail(id, errors.New("again")), "failure surfaces once")
	assert.Len(t, m.Snapshot().Log, 1)
	assert.False(t, m.Apply(id, events.Found(models.Item{Title: "late"})))
}

func TestFailUsesUserMessage(t *testing.T) {
	m := testMachine()
	id := m.Start(newFakeSource())
	m.Fail(id, userError{})
	assert.Equal(t, "Service is down.", m.Snapshot().Notice)
}

func TestFailIgnoresStaleRunAndIdle(t *testing.T) {
	m := testMachine()
	assert.False(t, m.Fail(uuid.New(), errors.New("nothing running")))

	old := m.Start(newFakeSource())
	m.Start(newFakeSource())
	assert.False(t, m.Fail(old, errors.New("stale")))
	assert.Equal(t, PhaseRunning, m.Phase())
}

func TestStopKeepsDataUntilNextStart(t *testing.T) {
	m := testMachine()
	src := newFakeSource()
	id := m.Start(src)
	m.Apply(id, events.Progress(events.Int(2), events.Int(5)))
	m.Apply(id, events.Found(models.Item{Title: "A"}))

	require.True(t, m.Stop())
	snap := m.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, 1, src.closed())
	assert.Equal(t, 2, snap.Processed)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, "Run stopped", snap.StatusLine())
	assert.False(t, m.Apply(id, events.Found(models.Item{Title: "B"})))
	assert.False(t, m.Stop())
}

func TestSnapshotsAreIsolated(t *testing.T) {
	m := testMachine()
	id := m.Start(newFakeSource())
	m.Apply(id, events.Found(models.Item{Title: "A"}))
	m.Apply(id, events.Log(events.LevelInfo, "one"))
	held := m.Snapshot()

	m.Apply(id, events.Found(models.Item{Title: "B"}))
	m.Apply(id, events.Log(events.LevelInfo, "two"))

	assert.Len(t, held.Items, 1)
	assert.Len(t, held.Log, 1)
	assert.Len(t, m.Snapshot().Items, 2)
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	m := testMachine()
	var phases []Phase
	m.Subscribe(func(s Snapshot) { phases = append(phases, s.Phase) })

	id := m.Start(newFakeSource())
	m.Apply(id, events.Log(events.LevelInfo, "x"))
	m.Apply(id, events.Complete())
	m.Apply(id, events.Log(events.LevelInfo, "ignored"))

	assert.Equal(t, []Phase{PhaseRunning, PhaseRunning, PhaseCompleted}, phases)
}

func TestElapsed(t *testing.T) {
	m := testMachine()
	id := m.Start(newFakeSource())
	m.Apply(id, events.Complete())
	snap := m.Snapshot()
	assert.Equal(t, time.Second, snap.Elapsed(time.Now()))
	assert.Zero(t, Snapshot{}.Elapsed(time.Now()))
}

func TestConsumeRunsToCompletion(t *testing.T) {
	m := testMachine()
	src := newFakeSource(
		events.Log(events.LevelInfo, "Starting"),
		events.Progress(events.Int(1), events.Int(2)),
		events.Found(models.Item{Title: "A"}),
		events.StatusOf(events.StatusSuccess),
		events.Complete(),
		events.Found(models.Item{Title: "after complete"}),
	)
	id := m.Start(src)

	phase := Consume(context.Background(), m, id, src)
	assert.Equal(t, PhaseCompleted, phase)
	assert.Len(t, m.Snapshot().Items, 1)
}

func TestConsumeTransportFailure(t *testing.T) {
	m := testMachine()
	src := newFakeSource(events.Found(models.Item{Title: "A"}))
	src.err = userError{}
	close(src.ch)
	id := m.Start(src)

	phase := Consume(context.Background(), m, id, src)
	assert.Equal(t, PhaseFailed, phase)
	assert.Equal(t, "Service is down.", m.Snapshot().Notice)
	assert.Len(t, m.Snapshot().Items, 1)
}

func TestConsumeEndWithoutComplete(t *testing.T) {
	m := testMachine()
	src := newFakeSource(events.Log(events.LevelInfo, "half"))
	close(src.ch)
	id := m.Start(src)

	assert.Equal(t, PhaseFailed, Consume(context.Background(), m, id, src))
}

func TestConsumeCancelStops(t *testing.T) {
	m := testMachine()
	src := &fakeSource{ch: make(chan events.RunEvent)}
	id := m.Start(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, PhaseIdle, Consume(ctx, m, id, src))
	assert.Equal(t, 1, src.closed())
}

func TestConsumeDeadlineFails(t *testing.T) {
	m := testMachine()
	src := &fakeSource{ch: make(chan events.RunEvent)}
	id := m.Start(src)

	ctx, cancel := context.WithTimeoutCause(context.Background(), time.Millisecond, userError{})
	defer cancel()
	assert.Equal(t, PhaseFailed, Consume(ctx, m, id, src))
	assert.Equal(t, "Service is down.", m.Snapshot().Notice)
	assert.Equal(t, 1, src.closed())
}

func TestConsumeContextWinsOverClosedSource(t *testing.T) {
	for i := 0; i < 200; i++ {
		m := testMachine()
		src := newFakeSource()
		src.err = errors.New("stream torn down")
		close(src.ch)
		id := m.Start(src)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.Equal(t, PhaseIdle, Consume(ctx, m, id, src), "iteration %d", i)

		m = testMachine()
		src = newFakeSource()
		src.err = errors.New("stream torn down")
		close(src.ch)
		id = m.Start(src)

		ctx, cancelCause := context.WithCancelCause(context.Background())
		cancelCause(userError{})
		require.Equal(t, PhaseFailed, Consume(ctx, m, id, src), "iteration %d", i)
		require.Equal(t, "Service is down.", m.Snapshot().Notice)
	}
}

func TestInactivityTimeoutFailsIdleRun(t *testing.T) {
	m := testMachine()
	src := &fakeSource{ch: make(chan events.RunEvent)}
	id := m.Start(src)

	ctx, cancel := WithInactivityTimeout(context.Background(), m, 20*time.Millisecond, userError{})
	defer cancel()

	assert.Equal(t, PhaseFailed, Consume(ctx, m, id, src))
	assert.Equal(t, "Service is down.", m.Snapshot().Notice)
}

func TestInactivityTimeoutRestartsOnEvents(t *testing.T) {
	m := testMachine()
	src := &fakeSource{ch: make(chan events.RunEvent)}
	id := m.Start(src)

	ctx, cancel := WithInactivityTimeout(context.Background(), m, 150*time.Millisecond, userError{})
	defer cancel()

	go func() {
		for i := 0; i < 8; i++ {
			time.Sleep(30 * time.Millisecond)
			src.ch <- events.Progress(events.Int(i+1), events.Int(8))
		}
		src.ch <- events.Complete()
	}()

	// the run outlasts the timeout but never goes quiet for that long
	assert.Equal(t, PhaseCompleted, Consume(ctx, m, id, src))
}
