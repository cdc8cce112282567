package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"deal-notifier-go/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseHandler(frames ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, f := range frames {
			fmt.Fprintf(w, "data: %s\n\n", f)
			w.(http.Flusher).Flush()
		}
	}
}

// collect drains s until its channel closes
func collect(t *testing.T, s *Stream) []events.RunEvent {
	t.Helper()
	var out []events.RunEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("stream did not end")
		}
	}
}

func TestStreamDeliversEventsInOrder(t *testing.T) {
	srv := httptest.NewServer(sseHandler(
		`{"type":"log","message":"start","level":"info"}`,
		`not json`,
		`{"type":"progress","total":2}`,
		`{"type":"found","game":{"title":"Foo","is_free":true}}`,
		`{"type":"complete"}`,
	))
	defer srv.Close()

	var mu sync.Mutex
	var discarded []string
	c := NewClient(srv.URL, "/api/stream_run").WithDiscardHook(func(payload string, err error) {
		mu.Lock()
		defer mu.Unlock()
		discarded = append(discarded, payload)
	})

	s := c.Open(context.Background(), OpenOptions{})
	got := collect(t, s)

	require.Len(t, got, 4)
	assert.Equal(t, events.KindLog, got[0].Kind)
	assert.Equal(t, events.KindProgress, got[1].Kind)
	assert.Equal(t, "Foo", got[2].Item.Title)
	assert.Equal(t, events.KindComplete, got[3].Kind)
	assert.NoError(t, s.Err())

	mu.Lock()
	assert.Equal(t, []string{"not json"}, discarded)
	mu.Unlock()
	assert.NoError(t, s.Close())
}

func TestStreamSkipsOversizedFrame(t *testing.T) {
	srv := httptest.NewServer(sseHandler(
		`{"type":"log","message":"before"}`,
		`{"type":"log","message":"`+strings.Repeat("x", maxFrameSize+1)+`"}`,
		`{"type":"log","message":"after"}`,
		`{"type":"complete"}`,
	))
	defer srv.Close()

	var mu sync.Mutex
	var discarded []error
	c := NewClient(srv.URL, "/api/stream_run").WithDiscardHook(func(_ string, err error) {
		mu.Lock()
		defer mu.Unlock()
		discarded = append(discarded, err)
	})
	s := c.Open(context.Background(), OpenOptions{})
	defer s.Close()

	got := collect(t, s)
	require.Len(t, got, 3)
	assert.Equal(t, "before", got[0].Message)
	assert.Equal(t, "after", got[1].Message)
	assert.Equal(t, events.KindComplete, got[2].Kind)
	assert.NoError(t, s.Err())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, discarded, 1)
	assert.ErrorIs(t, discarded[0], ErrFrameTooLarge)
}

func TestStreamEndingBeforeCompleteFails(t *testing.T) {
	srv := httptest.NewServer(sseHandler(`{"type":"log","message":"start"}`))
	defer srv.Close()

	s := NewClient(srv.URL, "").Open(context.Background(), OpenOptions{})
	got := collect(t, s)
	require.Len(t, got, 1)

	var streamErr *Error
	require.ErrorAs(t, s.Err(), &streamErr)
	assert.Equal(t, ErrorTypeInterrupted, streamErr.Type)
	assert.True(t, streamErr.IsRetryable())
}

func TestStreamBadStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewClient(srv.URL, "").Open(context.Background(), OpenOptions{})
	assert.Empty(t, collect(t, s))

	var streamErr *Error
	require.ErrorAs(t, s.Err(), &streamErr)
	assert.Equal(t, ErrorTypeBadStatus, streamErr.Type)
	assert.Contains(t, streamErr.UserMessage(), "401")
}

func TestStreamServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(sseHandler())
	url := srv.URL
	srv.Close()

	s := NewClient(url, "").Open(context.Background(), OpenOptions{})
	assert.Empty(t, collect(t, s))

	var streamErr *Error
	require.ErrorAs(t, s.Err(), &streamErr)
	assert.Equal(t, ErrorTypeServiceUnavailable, streamErr.Type)
}

func TestStreamCloseSuppressesEventsAndFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"log\",\"message\":\"one\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"log\",\"message\":\"two\"}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	s := NewClient(srv.URL, "").Open(context.Background(), OpenOptions{})

	select {
	case ev := <-s.Events():
		assert.Equal(t, "one", ev.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	require.NoError(t, s.Close())

	for ev := range s.Events() {
		t.Fatalf("event delivered after Close: %+v", ev)
	}
	assert.NoError(t, s.Err())
	assert.NoError(t, s.Close())
}

func TestStreamContextDeadlineIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := NewClient(srv.URL, "").Open(ctx, OpenOptions{})
	assert.Empty(t, collect(t, s))

	var streamErr *Error
	require.True(t, errors.As(s.Err(), &streamErr))
	assert.Equal(t, ErrorTypeTimeout, streamErr.Type)
}

func TestStreamForceAndRecorder(t *testing.T) {
	type captured struct{ query, accept string }
	seen := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- captured{query: r.URL.RawQuery, accept: r.Header.Get("Accept")}
		sseHandler(`{"type":"progress","processed":1}`, `{"type":"complete"}`)(w, r)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	s := NewClient(srv.URL+"/", "/api/stream_run").WithRecorder(&buf).Open(context.Background(), OpenOptions{Force: true})
	collect(t, s)

	got := <-seen
	assert.Equal(t, "force=true", got.query)
	assert.Equal(t, "text/event-stream", got.accept)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	ev, err := events.Decode([]byte(lines[0]))
	require.NoError(t, err)
	assert.Equal(t, events.Progress(events.Int(1), nil), ev)
}

func TestErrorUserMessages(t *testing.T) {
	for _, typ := range []ErrorType{
		ErrorTypeServiceUnavailable, ErrorTypeBadStatus, ErrorTypeInterrupted,
		ErrorTypeTimeout, ErrorTypeCancelled, ErrorTypeInvalidRequest,
	} {
		e := &Error{Type: typ, Message: "m"}
		assert.NotEmpty(t, e.UserMessage(), typ)
	}

	cause := errors.New("dial tcp: refused")
	e := newServiceUnavailableError(cause)
	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "service_unavailable")
	assert.False(t, newCancelledError(nil).IsRetryable())
}

func TestInactivityErrorMessage(t *testing.T) {
	e := NewInactivityError(30 * time.Second)

	assert.Equal(t, ErrorTypeTimeout, e.Type)
	assert.True(t, e.IsRetryable())
	assert.Equal(t, "The run timed out and was abandoned: no progress reported for 30s.", e.UserMessage())
}
