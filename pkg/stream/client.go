package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"deal-notifier-go/pkg/events"
)

// DiscardFunc is told about every frame that could not be decoded
type DiscardFunc func(payload string, err error)

// Client opens run streams against the notifier service
type Client struct {
	baseURL    string
	streamPath string
	client     *http.Client
	onDiscard  DiscardFunc
	recorder   io.Writer
}

// NewClient creates a stream client. The HTTP client has no overall timeout
// because a run stream stays open for as long as the run lasts.
func NewClient(baseURL, streamPath string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	if streamPath == "" {
		streamPath = "/api/stream_run"
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		streamPath: streamPath,
		client:     &http.Client{},
	}
}

// WithDiscardHook sets the function told about undecodable frames
func (c *Client) WithDiscardHook(fn DiscardFunc) *Client {
	c.onDiscard = fn
	return c
}

// WithRecorder makes every decoded event be written to w as one JSON line
func (c *Client) WithRecorder(w io.Writer) *Client {
	c.recorder = w
	return c
}

// OpenOptions tunes a single run
type OpenOptions struct {
	// Force asks the service to resend notifications for deals it already
	// reported.
	Force bool
}

// Open starts a run and returns its stream right away; connecting happens in
// the background and a failure to connect is reported through Err like any
// other transport failure. Cancelling ctx fails the stream.
func (c *Client) Open(ctx context.Context, opts OpenOptions) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := newStream(cancel)

	req, err := c.newRequest(ctx, opts)
	if err != nil {
		s.err = newInvalidRequestError("could not build stream request", err)
		cancel()
		s.finish()
		return s
	}

	go s.run(ctx, c, req)
	return s
}

func (c *Client) newRequest(ctx context.Context, opts OpenOptions) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + c.streamPath)
	if err != nil {
		return nil, fmt.Errorf("invalid stream URL: %w", err)
	}
	if opts.Force {
		q := u.Query()
		q.Set("force", "true")
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	return req, nil
}

// Stream is one open run stream. Events are delivered in the order the
// service sent them on the channel returned by Events, which is closed when
// the stream ends. Err then tells why: nil after Close or after a completed
// run, a *Error for a transport failure.
type Stream struct {
	events  chan events.RunEvent
	cancel  context.CancelFunc
	closing chan struct{}
	done    chan struct{}
	once    sync.Once

	mu  sync.Mutex
	err error
}

func newStream(cancel context.CancelFunc) *Stream {
	return &Stream{
		events:  make(chan events.RunEvent),
		cancel:  cancel,
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Events returns the ordered event channel
func (s *Stream) Events() <-chan events.RunEvent { return s.events }

// Err returns the transport failure that ended the stream, if any. It is
// only meaningful once the Events channel has been closed.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the stream. No event is delivered after Close returns and the
// stream does not report a failure for the shutdown. Close is idempotent.
func (s *Stream) Close() error {
	s.once.Do(func() {
		close(s.closing)
		s.cancel()
	})
	<-s.done
	return nil
}

func (s *Stream) closed() bool {
	select {
	case <-s.closing:
		return true
	default:
		return false
	}
}

func (s *Stream) fail(err *Error) {
	if s.closed() {
		return
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Stream) finish() {
	close(s.events)
	close(s.done)
}

// send delivers ev unless the stream is closed first
func (s *Stream) send(ev events.RunEvent) bool {
	if s.closed() {
		return false
	}
	select {
	case s.events <- ev:
		return true
	case <-s.closing:
		return false
	}
}

func (s *Stream) run(ctx context.Context, c *Client, req *http.Request) {
	defer s.finish()

	resp, err := c.client.Do(req)
	if err != nil {
		s.fail(classify(ctx, err, newServiceUnavailableError))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.fail(newBadStatusError(resp.Status))
		return
	}

	frames := newFrameReader(resp.Body)
	completed := false
	for {
		payload, err := frames.Next()
		if err == io.EOF {
			if !completed {
				s.fail(newInterruptedError(io.ErrUnexpectedEOF))
			}
			return
		}
		if errors.Is(err, ErrFrameTooLarge) {
			if c.onDiscard != nil {
				c.onDiscard(payload, err)
			}
			continue
		}
		if err != nil {
			s.fail(classify(ctx, err, newInterruptedError))
			return
		}

		ev, err := events.Decode([]byte(payload))
		if err != nil {
			if c.onDiscard != nil {
				c.onDiscard(payload, err)
			}
			continue
		}
		if c.recorder != nil {
			if line, err := events.Encode(ev); err == nil {
				_, _ = c.recorder.Write(append(line, '\n'))
			}
		}
		if !s.send(ev) {
			return
		}
		if ev.Kind == events.KindComplete {
			completed = true
		}
	}
}

// classify maps an I/O error to a stream error, recognising context
// cancellation and deadlines from the caller.
func classify(ctx context.Context, err error, fallback func(error) *Error) *Error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return newTimeoutError(err)
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return newCancelledError(err)
	default:
		return fallback(err)
	}
}
