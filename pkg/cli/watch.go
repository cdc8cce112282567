package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"deal-notifier-go/pkg/cli/deals"
	"deal-notifier-go/pkg/cli/logger"
	"deal-notifier-go/pkg/events"
	"deal-notifier-go/pkg/monitor"
	"deal-notifier-go/pkg/stream"

	"github.com/google/uuid"
)

// WatchOptions configures a plain-text run
type WatchOptions struct {
	Force  bool
	Record string // capture file, empty = none
}

// linePrinter writes console lines to out as the machine publishes them
type linePrinter struct {
	out     io.Writer
	runID   uuid.UUID
	printed int
}

func (p *linePrinter) print(s monitor.Snapshot) {
	if s.RunID != p.runID {
		p.runID = s.RunID
		p.printed = 0
	}
	for _, line := range s.Log[p.printed:] {
		switch line.Level {
		case events.LevelInfo:
			fmt.Fprintln(p.out, line.Text)
		default:
			fmt.Fprintf(p.out, "[%s] %s\n", line.Level, line.Text)
		}
	}
	p.printed = len(s.Log)
}

// HandleWatchCommand runs one check and prints its console as plain text,
// followed by the deals it found. A failed run is returned as an error.
func (a *App) HandleWatchCommand(ctx context.Context, opts WatchOptions) error {
	streams := a.newStreamClient()

	if opts.Record != "" {
		f, err := os.Create(opts.Record)
		if err != nil {
			return fmt.Errorf("failed to create capture file: %w", err)
		}
		defer f.Close()
		streams = streams.WithRecorder(f)
	}

	machine := monitor.NewMachine()
	printer := &linePrinter{out: a.out}
	machine.Subscribe(printer.print)

	runCtx := ctx
	if timeout := a.watchTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = monitor.WithInactivityTimeout(ctx, machine, timeout, stream.NewInactivityError(timeout))
		defer cancel()
	}

	if opts.Force {
		fmt.Fprintln(a.out, "⏳ Starting forced run...")
	} else {
		fmt.Fprintln(a.out, "⏳ Starting run...")
	}

	src := streams.Open(runCtx, stream.OpenOptions{Force: opts.Force})
	runID := machine.Start(src)
	logger.Log("watch run %s started (force=%v)", runID, opts.Force)

	phase := monitor.Consume(runCtx, machine, runID, src)
	snap := machine.Snapshot()
	logger.Log("watch run %s ended: phase=%s progress=%s deals=%d", runID, phase, snap.Progress(), len(snap.Items))

	fmt.Fprintf(a.out, "\n%s  processed %s in %s\n",
		snap.StatusLine(), snap.Progress(), deals.FormatDuration(snap.Elapsed(time.Now())))
	fmt.Fprintln(a.out, deals.FormatTableOutput(snap.Items))

	if opts.Record != "" {
		fmt.Fprintf(a.out, "Capture written to %s\n", opts.Record)
	}

	a.archive(ctx, snap)

	if phase == monitor.PhaseFailed {
		return fmt.Errorf("run failed: %s", snap.Notice)
	}
	return nil
}

// archive stores a finished run when history is enabled. Failures are
// reported but do not fail the command.
func (a *App) archive(ctx context.Context, snap monitor.Snapshot) {
	history, err := a.getHistory(ctx)
	if err != nil {
		logger.LogError(err, "skipping archive of run %s", snap.RunID)
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	if history == nil {
		return
	}

	// the watch context may already be past its deadline
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	recorded, err := history.Record(saveCtx, snap)
	if err != nil {
		logger.LogError(err, "archiving run %s", snap.RunID)
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	if recorded {
		fmt.Fprintf(a.out, "Run %s saved to history.\n", deals.ShortenID(snap.RunID))
	}
}
