package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"deal-notifier-go/pkg/cli"
	"deal-notifier-go/pkg/cli/deals"
	"deal-notifier-go/pkg/cli/logger"
	"deal-notifier-go/pkg/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func main() {
	var (
		watchMode = flag.Bool("watch", false, "Run a check and print its output as plain text")
		force     = flag.Bool("force", false, "Send notifications for every game found, not just new ones")
		record    = flag.String("record", "", "With --watch, write every received event to this capture file")

		historyMode  = flag.Bool("history", false, "List recent archived runs")
		historyRun   = flag.String("history-run", "", "Show the deals of an archived run")
		historyLimit = flag.Int("limit", 20, "Number of runs listed by --history")

		emailsMode  = flag.Bool("emails", false, "List notification emails")
		emailAdd    = flag.String("email-add", "", "Add a notification email")
		emailRemove = flag.String("email-remove", "", "Remove a notification email")

		// Config commands
		configShow = flag.Bool("config-show", false, "Show current configuration")
		configSet  = flag.String("config-set", "", "Set a config value (format: section.key=value)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.CLI.LogDir)
	defer logger.CloseLog()

	if cfg.CLI.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	app := cli.NewApp(cfg)
	defer app.Close()

	// Handle config commands first (don't need the service)
	if *configShow {
		exitOnError(app.ShowConfig())
		return
	}
	if *configSet != "" {
		exitOnError(app.SetConfig(*configSet))
		deals.WriteToStdout(deals.FormatSuccessMessage("Configuration updated successfully"))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *watchMode:
		exitOnError(app.HandleWatchCommand(ctx, cli.WatchOptions{Force: *force, Record: *record}))
	case *historyRun != "":
		exitOnError(app.ShowRun(ctx, *historyRun))
	case *historyMode:
		exitOnError(app.ListHistory(ctx, *historyLimit))
	case *emailAdd != "":
		exitOnError(app.AddEmail(ctx, *emailAdd))
	case *emailRemove != "":
		exitOnError(app.RemoveEmail(ctx, *emailRemove))
	case *emailsMode:
		exitOnError(app.ListEmails(ctx))
	default:
		// Interactive TUI mode
		if err := app.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	logger.LogError(err, "command failed")
	deals.WriteToStderr(deals.FormatErrorMessage(err))
	logger.CloseLog()
	os.Exit(1)
}
