package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"deal-notifier-go/pkg/cli/client"
	"deal-notifier-go/pkg/cli/logger"
	"deal-notifier-go/pkg/cli/tui"
	"deal-notifier-go/pkg/config"
	"deal-notifier-go/pkg/db"
	"deal-notifier-go/pkg/monitor"
	"deal-notifier-go/pkg/services"
	"deal-notifier-go/pkg/stream"

	tea "github.com/charmbracelet/bubbletea"
)

type App struct {
	cfg      *config.Config
	out      io.Writer
	client   *client.Client
	settings *services.SettingsService
	db       *db.DB
	history  *services.HistoryService
}

func NewApp(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
		out: os.Stdout,
	}
}

func (a *App) requestTimeout() time.Duration {
	return time.Duration(a.cfg.CLI.RequestTimeout) * time.Second
}

// watchTimeout is how long a run may go without an event, 0 = no limit
func (a *App) watchTimeout() time.Duration {
	return time.Duration(a.cfg.CLI.WatchTimeout) * time.Second
}

// getClient returns the settings client, creating it if necessary
func (a *App) getClient() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	if a.cfg.Server.BaseURL == "" {
		return nil, fmt.Errorf("server base URL not configured")
	}

	a.client = client.NewClient(a.cfg.Server.BaseURL, a.cfg.Server.SettingsPath, a.requestTimeout())
	return a.client, nil
}

// getSettings returns the email list service
func (a *App) getSettings() (*services.SettingsService, error) {
	if a.settings != nil {
		return a.settings, nil
	}
	apiClient, err := a.getClient()
	if err != nil {
		return nil, err
	}
	a.settings = services.NewSettingsService(apiClient, a.cfg.Settings.Currency)
	return a.settings, nil
}

// newStreamClient creates a stream client that logs discarded frames
func (a *App) newStreamClient() *stream.Client {
	return stream.NewClient(a.cfg.Server.BaseURL, a.cfg.Server.StreamPath).
		WithDiscardHook(func(payload string, err error) {
			logger.Log("discarded frame %q: %v", payload, err)
		})
}

// ConnectDB connects to the history database and creates its tables
func (a *App) ConnectDB(ctx context.Context) (*db.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	database, err := db.New(ctx, a.cfg.History.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	a.db = database
	return a.db, nil
}

// getHistory returns the history service, or nil when history is disabled
func (a *App) getHistory(ctx context.Context) (*services.HistoryService, error) {
	if !a.cfg.History.Enabled {
		return nil, nil
	}
	if a.history != nil {
		return a.history, nil
	}

	database, err := a.ConnectDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("run history unavailable: %w", err)
	}
	a.history = services.NewHistoryService(database)
	return a.history, nil
}

// Close releases the database connection, if one was opened
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

// Run starts the interactive TUI
func (a *App) Run() error {
	ctx := context.Background()

	settings, err := a.getSettings()
	if err != nil {
		return err
	}

	history, err := a.getHistory(ctx)
	if err != nil {
		logger.LogError(err, "continuing without run history")
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		history = nil
	}

	streams := a.newStreamClient()
	root := tui.NewRootModel(tui.Deps{
		OpenRun: func(ctx context.Context, force bool) monitor.Source {
			return streams.Open(ctx, stream.OpenOptions{Force: force})
		},
		Settings:     settings,
		History:      history,
		WatchTimeout: a.watchTimeout(),
		Timeout:      a.requestTimeout(),
		NoColor:      a.cfg.CLI.NoColor,
	})

	shell := tui.NewViewportWrapper(root, tui.ViewportConfig{
		EnableHelp:  true,
		HelpContent: tui.RootMenuHelpContent,
	})
	defer shell.Close()

	p := tea.NewProgram(shell, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
