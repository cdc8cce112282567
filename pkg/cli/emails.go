package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"deal-notifier-go/pkg/cli/deals"
	"deal-notifier-go/pkg/services"
)

// loadSettings returns the settings service with the server's list loaded
func (a *App) loadSettings(ctx context.Context) (*services.SettingsService, error) {
	settings, err := a.getSettings()
	if err != nil {
		return nil, err
	}
	if err := settings.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// ListEmails prints the notification email list
func (a *App) ListEmails(ctx context.Context) error {
	settings, err := a.loadSettings(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, deals.FormatEmailList(settings.Emails()))
	return nil
}

// AddEmail adds an address to the list and saves it
func (a *App) AddEmail(ctx context.Context, raw string) error {
	settings, err := a.loadSettings(ctx)
	if err != nil {
		return err
	}
	email, err := settings.AddEmail(raw)
	if err != nil {
		return err
	}
	return a.saveEmails(ctx, settings, fmt.Sprintf("Added %s", email))
}

// RemoveEmail removes an address from the list and saves it
func (a *App) RemoveEmail(ctx context.Context, email string) error {
	settings, err := a.loadSettings(ctx)
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	index := slices.Index(settings.Emails(), email)
	if index < 0 {
		return fmt.Errorf("%q is not in the email list", email)
	}
	if _, err := settings.RemoveEmail(index); err != nil {
		return err
	}
	return a.saveEmails(ctx, settings, fmt.Sprintf("Removed %s", email))
}

func (a *App) saveEmails(ctx context.Context, settings *services.SettingsService, done string) error {
	message, err := settings.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, deals.FormatSuccessMessage(done))
	if message != "" {
		fmt.Fprintln(a.out, message)
	}
	return nil
}
