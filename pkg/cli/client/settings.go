package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"deal-notifier-go/pkg/models"
)

// ErrSaveSettings wraps every failure of SaveSettings
var ErrSaveSettings = errors.New("failed to save settings")

// LoadSettings fetches the current notifier settings
func (c *Client) LoadSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := c.doGetRequest(ctx, c.settingsPath, &settings); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings posts the email list and currency and returns the server's
// acknowledgement message
func (c *Client) SaveSettings(ctx context.Context, emails []string, currency string) (string, error) {
	if emails == nil {
		emails = []string{}
	}
	payload := models.SettingsUpdate{Emails: emails, Currency: currency}

	var resp models.MessageResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, c.settingsPath, payload, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSaveSettings, err)
	}
	return resp.Message, nil
}
