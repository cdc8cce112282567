package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"deal-notifier-go/pkg/models"
	"deal-notifier-go/pkg/utils"
)

var (
	ErrInvalidEmail   = errors.New("please enter a valid email")
	ErrDuplicateEmail = errors.New("email already exists in list")
	ErrNoSuchEmail    = errors.New("no email at that position")
)

// SettingsStore loads and saves the notifier settings. *client.Client
// implements it.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, emails []string, currency string) (string, error)
}

// SettingsService keeps the editable notification email list
type SettingsService struct {
	store    SettingsStore
	emails   []string
	currency string
}

// NewSettingsService creates a settings service. currency is used until
// Load returns one from the server.
func NewSettingsService(store SettingsStore, currency string) *SettingsService {
	return &SettingsService{store: store, currency: currency}
}

// Load replaces the local list with the server's settings
func (s *SettingsService) Load(ctx context.Context) error {
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return err
	}
	s.emails = slices.Clone(settings.Emails)
	if settings.Currency != "" {
		s.currency = settings.Currency
	}
	return nil
}

// Emails returns a copy of the current list
func (s *SettingsService) Emails() []string {
	return slices.Clone(s.emails)
}

// Currency returns the currency sent with the list
func (s *SettingsService) Currency() string {
	return s.currency
}

// AddEmail validates and appends an address, returning the trimmed value
func (s *SettingsService) AddEmail(raw string) (string, error) {
	email, err := utils.ValidateEmail(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	}
	if slices.Contains(s.emails, email) {
		return "", ErrDuplicateEmail
	}
	s.emails = append(s.emails, email)
	return email, nil
}

// RemoveEmail removes the address at index and returns it
func (s *SettingsService) RemoveEmail(index int) (string, error) {
	if index < 0 || index >= len(s.emails) {
		return "", ErrNoSuchEmail
	}
	email := s.emails[index]
	s.emails = slices.Delete(s.emails, index, index+1)
	return email, nil
}

// Save sends the list to the server and returns its acknowledgement
func (s *SettingsService) Save(ctx context.Context) (string, error) {
	return s.store.SaveSettings(ctx, s.Emails(), s.currency)
}
