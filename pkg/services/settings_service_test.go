package services

import (
	"context"
	"errors"
	"testing"

	"deal-notifier-go/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	settings models.Settings
	saved    []string
	currency string
	err      error
}

func (f *fakeStore) LoadSettings(context.Context) (*models.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := f.settings
	return &s, nil
}

func (f *fakeStore) SaveSettings(_ context.Context, emails []string, currency string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = emails
	f.currency = currency
	return "Settings saved successfully", nil
}

func TestSettingsLoadAndSave(t *testing.T) {
	store := &fakeStore{settings: models.Settings{Emails: []string{"a@b.co"}, Currency: "USD"}}
	svc := NewSettingsService(store, "INR")

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, []string{"a@b.co"}, svc.Emails())
	assert.Equal(t, "USD", svc.Currency())

	_, err := svc.AddEmail("  c@d.io ")
	require.NoError(t, err)

	msg, err := svc.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Settings saved successfully", msg)
	assert.Equal(t, []string{"a@b.co", "c@d.io"}, store.saved)
	assert.Equal(t, "USD", store.currency)
}

func TestSettingsKeepsDefaultCurrency(t *testing.T) {
	svc := NewSettingsService(&fakeStore{}, "INR")
	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, "INR", svc.Currency())
	assert.Empty(t, svc.Emails())
}

func TestAddEmailRejects(t *testing.T) {
	svc := NewSettingsService(&fakeStore{}, "INR")
	_, err := svc.AddEmail("a@b.co")
	require.NoError(t, err)

	_, err = svc.AddEmail(" a@b.co ")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.AddEmail("not-an-email")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	assert.Equal(t, []string{"a@b.co"}, svc.Emails())
}

func TestRemoveEmail(t *testing.T) {
	svc := NewSettingsService(&fakeStore{}, "INR")
	for _, e := range []string{"a@b.co", "c@d.io", "e@f.net"} {
		_, err := svc.AddEmail(e)
		require.NoError(t, err)
	}

	removed, err := svc.RemoveEmail(1)
	require.NoError(t, err)
	assert.Equal(t, "c@d.io", removed)
	assert.Equal(t, []string{"a@b.co", "e@f.net"}, svc.Emails())

	_, err = svc.RemoveEmail(5)
	assert.ErrorIs(t, err, ErrNoSuchEmail)
	_, err = svc.RemoveEmail(-1)
	assert.ErrorIs(t, err, ErrNoSuchEmail)
}

func TestEmailsReturnsCopy(t *testing.T) {
	svc := NewSettingsService(&fakeStore{}, "INR")
	svc.AddEmail("a@b.co")
	got := svc.Emails()
	got[0] = "changed"
	assert.Equal(t, []string{"a@b.co"}, svc.Emails())
}

func TestLoadError(t *testing.T) {
	boom := errors.New("offline")
	svc := NewSettingsService(&fakeStore{err: boom}, "INR")
	assert.ErrorIs(t, svc.Load(context.Background()), boom)
}
