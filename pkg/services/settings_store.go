package services

import (
	"slices"
	"sync"

	"deal-notifier-go/pkg/models"
)

// MemorySettings is the settings store of the replay server
type MemorySettings struct {
	mu       sync.RWMutex
	settings models.Settings
}

// NewMemorySettings starts with no emails and the given currency
func NewMemorySettings(currency string) *MemorySettings {
	return &MemorySettings{settings: models.Settings{Emails: []string{}, Currency: currency}}
}

// Get returns a copy of the stored settings
func (m *MemorySettings) Get() models.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.settings
	s.Emails = slices.Clone(s.Emails)
	return s
}

// Update replaces the email list, and the currency when one is given
func (m *MemorySettings) Update(update models.SettingsUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Emails = slices.Clone(update.Emails)
	if m.settings.Emails == nil {
		m.settings.Emails = []string{}
	}
	if update.Currency != "" {
		m.settings.Currency = update.Currency
	}
}
