package cli

import (
	"fmt"
	"strings"

	"deal-notifier-go/pkg/config"

	"github.com/pelletier/go-toml/v2"
)

// ShowConfig displays the current configuration
func (a *App) ShowConfig() error {
	data, err := toml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

// SetConfig sets a configuration value and saves the file
// Format: section.key=value (e.g., "server.base_url=http://localhost:5000")
func (a *App) SetConfig(setStr string) error {
	keyPath, value, ok := strings.Cut(setStr, "=")
	if !ok {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	if err := a.cfg.Set(strings.TrimSpace(keyPath), value); err != nil {
		return err
	}

	return config.Save(a.cfg)
}
