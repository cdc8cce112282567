package config

import (
	"fmt"
	"strconv"
	"strings"

	"deal-notifier-go/pkg/utils"
)

// Set assigns a value addressed as "section.key", e.g. "server.base_url".
func (c *Config) Set(keyPath, value string) error {
	parts := strings.Split(keyPath, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}
	section, key := parts[0], parts[1]

	switch section {
	case "server":
		switch key {
		case "base_url":
			u, err := utils.ValidateURL(value)
			if err != nil {
				return err
			}
			c.Server.BaseURL = u
		case "stream_path":
			c.Server.StreamPath = value
		case "settings_path":
			c.Server.SettingsPath = value
		default:
			return fmt.Errorf("unknown server key: %s", key)
		}
	case "cli":
		switch key {
		case "log_dir":
			c.CLI.LogDir = value
		case "no_color":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid no_color value: %s", value)
			}
			c.CLI.NoColor = b
		case "watch_timeout":
			return setInt(&c.CLI.WatchTimeout, key, value)
		case "request_timeout":
			return setInt(&c.CLI.RequestTimeout, key, value)
		default:
			return fmt.Errorf("unknown cli key: %s", key)
		}
	case "settings":
		switch key {
		case "currency":
			c.Settings.Currency = value
		default:
			return fmt.Errorf("unknown settings key: %s", key)
		}
	case "history":
		switch key {
		case "enabled":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid enabled value: %s", value)
			}
			c.History.Enabled = b
		case "database_url":
			c.History.DatabaseURL = value
		default:
			return fmt.Errorf("unknown history key: %s", key)
		}
	case "replay":
		switch key {
		case "host":
			c.Replay.Host = value
		case "port":
			return setInt(&c.Replay.Port, key, value)
		case "capture_file":
			c.Replay.CaptureFile = value
		case "interval_ms":
			return setInt(&c.Replay.IntervalMS, key, value)
		default:
			return fmt.Errorf("unknown replay key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return fmt.Errorf("invalid %s value: %s", key, value)
	}
	*dst = n
	return nil
}
