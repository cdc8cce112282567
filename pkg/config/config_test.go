package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMergesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[server]
base_url = "http://deals.local:8000"

[cli]
watch_timeout = 90
`))
	require.NoError(t, err)

	assert.Equal(t, "http://deals.local:8000", cfg.Server.BaseURL)
	assert.Equal(t, "/api/stream_run", cfg.Server.StreamPath)
	assert.Equal(t, "/api/settings", cfg.Server.SettingsPath)
	assert.Equal(t, 90, cfg.CLI.WatchTimeout)
	assert.Equal(t, 30, cfg.CLI.RequestTimeout)
	assert.Equal(t, "tmp", cfg.CLI.LogDir)
	assert.Equal(t, "INR", cfg.Settings.Currency)
	assert.Equal(t, 5000, cfg.Replay.Port)
	assert.Equal(t, 150, cfg.Replay.IntervalMS)
}

func TestParseRejectsBadTOML(t *testing.T) {
	_, err := Parse([]byte("[server\nbase_url ="))
	assert.Error(t, err)
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("NOTIFIER_CONFIG", path)
	t.Setenv("NOTIFIER_BASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[history]\nenabled = true\n"), 0644))
	t.Setenv("NOTIFIER_CONFIG", path)
	t.Setenv("NOTIFIER_BASE_URL", "http://override:9000")
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "http://override:9000", cfg.Server.BaseURL)
	assert.Equal(t, "postgres://env/db", cfg.History.DatabaseURL)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("NOTIFIER_CONFIG", path)

	cfg := DefaultConfig()
	cfg.Settings.Currency = "USD"
	cfg.CLI.NoColor = true
	require.NoError(t, Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("server.base_url", "http://x:1"))
	require.NoError(t, cfg.Set("cli.watch_timeout", "45"))
	require.NoError(t, cfg.Set("cli.no_color", "true"))
	require.NoError(t, cfg.Set("history.enabled", "1"))
	require.NoError(t, cfg.Set("replay.port", "6000"))

	assert.Equal(t, "http://x:1", cfg.Server.BaseURL)
	assert.Equal(t, 45, cfg.CLI.WatchTimeout)
	assert.True(t, cfg.CLI.NoColor)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 6000, cfg.Replay.Port)
}

func TestSetErrors(t *testing.T) {
	cfg := DefaultConfig()
	for _, tc := range []struct{ key, value string }{
		{"server", "x"},
		{"server.nope", "x"},
		{"server.base_url", "localhost"},
		{"nope.key", "x"},
		{"cli.watch_timeout", "soon"},
		{"cli.request_timeout", "-1"},
		{"replay.port", "50.5"},
		{"history.enabled", "maybe"},
	} {
		assert.Error(t, cfg.Set(tc.key, tc.value), tc.key)
	}
	assert.Equal(t, DefaultConfig(), cfg)
}
