package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	Init(dir)
	t.Cleanup(CloseLog)

	Log("run %s started", "abc")
	LogError(errors.New("reset"), "stream failed")

	path := Path()
	require.NotEmpty(t, path)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[notifier] ")
	assert.Contains(t, string(data), "run abc started")
	assert.Contains(t, string(data), "ERROR: stream failed: reset")
	assert.Contains(t, string(data), "logger_test.go")
}

func TestLogBeforeInitIsNoop(t *testing.T) {
	CloseLog()
	assert.NotPanics(t, func() { Log("nothing") })
	assert.Empty(t, Path())
}
