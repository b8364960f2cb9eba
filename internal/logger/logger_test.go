package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mythgarden-console/internal/config"
)

func TestSetupWriter_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWriter(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	WithRequestID(log, "req-1").Info("dispatched", "digest", "TALK-5")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dispatched", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "TALK-5", entry["digest"])
}

func TestSetupWriter_DevelopmentIsTextAndLeveled(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWriter(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)

	log.Info("hidden")
	WithError(log, errors.New("boom")).Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "error=boom")
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	log, f, err := SetupFile(&config.Config{LogFile: path, LogLevel: slog.LevelInfo})
	require.NoError(t, err)

	log.Info("hello")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
}
