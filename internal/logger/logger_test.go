package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(Config{Level: "info", Format: "json", Output: &buf}), "usda")

	log.Debug("hidden")
	log.Info("search complete", "results", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "search complete", entry["msg"])
	assert.Equal(t, "usda", entry["component"])
	assert.Equal(t, float64(3), entry["results"])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "yaml", Output: &buf})

	log.Warn("skipped ingredient", "ingredient", "croutons")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "ingredient=croutons")
}
