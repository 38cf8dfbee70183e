package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/garage/pkg/config"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Run("text respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(config.Logging{Level: "warn", Format: "text"}, &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown", "index", 99)

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.Contains(t, buf.String(), "index=99")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(config.Logging{Level: "debug", Format: "json"}, &buf)
		require.NoError(t, err)

		logger.Debug("garage built", "vehicles", 3)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "garage built", entry["msg"])
		assert.Equal(t, 3.0, entry["vehicles"])
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := New(config.Logging{Level: "info", Format: "xml"}, &bytes.Buffer{})
		assert.Error(t, err)

		_, err = New(config.Logging{Level: "loud"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}
