package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("overlay", func(t *testing.T) {
		path := writeConfig(t, `
fixtures: fixtures
workers: 8
logging:
  level: debug
  trace_events: true
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "fixtures", cfg.Fixtures)
		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "console", cfg.Logging.Format)
		assert.True(t, cfg.Logging.TraceEvents)
	})

	invalid := []struct {
		name string
		body string
	}{
		{"unknown level", "logging:\n  level: loud\n"},
		{"unknown format", "logging:\n  format: xml\n"},
		{"no workers", "workers: 0\n"},
		{"too many workers", "workers: 1000\n"},
		{"empty fixtures", "fixtures: \"\"\n"},
		{"not yaml", "fixtures: [\n"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoggingConfig_ZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, LoggingConfig{Level: "trace"}.ZerologLevel())
	assert.Equal(t, zerolog.DebugLevel, LoggingConfig{Level: "debug"}.ZerologLevel())
	assert.Equal(t, zerolog.InfoLevel, LoggingConfig{Level: "info"}.ZerologLevel())
	assert.Equal(t, zerolog.WarnLevel, LoggingConfig{Level: "warn"}.ZerologLevel())
	assert.Equal(t, zerolog.ErrorLevel, LoggingConfig{Level: "error"}.ZerologLevel())
	assert.Equal(t, zerolog.InfoLevel, LoggingConfig{}.ZerologLevel())
}
