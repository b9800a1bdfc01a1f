package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/merrysway/storefront/internal/infrastructure/config"
)

func TestPresets(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *Config
		format string
		output string
		level  string
	}{
		{"default", DefaultConfig(), "console", "stdout", "info"},
		{"production", ProductionConfig(), "json", "stdout", "info"},
		{"cli", CLIConfig(), "console", "stderr", "warn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.format, tt.cfg.Format)
			assert.Equal(t, tt.output, tt.cfg.Output)
			assert.Equal(t, tt.level, tt.cfg.Level)
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("builds a logger for each preset", func(t *testing.T) {
		for _, cfg := range []*Config{DefaultConfig(), ProductionConfig(), CLIConfig()} {
			l, err := New(cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New(&Config{Level: "verbose", Format: "json", Output: "stdout"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "verbose")
	})

	t.Run("fails when the log file cannot be opened", func(t *testing.T) {
		_, err := New(&Config{Level: "info", Format: "json", Output: filepath.Join(t.TempDir(), "missing", "app.log")})
		require.Error(t, err)
	})

	t.Run("honours the configured level", func(t *testing.T) {
		l, err := New(&Config{Level: "error", Format: "json", Output: "stderr"})
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
		assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
	})
}

func TestFromConfig(t *testing.T) {
	l, err := FromConfig(config.LogConfig{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		l, err := NewForEnvironment(env)
		require.NoError(t, err, env)
		assert.NotNil(t, l)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"trace", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("order pushed")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"order pushed"`)
	assert.Contains(t, string(data), `"level":"info"`)
}
