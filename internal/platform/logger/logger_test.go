package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"mixed case", "DEBUG", slog.LevelDebug},
		{"invalid falls back to info", "verbose", slog.LevelInfo},
		{"empty falls back to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tt.level})
			require.NoError(t, err)
			require.NotNil(t, logger)

			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.expected))
			if tt.expected > slog.LevelDebug {
				assert.False(t, logger.Enabled(ctx, tt.expected-4))
			}
		})
	}
}

func TestContextLogger(t *testing.T) {
	base := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx := context.Background()
	_, ok := FromContext(ctx)
	assert.False(t, ok)

	ctx = WithLogger(ctx, base)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, base, got)

	assert.Same(t, base, FromContextOrDefault(ctx, nil))

	def := slog.New(slog.NewTextHandler(os.Stderr, nil))
	assert.Same(t, def, FromContextOrDefault(context.Background(), def))
	assert.NotNil(t, FromContextOrDefault(context.Background(), nil))
}
