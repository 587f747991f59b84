package gemini

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/config"
	"newsagent/internal/domain"
	"newsagent/internal/generation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewGeneratorValidation(t *testing.T) {
	ctx := context.Background()

	_, err := NewGenerator(ctx, testLogger(), config.LLMConfig{ModelName: "gemini-2.0-flash"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generation.ErrInvalidConfig), "missing API key")

	_, err = NewGenerator(ctx, testLogger(), config.LLMConfig{GeminiAPIKey: "key"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generation.ErrInvalidConfig), "missing model name")

	_, err = NewGenerator(ctx, nil, config.LLMConfig{GeminiAPIKey: "key", ModelName: "m"})
	require.Error(t, err)
}

func TestItemCorpus(t *testing.T) {
	published := []*domain.Item{
		{Title: "Story One", Description: "Details here."},
		{Title: "Story Two"},
	}

	corpus := itemCorpus(published)
	assert.Equal(t, "- Story One: Details here.\n- Story Two\n", corpus)
}
