package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"newsagent/internal/config"
	"newsagent/internal/domain"
	"newsagent/internal/generation"
)

// Generator implements the generation.Generator interface using Google's
// Gemini API.
type Generator struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator with the provided configuration.
// Returns generation.ErrInvalidConfig when required settings are missing.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: logger,
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Ensure Generator implements generation.Generator interface
var _ generation.Generator = (*Generator)(nil)

// Summarize implements generation.Generator.Summarize.
func (g *Generator) Summarize(ctx context.Context, items []*domain.Item) (string, error) {
	prompt := "Summarize the following news headlines into a concise briefing. " +
		"Group related stories and call out the most significant developments.\n\n" +
		itemCorpus(items)
	return g.generateWithRetry(ctx, prompt)
}

// AnalyzeSentiment implements generation.Generator.AnalyzeSentiment.
func (g *Generator) AnalyzeSentiment(ctx context.Context, topic string, items []*domain.Item) (string, error) {
	prompt := fmt.Sprintf(
		"Given the following news headlines and descriptions, provide a concise "+
			"sentiment and theme analysis about %q. Be specific and include notable subtopics.\n\n%s",
		topic, itemCorpus(items))
	return g.generateWithRetry(ctx, prompt)
}

// Answer implements generation.Generator.Answer.
func (g *Generator) Answer(ctx context.Context, question string, items []*domain.Item) (string, error) {
	var b strings.Builder
	b.WriteString("You are a news assistant. Answer the user's question. ")
	if len(items) > 0 {
		b.WriteString("Ground your answer on these recent headlines where relevant:\n\n")
		b.WriteString(itemCorpus(items))
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return g.generateWithRetry(ctx, b.String())
}

// itemCorpus renders items as a plain-text block for prompt grounding.
func itemCorpus(items []*domain.Item) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item.Title)
		if item.Description != "" {
			b.WriteString(": ")
			b.WriteString(item.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// generateWithRetry calls the Gemini API with exponential backoff and
// jitter on transient errors. Permanent errors (safety blocks, empty
// responses) are returned immediately.
func (g *Generator) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		text, err := g.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			g.logger.WarnContext(ctx, "permanent generation error, not retrying",
				"error", err)
			return "", err
		}

		if attempt >= maxRetries {
			g.logger.WarnContext(ctx, "maximum generation retries reached",
				"max_retries", maxRetries,
				"error", err)
			return "", fmt.Errorf("%w: exceeded %d attempts: %v",
				generation.ErrGenerationFailed, maxRetries+1, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying generation call",
			"attempt", attempt+1,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, ctx.Err())
		}
	}
}

// generate performs a single bounded API call.
func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	timeout := time.Duration(g.config.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(callCtx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: safety filters", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	return text, nil
}
