package generation

import (
	"context"

	"newsagent/internal/domain"
)

// Generator defines the capability interface for the external
// text-generation service. Implementations perform outbound network calls
// and must honor context cancellation; callers bound each call with a
// timeout and treat any error as a terminal skill failure for the current
// task (no retry above this boundary).
type Generator interface {
	// Summarize produces a prose summary of the given recent items.
	Summarize(ctx context.Context, items []*domain.Item) (string, error)

	// AnalyzeSentiment produces a sentiment and theme analysis about the
	// topic, grounded on the given topic-relevant items.
	AnalyzeSentiment(ctx context.Context, topic string, items []*domain.Item) (string, error)

	// Answer responds to a free-form question, grounded on the given
	// recent items.
	Answer(ctx context.Context, question string, items []*domain.Item) (string, error)
}
