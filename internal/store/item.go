package store

import (
	"context"

	"newsagent/internal/domain"
)

// ItemStore defines the persistence interface for ingested feed items.
type ItemStore interface {
	// CreateIfAbsent inserts the item unless one with the same content
	// hash already exists. Returns true when a new row was inserted and
	// false for a dedup no-op; the existing row is never touched.
	CreateIfAbsent(ctx context.Context, item *domain.Item) (bool, error)

	// ListRecent returns up to limit items ordered most recent first
	// (published time, falling back to first seen).
	ListRecent(ctx context.Context, limit int) ([]*domain.Item, error)

	// CountAll returns the total number of stored items.
	CountAll(ctx context.Context) (int64, error)
}
