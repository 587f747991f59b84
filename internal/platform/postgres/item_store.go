package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"newsagent/internal/domain"
	"newsagent/internal/platform/logger"
	"newsagent/internal/store"
)

// PostgresItemStore implements the store.ItemStore interface using a
// PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// CreateIfAbsent implements store.ItemStore.CreateIfAbsent.
// It inserts the item unless a row with the same content hash already
// exists, relying on the unique index and ON CONFLICT DO NOTHING so a
// dedup no-op never overwrites the existing row's first_seen_at.
func (s *PostgresItemStore) CreateIfAbsent(ctx context.Context, item *domain.Item) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("source_id", item.SourceID))
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO items (id, source_id, title, link, description, published_at, content_hash, first_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (content_hash) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.SourceID,
		item.Title,
		item.Link,
		item.Description,
		item.PublishedAt,
		item.ContentHash,
		item.FirstSeenAt,
	)
	if err != nil {
		log.Error("failed to insert item",
			slog.String("error", err.Error()),
			slog.String("content_hash", item.ContentHash),
			slog.String("source_id", item.SourceID))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	inserted := affected > 0
	if inserted {
		log.Debug("item inserted",
			slog.String("item_id", item.ID.String()),
			slog.String("source_id", item.SourceID))
	}
	return inserted, nil
}

// ListRecent implements store.ItemStore.ListRecent.
// Items are ordered by publication time where the feed provided one,
// falling back to first sighting, most recent first.
func (s *PostgresItemStore) ListRecent(ctx context.Context, limit int) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, source_id, title, link, description, published_at, content_hash, first_seen_at
		FROM items
		ORDER BY COALESCE(published_at, first_seen_at) DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to list recent items", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.Item
	for rows.Next() {
		var item domain.Item
		var published sql.NullTime
		if err := rows.Scan(
			&item.ID,
			&item.SourceID,
			&item.Title,
			&item.Link,
			&item.Description,
			&published,
			&item.ContentHash,
			&item.FirstSeenAt,
		); err != nil {
			return nil, err
		}
		if published.Valid {
			t := published.Time
			item.PublishedAt = &t
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// CountAll implements store.ItemStore.CountAll.
func (s *PostgresItemStore) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
