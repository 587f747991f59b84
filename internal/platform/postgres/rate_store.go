package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"newsagent/internal/store"
)

// PostgresRateStore implements the store.RateStore interface. The rate
// window is a single row (id = 1) upserted on every change.
type PostgresRateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRateStore creates a new PostgreSQL implementation of the
// RateStore interface.
func NewPostgresRateStore(db store.DBTX, logger *slog.Logger) *PostgresRateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRateStore{
		db:     db,
		logger: logger.With(slog.String("component", "rate_store")),
	}
}

// Ensure PostgresRateStore implements store.RateStore interface
var _ store.RateStore = (*PostgresRateStore)(nil)

// Get implements store.RateStore.Get.
func (s *PostgresRateStore) Get(ctx context.Context) (*store.RateWindow, error) {
	query := `SELECT window_start, count FROM rate_windows WHERE id = 1`

	var window store.RateWindow
	err := s.db.QueryRowContext(ctx, query).Scan(&window.WindowStart, &window.Count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRateWindowNotFound
		}
		s.logger.Error("failed to read rate window", slog.String("error", err.Error()))
		return nil, err
	}

	return &window, nil
}

// Put implements store.RateStore.Put.
func (s *PostgresRateStore) Put(ctx context.Context, window *store.RateWindow) error {
	query := `
		INSERT INTO rate_windows (id, window_start, count)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET window_start = $1, count = $2
	`
	if _, err := s.db.ExecContext(ctx, query, window.WindowStart, window.Count); err != nil {
		s.logger.Error("failed to save rate window", slog.String("error", err.Error()))
		return err
	}
	return nil
}
