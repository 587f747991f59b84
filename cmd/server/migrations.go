package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"newsagent/internal/platform/postgres"
)

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf forwards to slog.Error without calling os.Exit. The error is
// returned to main, which owns process exit.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations applies all pending schema migrations embedded in the
// postgres package.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	migrationLogger := logger.With("component", "migrations")
	startTime := time.Now()

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(postgres.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	migrationLogger.Info("Applying database migrations")

	if err := goose.Up(db, "migrations"); err != nil {
		migrationLogger.Error("Migration failed",
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds())
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		migrationLogger.Warn("Could not read migration version after apply", "error", err)
	}

	migrationLogger.Info("Database migrations applied",
		"version", version,
		"duration_ms", time.Since(startTime).Milliseconds())
	return nil
}
