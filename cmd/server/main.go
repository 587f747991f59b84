// Package main implements the entry point for the news agent server,
// which ingests configured feed sources on a schedule and exposes the
// conversational A2A protocol plus an administrative boundary over HTTP.
package main

import (
	"context"
	"log"
	"log/slog"

	"newsagent/internal/config"
	"newsagent/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start news agent: %v", err)
	}
}

// run wires the application together: configuration, logging, database,
// migrations, dependencies, background scheduler, and the HTTP server.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return err
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"source_count", len(cfg.Ingest.Sources),
		"ingest_interval_minutes", cfg.Ingest.IntervalMinutes)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if err := runMigrations(db, appLogger); err != nil {
		return err
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return err
	}

	app.engine.Start()

	return app.startHTTPServer(ctx, app.setupRouter())
}
