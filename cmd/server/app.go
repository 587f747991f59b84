package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"newsagent/internal/agent"
	"newsagent/internal/config"
	"newsagent/internal/feed"
	"newsagent/internal/generation"
	"newsagent/internal/ingest"
	"newsagent/internal/platform/gemini"
	"newsagent/internal/platform/postgres"
	"newsagent/internal/store"
)

// application holds all shared resources and services used by the server.
type application struct {
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	items store.ItemStore
	rates store.RateStore

	// Domain services
	generator generation.Generator
	manager   *agent.Manager
	engine    *ingest.Engine
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.items = postgres.NewPostgresItemStore(db, logger)
	app.rates = postgres.NewPostgresRateStore(db, logger)

	// Create the LLM generator service
	var err error
	app.generator, err = gemini.NewGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized successfully")

	// Initialize the agent task manager
	app.manager = agent.NewManager(app.items, app.generator, logger)

	// Initialize the ingestion engine with its rate limiter
	limiter := ingest.NewRateLimiter(
		ctx,
		cfg.Ingest.RateLimit,
		time.Duration(cfg.Ingest.RateWindowMinutes)*time.Minute,
		app.rates,
		logger,
	)
	fetcher := feed.NewFetcher(time.Duration(cfg.Ingest.FetchTimeoutSeconds) * time.Second)
	app.engine = ingest.NewEngine(
		ingest.EngineConfig{
			Sources:  cfg.Ingest.Sources,
			Interval: time.Duration(cfg.Ingest.IntervalMinutes) * time.Minute,
		},
		fetcher,
		app.items,
		limiter,
		logger,
	)
	logger.Info("Ingestion engine initialized",
		"source_count", len(cfg.Ingest.Sources),
		"rate_limit", cfg.Ingest.RateLimit,
		"rate_window_minutes", cfg.Ingest.RateWindowMinutes)

	return app, nil
}

// cleanup releases resources held by the application. It is called during
// graceful shutdown after the HTTP server has stopped accepting requests.
func (app *application) cleanup() {
	app.logger.Info("Cleaning up application resources")

	app.engine.Stop()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		} else {
			app.logger.Info("Database connection closed")
		}
	}
}
