package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"newsagent/internal/api"
	"newsagent/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Create API handlers using the application's services
	a2aHandler := api.NewA2AHandler(app.manager, app.logger)
	adminHandler := api.NewAdminHandler(app.engine, app.items, app.logger)

	// Conversational protocol endpoint
	r.Post("/a2a/news", a2aHandler.HandleMessage)

	// Administrative endpoints
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/ingest", adminHandler.TriggerIngest)
		r.Get("/status", adminHandler.Status)
		r.Get("/sources", adminHandler.Sources)
	})

	// Service descriptor endpoint
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		shared.RespondWithJSON(w, req, http.StatusOK, map[string]interface{}{
			"name":        "newsagent",
			"description": "Conversational news agent with scheduled feed ingestion",
			"capabilities": []string{
				"fetch-headlines",
				"summarize-news",
				"sentiment-analysis",
				"news-chat",
			},
			"endpoint": "/a2a/news",
		})
	})

	// Health check endpoint verifies database connectivity
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if _, err := app.items.CountAll(req.Context()); err != nil {
			app.logger.Error("Health check database query failed", "error", err)
			shared.RespondWithError(w, req, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
