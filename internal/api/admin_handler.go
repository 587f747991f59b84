package api

import (
	"log/slog"
	"net/http"
	"time"

	"newsagent/internal/api/shared"
	"newsagent/internal/ingest"
	"newsagent/internal/store"
)

// AdminHandler serves the administrative boundary: manual ingestion
// triggers and status reporting.
type AdminHandler struct {
	engine *ingest.Engine
	items  store.ItemStore
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(engine *ingest.Engine, items store.ItemStore, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		engine: engine,
		items:  items,
		logger: logger.With("component", "admin_handler"),
	}
}

// ingestResponse wraps a cycle summary for the trigger endpoint.
type ingestResponse struct {
	Message string              `json:"message"`
	Result  ingest.CycleSummary `json:"result"`
}

// rateWindowStatus is the rate limiter's state in the status response.
type rateWindowStatus struct {
	Count       int       `json:"count"`
	Limit       int       `json:"limit"`
	WindowStart time.Time `json:"window_start"`
}

// statusResponse is the body of the status endpoint.
type statusResponse struct {
	Status      string           `json:"status"`
	TotalItems  int64            `json:"total_items"`
	LastCycleAt *time.Time       `json:"last_cycle_at,omitempty"`
	RateWindow  rateWindowStatus `json:"rate_window"`
}

// sourcesResponse is the body of the sources endpoint.
type sourcesResponse struct {
	TotalSources int      `json:"total_sources"`
	Sources      []string `json:"sources"`
}

// TriggerIngest handles POST /api/admin/ingest requests. The cycle runs
// synchronously; a skip (rate limit exhausted, cycle already running) is a
// normal response, not an error.
func (h *AdminHandler) TriggerIngest(w http.ResponseWriter, r *http.Request) {
	summary := h.engine.RunCycle(r.Context())

	message := "ingestion cycle completed"
	if summary.Skipped {
		message = "ingestion cycle skipped"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ingestResponse{
		Message: message,
		Result:  summary,
	})
}

// Status handles GET /api/admin/status requests.
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	total, err := h.items.CountAll(r.Context())
	if err != nil {
		h.logger.Error("failed to count items", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to read store status")
		return
	}

	count, limit, windowStart := h.engine.RateWindow()

	resp := statusResponse{
		Status:     "operational",
		TotalItems: total,
		RateWindow: rateWindowStatus{
			Count:       count,
			Limit:       limit,
			WindowStart: windowStart,
		},
	}
	if last := h.engine.LastCycle(); last != nil {
		resp.LastCycleAt = &last.StartedAt
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Sources handles GET /api/admin/sources requests.
func (h *AdminHandler) Sources(w http.ResponseWriter, r *http.Request) {
	sources := h.engine.Sources()
	shared.RespondWithJSON(w, r, http.StatusOK, sourcesResponse{
		TotalSources: len(sources),
		Sources:      sources,
	})
}
