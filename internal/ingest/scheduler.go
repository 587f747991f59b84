package ingest

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"newsagent/internal/domain"
	"newsagent/internal/feed"
	"newsagent/internal/store"
)

// Fetcher retrieves one feed source. Satisfied by *feed.Fetcher; tests
// substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL string) ([]feed.RawItem, error)
}

// CycleSummary is the observable result of one ingestion cycle.
type CycleSummary struct {
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration_ms"`
	ItemsFetched  int           `json:"items_fetched"`
	ItemsInserted int           `json:"items_inserted"`
	SourcesFailed []string      `json:"sources_failed"`
	Skipped       bool          `json:"skipped,omitempty"`
	SkipReason    string        `json:"skip_reason,omitempty"`
}

// EngineConfig holds configuration for the ingestion engine.
type EngineConfig struct {
	// Sources is the list of feed URLs fetched each cycle.
	Sources []string

	// Interval is the delay between scheduled cycles.
	Interval time.Duration
}

// Engine drives periodic ingestion cycles without overlap. It is the
// single scheduler instance for its store: a new cycle tick occurring
// while one is in progress is dropped, never queued.
type Engine struct {
	config  EngineConfig
	fetcher Fetcher
	items   store.ItemStore
	limiter *RateLimiter
	logger  *slog.Logger

	// running is the single-flight flag for RunCycle.
	running atomic.Bool

	mu        sync.Mutex
	lastCycle *CycleSummary

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates an ingestion engine. It does not start the scheduler;
// call Start.
func NewEngine(config EngineConfig, fetcher Fetcher, items store.ItemStore, limiter *RateLimiter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		config:  config,
		fetcher: fetcher,
		items:   items,
		limiter: limiter,
		logger:  logger.With("component", "ingest_engine"),
	}
}

// Start launches the scheduler goroutine: one immediate cycle, then one per
// configured interval until Stop is called.
func (e *Engine) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	e.wg.Add(1)
	go e.loop(ctx)

	e.logger.Info("ingestion scheduler started",
		"interval", e.config.Interval,
		"source_count", len(e.config.Sources))
}

// Stop shuts the scheduler down and waits for an in-flight cycle to finish.
// Cycles are not cancelled mid-flight; sources are processed to exhaustion
// or per-source failure.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	e.logger.Info("ingestion scheduler stopped")
}

func (e *Engine) loop(ctx context.Context) {
	defer e.wg.Done()

	// Initial cycle before settling into the ticker cadence.
	e.RunCycle(ctx)

	ticker := time.NewTicker(e.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.RunCycle(ctx)
		}
	}
}

// RunCycle executes one ingestion cycle and returns its summary. The cycle
// is skipped, with the reason recorded in the summary, when another cycle
// is still running or the rate limiter refuses a slot. Safe to call
// concurrently with the scheduler (manual admin trigger).
func (e *Engine) RunCycle(ctx context.Context) CycleSummary {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Info("skipping ingestion cycle, previous cycle still running")
		return CycleSummary{Skipped: true, SkipReason: "cycle already in progress"}
	}
	defer e.running.Store(false)

	if !e.limiter.TryAcquire(ctx) {
		e.logger.Info("skipping ingestion cycle, rate limit exhausted")
		return CycleSummary{Skipped: true, SkipReason: "rate limit exhausted"}
	}

	summary := CycleSummary{
		StartedAt:     time.Now().UTC(),
		SourcesFailed: []string{},
	}

	for _, source := range e.config.Sources {
		fetched, inserted, err := e.ingestSource(ctx, source)
		if err != nil {
			// A source-level failure never aborts the cycle; the next
			// scheduled tick is the retry mechanism.
			e.logger.Warn("source fetch failed",
				"source", source,
				"error", err)
			summary.SourcesFailed = append(summary.SourcesFailed, source)
			continue
		}
		summary.ItemsFetched += fetched
		summary.ItemsInserted += inserted
	}

	summary.Duration = time.Since(summary.StartedAt)

	e.mu.Lock()
	e.lastCycle = &summary
	e.mu.Unlock()

	e.logger.Info("ingestion cycle completed",
		"items_fetched", summary.ItemsFetched,
		"items_inserted", summary.ItemsInserted,
		"sources_failed", len(summary.SourcesFailed),
		"duration", summary.Duration)

	return summary
}

// ingestSource fetches one source and upserts its items, returning how
// many entries were fetched and how many were newly inserted.
func (e *Engine) ingestSource(ctx context.Context, source string) (fetched, inserted int, err error) {
	raw, err := e.fetcher.Fetch(ctx, source)
	if err != nil {
		return 0, 0, err
	}

	for _, entry := range raw {
		item, err := domain.NewItem(source, entry.Title, entry.Link, entry.Description, entry.PublishedAt)
		if err != nil {
			e.logger.Debug("skipping invalid feed entry",
				"source", source,
				"error", err)
			continue
		}

		created, err := e.items.CreateIfAbsent(ctx, item)
		if err != nil {
			// Storage trouble for one item should not discard the rest
			// of the batch.
			e.logger.Error("failed to store item",
				"source", source,
				"content_hash", item.ContentHash,
				"error", err)
			continue
		}
		if created {
			inserted++
		}
	}

	return len(raw), inserted, nil
}

// LastCycle returns the summary of the most recently completed cycle, or
// nil if none has run yet. Skipped cycles do not overwrite it.
func (e *Engine) LastCycle() *CycleSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lastCycle == nil {
		return nil
	}
	copied := *e.lastCycle
	return &copied
}

// Sources returns the configured source URLs.
func (e *Engine) Sources() []string {
	return append([]string(nil), e.config.Sources...)
}

// RateWindow exposes the limiter's current window for status reporting.
func (e *Engine) RateWindow() (count, limit int, windowStart time.Time) {
	return e.limiter.Window()
}
