package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"newsagent/internal/store"
)

// RateLimiter bounds how many ingestion cycles may run per fixed window.
// Exhaustion is a normal outcome, not an error: TryAcquire simply returns
// false and the caller skips the cycle.
//
// The window counter is written through to the RateStore so a restart does
// not reset the budget; persistence failures are logged and never block an
// acquisition decision.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	duration time.Duration
	window   store.RateWindow
	rates    store.RateStore
	logger   *slog.Logger

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing limit acquisitions per
// duration. Any previously persisted window is loaded so restarts continue
// the running window; rates may be nil for purely in-memory operation.
func NewRateLimiter(ctx context.Context, limit int, duration time.Duration, rates store.RateStore, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}

	l := &RateLimiter{
		limit:    limit,
		duration: duration,
		rates:    rates,
		logger:   logger.With("component", "rate_limiter"),
		now:      time.Now,
	}

	if rates != nil {
		persisted, err := rates.Get(ctx)
		switch {
		case err == nil:
			l.window = *persisted
		case errors.Is(err, store.ErrRateWindowNotFound):
			// First run, fresh window.
		default:
			l.logger.Warn("failed to load persisted rate window, starting fresh",
				"error", err)
		}
	}

	return l
}

// TryAcquire reports whether the caller is authorized to perform one fetch
// cycle. It is atomic with respect to concurrent callers: the timer and a
// manual trigger may race without overcounting. Refusal never mutates the
// counter.
func (l *RateLimiter) TryAcquire(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()

	if l.window.Count >= l.limit {
		return false
	}

	l.window.Count++
	l.persist(ctx)
	return true
}

// Window returns the current window state for status reporting.
func (l *RateLimiter) Window() (count, limit int, windowStart time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()
	return l.window.Count, l.limit, l.window.WindowStart
}

// rollover resets the counter when the current time has crossed the end of
// the window. Caller must hold l.mu.
func (l *RateLimiter) rollover() {
	now := l.now()
	if l.window.WindowStart.IsZero() || now.Sub(l.window.WindowStart) >= l.duration {
		l.window = store.RateWindow{WindowStart: now}
	}
}

// persist writes the window through to the store. Best effort: failures
// are logged and the in-memory decision stands. Caller must hold l.mu.
func (l *RateLimiter) persist(ctx context.Context) {
	if l.rates == nil {
		return
	}
	window := l.window
	if err := l.rates.Put(ctx, &window); err != nil {
		l.logger.Warn("failed to persist rate window",
			"error", err,
			"count", window.Count)
	}
}
