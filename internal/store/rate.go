package store

import (
	"context"
	"time"
)

// RateWindow is the persisted counter record for the ingestion rate
// limiter: how many cycles have been authorized since the window started.
// The limit itself is configuration, not state, and is not persisted.
type RateWindow struct {
	WindowStart time.Time
	Count       int
}

// RateStore persists the single rate window so a process restart does not
// reset the ingestion budget.
type RateStore interface {
	// Get returns the persisted window, or ErrRateWindowNotFound when
	// none has been saved yet.
	Get(ctx context.Context) (*RateWindow, error)

	// Put saves the window, replacing any previous record.
	Put(ctx context.Context, window *RateWindow) error
}
