package history

import (
	"context"
	"time"

	"covid-spread/domain/metrics"
	"covid-spread/domain/timeseries"
)

// Run is the record of one render run
type Run struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	Backend       string
	Normalization string
	FirstDay      timeseries.Day
	LastDay       timeseries.Day
	Frames        int
	VideoPath     string // empty when video encoding was skipped
	VideoURL      string // empty when not published
	Summaries     []metrics.Summary
}

// Duration returns how long the run took
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists run records
type Store interface {
	// Record saves run, assigning an ID when it has none, and returns the ID
	Record(ctx context.Context, run Run) (string, error)
	// List returns the most recent runs first, at most limit (all when limit <= 0)
	List(ctx context.Context, limit int) ([]Run, error)
	// Get returns one run with its summaries
	Get(ctx context.Context, id string) (Run, error)
}
