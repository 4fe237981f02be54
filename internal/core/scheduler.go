package core

// scheduler.go runs background maintenance for the in-memory report store.
//
// Reports expire lazily on Save and Get, but a server that stops importing
// would keep expired reports forever. The sweeper purges them on a ticker
// and stops when its context is cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often expired reports are purged.
const DefaultSweepInterval = time.Hour

// Purger is a store that can drop its expired entries.
type Purger interface {
	Purge() int
}

// StartReportSweeper purges expired reports every interval until ctx is done.
// It blocks, so callers run it in a goroutine.
func StartReportSweeper(ctx context.Context, store Purger, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("report sweeper started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("report sweeper stopped")
			return
		case <-ticker.C:
			start := time.Now()
			purged := store.Purge()
			slog.Debug("expired reports purged",
				"purged", purged,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
	}
}
