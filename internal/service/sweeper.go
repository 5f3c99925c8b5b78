package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/s-a-yu/auraPerfumeRec/internal/port/taskstore"
)

// Sweeper periodically purges task records older than maxAge. The store is
// in-memory only, so this sweep is the sole reclaim path for finished and
// abandoned tasks.
type Sweeper struct {
	store    taskstore.Store
	interval time.Duration
	maxAge   time.Duration
}

// NewSweeper creates a Sweeper.
func NewSweeper(store taskstore.Store, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval, maxAge: maxAge}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.store.Sweep(s.maxAge); removed > 0 {
					slog.Info("swept old research tasks", "removed", removed, "max_age", s.maxAge)
				}
			}
		}
	}()
}
