package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"lenflow/internal/config"
	"lenflow/internal/domain"
	"lenflow/internal/port"
)

// Sweeper is the background janitor for the intake ledger. A crash
// between transfer and submit leaves a stored object with no owner; the
// sweeper finds reservations that have sat in a non-terminal state past
// the stale window, deletes their objects, and marks them swept.
type Sweeper struct {
	staging      port.StagingRepository
	storage      port.ObjectStorage
	pollInterval time.Duration
	staleAfter   time.Duration
	batchSize    int
	concurrency  int
}

// NewSweeper creates a sweeper from config.
func NewSweeper(staging port.StagingRepository, storage port.ObjectStorage, cfg *config.SweeperConfig) *Sweeper {
	return &Sweeper{
		staging:      staging,
		storage:      storage,
		pollInterval: time.Duration(cfg.PollIntervalSecs) * time.Second,
		staleAfter:   time.Duration(cfg.StaleAfterSecs) * time.Second,
		batchSize:    cfg.BatchSize,
		concurrency:  cfg.Concurrency,
	}
}

// Run polls until the context is canceled. One sweep per tick.
func (w *Sweeper) Run(ctx context.Context) {
	log.Printf("sweeper.Run: starting (interval=%s, stale_after=%s)", w.pollInterval, w.staleAfter)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper.Run: stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			if n, err := w.SweepOnce(ctx); err != nil {
				log.Printf("sweeper.Run: sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("sweeper.Run: swept %d orphaned uploads", n)
			}
		}
	}
}

// SweepOnce processes one batch of stale reservations and returns how
// many it swept.
func (w *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-w.staleAfter)
	stale, err := w.staging.ListStalePending(ctx, cutoff, w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	swept := 0
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	results := make([]bool, len(stale))
	for i, pu := range stale {
		i, pu := i, pu
		g.Go(func() error {
			if err := w.storage.Delete(gctx, pu.StorageBucket, pu.StorageKey); err != nil {
				log.Printf("sweeper.SweepOnce: delete of %s failed, will retry next sweep: %v", pu.StorageKey, err)
				return nil
			}
			if err := w.staging.UpdatePendingState(gctx, pu.ID, domain.PendingSwept); err != nil {
				log.Printf("sweeper.SweepOnce: failed to mark %s swept: %v", pu.ID, err)
				return nil
			}
			results[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for _, ok := range results {
		if ok {
			swept++
		}
	}
	return swept, nil
}
