// Package stats runs the periodic order-stats rollup.
package stats

import (
	"context"
	"time"

	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// Refresher recomputes the order-stats rollup on a fixed interval so the
// admin dashboard reads a cheap precomputed row instead of aggregating the
// order tables on every request.
type Refresher struct {
	repo     repository.StatsRepository
	interval time.Duration
	logger   zerolog.Logger
}

// NewRefresher creates a stats refresher.
func NewRefresher(repo repository.StatsRepository, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		repo:     repo,
		interval: interval,
		logger:   logger.With().Str("component", "stats_refresher").Logger(),
	}
}

// Run refreshes once immediately, then on every tick until the context is
// cancelled. A failed refresh is logged and retried on the next tick; the
// previous rollup row stays readable throughout.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Info().Dur("interval", r.interval).Msg("stats refresher started")

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("stats refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	if _, err := r.repo.Refresh(ctx); err != nil {
		r.logger.Error().Err(err).Msg("stats refresh failed")
	}
}
