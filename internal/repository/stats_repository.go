package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// statsRepository implements the StatsRepository interface using PostgreSQL.
type statsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStatsRepository creates a new PostgreSQL-backed stats repository.
func NewStatsRepository(pool *pgxpool.Pool, logger zerolog.Logger) StatsRepository {
	return &statsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "stats").Logger(),
	}
}

// Latest retrieves the newest rollup row.
func (r *statsRepository) Latest(ctx context.Context) (*model.OrderStats, error) {
	query := `
		SELECT total_orders, total_units, total_amount, updated_at
		FROM order_stats
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s model.OrderStats
	var updatedAt time.Time
	err := r.pool.QueryRow(ctx, query).Scan(&s.TotalOrders, &s.TotalUnits, &s.TotalAmount, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order stats")
		return nil, fmt.Errorf("failed to query order stats: %w", err)
	}
	s.LastUpdated = &updatedAt

	return &s, nil
}

// Refresh recomputes the rollup from the order tables and appends a new row.
func (r *statsRepository) Refresh(ctx context.Context) (*model.OrderStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(quantity), 0) FROM order_items),
			(SELECT COALESCE(SUM(total), 0) FROM orders)
	`

	var s model.OrderStats
	if err := r.pool.QueryRow(ctx, query).Scan(&s.TotalOrders, &s.TotalUnits, &s.TotalAmount); err != nil {
		r.logger.Error().Err(err).Msg("failed to compute order stats")
		return nil, fmt.Errorf("failed to compute order stats: %w", err)
	}

	now := time.Now()
	insert := `
		INSERT INTO order_stats (id, total_orders, total_units, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, insert, uuid.New(), s.TotalOrders, s.TotalUnits, s.TotalAmount, now, now); err != nil {
		r.logger.Error().Err(err).Msg("failed to insert order stats")
		return nil, fmt.Errorf("failed to insert order stats: %w", err)
	}
	s.LastUpdated = &now

	r.logger.Debug().
		Int64("total_orders", s.TotalOrders).
		Int64("total_units", s.TotalUnits).
		Float64("total_amount", s.TotalAmount).
		Msg("order stats refreshed")

	return &s, nil
}
