package stats

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type countingStatsRepo struct {
	refreshes atomic.Int64
	err       error
}

func (r *countingStatsRepo) Latest(_ context.Context) (*model.OrderStats, error) {
	return nil, nil
}

func (r *countingStatsRepo) Refresh(_ context.Context) (*model.OrderStats, error) {
	r.refreshes.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &model.OrderStats{}, nil
}

func TestRefresherRunsImmediatelyAndOnTick(t *testing.T) {
	repo := &countingStatsRepo{}
	r := NewRefresher(repo, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return repo.refreshes.Load() >= 3
	}, time.Second, 5*time.Millisecond, "expected the initial refresh plus ticks")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancellation")
	}
}

func TestRefresherKeepsTickingAfterFailure(t *testing.T) {
	repo := &countingStatsRepo{err: errors.New("db down")}
	r := NewRefresher(repo, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	assert.Eventually(t, func() bool {
		return repo.refreshes.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}
