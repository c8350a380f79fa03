package sweeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/EVM-AvailabilityService/pkg/clock"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeHoldRepo struct {
	mu      sync.Mutex
	deleted int64
	befores []time.Time
}

func (f *fakeHoldRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.befores = append(f.befores, before)
	return f.deleted, nil
}

type fakeMetrics struct {
	mu    sync.Mutex
	total int
}

func (f *fakeMetrics) AddHoldsExpired(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total += n
}

func TestSweeperRun(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	grace := time.Hour

	repo := &fakeHoldRepo{deleted: 3}
	metrics := &fakeMetrics{}
	s := New(repo, clock.NewFixed(now), 10*time.Millisecond, grace, metrics, nopLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	repo.mu.Lock()
	sweeps := len(repo.befores)
	var before time.Time
	if sweeps > 0 {
		before = repo.befores[0]
	}
	repo.mu.Unlock()

	assert.Greater(t, sweeps, 0)
	// Уборка отступает на grace от текущего момента
	assert.Equal(t, now.Add(-grace), before)

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	assert.Equal(t, 3*sweeps, metrics.total)
}
