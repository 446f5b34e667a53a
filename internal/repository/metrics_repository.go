package repository

import (
	"context"

	"github.com/spec-kit/ticket-tracker/internal/observability"
	"github.com/spec-kit/ticket-tracker/internal/persistence"
)

var _ observability.CounterStore = (*MetricsRepository)(nil)

// MetricsRepository keeps operation counters in the store so they add up
// across invocations.
type MetricsRepository struct {
	store *persistence.Store
}

// NewMetricsRepository returns a store-backed counter store.
func NewMetricsRepository(store *persistence.Store) *MetricsRepository {
	return &MetricsRepository{store: store}
}

// LoadCounters returns the stored counters, or an empty map.
func (r *MetricsRepository) LoadCounters(ctx context.Context) map[string]int64 {
	counters := persistence.Read(ctx, r.store, persistence.KeyMetrics, map[string]int64{})
	if counters == nil {
		return map[string]int64{}
	}
	return counters
}

func (r *MetricsRepository) SaveCounters(ctx context.Context, counters map[string]int64) error {
	return r.store.Write(ctx, persistence.KeyMetrics, counters)
}
