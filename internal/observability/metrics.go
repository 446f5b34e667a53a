package observability

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Outcomes recorded per operation.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// CounterStore keeps operation counters between runs.
type CounterStore interface {
	LoadCounters(ctx context.Context) map[string]int64
	SaveCounters(ctx context.Context, counters map[string]int64) error
}

// Metrics counts operations by outcome. Count always reflects the current
// process; with a CounterStore attached, Snapshot reports the totals kept
// across runs.
type Metrics struct {
	mu         sync.Mutex
	operations map[string]int64
	store      CounterStore
	logger     *zap.Logger
}

// NewMetrics initializes in-memory metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		operations: make(map[string]int64),
		logger:     zap.NewNop(),
	}
}

// NewPersistentMetrics writes every recorded operation through to store.
// Store failures are logged and never reach the caller.
func NewPersistentMetrics(store CounterStore, logger *zap.Logger) *Metrics {
	m := NewMetrics()
	m.store = store
	m.logger = OrNop(logger)
	return m
}

// RecordOperation increments the counter for op with the given outcome.
func (m *Metrics) RecordOperation(ctx context.Context, op, outcome string) {
	if m == nil {
		return
	}
	key := opKey(op, outcome)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[key]++
	if m.store == nil {
		return
	}

	counters := m.store.LoadCounters(ctx)
	if counters == nil {
		counters = make(map[string]int64)
	}
	counters[key]++
	if err := m.store.SaveCounters(ctx, counters); err != nil {
		m.logger.Warn("failed to persist operation counter", zap.String("key", key), zap.Error(err))
	}
}

// Count returns this process's counter for op and outcome.
func (m *Metrics) Count(op, outcome string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.operations[opKey(op, outcome)]
}

// OperationCount is one row of Snapshot.
type OperationCount struct {
	Key   string
	Count int64
}

// Snapshot returns all counters sorted by key.
func (m *Metrics) Snapshot(ctx context.Context) []OperationCount {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	counters := m.operations
	if m.store != nil {
		counters = m.store.LoadCounters(ctx)
	}
	out := make([]OperationCount, 0, len(counters))
	for k, v := range counters {
		out = append(out, OperationCount{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func opKey(op, outcome string) string {
	return op + "|" + outcome
}
