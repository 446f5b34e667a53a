package observability

import (
	"context"
	"errors"
	"testing"
)

type memoryCounters struct {
	saved   map[string]int64
	saveErr error
}

func (c *memoryCounters) LoadCounters(context.Context) map[string]int64 {
	out := make(map[string]int64, len(c.saved))
	for k, v := range c.saved {
		out[k] = v
	}
	return out
}

func (c *memoryCounters) SaveCounters(_ context.Context, counters map[string]int64) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saved = counters
	return nil
}

func TestMetricsRecordOperation(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics()
	m.RecordOperation(ctx, "signup", OutcomeSuccess)
	m.RecordOperation(ctx, "signup", OutcomeSuccess)
	m.RecordOperation(ctx, "signup", OutcomeRejected)
	m.RecordOperation(ctx, "login", OutcomeError)

	if got := m.Count("signup", OutcomeSuccess); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := m.Count("login", OutcomeSuccess); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}

	snap := m.Snapshot(ctx)
	if len(snap) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(snap))
	}
	if snap[0].Key != "login|error" {
		t.Fatalf("expected sorted snapshot, got first key %q", snap[0].Key)
	}
}

func TestPersistentMetricsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	counters := &memoryCounters{}

	first := NewPersistentMetrics(counters, nil)
	first.RecordOperation(ctx, "create_ticket", OutcomeSuccess)
	first.RecordOperation(ctx, "create_ticket", OutcomeSuccess)

	second := NewPersistentMetrics(counters, nil)
	second.RecordOperation(ctx, "create_ticket", OutcomeSuccess)

	if got := second.Count("create_ticket", OutcomeSuccess); got != 1 {
		t.Fatalf("expected process count 1, got %d", got)
	}
	snap := NewPersistentMetrics(counters, nil).Snapshot(ctx)
	if len(snap) != 1 || snap[0].Key != "create_ticket|success" || snap[0].Count != 3 {
		t.Fatalf("expected total of 3 across runs, got %+v", snap)
	}
}

func TestPersistentMetricsIgnoreStoreFailure(t *testing.T) {
	ctx := context.Background()
	m := NewPersistentMetrics(&memoryCounters{saveErr: errors.New("disk full")}, nil)
	m.RecordOperation(ctx, "login", OutcomeSuccess)
	if got := m.Count("login", OutcomeSuccess); got != 1 {
		t.Fatalf("expected in-process count to survive store failure, got %d", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordOperation(context.Background(), "x", OutcomeSuccess)
	if m.Count("x", OutcomeSuccess) != 0 || m.Snapshot(context.Background()) != nil {
		t.Fatalf("nil metrics should be inert")
	}
}
