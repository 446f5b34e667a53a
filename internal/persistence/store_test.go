package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/config"
	"github.com/spec-kit/ticket-tracker/internal/domain"
)

func sampleTickets() []domain.Ticket {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Ticket{
		{ID: "t-1", Title: "Fix login", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh, CreatedAt: created, UpdatedAt: created, OwnerID: "acct-1"},
		{ID: "t-2", Title: "Update docs", Description: "README is stale", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityLow, CreatedAt: created.Add(time.Minute), UpdatedAt: created.Add(time.Hour), OwnerID: "acct-1"},
		{ID: "t-3", Title: "Close stale", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityMedium, CreatedAt: created.Add(2 * time.Minute), UpdatedAt: created.Add(2 * time.Minute), OwnerID: "acct-2"},
	}
}

func assertTicketsEqual(t *testing.T, want, got []domain.Ticket) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d tickets, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.ID != g.ID || w.Title != g.Title || w.Description != g.Description ||
			w.Status != g.Status || w.Priority != g.Priority || w.OwnerID != g.OwnerID {
			t.Fatalf("ticket %d mismatch: want %+v, got %+v", i, w, g)
		}
		if !w.CreatedAt.Equal(g.CreatedAt) || !w.UpdatedAt.Equal(g.UpdatedAt) {
			t.Fatalf("ticket %d timestamps mismatch: want %v/%v, got %v/%v", i, w.CreatedAt, w.UpdatedAt, g.CreatedAt, g.UpdatedAt)
		}
	}
}

// runStoreSuite exercises the Store contract against backend.
func runStoreSuite(t *testing.T, backend Backend) {
	ctx := context.Background()
	store := NewStore(backend, "test_"+time.Now().Format("150405.000000")+":", zap.NewNop())
	t.Cleanup(func() {
		_ = store.Clear(ctx, KeyTickets)
		_ = store.Clear(ctx, KeySession)
		_ = store.Clear(ctx, KeyAccounts)
	})

	t.Run("missing key returns default", func(t *testing.T) {
		got := Read(ctx, store, KeyTickets, []domain.Ticket{})
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty default, got %v", got)
		}
		if store.Exists(ctx, KeyTickets) {
			t.Fatalf("expected key to be absent")
		}
	})

	t.Run("round trip preserves order and fields", func(t *testing.T) {
		want := sampleTickets()
		if err := store.Write(ctx, KeyTickets, want); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		got := Read(ctx, store, KeyTickets, []domain.Ticket{})
		assertTicketsEqual(t, want, got)
		if !store.Exists(ctx, KeyTickets) {
			t.Fatalf("expected key to exist")
		}
	})

	t.Run("overwrite replaces value", func(t *testing.T) {
		want := sampleTickets()[:1]
		if err := store.Write(ctx, KeyTickets, want); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		assertTicketsEqual(t, want, Read(ctx, store, KeyTickets, []domain.Ticket{}))
	})

	t.Run("corrupt value returns default", func(t *testing.T) {
		if err := backend.Put(ctx, store.name(KeyTickets), []byte("{not json")); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		got := Read(ctx, store, KeyTickets, []domain.Ticket{})
		if len(got) != 0 {
			t.Fatalf("expected empty default for corrupt value, got %v", got)
		}
	})

	t.Run("pointer values and clear", func(t *testing.T) {
		session := &domain.Session{AccountID: "acct-1", Name: "Ann", Email: "a@b.com"}
		if err := store.Write(ctx, KeySession, session); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		got := Read[*domain.Session](ctx, store, KeySession, nil)
		if got == nil || got.AccountID != "acct-1" || got.Name != "Ann" {
			t.Fatalf("unexpected session %+v", got)
		}
		if err := store.Clear(ctx, KeySession); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if err := store.Clear(ctx, KeySession); err != nil {
			t.Fatalf("second clear should be a no-op, got %v", err)
		}
		if Read[*domain.Session](ctx, store, KeySession, nil) != nil {
			t.Fatalf("expected nil session after clear")
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Fatalf("ping failed: %v", err)
		}
	})
}

func TestMemoryBackend(t *testing.T) {
	runStoreSuite(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	runStoreSuite(t, backend)

	ctx := context.Background()
	if err := backend.Put(ctx, "ticket_tracker:accounts", []byte("[]")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ticket_tracker_accounts.json")); err != nil {
		t.Fatalf("expected sanitized file name: %v", err)
	}
}

func TestFileBackendRequiresDir(t *testing.T) {
	if _, err := NewFileBackend(""); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

func TestSQLiteBackend(t *testing.T) {
	backend, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "store.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	runStoreSuite(t, backend)
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis backend tests")
	}
	backend := NewRedis(config.RedisConfig{Addr: addr})
	t.Cleanup(func() { backend.Close() })
	if err := backend.Ping(context.Background()); err != nil {
		t.Skipf("skipping redis backend tests: %v", err)
	}
	runStoreSuite(t, backend)
}

func TestPostgresBackend(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres backend tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	backend, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 2}, zap.NewNop())
	if err != nil {
		t.Skipf("skipping postgres backend tests: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	if err := RunMigrations(ctx, backend.PoolHandle(), zap.NewNop()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	runStoreSuite(t, backend)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cases := []struct {
		backend string
		wantErr bool
	}{
		{backend: config.BackendMemory},
		{backend: config.BackendFile},
		{backend: config.BackendSQLite},
		{backend: "floppy", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			cfg := &config.Config{Store: config.StoreConfig{
				Backend:    tc.backend,
				Dir:        filepath.Join(dir, tc.backend),
				SQLitePath: filepath.Join(dir, tc.backend, "tracker.db"),
				KeyPrefix:  "tt:",
			}}
			store, err := Open(ctx, cfg, nil)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}
			defer store.Close()
			if err := store.Write(ctx, KeyAccounts, []domain.Account{}); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if !store.Exists(ctx, KeyAccounts) {
				t.Fatalf("expected accounts key to exist")
			}
		})
	}
}

func TestOpenRedisHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &config.Config{Store: config.StoreConfig{Backend: config.BackendRedis}, Redis: config.RedisConfig{Addr: "127.0.0.1:1"}}
	start := time.Now()
	if _, err := Open(ctx, cfg, nil); err == nil {
		t.Fatalf("expected unreachable redis to fail")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("open ignored the cancelled context, took %v", elapsed)
	}
}

func TestNewRedisDoesNotDial(t *testing.T) {
	backend := NewRedis(config.RedisConfig{Addr: "127.0.0.1:1"})
	defer backend.Close()
	if backend.Client == nil {
		t.Fatalf("expected a client")
	}
	if stats := backend.Client.PoolStats(); stats.TotalConns != 0 {
		t.Fatalf("constructor should not open connections, got %d", stats.TotalConns)
	}
}
