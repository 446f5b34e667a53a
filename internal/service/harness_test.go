package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-tracker/internal/auth"
	"github.com/spec-kit/ticket-tracker/internal/clock"
	"github.com/spec-kit/ticket-tracker/internal/config"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/observability"
	"github.com/spec-kit/ticket-tracker/internal/persistence"
	"github.com/spec-kit/ticket-tracker/internal/repository"
)

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	backend  *persistence.MemoryBackend
	store    *persistence.Store
	accounts repository.AccountRepository
	tickets  repository.TicketRepository
	auth     *AuthService
	ticket   *TicketService
	stats    *StatsService
	clock    *clock.Fixed
	metrics  *observability.Metrics
	events   []events.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		backend: persistence.NewMemoryBackend(),
		clock:   clock.NewFixed(testNow),
		metrics: observability.NewMetrics(),
	}
	h.store = persistence.NewStore(h.backend, "", zap.NewNop())
	h.accounts = repository.NewAccountRepository(h.store)
	h.tickets = repository.NewTicketRepository(h.store)

	dispatcher := events.NewInMemoryDispatcher(nil)
	record := func(_ context.Context, e events.Event) error {
		h.events = append(h.events, e)
		return nil
	}
	dispatcher.SubscribeAll(record)

	cfg := config.Config{Auth: config.AuthConfig{SessionSecret: "test-secret"}}
	h.auth = NewAuthService(cfg, AuthDependencies{
		AccountRepo: h.accounts,
		SessionRepo: repository.NewSessionRepository(h.store),
		TicketRepo:  h.tickets,
		Hasher:      auth.NewBcryptHasher(bcrypt.MinCost),
		Clock:       h.clock,
		Dispatcher:  dispatcher,
		Metrics:     h.metrics,
	})
	h.ticket = NewTicketService(TicketDependencies{
		TicketRepo: h.tickets,
		Sessions:   h.auth,
		Clock:      h.clock,
		Dispatcher: dispatcher,
		Metrics:    h.metrics,
	})
	h.stats = NewStatsService(h.ticket)

	if err := h.auth.InitializeApp(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return h
}

func (h *harness) signup(t *testing.T, name, email, password string) {
	t.Helper()
	res, err := h.auth.Signup(context.Background(), name, email, password)
	if err != nil {
		t.Fatalf("signup returned error: %v", err)
	}
	if !res.Success {
		t.Fatalf("signup failed: %s", res.Message())
	}
}

func (h *harness) eventTypes() []events.EventType {
	out := make([]events.EventType, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Type)
	}
	return out
}
