package service

import (
	"context"
	"testing"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

func TestStatsService_GetTicketStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty without session", func(t *testing.T) {
		h := newHarness(t)
		if stats := h.stats.GetTicketStats(ctx); stats != (domain.TicketStats{}) {
			t.Fatalf("expected zero stats, got %+v", stats)
		}
	})

	t.Run("counts by status", func(t *testing.T) {
		h := newHarness(t)
		h.signup(t, "Ann", "a@b.com", "secret1")
		createTicket(t, h, "one", domain.TicketStatusOpen)
		createTicket(t, h, "two", domain.TicketStatusOpen)
		createTicket(t, h, "three", domain.TicketStatusClosed)

		want := domain.TicketStats{Total: 3, Open: 2, InProgress: 0, Closed: 1}
		if got := h.stats.GetTicketStats(ctx); got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	})
}

func TestCountByStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		statuses []domain.TicketStatus
		want     domain.TicketStats
	}{
		{name: "none", want: domain.TicketStats{}},
		{
			name:     "mixed",
			statuses: []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusInProgress, domain.TicketStatusClosed},
			want:     domain.TicketStats{Total: 4, Open: 1, InProgress: 2, Closed: 1},
		},
		{
			name:     "all closed",
			statuses: []domain.TicketStatus{domain.TicketStatusClosed, domain.TicketStatusClosed},
			want:     domain.TicketStats{Total: 2, Closed: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets := make([]domain.Ticket, 0, len(tt.statuses))
			for _, status := range tt.statuses {
				tickets = append(tickets, domain.Ticket{Status: status})
			}
			got := CountByStatus(tickets)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			if got.Open+got.InProgress+got.Closed != got.Total {
				t.Fatalf("counts do not sum to total: %+v", got)
			}
		})
	}
}
