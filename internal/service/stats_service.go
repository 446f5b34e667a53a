package service

import (
	"context"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// TicketLister is the read side of TicketService.
type TicketLister interface {
	GetTickets(ctx context.Context) []domain.Ticket
}

// StatsService derives dashboard counts on demand.
type StatsService struct {
	tickets TicketLister
}

// NewStatsService constructs the service.
func NewStatsService(tickets TicketLister) *StatsService {
	return &StatsService{tickets: tickets}
}

// GetTicketStats counts the signed-in account's tickets by status.
func (s *StatsService) GetTicketStats(ctx context.Context) domain.TicketStats {
	return CountByStatus(s.tickets.GetTickets(ctx))
}

// CountByStatus tallies tickets in one pass. Statuses are assumed valid, so
// the three counts always sum to Total.
func CountByStatus(tickets []domain.Ticket) domain.TicketStats {
	stats := domain.TicketStats{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusClosed:
			stats.Closed++
		default:
			stats.Open++
		}
	}
	return stats
}
