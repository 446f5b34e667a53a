package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/persistence"
)

// TicketRepository encapsulates ticket persistence. The collection holds
// every account's tickets in insertion order.
type TicketRepository interface {
	List(ctx context.Context) []domain.Ticket
	ListByOwner(ctx context.Context, ownerID string) []domain.Ticket
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) (bool, error)
	EnsureInitialized(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

type ticketRepository struct {
	store *persistence.Store
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(store *persistence.Store) TicketRepository {
	return &ticketRepository{store: store}
}

// List returns every stored ticket. Records written with a missing or unknown
// status or priority read back as open and medium.
func (r *ticketRepository) List(ctx context.Context) []domain.Ticket {
	tickets := persistence.Read(ctx, r.store, persistence.KeyTickets, []domain.Ticket{})
	if tickets == nil {
		return []domain.Ticket{}
	}
	for i := range tickets {
		if !tickets[i].Status.Valid() {
			tickets[i].Status = domain.TicketStatusOpen
		}
		if !tickets[i].Priority.Valid() {
			tickets[i].Priority = domain.DefaultTicketPriority
		}
	}
	return tickets
}

func (r *ticketRepository) ListByOwner(ctx context.Context, ownerID string) []domain.Ticket {
	result := []domain.Ticket{}
	for _, ticket := range r.List(ctx) {
		if ticket.OwnerID == ownerID {
			result = append(result, ticket)
		}
	}
	return result
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	for _, ticket := range r.List(ctx) {
		if ticket.ID == id {
			return &ticket, nil
		}
	}
	return nil, ErrNotFound
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	tickets := r.List(ctx)
	for _, existing := range tickets {
		if existing.ID == ticket.ID {
			return fmt.Errorf("ticket id %s: %w", ticket.ID, ErrDuplicate)
		}
	}
	tickets = append(tickets, *ticket)
	return r.store.Write(ctx, persistence.KeyTickets, tickets)
}

// Update replaces the stored ticket with the same ID, keeping its position.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	tickets := r.List(ctx)
	for i := range tickets {
		if tickets[i].ID == ticket.ID {
			tickets[i] = *ticket
			return r.store.Write(ctx, persistence.KeyTickets, tickets)
		}
	}
	return ErrNotFound
}

// Delete removes the ticket and reports whether it existed. The collection is
// persisted either way.
func (r *ticketRepository) Delete(ctx context.Context, id string) (bool, error) {
	tickets := r.List(ctx)
	kept := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.ID != id {
			kept = append(kept, ticket)
		}
	}
	if err := r.store.Write(ctx, persistence.KeyTickets, kept); err != nil {
		return false, err
	}
	return len(kept) != len(tickets), nil
}

// EnsureInitialized writes an empty collection when none exists.
func (r *ticketRepository) EnsureInitialized(ctx context.Context) (bool, error) {
	if r.store.Exists(ctx, persistence.KeyTickets) {
		return false, nil
	}
	return true, r.store.Write(ctx, persistence.KeyTickets, []domain.Ticket{})
}

func (r *ticketRepository) Clear(ctx context.Context) error {
	return r.store.Clear(ctx, persistence.KeyTickets)
}
