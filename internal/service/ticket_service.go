package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/clock"
	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/observability"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	"github.com/spec-kit/ticket-tracker/internal/validation"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util/errorutil"
)

const (
	msgLoginRequired = "Please log in to continue"
	msgInvalidTicket = "Please fix the highlighted ticket fields"
)

// TicketService coordinates ticket workflows for the signed-in account.
type TicketService struct {
	tickets    repository.TicketRepository
	sessions   SessionProvider
	clock      clock.Clock
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Sessions   SessionProvider
	Clock      clock.Clock
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload. Callers validate it
// first; an empty Priority becomes medium and an empty Status becomes open.
type TicketCreateInput struct {
	Title       string
	Description string
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
}

// TicketPatch lists the fields to change; nil fields are left alone. A set
// Title must not be blank.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		sessions:   deps.Sessions,
		clock:      clk,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     observability.OrNop(deps.Logger),
	}
}

// GetTickets returns the signed-in account's tickets, oldest first. Without a
// session the list is empty.
func (s *TicketService) GetTickets(ctx context.Context) []domain.Ticket {
	session := s.sessions.GetSession(ctx)
	if session == nil {
		return []domain.Ticket{}
	}
	return s.tickets.ListByOwner(ctx, session.AccountID)
}

// GetTicket fetches one of the signed-in account's tickets.
func (s *TicketService) GetTicket(ctx context.Context, id string) TicketResult {
	session := s.sessions.GetSession(ctx)
	if session == nil {
		return TicketResult{Result: failed(apperrors.NewUnauthorized(msgLoginRequired))}
	}
	ticket, found := s.ownedTicket(ctx, session, id)
	if !found {
		return TicketResult{Result: failed(ticketNotFound(id))}
	}
	return TicketResult{Result: succeeded(), Ticket: ticket}
}

// CreateTicket stores a new ticket owned by the signed-in account.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (TicketResult, error) {
	const op = "create_ticket"

	session := s.sessions.GetSession(ctx)
	if session == nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
		return TicketResult{Result: failed(apperrors.NewUnauthorized(msgLoginRequired))}, nil
	}

	if input.Status == "" {
		input.Status = domain.TicketStatusOpen
	}
	if input.Priority == "" {
		input.Priority = domain.DefaultTicketPriority
	}
	if details := enumErrors(&input.Status, &input.Priority); details != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
		return TicketResult{Result: failed(apperrors.NewValidationError(msgInvalidTicket, details))}, nil
	}

	now := s.clock.Now()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
		Priority:    input.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		OwnerID:     session.AccountID,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeError)
		return TicketResult{}, fmt.Errorf("create ticket: %w", err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		AccountID: session.AccountID,
		TicketID:  ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	s.metrics.RecordOperation(ctx, op, observability.OutcomeSuccess)
	return TicketResult{Result: succeeded(), Ticket: ticket}, nil
}

// UpdateTicket merges patch into the ticket. ID, CreatedAt and OwnerID never
// change. Tickets of other accounts are reported as not found.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, patch TicketPatch) (TicketResult, error) {
	const op = "update_ticket"

	session := s.sessions.GetSession(ctx)
	if session == nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
		return TicketResult{Result: failed(apperrors.NewUnauthorized(msgLoginRequired))}, nil
	}

	ticket, found := s.ownedTicket(ctx, session, id)
	if !found {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
		return TicketResult{Result: failed(ticketNotFound(id))}, nil
	}
	if details := patchErrors(patch); details != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
		return TicketResult{Result: failed(apperrors.NewValidationError(msgInvalidTicket, details))}, nil
	}

	payload := events.TicketUpdatedPayload{OldStatus: ticket.Status, OldPriority: ticket.Priority}
	if patch.Title != nil {
		if title := strings.TrimSpace(*patch.Title); title != ticket.Title {
			ticket.Title = title
			payload.Changed = append(payload.Changed, "title")
		}
	}
	if patch.Description != nil {
		if description := strings.TrimSpace(*patch.Description); description != ticket.Description {
			ticket.Description = description
			payload.Changed = append(payload.Changed, "description")
		}
	}
	if patch.Status != nil && *patch.Status != ticket.Status {
		ticket.Status = *patch.Status
		payload.Changed = append(payload.Changed, "status")
	}
	if patch.Priority != nil && *patch.Priority != ticket.Priority {
		ticket.Priority = *patch.Priority
		payload.Changed = append(payload.Changed, "priority")
	}
	payload.NewStatus = ticket.Status
	payload.NewPriority = ticket.Priority
	ticket.UpdatedAt = s.clock.Now()

	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeError)
		return TicketResult{}, fmt.Errorf("update ticket %s: %w", id, err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketUpdated,
		AccountID: session.AccountID,
		TicketID:  ticket.ID,
		Payload:   payload,
	})
	s.metrics.RecordOperation(ctx, op, observability.OutcomeSuccess)
	return TicketResult{Result: succeeded(), Ticket: ticket}, nil
}

// DeleteTicket removes the ticket if the signed-in account owns it. Deleting
// an unknown id succeeds without changing anything.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) (Result, error) {
	const op = "delete_ticket"

	session := s.sessions.GetSession(ctx)
	if session == nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
		return failed(apperrors.NewUnauthorized(msgLoginRequired)), nil
	}

	if _, found := s.ownedTicket(ctx, session, id); !found {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeSuccess)
		return succeeded(), nil
	}
	if _, err := s.tickets.Delete(ctx, id); err != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeError)
		return Result{}, fmt.Errorf("delete ticket %s: %w", id, err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketDeleted,
		AccountID: session.AccountID,
		TicketID:  id,
	})
	s.metrics.RecordOperation(ctx, op, observability.OutcomeSuccess)
	return succeeded(), nil
}

func (s *TicketService) ownedTicket(ctx context.Context, session *domain.Session, id string) (*domain.Ticket, bool) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil || ticket.OwnerID != session.AccountID {
		return nil, false
	}
	return ticket, true
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.clock, event)
}

func ticketNotFound(id string) *apperrors.DomainError {
	return apperrors.NewNotFound("Ticket", map[string]string{"id": id})
}

// enumErrors checks the enumerated fields that are set. Details carry the
// same field messages the form validator uses.
func enumErrors(status *domain.TicketStatus, priority *domain.TicketPriority) map[string]string {
	details := map[string]string{}
	if status != nil && !status.Valid() {
		details[validation.FieldStatus] = validation.MsgInvalidStatus
	}
	if priority != nil && !priority.Valid() {
		details[validation.FieldPriority] = validation.MsgInvalidPriority
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// patchErrors also refuses to blank out a title.
func patchErrors(patch TicketPatch) map[string]string {
	details := enumErrors(patch.Status, patch.Priority)
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		if details == nil {
			details = map[string]string{}
		}
		details[validation.FieldTitle] = validation.MsgTitleRequired
	}
	return details
}
