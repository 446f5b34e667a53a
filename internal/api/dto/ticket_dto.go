package dto

import (
	"fmt"
	"io"
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/service"
	"github.com/spec-kit/ticket-tracker/internal/validation"
)

// TicketForm is the create and edit form payload.
type TicketForm struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
}

// NewTicketForm returns the blank form: status open, priority medium.
func NewTicketForm() TicketForm {
	return TicketForm{
		Status:   domain.TicketStatusOpen,
		Priority: domain.DefaultTicketPriority,
	}
}

// TicketFormFrom pre-fills the edit form from an existing ticket.
func TicketFormFrom(t domain.Ticket) TicketForm {
	return TicketForm{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
	}
}

// DecodeTicketForm reads a TicketForm over the blank form defaults, so
// omitted status and priority stay open and medium. Unknown fields are
// rejected.
func DecodeTicketForm(r io.Reader) (TicketForm, error) {
	return DecodeTicketFormOver(r, NewTicketForm())
}

// DecodeTicketFormOver reads a TicketForm on top of base. Fields missing from
// the input keep their base values.
func DecodeTicketFormOver(r io.Reader, base TicketForm) (TicketForm, error) {
	form := base
	if err := decodeStrict(r, &form); err != nil {
		return TicketForm{}, fmt.Errorf("decode ticket form: %w", err)
	}
	return form, nil
}

// Input converts the form for validation.
func (f TicketForm) Input() validation.TicketInput {
	return validation.TicketInput{
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Priority:    f.Priority,
	}
}

// CreateInput converts the form into a creation request.
func (f TicketForm) CreateInput() service.TicketCreateInput {
	return service.TicketCreateInput{
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Priority:    f.Priority,
	}
}

// Patch converts the full form into an update. An empty priority means
// "not chosen" and leaves the stored priority alone.
func (f TicketForm) Patch() service.TicketPatch {
	patch := service.TicketPatch{
		Title:       &f.Title,
		Description: &f.Description,
		Status:      &f.Status,
	}
	if f.Priority != "" {
		patch.Priority = &f.Priority
	}
	return patch
}

// TicketSummary is the list and detail view of a ticket.
type TicketSummary struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Status      domain.TicketStatus   `json:"status"`
	StatusLabel string                `json:"status_label"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// NewTicketSummary maps a ticket to its view.
func NewTicketSummary(t domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		StatusLabel: t.Status.Label(),
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
