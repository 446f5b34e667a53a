package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/validation"
)

func TestDecodeAuthForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    AuthForm
		wantErr bool
	}{
		{
			name: "signup",
			body: `{"name":"Ann","email":"a@b.com","password":"secret1"}`,
			want: AuthForm{Name: "Ann", Email: "a@b.com", Password: "secret1"},
		},
		{
			name: "login without name",
			body: `{"email":"a@b.com","password":"secret1"}`,
			want: AuthForm{Email: "a@b.com", Password: "secret1"},
		},
		{name: "unknown field", body: `{"email":"a@b.com","password":"x","role":"admin"}`, wantErr: true},
		{name: "not json", body: `email=a@b.com`, wantErr: true},
		{name: "trailing data", body: `{"email":"a@b.com"} {"email":"c@d.com"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAuthForm(strings.NewReader(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDecodeTicketForm(t *testing.T) {
	t.Parallel()

	t.Run("fills defaults", func(t *testing.T) {
		form, err := DecodeTicketForm(strings.NewReader(`{"title":"Printer jam"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if form.Status != domain.TicketStatusOpen || form.Priority != domain.TicketPriorityMedium {
			t.Fatalf("expected open/medium, got %s/%s", form.Status, form.Priority)
		}
		if res := validation.ValidateTicket(form.Input()); !res.IsValid {
			t.Fatalf("expected valid form, got %v", res.Errors)
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		form, err := DecodeTicketForm(strings.NewReader(`{"title":"x","description":"y","status":"closed","priority":"high"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := TicketForm{Title: "x", Description: "y", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityHigh}
		if form != want {
			t.Fatalf("expected %+v, got %+v", want, form)
		}
	})

	t.Run("edit form keeps base values", func(t *testing.T) {
		base := TicketForm{Title: "VPN down", Description: "since 9am", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityHigh}
		form, err := DecodeTicketFormOver(strings.NewReader(`{"status":"closed"}`), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := base
		want.Status = domain.TicketStatusClosed
		if form != want {
			t.Fatalf("expected %+v, got %+v", want, form)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		if _, err := DecodeTicketForm(strings.NewReader(`{"title":"x","assignee":"bob"}`)); err == nil {
			t.Fatalf("expected error for unknown field")
		}
	})

	t.Run("invalid enum decodes but fails validation", func(t *testing.T) {
		form, err := DecodeTicketForm(strings.NewReader(`{"title":"x","status":"pending"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res := validation.ValidateTicket(form.Input())
		if res.IsValid || res.Errors[validation.FieldStatus] == "" {
			t.Fatalf("expected status error, got %+v", res)
		}
	})
}

func TestTicketFormConversions(t *testing.T) {
	t.Parallel()

	ticket := domain.Ticket{
		ID:        "t-1",
		Title:     "VPN down",
		Status:    domain.TicketStatusInProgress,
		Priority:  domain.TicketPriorityLow,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	form := TicketFormFrom(ticket)

	patch := form.Patch()
	if patch.Title == nil || *patch.Title != "VPN down" || *patch.Status != domain.TicketStatusInProgress {
		t.Fatalf("unexpected patch %+v", patch)
	}
	form.Priority = ""
	if patch := form.Patch(); patch.Priority != nil {
		t.Fatalf("empty priority must leave the stored value alone, got %q", *patch.Priority)
	}
	form.Priority = domain.TicketPriorityLow

	create := form.CreateInput()
	if create.Priority != domain.TicketPriorityLow {
		t.Fatalf("unexpected create input %+v", create)
	}

	summary := NewTicketSummary(ticket)
	if summary.StatusLabel != "In Progress" || summary.ID != "t-1" {
		t.Fatalf("unexpected summary %+v", summary)
	}
}
