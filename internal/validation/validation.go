// Package validation checks form input before it reaches the services.
// Every function here is pure: no store access, no side effects.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// Field names used as error keys.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
)

// Messages returned for failing fields.
const (
	MsgInvalidEmail       = "Please enter a valid email"
	MsgShortPassword      = "Password must be at least 6 characters"
	MsgNameRequired       = "Name is required"
	MsgTitleRequired      = "Title is required"
	MsgInvalidStatus      = "Please select a valid status"
	MsgInvalidPriority    = "Please select a valid priority"
	MsgDescriptionTooLong = "Description is too long"
)

const (
	MinPasswordLength    = 6
	MaxDescriptionLength = 5000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthInput is the login/signup form.
type AuthInput struct {
	Name     string
	Email    string
	Password string
}

// TicketInput is the create/edit ticket form. An empty Priority means "not set".
type TicketInput struct {
	Title       string
	Description string
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
}

// Result reports field-level failures keyed by field name.
type Result struct {
	IsValid bool
	Errors  map[string]string
}

func newResult(errs map[string]string) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateAuth checks login input, plus the name field when isSignup is set.
func ValidateAuth(in AuthInput, isSignup bool) Result {
	errs := map[string]string{}

	if isSignup && strings.TrimSpace(in.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}
	if !IsEmail(in.Email) {
		errs[FieldEmail] = MsgInvalidEmail
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		errs[FieldPassword] = MsgShortPassword
	}

	return newResult(errs)
}

// ValidateTicket checks the ticket form.
func ValidateTicket(in TicketInput) Result {
	errs := map[string]string{}

	if strings.TrimSpace(in.Title) == "" {
		errs[FieldTitle] = MsgTitleRequired
	}
	if !in.Status.Valid() {
		errs[FieldStatus] = MsgInvalidStatus
	}
	if in.Priority != "" && !in.Priority.Valid() {
		errs[FieldPriority] = MsgInvalidPriority
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		errs[FieldDescription] = MsgDescriptionTooLong
	}

	return newResult(errs)
}

// IsEmail reports whether s has a local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}
