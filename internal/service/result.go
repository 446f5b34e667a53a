package service

import (
	"github.com/spec-kit/ticket-tracker/internal/domain"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util/errorutil"
)

// Result is the envelope for operations whose expected failures (duplicate
// email, bad credentials, unknown ticket) are reported rather than returned
// as Go errors. The error return of each operation is reserved for store
// failures.
type Result struct {
	Success bool
	Error   *apperrors.DomainError
}

// Message returns the user-facing error message, or "" on success.
func (r Result) Message() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Message
}

// TicketResult carries the affected ticket on success.
type TicketResult struct {
	Result
	Ticket *domain.Ticket
}

func succeeded() Result {
	return Result{Success: true}
}

func failed(err *apperrors.DomainError) Result {
	return Result{Success: false, Error: err}
}
