package errorutil

import (
	"errors"
	"fmt"
)

// Error codes carried by DomainError.
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeDuplicateAccount  = "DUPLICATE_ACCOUNT"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code so callers can compare against the sentinel values below.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation        = &DomainError{Code: CodeValidationFailed}
	ErrDuplicateAccount  = &DomainError{Code: CodeDuplicateAccount}
	ErrInvalidCredential = &DomainError{Code: CodeInvalidCredential}
	ErrNotFound          = &DomainError{Code: CodeNotFound}
	ErrUnauthorized      = &DomainError{Code: CodeUnauthorized}
)

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, details map[string]string) *DomainError {
	return &DomainError{Code: code, Message: message, Details: details}
}

func NewValidationError(message string, details map[string]string) *DomainError {
	return NewDomainError(CodeValidationFailed, message, details)
}

func NewDuplicateAccount() *DomainError {
	return NewDomainError(CodeDuplicateAccount, "Email already registered", nil)
}

// NewInvalidCredential is returned for unknown emails and wrong passwords alike.
func NewInvalidCredential() *DomainError {
	return NewDomainError(CodeInvalidCredential, "Invalid email or password", nil)
}

func NewNotFound(resource string, details map[string]string) *DomainError {
	if details == nil {
		details = map[string]string{}
	}
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: details,
	}
}

func NewUnauthorized(message string) *DomainError {
	return NewDomainError(CodeUnauthorized, message, nil)
}

func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    CodeInternal,
		Message: "internal error",
		Err:     err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err)
}
