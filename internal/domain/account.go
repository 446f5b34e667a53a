package domain

import (
	"strings"
	"time"
)

// Account is a registered tracker user.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail returns the comparison form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasEmail reports whether the account is registered under email, ignoring case.
func (a Account) HasEmail(email string) bool {
	return NormalizeEmail(a.Email) == NormalizeEmail(email)
}
