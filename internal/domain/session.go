package domain

import "time"

// Session marks the single signed-in account.
type Session struct {
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	StartedAt time.Time `json:"startedAt"`
}
