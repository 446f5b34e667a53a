package repository

import (
	"context"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/persistence"
)

// SessionRepository holds the single active session.
type SessionRepository interface {
	Get(ctx context.Context) *domain.Session
	Save(ctx context.Context, session *domain.Session) error
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	store *persistence.Store
}

// NewSessionRepository returns a store-backed implementation.
func NewSessionRepository(store *persistence.Store) SessionRepository {
	return &sessionRepository{store: store}
}

// Get returns nil when no session is stored.
func (r *sessionRepository) Get(ctx context.Context) *domain.Session {
	session := persistence.Read[*domain.Session](ctx, r.store, persistence.KeySession, nil)
	if session == nil || session.AccountID == "" {
		return nil
	}
	return session
}

// Save replaces any existing session.
func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	return r.store.Write(ctx, persistence.KeySession, session)
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.store.Clear(ctx, persistence.KeySession)
}
