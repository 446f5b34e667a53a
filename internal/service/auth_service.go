package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/auth"
	"github.com/spec-kit/ticket-tracker/internal/clock"
	"github.com/spec-kit/ticket-tracker/internal/config"
	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/observability"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util/errorutil"
)

// SessionProvider resolves the signed-in account.
type SessionProvider interface {
	GetSession(ctx context.Context) *domain.Session
}

// AuthService owns the account registry and the active session.
type AuthService struct {
	accounts   repository.AccountRepository
	sessions   repository.SessionRepository
	tickets    repository.TicketRepository
	hasher     auth.PasswordHasher
	signer     *auth.SessionSigner
	clock      clock.Clock
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	SessionRepo repository.SessionRepository
	TicketRepo  repository.TicketRepository
	Hasher      auth.PasswordHasher
	Clock       clock.Clock
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewAuthService builds the service. A nil Hasher or Clock falls back to
// bcrypt at the configured cost and the system clock.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	hasher := deps.Hasher
	if hasher == nil {
		hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		sessions:   deps.SessionRepo,
		tickets:    deps.TicketRepo,
		hasher:     hasher,
		signer:     auth.NewSessionSigner(cfg.Auth.SessionSecret),
		clock:      clk,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     observability.OrNop(deps.Logger),
	}
}

// InitializeApp makes sure the account registry and ticket collection exist.
// Existing data is never overwritten.
func (s *AuthService) InitializeApp(ctx context.Context) error {
	createdAccounts, err := s.accounts.EnsureInitialized(ctx)
	if err != nil {
		return fmt.Errorf("initialize accounts: %w", err)
	}
	createdTickets, err := s.tickets.EnsureInitialized(ctx)
	if err != nil {
		return fmt.Errorf("initialize tickets: %w", err)
	}
	if createdAccounts || createdTickets {
		s.logger.Info("store initialized",
			zap.Bool("accounts_created", createdAccounts),
			zap.Bool("tickets_created", createdTickets))
	}
	return nil
}

// Signup registers a new account and signs it in.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (Result, error) {
	const op = "signup"

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
		return failed(apperrors.NewDuplicateAccount()), nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeError)
		return Result{}, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
			return failed(apperrors.NewDuplicateAccount()), nil
		}
		s.metrics.RecordOperation(ctx, op, observability.OutcomeError)
		return Result{}, fmt.Errorf("create account: %w", err)
	}

	s.publishEvent(ctx, events.Event{Type: events.EventAccountSignedUp, AccountID: account.ID})

	if err := s.startSession(ctx, account); err != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeError)
		return Result{}, err
	}
	s.metrics.RecordOperation(ctx, op, observability.OutcomeSuccess)
	return succeeded(), nil
}

// Login signs in an existing account. Unknown emails and wrong passwords
// produce the same result.
func (s *AuthService) Login(ctx context.Context, email, password string) (Result, error) {
	const op = "login"

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
		return failed(apperrors.NewInvalidCredential()), nil
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeRejected)
		return failed(apperrors.NewInvalidCredential()), nil
	}

	if err := s.startSession(ctx, account); err != nil {
		s.metrics.RecordOperation(ctx, op, observability.OutcomeError)
		return Result{}, err
	}
	s.metrics.RecordOperation(ctx, op, observability.OutcomeSuccess)
	return succeeded(), nil
}

// Logout ends the active session. It is a no-op when nobody is signed in.
func (s *AuthService) Logout(ctx context.Context) error {
	previous := s.sessions.Get(ctx)
	if err := s.sessions.Clear(ctx); err != nil {
		s.metrics.RecordOperation(ctx, "logout", observability.OutcomeError)
		return fmt.Errorf("clear session: %w", err)
	}
	if previous != nil {
		s.publishEvent(ctx, events.Event{Type: events.EventSessionEnded, AccountID: previous.AccountID})
	}
	s.metrics.RecordOperation(ctx, "logout", observability.OutcomeSuccess)
	return nil
}

// GetSession returns the active session, or nil. A session whose token does
// not verify or whose account no longer exists counts as absent.
func (s *AuthService) GetSession(ctx context.Context) *domain.Session {
	session := s.sessions.Get(ctx)
	if session == nil {
		return nil
	}
	if err := s.signer.Verify(session.Token, session.AccountID); err != nil {
		s.logger.Warn("ignoring session with invalid token", zap.String("account_id", session.AccountID), zap.Error(err))
		return nil
	}
	if _, err := s.accounts.GetByID(ctx, session.AccountID); err != nil {
		s.logger.Warn("ignoring session for unknown account", zap.String("account_id", session.AccountID))
		return nil
	}
	return session
}

// IsAuthenticated reports whether a valid session exists.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return s.GetSession(ctx) != nil
}

// Reset clears the session, the ticket collection and the account registry.
func (s *AuthService) Reset(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := s.tickets.Clear(ctx); err != nil {
		return fmt.Errorf("clear tickets: %w", err)
	}
	if err := s.accounts.Clear(ctx); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}
	s.logger.Info("store reset")
	return nil
}

func (s *AuthService) startSession(ctx context.Context, account *domain.Account) error {
	now := s.clock.Now()
	token, err := s.signer.Sign(account.ID, account.Email, now)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	session := &domain.Session{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Token:     token,
		StartedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.publishEvent(ctx, events.Event{Type: events.EventSessionStarted, AccountID: account.ID})
	return nil
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.clock, event)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, clk clock.Clock, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = clk.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
