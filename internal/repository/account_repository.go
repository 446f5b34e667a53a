package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/persistence"
)

// AccountRepository defines persistence access for the account registry.
type AccountRepository interface {
	List(ctx context.Context) []domain.Account
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	EnsureInitialized(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

type accountRepository struct {
	store *persistence.Store
}

// NewAccountRepository returns a store-backed implementation.
func NewAccountRepository(store *persistence.Store) AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) List(ctx context.Context) []domain.Account {
	accounts := persistence.Read(ctx, r.store, persistence.KeyAccounts, []domain.Account{})
	if accounts == nil {
		return []domain.Account{}
	}
	return accounts
}

// Create appends account, rejecting an email or id that is already registered.
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	accounts := r.List(ctx)
	for _, existing := range accounts {
		if existing.HasEmail(account.Email) {
			return fmt.Errorf("email %s: %w", account.Email, ErrDuplicate)
		}
		if existing.ID == account.ID {
			return fmt.Errorf("account id %s: %w", account.ID, ErrDuplicate)
		}
	}
	accounts = append(accounts, *account)
	return r.store.Write(ctx, persistence.KeyAccounts, accounts)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	for _, account := range r.List(ctx) {
		if account.ID == id {
			return &account, nil
		}
	}
	return nil, ErrNotFound
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	for _, account := range r.List(ctx) {
		if account.HasEmail(email) {
			return &account, nil
		}
	}
	return nil, ErrNotFound
}

// EnsureInitialized writes an empty registry when none exists. It reports
// whether it wrote anything.
func (r *accountRepository) EnsureInitialized(ctx context.Context) (bool, error) {
	if r.store.Exists(ctx, persistence.KeyAccounts) {
		return false, nil
	}
	return true, r.store.Write(ctx, persistence.KeyAccounts, []domain.Account{})
}

func (r *accountRepository) Clear(ctx context.Context) error {
	return r.store.Clear(ctx, persistence.KeyAccounts)
}
