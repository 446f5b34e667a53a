package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/config"
	"github.com/spec-kit/ticket-tracker/internal/observability"
)

// ErrKeyNotFound is returned by a Backend when a key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// Key names a slot in the store.
type Key string

// Keys holding the tracker state.
const (
	KeyAccounts Key = "accounts"
	KeySession  Key = "session"
	KeyTickets  Key = "tickets"
	KeyMetrics  Key = "metrics"
)

// Backend is a durable byte-oriented key-value store. Put must not return
// before the value is committed.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Store serializes structured values to JSON over a Backend.
type Store struct {
	backend Backend
	prefix  string
	logger  *zap.Logger
}

// NewStore wraps backend. prefix is prepended to every key.
func NewStore(backend Backend, prefix string, logger *zap.Logger) *Store {
	return &Store{backend: backend, prefix: prefix, logger: observability.OrNop(logger)}
}

// Open builds the store selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	logger = observability.OrNop(logger)

	var (
		backend Backend
		err     error
	)
	switch cfg.Store.Backend {
	case config.BackendFile, "":
		backend, err = NewFileBackend(cfg.Store.Dir)
	case config.BackendSQLite:
		backend, err = NewSQLite(ctx, cfg.Store.SQLitePath)
	case config.BackendPostgres:
		var pg *Postgres
		pg, err = NewPostgres(ctx, cfg.Postgres, logger)
		if err == nil && cfg.Postgres.RunMigrations {
			if err = RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
			}
		}
		backend = pg
	case config.BackendRedis:
		rd := NewRedis(cfg.Redis)
		if err = rd.Ping(ctx); err != nil {
			rd.Close()
		} else {
			logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		}
		backend = rd
	case config.BackendMemory:
		backend = NewMemoryBackend()
	default:
		err = fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	logger.Debug("store opened", zap.String("backend", cfg.Store.Backend))
	return NewStore(backend, cfg.Store.KeyPrefix, logger), nil
}

// Read decodes the value under key, returning def when the key is missing,
// unreadable or corrupt.
func Read[T any](ctx context.Context, s *Store, key Key, def T) T {
	raw, err := s.backend.Get(ctx, s.name(key))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("store read failed", zap.String("key", string(key)), zap.Error(err))
		}
		return def
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Warn("discarding corrupt store value", zap.String("key", string(key)), zap.Error(err))
		return def
	}
	return out
}

// Write encodes v under key. It returns once the backend has committed.
func (s *Store) Write(ctx context.Context, key Key, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, s.name(key), raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Clear removes key. Clearing a missing key is not an error.
func (s *Store) Clear(ctx context.Context, key Key) error {
	if err := s.backend.Delete(ctx, s.name(key)); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}

// Exists reports whether key currently holds a value.
func (s *Store) Exists(ctx context.Context, key Key) bool {
	_, err := s.backend.Get(ctx, s.name(key))
	return err == nil
}

// Ping checks the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases backend resources.
func (s *Store) Close() error {
	if s == nil || s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

func (s *Store) name(key Key) string {
	return s.prefix + string(key)
}
