package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/brickfolio/localsync/internal/config"
	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/models"
)

// Store is the fail-soft [LocalStore] implementation. Open tries to
// establish the SQLite backend and, when the platform denies durable
// storage, degrades to the in-memory backend instead of surfacing the
// error: the engine must remain usable without persistence.
type Store struct {
	cfg    config.AgentStorage
	logger *logger.Logger

	mu        sync.RWMutex
	backend   localBackend
	available bool
}

// NewStore constructs an unopened Store. Call Open before any data method.
func NewStore(cfg config.AgentStorage, log *logger.Logger) *Store {
	return &Store{
		cfg:    cfg,
		logger: log,
	}
}

// Open implements [LocalStore]. It is idempotent; a second call is a no-op.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend != nil {
		return nil
	}

	db, err := NewConnectSQLite(ctx, s.cfg.DB, s.logger)
	if err == nil {
		if migrateErr := db.Migrate(); migrateErr != nil {
			db.Close()
			err = migrateErr
		}
	}

	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("func", "Store.Open").
			Str("dsn", s.cfg.DB.DSN).
			Msg("durable storage unavailable, degrading to in-memory store")
		s.backend = newMemoryBackend()
		s.available = false
		return nil
	}

	s.backend = newSQLiteBackend(db)
	s.available = true
	return nil
}

// Available implements [LocalStore].
func (s *Store) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.available
}

// Close implements [LocalStore].
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return nil
	}

	err := s.backend.Close()
	s.backend = nil
	s.available = false
	return err
}

func (s *Store) current() (localBackend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.backend == nil {
		return nil, ErrStoreNotOpened
	}
	return s.backend, nil
}

func (s *Store) Enqueue(ctx context.Context, userID int64, table string, op models.OperationType, payload json.RawMessage) (int64, error) {
	backend, err := s.current()
	if err != nil {
		return 0, err
	}
	return backend.Enqueue(ctx, userID, table, op, payload)
}

func (s *Store) PeekPending(ctx context.Context, userID int64, limit int) ([]models.SyncOperation, error) {
	backend, err := s.current()
	if err != nil {
		return nil, err
	}
	return backend.PeekPending(ctx, userID, limit)
}

func (s *Store) Remove(ctx context.Context, ids []int64) error {
	backend, err := s.current()
	if err != nil {
		return err
	}
	return backend.Remove(ctx, ids)
}

func (s *Store) MarkFailed(ctx context.Context, id int64, reason string) error {
	backend, err := s.current()
	if err != nil {
		return err
	}
	return backend.MarkFailed(ctx, id, reason)
}

func (s *Store) CountPending(ctx context.Context, userID int64) (int, error) {
	backend, err := s.current()
	if err != nil {
		return 0, err
	}
	return backend.CountPending(ctx, userID)
}

func (s *Store) StoredUserID(ctx context.Context) (int64, error) {
	backend, err := s.current()
	if err != nil {
		return 0, err
	}
	return backend.StoredUserID(ctx)
}

func (s *Store) SetStoredUserID(ctx context.Context, id int64) error {
	backend, err := s.current()
	if err != nil {
		return err
	}
	return backend.SetStoredUserID(ctx, id)
}

func (s *Store) IsMigrationComplete(ctx context.Context, id string) (bool, error) {
	backend, err := s.current()
	if err != nil {
		return false, err
	}
	return backend.IsMigrationComplete(ctx, id)
}

func (s *Store) SetMigrationComplete(ctx context.Context, id string) error {
	backend, err := s.current()
	if err != nil {
		return err
	}
	return backend.SetMigrationComplete(ctx, id)
}

func (s *Store) PutProjection(ctx context.Context, entry models.ProjectionEntry) error {
	backend, err := s.current()
	if err != nil {
		return err
	}
	return backend.PutProjection(ctx, entry)
}

func (s *Store) GetProjection(ctx context.Context, scopeID int64, entityKey string) (models.ProjectionEntry, error) {
	backend, err := s.current()
	if err != nil {
		return models.ProjectionEntry{}, err
	}
	return backend.GetProjection(ctx, scopeID, entityKey)
}

func (s *Store) GetProjections(ctx context.Context, scopeID int64) ([]models.ProjectionEntry, error) {
	backend, err := s.current()
	if err != nil {
		return nil, err
	}
	return backend.GetProjections(ctx, scopeID)
}

func (s *Store) DeleteProjections(ctx context.Context, scopeID int64) error {
	backend, err := s.current()
	if err != nil {
		return err
	}
	return backend.DeleteProjections(ctx, scopeID)
}
