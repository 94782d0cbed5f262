package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/brickfolio/localsync/models"
)

// memoryBackend is the degraded fallback used when durable storage cannot
// be established (e.g. the database file location is not writable). It keeps
// the same semantics as the SQLite backend but loses everything on process
// exit.
type memoryBackend struct {
	mu sync.RWMutex

	nextID      int64
	queue       []models.SyncOperation
	projections map[projectionKey]models.ProjectionEntry
	migrations  map[string]bool
	userID      int64
}

type projectionKey struct {
	scopeID   int64
	entityKey string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		nextID:      1,
		projections: make(map[projectionKey]models.ProjectionEntry),
		migrations:  make(map[string]bool),
	}
}

func (m *memoryBackend) Enqueue(_ context.Context, userID int64, table string, op models.OperationType, payload json.RawMessage) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	m.queue = append(m.queue, models.SyncOperation{
		ID:        id,
		UserID:    userID,
		Table:     table,
		Operation: op,
		Payload:   append(json.RawMessage(nil), payload...),
		CreatedAt: time.Now(),
	})

	return id, nil
}

func (m *memoryBackend) PeekPending(_ context.Context, userID int64, limit int) ([]models.SyncOperation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ops []models.SyncOperation
	for _, op := range m.queue {
		if op.UserID != userID {
			continue
		}
		ops = append(ops, op)
		if len(ops) == limit {
			break
		}
	}

	return ops, nil
}

func (m *memoryBackend) Remove(_ context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	remove := make(map[int64]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	kept := m.queue[:0]
	for _, op := range m.queue {
		if !remove[op.ID] {
			kept = append(kept, op)
		}
	}
	m.queue = kept

	return nil
}

func (m *memoryBackend) MarkFailed(_ context.Context, id int64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.queue {
		if m.queue[i].ID == id {
			m.queue[i].FailureReason = reason
			return nil
		}
	}

	return fmt.Errorf("%w (operation_id=%d)", ErrOperationNotFound, id)
}

func (m *memoryBackend) CountPending(_ context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, op := range m.queue {
		if op.UserID == userID {
			count++
		}
	}

	return count, nil
}

func (m *memoryBackend) StoredUserID(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.userID, nil
}

func (m *memoryBackend) SetStoredUserID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.userID = id
	return nil
}

func (m *memoryBackend) IsMigrationComplete(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.migrations[id], nil
}

func (m *memoryBackend) SetMigrationComplete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.migrations[id] = true
	return nil
}

func (m *memoryBackend) PutProjection(_ context.Context, entry models.ProjectionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.UpdatedAt = time.Now()
	m.projections[projectionKey{entry.ScopeID, entry.EntityKey}] = entry
	return nil
}

func (m *memoryBackend) GetProjection(_ context.Context, scopeID int64, entityKey string) (models.ProjectionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.projections[projectionKey{scopeID, entityKey}]
	if !ok {
		return models.ProjectionEntry{}, ErrProjectionNotFound
	}

	return entry, nil
}

func (m *memoryBackend) GetProjections(_ context.Context, scopeID int64) ([]models.ProjectionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []models.ProjectionEntry
	for key, entry := range m.projections {
		if key.scopeID == scopeID {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func (m *memoryBackend) DeleteProjections(_ context.Context, scopeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.projections {
		if key.scopeID == scopeID {
			delete(m.projections, key)
		}
	}

	return nil
}

func (m *memoryBackend) Close() error {
	return nil
}
