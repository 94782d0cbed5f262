package store

import (
	"context"
	"encoding/json"

	"github.com/brickfolio/localsync/models"
)

//go:generate mockgen -destination=../mock/store_mock.go -package=mock github.com/brickfolio/localsync/internal/store LocalStore

// LocalStore is the on-device durable store holding the operation queue, the
// cached read-side projection, one-time migration flags, and the active
// identity.
//
// Open degrades instead of failing: when durable storage cannot be
// established the store falls back to an in-memory backend and reports
// Available() == false, so the product stays usable without persistence.
// Every other method returns an error the caller is expected to catch;
// nothing here panics or terminates the process.
type LocalStore interface {
	// Open idempotently establishes the store and applies schema
	// migrations. It never returns an error for storage denial, only for
	// programming mistakes (it is currently always nil).
	Open(ctx context.Context) error

	// Available reports whether the store is backed by durable storage.
	// False means the degraded in-memory mode is active.
	Available() bool

	// Enqueue appends one operation to the durable queue and returns the
	// store-assigned id. Queue writes are never debounced: once Enqueue
	// returns, the operation is visible to PeekPending across a crash.
	Enqueue(ctx context.Context, userID int64, table string, op models.OperationType, payload json.RawMessage) (int64, error)

	// PeekPending returns up to limit pending operations for the identity,
	// in insertion (FIFO) order. Failure-annotated operations are included.
	PeekPending(ctx context.Context, userID int64, limit int) ([]models.SyncOperation, error)

	// Remove deletes operations confirmed successful by the remote.
	Remove(ctx context.Context, ids []int64) error

	// MarkFailed annotates a rejected operation with the remote's reason.
	// The operation stays queued for a later retry.
	MarkFailed(ctx context.Context, id int64, reason string) error

	// CountPending returns the number of queued operations for the identity.
	CountPending(ctx context.Context, userID int64) (int, error)

	// StoredUserID returns the identity the store is currently scoped to,
	// or zero when signed out.
	StoredUserID(ctx context.Context) (int64, error)

	// SetStoredUserID re-scopes the store to a new identity. Existing
	// queued operations keep the identity they were enqueued under.
	SetStoredUserID(ctx context.Context, id int64) error

	// IsMigrationComplete reports whether the one-time migration with the
	// given id has been flagged complete.
	IsMigrationComplete(ctx context.Context, id string) (bool, error)

	// SetMigrationComplete flags a migration as complete.
	SetMigrationComplete(ctx context.Context, id string) error

	// PutProjection upserts one cached projection entry.
	PutProjection(ctx context.Context, entry models.ProjectionEntry) error

	// GetProjection returns the cached entry for (scopeID, entityKey).
	// Returns ErrProjectionNotFound when absent.
	GetProjection(ctx context.Context, scopeID int64, entityKey string) (models.ProjectionEntry, error)

	// GetProjections returns all cached entries for the scope.
	GetProjections(ctx context.Context, scopeID int64) ([]models.ProjectionEntry, error)

	// DeleteProjections drops all cached entries for the scope. Used when
	// the active identity changes.
	DeleteProjections(ctx context.Context, scopeID int64) error

	// Close releases the underlying storage. Safe to call multiple times.
	Close() error
}

// localBackend is the storage-technology side of [LocalStore]: everything
// except the fail-soft Open/Available wrapper. Implemented by the SQLite
// backend and the in-memory fallback.
type localBackend interface {
	Enqueue(ctx context.Context, userID int64, table string, op models.OperationType, payload json.RawMessage) (int64, error)
	PeekPending(ctx context.Context, userID int64, limit int) ([]models.SyncOperation, error)
	Remove(ctx context.Context, ids []int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	CountPending(ctx context.Context, userID int64) (int, error)
	StoredUserID(ctx context.Context) (int64, error)
	SetStoredUserID(ctx context.Context, id int64) error
	IsMigrationComplete(ctx context.Context, id string) (bool, error)
	SetMigrationComplete(ctx context.Context, id string) error
	PutProjection(ctx context.Context, entry models.ProjectionEntry) error
	GetProjection(ctx context.Context, scopeID int64, entityKey string) (models.ProjectionEntry, error)
	GetProjections(ctx context.Context, scopeID int64) ([]models.ProjectionEntry, error)
	DeleteProjections(ctx context.Context, scopeID int64) error
	Close() error
}
