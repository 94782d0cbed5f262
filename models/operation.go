package models

import (
	"encoding/json"
	"time"
)

// OperationType names the kind of mutation a queued operation carries.
// The engine treats the value as opaque; it is interpreted by the remote.
type OperationType string

const (
	// OperationCreate inserts a new record into the target table.
	OperationCreate OperationType = "create"

	// OperationUpdate replaces fields of an existing record.
	OperationUpdate OperationType = "update"

	// OperationDelete removes a record from the target table.
	OperationDelete OperationType = "delete"
)

// Valid reports whether t is one of the recognised operation kinds.
func (t OperationType) Valid() bool {
	switch t {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// SyncOperation is one queued, durable unit of outbound work. Operations are
// appended by the domain layer when a local mutation occurs, drained in FIFO
// order by the sync engine, deleted on confirmed remote success, and
// annotated (not deleted) when the remote rejects them so they stay queued
// for a later retry.
type SyncOperation struct {
	// ID is the store-assigned monotonic identifier. Zero before first persist.
	ID int64 `json:"id"`

	// UserID scopes the operation to the identity that produced it.
	UserID int64 `json:"user_id"`

	// Table is the logical target collection name. Opaque to the engine.
	Table string `json:"table"`

	// Operation is one of create, update, delete.
	Operation OperationType `json:"operation"`

	// Payload is an arbitrary serialisable document describing the mutation.
	Payload json.RawMessage `json:"payload"`

	// FailureReason carries the remote's rejection reason from the last
	// attempt. Empty for operations that have never been rejected.
	FailureReason string `json:"failure_reason,omitempty"`

	// CreatedAt is the local enqueue time.
	CreatedAt time.Time `json:"created_at"`
}
