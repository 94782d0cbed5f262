package models

// SyncStatus is a read-only snapshot of the sync engine's observable state,
// exposed to the UI layer via Status and Subscribe.
type SyncStatus struct {
	// IsReady is true once the store is open, migrations have run, and the
	// engine is subscribed to the coordinator.
	IsReady bool `json:"is_ready"`

	// IsAvailable is false when durable storage was denied and the store is
	// running in its degraded in-memory mode.
	IsAvailable bool `json:"is_available"`

	// PendingSyncCount is the number of queued operations for the active
	// identity.
	PendingSyncCount int `json:"pending_sync_count"`

	// IsSyncing is true while a push to the remote is in flight.
	IsSyncing bool `json:"is_syncing"`

	// LastSyncError is the message of the most recent transport failure,
	// cleared on the next successful push.
	LastSyncError string `json:"last_sync_error,omitempty"`

	// IsLeader mirrors the coordinator: whether this process currently holds
	// the right to push to the remote.
	IsLeader bool `json:"is_leader"`
}
