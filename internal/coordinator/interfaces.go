package coordinator

//go:generate mockgen -destination=../mock/coordinator_mock.go -package=mock github.com/brickfolio/localsync/internal/coordinator Coordinator

// Coordinator elects exactly one leader among all agent processes sharing a
// local store, and relays sync-completion broadcasts between them. Only the
// leader may push queued operations to the remote; every process may keep
// enqueueing locally.
type Coordinator interface {
	// OnLeaderChange registers fn to be invoked with the new status
	// whenever this process gains or loses leadership. The returned
	// function removes the registration.
	OnLeaderChange(fn func(leader bool)) (unsubscribe func())

	// OnSyncComplete registers fn to be invoked when a sibling process
	// broadcasts the outcome of a sync attempt, so non-leaders can refresh
	// their cached reads without hitting the network themselves.
	OnSyncComplete(fn func(success bool)) (unsubscribe func())

	// ShouldSync reports whether this process currently holds leadership.
	// Callers must treat it as a gate, not an optimization: a false result
	// means another process owns the outbound push.
	ShouldSync() bool

	// NotifySyncComplete broadcasts the outcome of a sync attempt to
	// sibling processes.
	NotifySyncComplete(success bool)

	// Close stops heartbeats and watchers and releases leadership. Safe to
	// call multiple times.
	Close() error
}
