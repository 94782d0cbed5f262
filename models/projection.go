package models

import (
	"encoding/json"
	"time"
)

// ProjectionEntry is one row of the derived read-side cache: a locally
// materialised view keyed by (scope, entity) used for zero-latency reads.
// It is rebuilt on identity change and is never the source of sync truth;
// the operation queue alone decides what must reach the remote.
type ProjectionEntry struct {
	// ScopeID is the identity the entry belongs to.
	ScopeID int64 `json:"scope_id"`

	// EntityKey identifies the projected entity within the scope
	// (e.g. a part number).
	EntityKey string `json:"entity_key"`

	// Value is the cached document for the entity.
	Value json.RawMessage `json:"value"`

	// UpdatedAt is the time of the last local write to this entry.
	UpdatedAt time.Time `json:"updated_at"`
}
