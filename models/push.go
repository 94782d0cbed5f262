package models

import "encoding/json"

// PushOperation is the wire form of a queued operation inside a push batch.
type PushOperation struct {
	ID        int64           `json:"id"`
	Table     string          `json:"table"`
	Operation OperationType   `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
}

// PushRequest is sent by the client to deliver a batch of queued operations
// to the remote sync endpoint. Operations are listed in local insertion
// order.
type PushRequest struct {
	// Operations is the batch being delivered.
	Operations []PushOperation `json:"operations"`

	// Length is the total number of entries in Operations.
	Length int `json:"length"`

	// Hash is an optional HMAC-SHA256 of Operations computed with the shared
	// transport key. Empty when no key is configured.
	Hash string `json:"hash,omitempty"`
}

// FailedOperation reports a single operation the remote rejected.
type FailedOperation struct {
	// ID is the client-assigned operation id being rejected.
	ID int64 `json:"id"`

	// Error is the remote's reason for the rejection.
	Error string `json:"error"`
}

// PushResponse is the remote's per-operation verdict for a push batch.
// Absence of an id from Failed implies that operation succeeded.
type PushResponse struct {
	// Success is false when the remote could not process the batch at all.
	Success bool `json:"success"`

	// Processed is the number of operations the remote applied.
	Processed int `json:"processed"`

	// Failed lists only the subset of the batch that was rejected.
	Failed []FailedOperation `json:"failed,omitempty"`
}

// FailedIDs returns the set of rejected operation ids keyed by id.
func (r PushResponse) FailedIDs() map[int64]string {
	if len(r.Failed) == 0 {
		return nil
	}
	m := make(map[int64]string, len(r.Failed))
	for _, f := range r.Failed {
		m[f.ID] = f.Error
	}
	return m
}
