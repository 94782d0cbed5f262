// Package server implements the reference remote sync endpoint: a chi
// router with an in-memory per-table document map. It exists for
// development and tests; the production remote lives elsewhere.
package server

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/models"
)

// Handler holds the reference remote's state: one upsert map per table,
// keyed by the payload's own entity key. Applying the same operation twice
// converges to the same state, which is what lets clients redeliver
// unconfirmed batches safely.
type Handler struct {
	hashKey string
	logger  *logger.Logger

	mu      sync.Mutex
	tables  map[string]map[string]json.RawMessage
	beacons int

	// rejectOp injects per-operation failures for tests. A non-empty
	// return value is reported as that operation's rejection reason.
	rejectOp func(models.PushOperation) string
}

func NewHandler(hashKey string, log *logger.Logger) *Handler {
	return &Handler{
		hashKey: hashKey,
		logger:  log,
		tables:  make(map[string]map[string]json.RawMessage),
	}
}

// SetRejectFunc installs a fault injector consulted for every incoming
// operation.
func (h *Handler) SetRejectFunc(fn func(models.PushOperation) string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejectOp = fn
}

// TableSnapshot returns a copy of one table's documents.
func (h *Handler) TableSnapshot(table string) map[string]json.RawMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]json.RawMessage, len(h.tables[table]))
	for k, v := range h.tables[table] {
		out[k] = v
	}
	return out
}

// BeaconCount returns how many beacon bodies have been accepted.
func (h *Handler) BeaconCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.beacons
}

// apply executes one batch under the handler lock and returns the rejected
// subset.
func (h *Handler) apply(ops []models.PushOperation) []models.FailedOperation {
	h.mu.Lock()
	defer h.mu.Unlock()

	var failed []models.FailedOperation
	for _, op := range ops {
		if h.rejectOp != nil {
			if reason := h.rejectOp(op); reason != "" {
				failed = append(failed, models.FailedOperation{ID: op.ID, Error: reason})
				continue
			}
		}
		if err := h.applyOne(op); err != nil {
			failed = append(failed, models.FailedOperation{ID: op.ID, Error: err.Error()})
		}
	}
	return failed
}

func (h *Handler) applyOne(op models.PushOperation) error {
	if !op.Operation.Valid() {
		return fmt.Errorf("unknown operation %q", op.Operation)
	}

	key, err := entityKey(op.Payload)
	if err != nil {
		return err
	}

	table := h.tables[op.Table]
	if table == nil {
		table = make(map[string]json.RawMessage)
		h.tables[op.Table] = table
	}

	switch op.Operation {
	case models.OperationCreate, models.OperationUpdate:
		table[key] = op.Payload
	case models.OperationDelete:
		delete(table, key)
	}
	return nil
}

// entityKey extracts the document's own identity from the payload. The
// engine treats payloads as opaque; the remote is the party that knows
// which field keys a document.
func entityKey(payload json.RawMessage) (string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", fmt.Errorf("payload is not an object: %w", err)
	}

	for _, field := range []string{"key", "id", "part"} {
		raw, ok := doc[field]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s, nil
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String(), nil
		}
	}

	return "", fmt.Errorf("payload carries no entity key")
}
