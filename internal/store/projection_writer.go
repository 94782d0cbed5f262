package store

import (
	"context"
	"sync"
	"time"

	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/models"
)

// ProjectionWriter coalesces rapid writes to the cached projection behind a
// quiet period before they reach the durable store, so hot fields (an owned
// quantity being edited) do not hammer storage on every interaction.
//
// Only the derived cache goes through this path. The operation queue is
// written immediately via [LocalStore.Enqueue]; durability of the mutation
// log is never delayed.
type ProjectionWriter struct {
	store LocalStore
	delay time.Duration
	log   *logger.Logger

	mu      sync.Mutex
	pending map[projectionKey]models.ProjectionEntry
	timer   *time.Timer
	closed  bool
}

// NewProjectionWriter constructs a writer flushing coalesced entries after
// delay of write inactivity per batch.
func NewProjectionWriter(store LocalStore, delay time.Duration, log *logger.Logger) *ProjectionWriter {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &ProjectionWriter{
		store:   store,
		delay:   delay,
		log:     log,
		pending: make(map[projectionKey]models.ProjectionEntry),
	}
}

// Put records entry for eventual persistence. A later Put for the same
// (scope, entity) before the quiet period elapses replaces the earlier one.
func (w *ProjectionWriter) Put(entry models.ProjectionEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.pending[projectionKey{entry.ScopeID, entry.EntityKey}] = entry

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		if err := w.Flush(context.Background()); err != nil {
			w.log.Err(err).
				Str("func", "ProjectionWriter.flush").
				Msg("failed to flush coalesced projection writes")
		}
	})
}

// Flush writes every coalesced entry to the store immediately.
func (w *ProjectionWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	batch := w.pending
	w.pending = make(map[projectionKey]models.ProjectionEntry)
	w.mu.Unlock()

	var firstErr error
	for _, entry := range batch {
		if err := w.store.PutProjection(ctx, entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Discard drops all coalesced entries for the scope without writing them.
// Used when the active identity changes.
func (w *ProjectionWriter) Discard(scopeID int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for key := range w.pending {
		if key.scopeID == scopeID {
			delete(w.pending, key)
		}
	}
}

// Close flushes outstanding writes and stops the writer. Subsequent Puts
// are ignored.
func (w *ProjectionWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	return w.Flush(context.Background())
}
