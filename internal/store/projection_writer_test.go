package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickfolio/localsync/internal/config"
	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/models"
)

// countingStore wraps the in-memory backend and counts PutProjection calls.
type countingStore struct {
	*Store

	mu   sync.Mutex
	puts int
}

func newCountingStore(t *testing.T) *countingStore {
	t.Helper()

	cfg := config.AgentStorage{DB: config.AgentDB{DSN: filepath.Join(t.TempDir(), "store.db")}}
	s := NewStore(cfg, logger.Nop())
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { s.Close() })
	return &countingStore{Store: s}
}

func (c *countingStore) PutProjection(ctx context.Context, entry models.ProjectionEntry) error {
	c.mu.Lock()
	c.puts++
	c.mu.Unlock()
	return c.Store.PutProjection(ctx, entry)
}

func (c *countingStore) putCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puts
}

func TestProjectionWriter_CoalescesRapidWrites(t *testing.T) {
	cs := newCountingStore(t)
	w := NewProjectionWriter(cs, 30*time.Millisecond, logger.Nop())

	// ten rapid writes to the same key collapse into one durable write
	for i := 1; i <= 10; i++ {
		w.Put(models.ProjectionEntry{
			ScopeID:   1,
			EntityKey: "3001",
			Value:     json.RawMessage(fmt.Sprintf(`{"qty":%d}`, i)),
		})
	}

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, cs.putCount())

	got, err := cs.GetProjection(context.Background(), 1, "3001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"qty":10}`, string(got.Value))
}

func TestProjectionWriter_FlushWritesImmediately(t *testing.T) {
	cs := newCountingStore(t)
	w := NewProjectionWriter(cs, time.Hour, logger.Nop())

	w.Put(models.ProjectionEntry{ScopeID: 1, EntityKey: "a", Value: json.RawMessage(`{"qty":1}`)})
	w.Put(models.ProjectionEntry{ScopeID: 1, EntityKey: "b", Value: json.RawMessage(`{"qty":2}`)})

	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, 2, cs.putCount())
}

func TestProjectionWriter_DiscardDropsScope(t *testing.T) {
	cs := newCountingStore(t)
	w := NewProjectionWriter(cs, time.Hour, logger.Nop())

	w.Put(models.ProjectionEntry{ScopeID: 1, EntityKey: "a", Value: json.RawMessage(`{"qty":1}`)})
	w.Put(models.ProjectionEntry{ScopeID: 2, EntityKey: "a", Value: json.RawMessage(`{"qty":2}`)})

	w.Discard(1)
	require.NoError(t, w.Flush(context.Background()))

	assert.Equal(t, 1, cs.putCount())

	_, err := cs.GetProjection(context.Background(), 1, "a")
	assert.ErrorIs(t, err, ErrProjectionNotFound)
}

func TestProjectionWriter_CloseFlushesAndStops(t *testing.T) {
	cs := newCountingStore(t)
	w := NewProjectionWriter(cs, time.Hour, logger.Nop())

	w.Put(models.ProjectionEntry{ScopeID: 1, EntityKey: "a", Value: json.RawMessage(`{"qty":1}`)})

	require.NoError(t, w.Close())
	assert.Equal(t, 1, cs.putCount())

	// writes after Close are ignored
	w.Put(models.ProjectionEntry{ScopeID: 1, EntityKey: "b", Value: json.RawMessage(`{"qty":2}`)})
	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, 1, cs.putCount())
}
