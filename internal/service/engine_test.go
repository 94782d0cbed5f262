package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickfolio/localsync/internal/config"
	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/internal/store"
	"github.com/brickfolio/localsync/models"
)

// fakeCoordinator is an in-process Coordinator stub with scriptable
// leadership.
type fakeCoordinator struct {
	mu         sync.Mutex
	leader     bool
	leaderSubs []func(bool)
	syncSubs   []func(bool)
	notified   []bool
}

func (f *fakeCoordinator) ShouldSync() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leader
}

func (f *fakeCoordinator) OnLeaderChange(fn func(bool)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaderSubs = append(f.leaderSubs, fn)
	return func() {}
}

func (f *fakeCoordinator) OnSyncComplete(fn func(bool)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncSubs = append(f.syncSubs, fn)
	return func() {}
}

func (f *fakeCoordinator) NotifySyncComplete(success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, success)
}

func (f *fakeCoordinator) Close() error { return nil }

func (f *fakeCoordinator) setLeader(leader bool) {
	f.mu.Lock()
	f.leader = leader
	subs := append([]func(bool){}, f.leaderSubs...)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(leader)
	}
}

func (f *fakeCoordinator) fireSiblingSync(success bool) {
	f.mu.Lock()
	subs := append([]func(bool){}, f.syncSubs...)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(success)
	}
}

func (f *fakeCoordinator) notifications() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool{}, f.notified...)
}

// fakeAdapter records pushes and beacons; pushFn scripts the remote's
// verdict.
type fakeAdapter struct {
	mu      sync.Mutex
	token   string
	pushes  []models.PushRequest
	beacons [][]byte
	pushFn  func(models.PushRequest) (models.PushResponse, error)
}

func (f *fakeAdapter) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAdapter) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAdapter) PushBatch(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
	f.mu.Lock()
	f.pushes = append(f.pushes, req)
	fn := f.pushFn
	f.mu.Unlock()

	if fn != nil {
		return fn(req)
	}
	return models.PushResponse{Success: true, Processed: len(req.Operations)}, nil
}

func (f *fakeAdapter) SendBeacon(body []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beacons = append(f.beacons, body)
	return true
}

func (f *fakeAdapter) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func (f *fakeAdapter) beaconCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.beacons)
}

func testAgentConfig(t *testing.T) *config.AgentConfig {
	t.Helper()

	return &config.AgentConfig{
		Storage: config.AgentStorage{
			DB: config.AgentDB{DSN: filepath.Join(t.TempDir(), "store.db")},
		},
		Workers: config.AgentWorkers{
			SyncInterval: time.Hour, // tests trigger syncs explicitly
			BatchSize:    10,
		},
	}
}

type engineFixture struct {
	engine  *SyncEngine
	store   *store.Store
	coord   *fakeCoordinator
	adapter *fakeAdapter
	cfg     *config.AgentConfig
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	cfg := testAgentConfig(t)
	st := store.NewStore(cfg.Storage, logger.Nop())
	coord := &fakeCoordinator{leader: true}
	ad := &fakeAdapter{}

	engine := New(st, coord, ad, cfg, logger.Nop())
	t.Cleanup(engine.Destroy)

	return &engineFixture{engine: engine, store: st, coord: coord, adapter: ad, cfg: cfg}
}

func (f *engineFixture) initAndSignIn(t *testing.T, userID int64) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, f.engine.Init(ctx))
	require.NoError(t, f.engine.SetUserID(ctx, userID))
}

// reopen gives tests a fresh view of the durable file after Destroy closed
// the engine's store.
func (f *engineFixture) reopen(t *testing.T) *store.Store {
	t.Helper()

	st := store.NewStore(f.cfg.Storage, logger.Nop())
	require.NoError(t, st.Open(context.Background()))
	t.Cleanup(func() { st.Close() })

	return st
}

func TestSyncEngine_InitIsIdempotentAndSafePreIdentity(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	require.NoError(t, f.engine.Init(ctx))
	require.NoError(t, f.engine.Init(ctx))

	status := f.engine.Status()
	assert.True(t, status.IsReady)
	assert.True(t, status.IsAvailable)
	assert.Zero(t, status.PendingSyncCount)

	// no identity: sync attempts must be silent no-ops
	require.NoError(t, f.engine.PerformSync(ctx, SyncOptions{Force: true}))
	assert.Zero(t, f.adapter.pushCount())
}

func TestSyncEngine_ConcurrentInitBringsUpOnce(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.engine.Init(ctx))
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return f.engine.Status().IsReady
	}, time.Second, 5*time.Millisecond)

	// racing Init calls must not double-subscribe to the coordinator
	f.coord.mu.Lock()
	leaderSubs := len(f.coord.leaderSubs)
	syncSubs := len(f.coord.syncSubs)
	f.coord.mu.Unlock()
	assert.Equal(t, 1, leaderSubs)
	assert.Equal(t, 1, syncSubs)
}

func TestSyncEngine_EnqueueRequiresIdentity(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	require.NoError(t, f.engine.Init(ctx))

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	assert.ErrorIs(t, err, ErrSignedOut)
}

func TestSyncEngine_DrainsFIFOAndRemovesConfirmed(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false // keep the post-SetUserID sync attempt inert
	f.initAndSignIn(t, 1)

	for _, part := range []string{"a", "b", "c"} {
		_, err := f.engine.Enqueue(ctx, "inventory", models.OperationUpdate, []byte(`{"part":"`+part+`"}`))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.engine.Status().PendingSyncCount)

	f.coord.setLeader(true)
	require.NoError(t, f.engine.PerformSync(ctx, SyncOptions{}))

	require.Equal(t, 1, f.adapter.pushCount())
	pushed := f.adapter.pushes[0]
	require.Len(t, pushed.Operations, 3)
	assert.JSONEq(t, `{"part":"a"}`, string(pushed.Operations[0].Payload))
	assert.JSONEq(t, `{"part":"b"}`, string(pushed.Operations[1].Payload))
	assert.JSONEq(t, `{"part":"c"}`, string(pushed.Operations[2].Payload))

	ops, err := f.store.PeekPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, ops, "confirmed operations must be removed")
	assert.Zero(t, f.engine.Status().PendingSyncCount)
	assert.Equal(t, []bool{true}, f.coord.notifications())
}

func TestSyncEngine_PartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	var ids []int64
	for _, part := range []string{"a", "b", "c"} {
		id, err := f.engine.Enqueue(ctx, "inventory", models.OperationUpdate, []byte(`{"part":"`+part+`"}`))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	f.adapter.pushFn = func(req models.PushRequest) (models.PushResponse, error) {
		return models.PushResponse{
			Success:   true,
			Processed: 2,
			Failed:    []models.FailedOperation{{ID: ids[1], Error: "stale version"}},
		}, nil
	}

	f.coord.setLeader(true)
	require.NoError(t, f.engine.PerformSync(ctx, SyncOptions{}))

	ops, err := f.store.PeekPending(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, ops, 1, "only the rejected operation may remain")
	assert.Equal(t, ids[1], ops[0].ID)
	assert.Equal(t, "stale version", ops[0].FailureReason)
	assert.Equal(t, 1, f.engine.Status().PendingSyncCount)
}

func TestSyncEngine_TransportErrorKeepsBatch(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	require.NoError(t, err)

	f.adapter.pushFn = func(models.PushRequest) (models.PushResponse, error) {
		return models.PushResponse{}, errors.New("connection refused")
	}

	f.coord.setLeader(true)
	err = f.engine.PerformSync(ctx, SyncOptions{})
	require.Error(t, err)

	ops, peekErr := f.store.PeekPending(ctx, 1, 10)
	require.NoError(t, peekErr)
	assert.Len(t, ops, 1, "nothing may be removed on a transport error")
	assert.Empty(t, ops[0].FailureReason, "a batch-level failure is not a per-operation rejection")

	status := f.engine.Status()
	assert.Contains(t, status.LastSyncError, "connection refused")
	assert.Equal(t, []bool{false}, f.coord.notifications())
}

func TestSyncEngine_RemoteBatchRejectionKeepsBatch(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	require.NoError(t, err)

	f.adapter.pushFn = func(models.PushRequest) (models.PushResponse, error) {
		return models.PushResponse{Success: false}, nil
	}

	f.coord.setLeader(true)
	require.Error(t, f.engine.PerformSync(ctx, SyncOptions{}))

	ops, peekErr := f.store.PeekPending(ctx, 1, 10)
	require.NoError(t, peekErr)
	assert.Len(t, ops, 1)
	assert.NotEmpty(t, f.engine.Status().LastSyncError)
}

func TestSyncEngine_SuccessfulSyncClearsLastError(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	require.NoError(t, err)

	f.adapter.pushFn = func(models.PushRequest) (models.PushResponse, error) {
		return models.PushResponse{}, errors.New("boom")
	}
	f.coord.setLeader(true)
	require.Error(t, f.engine.PerformSync(ctx, SyncOptions{}))
	require.NotEmpty(t, f.engine.Status().LastSyncError)

	f.adapter.mu.Lock()
	f.adapter.pushFn = nil
	f.adapter.mu.Unlock()

	require.NoError(t, f.engine.PerformSync(ctx, SyncOptions{}))
	assert.Empty(t, f.engine.Status().LastSyncError)
}

func TestSyncEngine_NonLeaderDoesNotPush(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	require.NoError(t, err)

	require.NoError(t, f.engine.PerformSync(ctx, SyncOptions{}))
	assert.Zero(t, f.adapter.pushCount(), "a non-leader must not issue network calls")

	require.NoError(t, f.engine.PerformSync(ctx, SyncOptions{Force: true}))
	assert.Equal(t, 1, f.adapter.pushCount(), "force bypasses the leadership gate")
}

// Two engines over the same durable file with only one elected leader:
// exactly one of them may reach the network.
func TestSyncEngine_SingleLeaderInvariant(t *testing.T) {
	ctx := context.Background()
	cfg := testAgentConfig(t)

	st := store.NewStore(cfg.Storage, logger.Nop())
	leaderCoord := &fakeCoordinator{leader: true}
	followerCoord := &fakeCoordinator{leader: false}
	leaderAdapter := &fakeAdapter{}
	followerAdapter := &fakeAdapter{}

	leaderEngine := New(st, leaderCoord, leaderAdapter, cfg, logger.Nop())
	followerEngine := New(st, followerCoord, followerAdapter, cfg, logger.Nop())
	defer leaderEngine.Destroy()
	defer followerEngine.Destroy()

	require.NoError(t, leaderEngine.Init(ctx))
	require.NoError(t, followerEngine.Init(ctx))
	require.NoError(t, leaderEngine.SetUserID(ctx, 1))
	require.NoError(t, followerEngine.SetUserID(ctx, 1))

	_, err := st.Enqueue(ctx, 1, "inventory", models.OperationCreate, json.RawMessage(`{}`))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, e := range []*SyncEngine{leaderEngine, followerEngine} {
		wg.Add(1)
		go func(e *SyncEngine) {
			defer wg.Done()
			_ = e.PerformSync(ctx, SyncOptions{})
		}(e)
	}
	wg.Wait()

	assert.Zero(t, followerAdapter.pushCount(), "non-leader observed ShouldSync()==false")
	assert.LessOrEqual(t, leaderAdapter.pushCount(), 1)
}

func TestSyncEngine_OfflineProbeSkipsSync(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	require.NoError(t, err)

	f.engine.SetOfflineProbe(func() bool { return true })
	f.coord.setLeader(true)

	require.NoError(t, f.engine.PerformSync(ctx, SyncOptions{}))
	assert.Zero(t, f.adapter.pushCount())

	f.engine.SetOfflineProbe(func() bool { return false })
	require.NoError(t, f.engine.PerformSync(ctx, SyncOptions{}))
	assert.Equal(t, 1, f.adapter.pushCount())
}

func TestSyncEngine_KeepaliveKeepsBatchQueued(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationUpdate, []byte(`{"part":"a"}`))
	require.NoError(t, err)

	f.coord.setLeader(true)
	require.NoError(t, f.engine.PerformSync(ctx, SyncOptions{Keepalive: true}))

	require.Equal(t, 1, f.adapter.beaconCount())
	assert.Zero(t, f.adapter.pushCount())

	var sent models.PushRequest
	require.NoError(t, json.Unmarshal(f.adapter.beacons[0], &sent))
	require.Len(t, sent.Operations, 1)
	assert.Equal(t, 1, sent.Length)

	ops, err := f.store.PeekPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, ops, 1, "unconfirmed delivery must not remove operations")
}

func TestSyncEngine_IdentitySwitchIsolation(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{"u":1}`))
	require.NoError(t, err)
	require.NoError(t, f.store.PutProjection(ctx, models.ProjectionEntry{
		ScopeID:   1,
		EntityKey: "part-1",
		Value:     json.RawMessage(`{"owned":2}`),
	}))

	require.NoError(t, f.engine.SetUserID(ctx, 2))

	// the first identity's queue survives untouched
	ops, err := f.store.PeekPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, ops, 1)

	ops, err = f.store.PeekPending(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, ops)

	// but its cached projections are invalidated
	_, err = f.store.GetProjection(ctx, 1, "part-1")
	assert.ErrorIs(t, err, store.ErrProjectionNotFound)

	id, err := f.store.StoredUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestSyncEngine_SignOutStopsPersistedIdentity(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	require.NoError(t, f.engine.SetUserID(ctx, 0))

	id, err := f.store.StoredUserID(ctx)
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Zero(t, f.engine.Status().PendingSyncCount)
}

func TestSyncEngine_SubscribeAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	var mu sync.Mutex
	var seen []models.SyncStatus
	unsubscribe := f.engine.Subscribe(func(s models.SyncStatus) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	require.NoError(t, err)

	mu.Lock()
	require.NotEmpty(t, seen)
	assert.Equal(t, 1, seen[len(seen)-1].PendingSyncCount)
	count := len(seen)
	mu.Unlock()

	unsubscribe()

	_, err = f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, count, len(seen), "unsubscribed listener must not fire")
	mu.Unlock()
}

func TestSyncEngine_SiblingSyncRefreshesPendingCount(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	// enqueue behind the engine's back, as a sibling process would
	_, err := f.store.Enqueue(ctx, 1, "inventory", models.OperationCreate, json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Zero(t, f.engine.Status().PendingSyncCount)

	f.coord.fireSiblingSync(true)
	assert.Equal(t, 1, f.engine.Status().PendingSyncCount)
}

func TestSyncEngine_WakeUpTriggersSync(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	require.NoError(t, err)

	f.coord.setLeader(true)
	f.engine.WakeUp(ctx)

	require.Eventually(t, func() bool {
		return f.adapter.pushCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSyncEngine_DestroyFlushesPendingViaKeepalive(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false // Force on the teardown path bypasses leadership
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationUpdate, []byte(`{"part":"a"}`))
	require.NoError(t, err)

	f.engine.Destroy()
	f.engine.Destroy() // idempotent

	assert.Equal(t, 1, f.adapter.beaconCount(), "teardown must fire exactly one keepalive flush")
	assert.Zero(t, f.adapter.pushCount())

	// unconfirmed delivery: the reopened store still holds the batch
	st := f.reopen(t)
	ops, err := st.PeekPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestSyncEngine_DestroyWithEmptyQueueSkipsFlush(t *testing.T) {
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	f.engine.Destroy()

	assert.Zero(t, f.adapter.beaconCount())
	assert.False(t, f.engine.Status().IsReady)
}

func TestSyncEngine_DestroyFlushesDespiteInflightSync(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{"part":"a"}`))
	require.NoError(t, err)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	f.adapter.pushFn = func(models.PushRequest) (models.PushResponse, error) {
		close(inFlight)
		<-release
		return models.PushResponse{Success: true, Processed: 1}, nil
	}
	defer close(release)

	f.coord.setLeader(true)

	go func() { _ = f.engine.PerformSync(ctx, SyncOptions{}) }()
	<-inFlight

	// the in-flight push holds the sync guard; the teardown flush must
	// fire its beacon anyway
	f.engine.Destroy()

	assert.Equal(t, 1, f.adapter.beaconCount(), "teardown flush must not be swallowed by an in-flight sync")
}

func TestSyncEngine_DestroyDuringInflightSyncVetoesCompletion(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	require.NoError(t, err)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	f.adapter.pushFn = func(models.PushRequest) (models.PushResponse, error) {
		close(inFlight)
		<-release
		return models.PushResponse{Success: true, Processed: 1}, nil
	}

	f.coord.setLeader(true)

	done := make(chan error, 1)
	go func() {
		done <- f.engine.PerformSync(ctx, SyncOptions{})
	}()
	<-inFlight

	// destroy while the push is pending; its completion must not mutate
	// the store
	go f.engine.Destroy()
	require.Eventually(t, func() bool {
		return !f.engine.Status().IsReady
	}, time.Second, 5*time.Millisecond)

	close(release)
	require.NoError(t, <-done)

	st := f.reopen(t)
	ops, err := st.PeekPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, ops, 1, "post-destroy completion must not remove operations")
}

func TestSyncEngine_CallsAfterDestroy(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.coord.leader = false
	f.initAndSignIn(t, 1)

	f.engine.Destroy()

	_, err := f.engine.Enqueue(ctx, "inventory", models.OperationCreate, []byte(`{}`))
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.ErrorIs(t, f.engine.SetUserID(ctx, 2), ErrDestroyed)
	assert.NoError(t, f.engine.PerformSync(ctx, SyncOptions{Force: true}))
	assert.Zero(t, f.adapter.pushCount())
}
