// Package service contains the sync engine: the orchestrator that owns the
// durable store's lifecycle, runs one-time migrations, follows leadership
// changes, and drains the operation queue to the remote in bounded FIFO
// batches.
//
// All engine state lives in instance fields. Construct one engine per
// process with [New], bring it up with Init, and tear it down with Destroy.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brickfolio/localsync/internal/adapter"
	"github.com/brickfolio/localsync/internal/config"
	"github.com/brickfolio/localsync/internal/coordinator"
	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/internal/migration"
	"github.com/brickfolio/localsync/internal/store"
	"github.com/brickfolio/localsync/internal/workers"
	"github.com/brickfolio/localsync/models"
)

// projectionFlushDelay coalesces rapid read-cache writes. The operation
// queue is never debounced, only the derived projection is.
const projectionFlushDelay = 300 * time.Millisecond

// SyncEngine coordinates the local durable store, the leader election and
// the remote adapter. Exactly the elected leader pushes queued operations;
// every process may enqueue.
type SyncEngine struct {
	store       store.LocalStore
	coordinator coordinator.Coordinator
	adapter     adapter.ServerAdapter
	runner      *migration.Runner
	projections *store.ProjectionWriter
	job         *SyncJob

	batchSize int
	logger    *logger.Logger

	syncing atomic.Bool

	mu            sync.Mutex
	ready         bool
	initializing  bool
	destroyed     bool
	userID        int64
	pendingCount  int
	lastSyncError string
	subs          map[int]func(models.SyncStatus)
	nextSub       int
	unsubLeader   func()
	unsubSync     func()

	// offline reports whether the process currently has no network path.
	// Nil means assume online; the host wires a probe when it has one.
	offline func() bool
}

// New constructs a SyncEngine. The engine is inert until Init is called.
func New(s store.LocalStore, coord coordinator.Coordinator, srvAdapter adapter.ServerAdapter, cfg *config.AgentConfig, log *logger.Logger) *SyncEngine {
	batchSize := cfg.Workers.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}

	engine := &SyncEngine{
		store:       s,
		coordinator: coord,
		adapter:     srvAdapter,
		runner:      migration.NewRunner(s, cfg.Storage, log),
		projections: store.NewProjectionWriter(s, projectionFlushDelay, log),
		batchSize:   batchSize,
		logger:      log,
		subs:        make(map[int]func(models.SyncStatus)),
	}
	engine.job = NewSyncJob(engine, cfg.Workers.SyncInterval)

	return engine
}

// Init brings the engine up: opens the store, runs pending one-time
// migrations, and subscribes to the coordinator. It runs once; later calls
// are no-ops. Init is safe to call before an identity is known; the
// periodic loop does not start until SetUserID sets one.
func (s *SyncEngine) Init(ctx context.Context) error {
	log := s.logger.With().Str("func", "SyncEngine.Init").Logger()

	s.mu.Lock()
	if s.ready || s.destroyed || s.initializing {
		s.mu.Unlock()
		return nil
	}
	// held across the whole bring-up so a concurrent Init cannot run the
	// migrations twice or double-subscribe to the coordinator
	s.initializing = true
	s.mu.Unlock()

	if err := s.store.Open(ctx); err != nil {
		// Open degrades instead of failing; an error here is a programming
		// mistake, not a storage denial
		s.mu.Lock()
		s.initializing = false
		s.mu.Unlock()
		return err
	}
	if !s.store.Available() {
		log.Warn().Msg("durable storage unavailable, queue will not survive a restart")
	}

	if err := s.runner.Run(ctx); err != nil {
		// not fatal: the remaining legacy data stays on disk and the next
		// start resumes the transform
		log.Error().Err(err).Msg("legacy migration did not complete")
	}

	unsubLeader := s.coordinator.OnLeaderChange(func(leader bool) {
		s.onLeaderChange(leader)
	})
	unsubSync := s.coordinator.OnSyncComplete(func(success bool) {
		s.onSiblingSync(success)
	})

	s.mu.Lock()
	s.ready = true
	s.initializing = false
	s.unsubLeader = unsubLeader
	s.unsubSync = unsubSync
	s.mu.Unlock()

	log.Debug().Msg("sync engine ready")
	s.notify()

	return nil
}

// SetUserID switches the active identity. Switching between two non-zero
// identities invalidates the previous identity's cached projections;
// switching to zero stops the periodic loop entirely; switching to non-zero
// starts it and triggers an immediate sync.
func (s *SyncEngine) SetUserID(ctx context.Context, id int64) error {
	log := s.logger.With().Str("func", "SyncEngine.SetUserID").Logger()

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return ErrDestroyed
	}
	prev := s.userID
	s.userID = id
	s.mu.Unlock()

	if prev != 0 && id != prev {
		s.projections.Discard(prev)
		if err := s.store.DeleteProjections(ctx, prev); err != nil {
			log.Error().Err(err).Int64("userID", prev).Msg("failed to drop cached projections")
		}
	}

	if err := s.store.SetStoredUserID(ctx, id); err != nil {
		log.Error().Err(err).Msg("failed to persist active identity")
	}

	if id == 0 {
		s.job.Stop()
	} else {
		s.job.Start(context.WithoutCancel(ctx))
		go func() {
			_ = s.PerformSync(context.WithoutCancel(ctx), SyncOptions{})
		}()
	}

	s.refreshPendingCount(ctx)
	s.notify()

	return nil
}

// Enqueue appends one outbound operation under the active identity. The
// write is durable before Enqueue returns; draining happens asynchronously.
func (s *SyncEngine) Enqueue(ctx context.Context, table string, op models.OperationType, payload []byte) (int64, error) {
	s.mu.Lock()
	userID := s.userID
	destroyed := s.destroyed
	s.mu.Unlock()

	if destroyed {
		return 0, ErrDestroyed
	}
	if userID == 0 {
		return 0, ErrSignedOut
	}

	id, err := s.store.Enqueue(ctx, userID, table, op, payload)
	if err != nil {
		return 0, err
	}

	s.refreshPendingCount(ctx)
	s.notify()

	return id, nil
}

// Projections returns the debounced writer for the derived read-side cache.
// Queue writes never go through it.
func (s *SyncEngine) Projections() *store.ProjectionWriter {
	return s.projections
}

// Status returns a read-only snapshot of the engine state.
func (s *SyncEngine) Status() models.SyncStatus {
	s.mu.Lock()
	status := models.SyncStatus{
		IsReady:          s.ready && !s.destroyed,
		PendingSyncCount: s.pendingCount,
		LastSyncError:    s.lastSyncError,
	}
	s.mu.Unlock()

	status.IsAvailable = s.store.Available()
	status.IsSyncing = s.syncing.Load()
	status.IsLeader = s.coordinator.ShouldSync()

	return status
}

// Subscribe registers a status listener and returns its unsubscribe
// function. Listeners are invoked after every state change, on the calling
// goroutine of whatever triggered the change.
func (s *SyncEngine) Subscribe(fn func(models.SyncStatus)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// WakeUp triggers an asynchronous sync attempt. Wired to foregrounding
// signals (SIGCONT) by the host process.
func (s *SyncEngine) WakeUp(ctx context.Context) {
	s.mu.Lock()
	ready := s.ready && !s.destroyed && s.userID != 0
	s.mu.Unlock()

	if !ready {
		return
	}

	go func() {
		_ = s.PerformSync(context.WithoutCancel(ctx), SyncOptions{})
	}()
}

// Job returns the periodic drain loop as a [workers.Worker] so the host can
// run it alongside its other background workers.
func (s *SyncEngine) Job() workers.Worker {
	return s.job
}

// SetOfflineProbe installs a connectivity probe consulted before each sync
// attempt. A nil probe (the default) means the engine assumes it is online.
func (s *SyncEngine) SetOfflineProbe(fn func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offline = fn
}

// Destroy tears the engine down deterministically: if operations are still
// queued it fires one forced keepalive push first, then stops the loop,
// unsubscribes from the coordinator, and closes the store. Idempotent, and
// safe to call while a sync is in flight; completions that land after
// Destroy do not mutate state.
func (s *SyncEngine) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	ready := s.ready
	userID := s.userID
	s.mu.Unlock()

	if ready && userID != 0 {
		// the flush bypasses the syncing guard: a periodic push may still be
		// in flight, and its completion is vetoed below regardless
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if n, err := s.store.CountPending(ctx, userID); err == nil && n > 0 {
			s.flushKeepalive(ctx, userID)
		}
		cancel()
	}

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	unsubLeader := s.unsubLeader
	unsubSync := s.unsubSync
	s.unsubLeader = nil
	s.unsubSync = nil
	s.mu.Unlock()

	s.job.Stop()
	if unsubLeader != nil {
		unsubLeader()
	}
	if unsubSync != nil {
		unsubSync()
	}
	_ = s.projections.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Error().Err(err).Str("func", "SyncEngine.Destroy").Msg("failed to close store")
	}
}

func (s *SyncEngine) onLeaderChange(leader bool) {
	s.mu.Lock()
	destroyed := s.destroyed
	s.mu.Unlock()
	if destroyed {
		return
	}

	s.logger.Debug().
		Bool("leader", leader).
		Str("func", "SyncEngine.onLeaderChange").
		Msg("leadership changed")
	s.notify()
}

// onSiblingSync fires when another process finished a push. The queue may
// have shrunk underneath us, so refresh the pending count for observers.
func (s *SyncEngine) onSiblingSync(success bool) {
	s.mu.Lock()
	destroyed := s.destroyed
	s.mu.Unlock()
	if destroyed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.refreshPendingCount(ctx)
	if !success {
		s.logger.Debug().Str("func", "SyncEngine.onSiblingSync").Msg("sibling sync attempt failed")
	}
	s.notify()
}

func (s *SyncEngine) refreshPendingCount(ctx context.Context) {
	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()

	if userID == 0 {
		s.mu.Lock()
		s.pendingCount = 0
		s.mu.Unlock()
		return
	}

	n, err := s.store.CountPending(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("func", "SyncEngine.refreshPendingCount").Msg("failed to count pending operations")
		return
	}

	s.mu.Lock()
	s.pendingCount = n
	s.mu.Unlock()
}

// notify delivers the current status snapshot to all subscribers. No-op
// after Destroy.
func (s *SyncEngine) notify() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	fns := make([]func(models.SyncStatus), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	status := s.Status()
	for _, fn := range fns {
		fn(status)
	}
}

func (s *SyncEngine) isDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}
