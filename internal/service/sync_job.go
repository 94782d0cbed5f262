package service

import (
	"context"
	"sync"
	"time"

	"github.com/brickfolio/localsync/internal/config"
)

// SyncJob drives the engine's periodic drain loop. It implements
// [workers.Worker] so the host can run it with its other background
// workers; the engine itself starts and stops it on identity changes.
type SyncJob struct {
	engine   *SyncEngine
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a SyncJob that calls engine.PerformSync on a ticker.
// The job is idle until Start is called. A non-positive interval falls back
// to the default sync interval.
func NewSyncJob(engine *SyncEngine, interval time.Duration) *SyncJob {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}
	return &SyncJob{engine: engine, interval: interval}
}

// Run implements [workers.Worker]. It starts the loop when an identity is
// already set and is a no-op otherwise; the engine starts the loop itself
// once SetUserID supplies one.
func (j *SyncJob) Run() {
	if j.engine.Status().IsReady {
		j.engine.mu.Lock()
		hasIdentity := j.engine.userID != 0
		j.engine.mu.Unlock()
		if hasIdentity {
			j.Start(context.Background())
		}
	}
}

// Start stops any previously running loop, then launches a goroutine that
// triggers a sync every interval. The goroutine exits when ctx is cancelled
// or Stop is called. The stop and the relaunch happen under one lock, so
// concurrent Start calls cannot strand a loop nothing can cancel.
func (j *SyncJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.stopLocked()

	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_ = j.engine.PerformSync(jobCtx, SyncOptions{})
			}
		}
	}()
}

// Stop cancels the loop goroutine and blocks until it has exited. Safe to
// call when the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.stopLocked()
}

// stopLocked requires j.mu. The loop goroutine never takes the lock, so
// waiting for it here cannot deadlock.
func (j *SyncJob) stopLocked() {
	if j.cancel == nil {
		return
	}
	j.cancel()
	j.cancel = nil
	j.wg.Wait()
}
