package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brickfolio/localsync/models"
)

// SyncOptions modifies a single PerformSync call.
type SyncOptions struct {
	// Force skips the leadership gate. Used for the final teardown flush,
	// where waiting for an election would lose the window.
	Force bool

	// Keepalive selects the fire-and-forget beacon transport. Delivery is
	// unconfirmed, so the batch stays queued.
	Keepalive bool
}

// PerformSync drains one bounded FIFO batch of pending operations to the
// remote.
//
// The call returns immediately without side effects when a sync is already
// in flight, the engine is not ready or signed out, this process lacks
// leadership (unless forced), or the offline probe reports no connectivity.
// On a confirmed response, operations the remote accepted are removed and
// rejected ones are annotated in place for a later retry. On a transport
// error the whole batch stays queued and the error is recorded in the
// status. Observers are notified either way.
func (s *SyncEngine) PerformSync(ctx context.Context, opts SyncOptions) error {
	if !s.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer s.syncing.Store(false)

	log := s.logger.With().Str("func", "SyncEngine.PerformSync").Logger()

	s.mu.Lock()
	ready := s.ready && !s.destroyed
	userID := s.userID
	offline := s.offline
	s.mu.Unlock()

	if !ready || userID == 0 {
		return nil
	}
	if !opts.Force && !s.coordinator.ShouldSync() {
		return nil
	}
	if offline != nil && offline() {
		log.Debug().Msg("offline, skipping sync attempt")
		return nil
	}

	ops, err := s.store.PeekPending(ctx, userID, s.batchSize)
	if err != nil {
		s.recordSyncError(err)
		s.notify()
		return fmt.Errorf("peek pending operations: %w", err)
	}
	if len(ops) == 0 {
		s.mu.Lock()
		s.pendingCount = 0
		s.mu.Unlock()
		s.notify()
		return nil
	}

	req := buildPushRequest(ops)

	if opts.Keepalive {
		return s.pushBeacon(ctx, log, req)
	}

	return s.pushConfirmed(ctx, log, userID, ops, req)
}

func buildPushRequest(ops []models.SyncOperation) models.PushRequest {
	req := models.PushRequest{Operations: make([]models.PushOperation, 0, len(ops))}
	for _, op := range ops {
		req.Operations = append(req.Operations, models.PushOperation{
			ID:        op.ID,
			Table:     op.Table,
			Operation: op.Operation,
			Payload:   op.Payload,
		})
	}
	return req
}

// flushKeepalive pushes one batch on the beacon path without taking the
// syncing guard. The beacon never mutates the queue, so it is safe to fire
// alongside an in-flight confirmed push, and the teardown window is too
// short to wait for one to finish.
func (s *SyncEngine) flushKeepalive(ctx context.Context, userID int64) {
	log := s.logger.With().Str("func", "SyncEngine.flushKeepalive").Logger()

	ops, err := s.store.PeekPending(ctx, userID, s.batchSize)
	if err != nil {
		log.Warn().Err(err).Msg("could not read pending operations for the teardown flush")
		return
	}
	if len(ops) == 0 {
		return
	}

	_ = s.pushBeacon(ctx, log, buildPushRequest(ops))
}

// pushBeacon hands the batch to the send-only transport. Nothing is removed
// from the queue: delivery is unconfirmed, and the remote applies
// operations idempotently, so redelivery on the next cycle is safe.
func (s *SyncEngine) pushBeacon(ctx context.Context, log zerolog.Logger, req models.PushRequest) error {
	req.Length = len(req.Operations)

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode beacon body: %w", err)
	}

	handedOff := s.adapter.SendBeacon(body)
	log.Debug().
		Bool("handedOff", handedOff).
		Int("operations", len(req.Operations)).
		Msg("beacon push attempted")

	if s.isDestroyed() {
		return nil
	}
	s.refreshPendingCount(ctx)
	s.notify()

	return nil
}

func (s *SyncEngine) pushConfirmed(ctx context.Context, log zerolog.Logger, userID int64, ops []models.SyncOperation, req models.PushRequest) error {
	resp, err := s.adapter.PushBatch(ctx, req)
	if err != nil {
		if s.isDestroyed() {
			return err
		}
		s.recordSyncError(err)
		s.coordinator.NotifySyncComplete(false)
		s.notify()
		return fmt.Errorf("push batch: %w", err)
	}

	// completions after Destroy must not touch the store; the batch is
	// redelivered by whoever opens the queue next
	if s.isDestroyed() {
		return nil
	}

	if !resp.Success {
		err := fmt.Errorf("remote did not process the batch")
		s.recordSyncError(err)
		s.coordinator.NotifySyncComplete(false)
		s.notify()
		return err
	}

	failed := resp.FailedIDs()

	succeeded := make([]int64, 0, len(ops))
	for _, op := range ops {
		if _, rejected := failed[op.ID]; !rejected {
			succeeded = append(succeeded, op.ID)
		}
	}

	if err := s.store.Remove(ctx, succeeded); err != nil {
		s.recordSyncError(err)
		s.notify()
		return fmt.Errorf("remove confirmed operations: %w", err)
	}
	for id, reason := range failed {
		if err := s.store.MarkFailed(ctx, id, reason); err != nil {
			log.Error().Err(err).Int64("operationID", id).Msg("failed to annotate rejected operation")
		}
	}

	s.mu.Lock()
	s.lastSyncError = ""
	s.mu.Unlock()

	s.refreshPendingCount(ctx)
	s.coordinator.NotifySyncComplete(true)
	s.notify()

	log.Debug().
		Int64("userID", userID).
		Int("pushed", len(ops)).
		Int("rejected", len(failed)).
		Msg("sync cycle complete")

	return nil
}

func (s *SyncEngine) recordSyncError(err error) {
	s.mu.Lock()
	s.lastSyncError = err.Error()
	s.mu.Unlock()
}
