// Package migration transforms the storage left behind by the previous
// client generation into the durable store's schema, exactly once.
//
// The transform is resumable: legacy data is consumed one user group at a
// time, and a group is removed from the legacy file only after its records
// have been verified inside the durable store. A crash mid-run leaves the
// remaining groups intact for the next attempt; re-running is idempotent
// because projections upsert and the completion flag short-circuits the
// whole run.
package migration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/brickfolio/localsync/internal/config"
	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/internal/store"
	"github.com/brickfolio/localsync/models"
)

// LegacyStateMigrationID identifies the one known migration: the flat JSON
// state file to durable store transform.
const LegacyStateMigrationID = "legacy-state-v1"

// Runner executes all known one-time migrations against the durable store.
type Runner struct {
	store     store.LocalStore
	statePath string
	logger    *logger.Logger
}

func NewRunner(s store.LocalStore, cfg config.AgentStorage, log *logger.Logger) *Runner {
	return &Runner{
		store:     s,
		statePath: cfg.LegacyStatePath,
		logger:    log,
	}
}

// Run executes every known migration that has not been flagged complete.
func (r *Runner) Run(ctx context.Context) error {
	return r.runLegacyState(ctx)
}

func (r *Runner) runLegacyState(ctx context.Context) error {
	log := r.logger.With().Str("func", "Runner.runLegacyState").Logger()

	// A degraded store holds everything in memory. Consuming the legacy
	// file into it would destroy the only durable copy, so leave both the
	// file and the flag untouched until a durable open succeeds.
	if !r.store.Available() {
		log.Warn().Msg("store is not durable, deferring legacy state migration")
		return nil
	}

	done, err := r.store.IsMigrationComplete(ctx, LegacyStateMigrationID)
	if err != nil {
		return fmt.Errorf("check migration flag: %w", err)
	}
	if done {
		log.Debug().Msg("legacy state migration already complete")
		return nil
	}

	if r.statePath == "" {
		// no legacy location configured, nothing to consume
		return r.flagComplete(ctx)
	}

	state, err := loadLegacyState(r.statePath)
	if errors.Is(err, os.ErrNotExist) {
		return r.flagComplete(ctx)
	}
	if err != nil {
		return fmt.Errorf("load legacy state: %w", err)
	}

	for _, key := range sortedUserKeys(state) {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: user key %q: %w", ErrLegacyStateMalformed, key, err)
		}

		group := state.Users[key]
		if err := r.migrateGroup(ctx, userID, group); err != nil {
			return fmt.Errorf("migrate user %d: %w", userID, err)
		}

		// the group is verified in the durable store, drop it from the
		// legacy file before moving on
		delete(state.Users, key)
		if err := writeLegacyState(r.statePath, state); err != nil {
			return fmt.Errorf("rewrite legacy state: %w", err)
		}

		log.Info().
			Int64("userID", userID).
			Int("projections", len(group.Quantities)).
			Int("pending", len(group.Pending)).
			Msg("migrated legacy user group")
	}

	if err := os.Remove(r.statePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove legacy state file: %w", err)
	}

	return r.flagComplete(ctx)
}

// migrateGroup inserts one user group into the durable store and verifies
// the inserts before the caller consumes the group from the legacy file.
func (r *Runner) migrateGroup(ctx context.Context, userID int64, group legacyUserGroup) error {
	for entityKey, value := range group.Quantities {
		entry := models.ProjectionEntry{
			ScopeID:   userID,
			EntityKey: entityKey,
			Value:     value,
			UpdatedAt: time.Now(),
		}
		if err := r.store.PutProjection(ctx, entry); err != nil {
			return fmt.Errorf("put projection %q: %w", entityKey, err)
		}
	}
	for entityKey := range group.Quantities {
		if _, err := r.store.GetProjection(ctx, userID, entityKey); err != nil {
			return fmt.Errorf("%w: projection %q: %w", ErrVerificationFailed, entityKey, err)
		}
	}

	before, err := r.store.CountPending(ctx, userID)
	if err != nil {
		return fmt.Errorf("count pending before enqueue: %w", err)
	}

	for _, op := range group.Pending {
		opType := models.OperationType(op.Operation)
		if !opType.Valid() {
			return fmt.Errorf("%w: operation %q", ErrLegacyStateMalformed, op.Operation)
		}
		if _, err := r.store.Enqueue(ctx, userID, op.Table, opType, op.Payload); err != nil {
			return fmt.Errorf("enqueue pending operation: %w", err)
		}
	}

	after, err := r.store.CountPending(ctx, userID)
	if err != nil {
		return fmt.Errorf("count pending after enqueue: %w", err)
	}
	if after-before != len(group.Pending) {
		return fmt.Errorf("%w: enqueued %d of %d pending operations",
			ErrVerificationFailed, after-before, len(group.Pending))
	}

	return nil
}

func (r *Runner) flagComplete(ctx context.Context) error {
	if err := r.store.SetMigrationComplete(ctx, LegacyStateMigrationID); err != nil {
		return fmt.Errorf("set migration flag: %w", err)
	}
	return nil
}

func sortedUserKeys(state legacyState) []string {
	keys := make([]string, 0, len(state.Users))
	for key := range state.Users {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
