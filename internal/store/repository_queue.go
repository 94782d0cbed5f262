package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/models"
)

// sqliteBackend is the SQLite-backed implementation of [localBackend]. It
// executes all durable-store operations directly against the embedded [*DB]
// connection.
//
// Every method obtains a context-scoped logger via [logger.FromContext] so
// that database interactions are traced with structured fields.
type sqliteBackend struct {
	*DB
}

func newSQLiteBackend(db *DB) *sqliteBackend {
	return &sqliteBackend{DB: db}
}

func (s *sqliteBackend) Enqueue(ctx context.Context, userID int64, table string, op models.OperationType, payload json.RawMessage) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := s.DB.ExecContext(ctx, enqueueOperation, userID, table, string(op), string(payload))
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.Enqueue").
			Int64("user_id", userID).
			Str("table", table).
			Msg("failed to execute insert for sync operation")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.Enqueue").
			Int64("user_id", userID).
			Msg("failed to get assigned sync operation id")
		return 0, fmt.Errorf("failed to get assigned operation id: %w", err)
	}

	return id, nil
}

func (s *sqliteBackend) PeekPending(ctx context.Context, userID int64, limit int) ([]models.SyncOperation, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildPeekPendingQuery(userID, limit)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.PeekPending").
			Int64("user_id", userID).
			Msg("failed to build peek pending query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.PeekPending").
			Int64("user_id", userID).
			Msg("failed to execute query for pending sync operations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ops []models.SyncOperation

	for rows.Next() {
		op, scanErr := scanOperation(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "sqliteBackend.PeekPending").
				Int64("user_id", userID).
				Msg("failed to scan sync operation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		ops = append(ops, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "sqliteBackend.PeekPending").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating sync operation rows: %w", rowsErr)
	}

	return ops, nil
}

func (s *sqliteBackend) Remove(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildRemoveQuery(ids)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.Remove").
			Int("ids count", len(ids)).
			Msg("failed to build remove query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.Remove").
			Int("ids count", len(ids)).
			Msg("failed to execute delete for confirmed sync operations")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteBackend) MarkFailed(ctx context.Context, id int64, reason string) error {
	log := logger.FromContext(ctx)

	result, err := s.DB.ExecContext(ctx, markOperationFailed, reason, id)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.MarkFailed").
			Int64("operation_id", id).
			Msg("failed to execute failure annotation update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.MarkFailed").
			Int64("operation_id", id).
			Msg("failed to get rows affected after failure annotation")
		return fmt.Errorf("failed to get rows affected (operation_id=%d): %w", id, err)
	}

	if rowsAffected == 0 {
		log.Warn().
			Str("func", "sqliteBackend.MarkFailed").
			Int64("operation_id", id).
			Msg("no rows affected during failure annotation: operation not found")
		return fmt.Errorf("%w (operation_id=%d)", ErrOperationNotFound, id)
	}

	return nil
}

func (s *sqliteBackend) CountPending(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountPendingQuery(userID)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.CountPending").
			Int64("user_id", userID).
			Msg("failed to build count pending query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.CountPending").
			Int64("user_id", userID).
			Msg("failed to scan pending count")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(row rowScanner) (models.SyncOperation, error) {
	var (
		op            models.SyncOperation
		operation     string
		payload       string
		failureReason sql.NullString
	)

	err := row.Scan(
		&op.ID,
		&op.UserID,
		&op.Table,
		&operation,
		&payload,
		&failureReason,
		&op.CreatedAt,
	)
	if err != nil {
		return models.SyncOperation{}, err
	}

	op.Operation = models.OperationType(operation)
	op.Payload = json.RawMessage(payload)
	if failureReason.Valid {
		op.FailureReason = failureReason.String
	}

	return op, nil
}
