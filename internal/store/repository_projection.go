package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/models"
)

func (s *sqliteBackend) PutProjection(ctx context.Context, entry models.ProjectionEntry) error {
	log := logger.FromContext(ctx)

	_, err := s.DB.ExecContext(ctx, upsertProjection, entry.ScopeID, entry.EntityKey, string(entry.Value))
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.PutProjection").
			Int64("scope_id", entry.ScopeID).
			Str("entity_key", entry.EntityKey).
			Msg("failed to execute upsert for projection entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteBackend) GetProjection(ctx context.Context, scopeID int64, entityKey string) (models.ProjectionEntry, error) {
	log := logger.FromContext(ctx)

	entry, err := scanProjection(s.DB.QueryRowContext(ctx, getProjection, scopeID, entityKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ProjectionEntry{}, ErrProjectionNotFound
		}
		log.Err(err).
			Str("func", "sqliteBackend.GetProjection").
			Int64("scope_id", scopeID).
			Str("entity_key", entityKey).
			Msg("failed to scan projection row")
		return models.ProjectionEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entry, nil
}

func (s *sqliteBackend) GetProjections(ctx context.Context, scopeID int64) ([]models.ProjectionEntry, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, getProjections, scopeID)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.GetProjections").
			Int64("scope_id", scopeID).
			Msg("failed to execute query for projection entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var entries []models.ProjectionEntry

	for rows.Next() {
		entry, scanErr := scanProjection(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "sqliteBackend.GetProjections").
				Int64("scope_id", scopeID).
				Msg("failed to scan projection row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "sqliteBackend.GetProjections").
			Int64("scope_id", scopeID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating projection rows: %w", rowsErr)
	}

	return entries, nil
}

func (s *sqliteBackend) DeleteProjections(ctx context.Context, scopeID int64) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, deleteProjections, scopeID); err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.DeleteProjections").
			Int64("scope_id", scopeID).
			Msg("failed to execute delete for projection entries")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func scanProjection(row rowScanner) (models.ProjectionEntry, error) {
	var (
		entry models.ProjectionEntry
		value string
	)

	err := row.Scan(&entry.ScopeID, &entry.EntityKey, &value, &entry.UpdatedAt)
	if err != nil {
		return models.ProjectionEntry{}, err
	}

	entry.Value = json.RawMessage(value)
	return entry, nil
}
