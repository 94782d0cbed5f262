package store

import (
	"context"
	"fmt"

	"github.com/brickfolio/localsync/internal/logger"
)

func (s *sqliteBackend) StoredUserID(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	var userID int64
	if err := s.DB.QueryRowContext(ctx, getStoredUserID).Scan(&userID); err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.StoredUserID").
			Msg("failed to scan stored user id")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return userID, nil
}

func (s *sqliteBackend) SetStoredUserID(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, setStoredUserID, id); err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.SetStoredUserID").
			Int64("user_id", id).
			Msg("failed to execute active identity update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteBackend) IsMigrationComplete(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := s.DB.QueryRowContext(ctx, getMigrationFlag, id).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.IsMigrationComplete").
			Str("migration_id", id).
			Msg("failed to scan migration flag")
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return count > 0, nil
}

func (s *sqliteBackend) SetMigrationComplete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, setMigrationFlag, id); err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.SetMigrationComplete").
			Str("migration_id", id).
			Msg("failed to execute migration flag insert")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
