package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	enqueueOperation = `
		INSERT INTO sync_queue (
			user_id,
			target_table,
			operation,
			payload
		) VALUES (?, ?, ?, ?);`

	markOperationFailed = `
		UPDATE sync_queue
		SET failure_reason = ?
		WHERE id = ?;`

	getStoredUserID = `
		SELECT user_id FROM active_identity WHERE id = 1;`

	setStoredUserID = `
		UPDATE active_identity SET user_id = ? WHERE id = 1;`

	getMigrationFlag = `
		SELECT COUNT(*) FROM migration_flags WHERE id = ?;`

	setMigrationFlag = `
		INSERT INTO migration_flags (id) VALUES (?)
		ON CONFLICT (id) DO NOTHING;`

	upsertProjection = `
		INSERT INTO projection_cache (scope_id, entity_key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (scope_id, entity_key)
		DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;`

	getProjection = `
		SELECT scope_id, entity_key, value, updated_at
		FROM projection_cache
		WHERE scope_id = ? AND entity_key = ?;`

	getProjections = `
		SELECT scope_id, entity_key, value, updated_at
		FROM projection_cache
		WHERE scope_id = ?
		ORDER BY entity_key;`

	deleteProjections = `
		DELETE FROM projection_cache WHERE scope_id = ?;`
)

// queueColumns is the canonical column order scanned into
// [models.SyncOperation].
var queueColumns = []string{
	"id",
	"user_id",
	"target_table",
	"operation",
	"payload",
	"failure_reason",
	"created_at",
}

// buildPeekPendingQuery selects up to limit queued operations for the given
// identity in insertion order.
func buildPeekPendingQuery(userID int64, limit int) (string, []any, error) {
	return sq.Select(queueColumns...).
		From("sync_queue").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		ToSql()
}

// buildRemoveQuery deletes the given operation ids; squirrel expands the
// slice into an IN clause.
func buildRemoveQuery(ids []int64) (string, []any, error) {
	return sq.Delete("sync_queue").
		Where(sq.Eq{"id": ids}).
		ToSql()
}

// buildCountPendingQuery counts queued operations for the given identity.
func buildCountPendingQuery(userID int64) (string, []any, error) {
	return sq.Select("COUNT(*)").
		From("sync_queue").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}
