package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/models"
)

func newTestBackend(t *testing.T) (*sqliteBackend, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return newSQLiteBackend(&DB{DB: db, logger: logger.Nop()}), mock
}

func TestSQLiteBackend_Enqueue_Success(t *testing.T) {
	backend, mock := newTestBackend(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO sync_queue").
		WithArgs(int64(1), "parts", "update", `{"part":"3001","qty":5}`).
		WillReturnResult(sqlmock.NewResult(17, 1))

	id, err := backend.Enqueue(ctx, 1, "parts", models.OperationUpdate, json.RawMessage(`{"part":"3001","qty":5}`))
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_Enqueue_ExecError(t *testing.T) {
	backend, mock := newTestBackend(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO sync_queue").
		WillReturnError(errors.New("disk I/O error"))

	_, err := backend.Enqueue(ctx, 1, "parts", models.OperationCreate, json.RawMessage(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_PeekPending_FIFO(t *testing.T) {
	backend, mock := newTestBackend(t)
	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(queueColumns).
		AddRow(int64(1), int64(7), "parts", "create", `{"part":"a"}`, nil, now).
		AddRow(int64(2), int64(7), "parts", "update", `{"part":"b"}`, "remote rejected", now).
		AddRow(int64(3), int64(7), "sets", "delete", `{"set":"c"}`, nil, now)

	mock.ExpectQuery("SELECT (.+) FROM sync_queue").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	ops, err := backend.PeekPending(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, ops, 3)

	assert.Equal(t, int64(1), ops[0].ID)
	assert.Equal(t, int64(2), ops[1].ID)
	assert.Equal(t, int64(3), ops[2].ID)

	// failure-annotated operations stay in the pending set
	assert.Equal(t, "remote rejected", ops[1].FailureReason)
	assert.Empty(t, ops[0].FailureReason)
	assert.Equal(t, models.OperationDelete, ops[2].Operation)
}

func TestSQLiteBackend_Remove_EmptyIDsIsNoop(t *testing.T) {
	backend, mock := newTestBackend(t)

	// no expectations registered: Remove must not touch the DB
	err := backend.Remove(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_Remove_Success(t *testing.T) {
	backend, mock := newTestBackend(t)

	mock.ExpectExec("DELETE FROM sync_queue").
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := backend.Remove(context.Background(), []int64{1, 3})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_MarkFailed_NotFound(t *testing.T) {
	backend, mock := newTestBackend(t)

	mock.ExpectExec("UPDATE sync_queue").
		WithArgs("boom", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := backend.MarkFailed(context.Background(), 99, "boom")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestSQLiteBackend_MarkFailed_Success(t *testing.T) {
	backend, mock := newTestBackend(t)

	mock.ExpectExec("UPDATE sync_queue").
		WithArgs("validation failed", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := backend.MarkFailed(context.Background(), 2, "validation failed")
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackend_CountPending(t *testing.T) {
	backend, mock := newTestBackend(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := backend.CountPending(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
