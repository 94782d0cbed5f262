package store

import "errors"

// Sentinel errors returned by store methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrStoreNotOpened is returned when a data method is called before
	// Open has established a backend.
	ErrStoreNotOpened = errors.New("local store not opened")

	// ErrOperationNotFound is returned when an update targets a queued
	// operation id that does not exist.
	ErrOperationNotFound = errors.New("sync operation not found")

	// ErrProjectionNotFound is returned when a lookup targets a cached
	// projection entry that does not exist.
	ErrProjectionNotFound = errors.New("projection entry not found")
)

// Low-level database operation errors. These are wrapped by backend methods
// when a SQL-level operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a read-only query
	// against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")
)
