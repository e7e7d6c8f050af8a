package types

import "errors"

// Manager maps table names to tables and owns where their documents live.
// A Manager is safe for concurrent use; the tables it returns are not.
type Manager interface {
	// Create makes a new empty table and persists it.
	// Returns ErrAlreadyExists if a table with that name exists.
	Create(name string) (Table, error)

	// Get returns the named table, loading its document on first use.
	// Returns ErrNotFound if no such table exists.
	Get(name string) (Table, error)

	// Reload discards the cached table and reads its document again.
	Reload(name string) (Table, error)

	// Save persists the current state of an open table.
	Save(name string) error

	// Modify runs fn against the named table and saves the result. When fn
	// or the save fails the table is restored to its previous state.
	Modify(name string, fn func(Table) error) error

	// List returns the names of all tables, sorted.
	List() ([]string, error)

	// Drop deletes the named table and its document.
	// Returns ErrNotFound if no such table exists.
	Drop(name string) error

	// Close releases the document store. Close is idempotent.
	Close() error
}

// Manager lifecycle errors.
var (
	ErrInvalidName   = errors.New("invalid table name")
	ErrManagerClosed = errors.New("manager is closed")
)
