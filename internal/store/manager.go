// Package store maps table names to persisted documents. A Manager caches
// open tables and reads and writes their documents through one of two
// document stores: a directory of JSON files or a bbolt database.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/mesh-intelligence/jsonstore/pkg/table"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// docStore reads and writes raw table documents by name. Read and Delete
// return an error wrapping types.ErrNotFound for unknown names.
type docStore interface {
	Exists(name string) (bool, error)
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Delete(name string) error
	List() ([]string, error)
	// Location is the file holding the named document.
	Location(name string) string
	Close() error
}

// Manager implements types.Manager. It is safe for concurrent use; the
// tables it hands out are not.
type Manager struct {
	mu     sync.Mutex
	closed bool
	indent int
	store  docStore
	tables map[string]*table.Table
	logger *slog.Logger
}

var _ types.Manager = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for table lifecycle events. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Open validates cfg, creates DataDir if needed and returns a Manager over
// the configured backend.
func Open(cfg types.Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var ds docStore
	switch cfg.Backend {
	case types.BackendBolt:
		ds = newBoltStore(filepath.Join(dataDir, BoltFileName))
	default:
		ds = newDirStore(dataDir)
	}
	m := newManager(ds, cfg.IndentWidth(), opts...)
	m.logger.Debug("store opened", "backend", cfg.Backend, "data_dir", dataDir)
	return m, nil
}

func newManager(ds docStore, indent int, opts ...Option) *Manager {
	m := &Manager{
		indent: indent,
		store:  ds,
		tables: make(map[string]*table.Table),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create makes a new empty table and writes its document.
func (m *Manager) Create(name string) (types.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(name); err != nil {
		return nil, err
	}
	if _, ok := m.tables[name]; ok {
		return nil, fmt.Errorf("table %q: %w", name, types.ErrAlreadyExists)
	}
	exists, err := m.store.Exists(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("table %q: %w", name, types.ErrAlreadyExists)
	}

	t := table.New()
	if err := m.writeLocked(name, t); err != nil {
		return nil, err
	}
	m.tables[name] = t
	m.logger.Debug("table created", "table", name)
	return t, nil
}

// Get returns the named table, reading its document on first use.
func (m *Manager) Get(name string) (types.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(name); err != nil {
		return nil, err
	}
	return m.tableLocked(name)
}

// Reload drops the cached table and reads its document again.
func (m *Manager) Reload(name string) (types.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(name); err != nil {
		return nil, err
	}
	delete(m.tables, name)
	return m.tableLocked(name)
}

// Save writes the current state of the named table.
func (m *Manager) Save(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(name); err != nil {
		return err
	}
	t, err := m.tableLocked(name)
	if err != nil {
		return err
	}
	return m.writeLocked(name, t)
}

// Modify runs fn against the named table and saves the result. If fn or the
// save fails, the table is put back the way it was and the error returned.
// fn runs with the Manager locked and must not call back into it.
func (m *Manager) Modify(name string, fn func(types.Table) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(name); err != nil {
		return err
	}
	t, err := m.tableLocked(name)
	if err != nil {
		return err
	}

	snapshot := t.Clone()
	if err := fn(t); err != nil {
		t.Restore(snapshot)
		return err
	}
	if err := m.writeLocked(name, t); err != nil {
		t.Restore(snapshot)
		return err
	}
	return nil
}

// List returns every table name in sorted order.
func (m *Manager) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, types.ErrManagerClosed
	}
	names, err := m.store.List()
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// Drop deletes the named table's document and forgets the table.
func (m *Manager) Drop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(name); err != nil {
		return err
	}
	if err := m.store.Delete(name); err != nil {
		return err
	}
	delete(m.tables, name)
	m.logger.Debug("table dropped", "table", name)
	return nil
}

// Location returns the file that holds the named table's document.
func (m *Manager) Location(name string) string {
	return m.store.Location(name)
}

// Close releases the document store. Later calls return ErrManagerClosed.
// Close is idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.tables = nil
	return m.store.Close()
}

func (m *Manager) checkLocked(name string) error {
	if m.closed {
		return types.ErrManagerClosed
	}
	return ValidateName(name)
}

func (m *Manager) tableLocked(name string) (*table.Table, error) {
	if t, ok := m.tables[name]; ok {
		return t, nil
	}
	data, err := m.store.Read(name)
	if err != nil {
		return nil, err
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", name, err)
	}
	t, err := table.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", name, err)
	}
	if types.IsLegacyArray(data) {
		m.logger.Info("converting array document to keyed layout", "table", name, "rows", t.Len())
	}
	m.tables[name] = t
	m.logger.Debug("table opened", "table", name, "rows", t.Len(), "columns", len(t.Columns()))
	return t, nil
}

func (m *Manager) writeLocked(name string, t *table.Table) error {
	data, err := encodeDocument(t.Dump(), m.indent)
	if err != nil {
		return fmt.Errorf("table %q: %w", name, err)
	}
	if err := m.store.Write(name, data); err != nil {
		return fmt.Errorf("saving table %q: %w", name, err)
	}
	m.logger.Debug("table saved", "table", name, "rows", t.Len())
	return nil
}

// ValidateName reports whether name can be used as a table name: non-empty,
// a single path element and not hidden.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", types.ErrInvalidName)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", types.ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator or NUL", types.ErrInvalidName, name)
	}
	return nil
}
