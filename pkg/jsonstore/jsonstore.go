// Package jsonstore is the public entry point for opening a table Manager.
// Implementation details live under internal/.
package jsonstore

import (
	"log/slog"

	"github.com/mesh-intelligence/jsonstore/internal/store"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// Version is the jsonstore release.
const Version = "0.1.0"

// Option configures a Manager returned by Open.
type Option = store.Option

// WithLogger sets the logger used for table lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return store.WithLogger(l)
}

// Open returns a Manager over the backend named in cfg.
//
// Example:
//
//	m, err := jsonstore.Open(types.Config{
//	    Backend: types.BackendJSON,
//	    DataDir: ".jsonstore-db",
//	})
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//	people, err := m.Create("people")
func Open(cfg types.Config, opts ...Option) (types.Manager, error) {
	m, err := store.Open(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}
