// Package table implements one jsonstore table in memory: the row store, the
// query engine, the column manager, and the Table controller that ties them
// together. The package performs no I/O; callers hand it documents and
// persist the documents it produces.
package table

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// rowStore holds the row sequence. It performs raw mutations only; the
// column manager must run afterwards before the table is consistent.
type rowStore struct {
	rows []types.Row
}

func (s *rowStore) len() int {
	return len(s.rows)
}

// at returns the stored row (not a copy) at i.
func (s *rowStore) at(i int) (types.Row, error) {
	if i < 0 || i >= len(s.rows) {
		return types.Row{}, fmt.Errorf("row %d of %d: %w", i, len(s.rows), types.ErrIndexOutOfRange)
	}
	return s.rows[i], nil
}

func (s *rowStore) all() []types.Row {
	return s.rows
}

func (s *rowStore) append(r types.Row) {
	s.rows = append(s.rows, r)
}

// replace swaps the row at i. i must be in range.
func (s *rowStore) replace(i int, r types.Row) {
	s.rows[i] = r
}

// remove deletes the row at i. i must be in range.
func (s *rowStore) remove(i int) {
	s.rows = slices.Delete(s.rows, i, i+1)
}

func (s *rowStore) clone() rowStore {
	rows := make([]types.Row, len(s.rows))
	for i, r := range s.rows {
		rows[i] = r.Clone()
	}
	return rowStore{rows: rows}
}
