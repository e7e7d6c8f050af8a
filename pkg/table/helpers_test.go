package table

import (
	"testing"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
	"github.com/stretchr/testify/require"
)

// row builds a row from alternating keys and values.
func row(kv ...any) types.Row {
	var r types.Row
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

// newTable returns a table holding rows, failing the test on error.
func newTable(t *testing.T, rows ...types.Row) *Table {
	t.Helper()
	tbl := New()
	require.NoError(t, tbl.Insert(rows...))
	return tbl
}

// column returns the values of key across all rows.
func column(tbl *Table, key string) []types.Value {
	var out []types.Value
	for _, r := range tbl.All() {
		out = append(out, r.Value(key))
	}
	return out
}

// keysOf returns the key order of every row.
func keysOf(tbl *Table) [][]string {
	var out [][]string
	for _, r := range tbl.All() {
		out = append(out, r.Keys())
	}
	return out
}
