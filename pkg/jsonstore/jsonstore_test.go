package jsonstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jsonstore/pkg/jsonstore"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	m, err := jsonstore.Open(types.Config{Backend: types.BackendJSON, DataDir: dir})
	require.NoError(t, err)
	defer m.Close()

	people, err := m.Create("people")
	require.NoError(t, err)
	require.NoError(t, m.Modify("people", func(tbl types.Table) error {
		return tbl.Insert(
			types.NewRow(types.F("name", "Alice"), types.F("age", 30)),
			types.NewRow(types.F("name", "Eve"), types.F("age", 29), types.F("city", "NY")),
		)
	}))
	assert.Equal(t, []string{"name", "age", "city"}, people.Columns())

	first, err := people.At(0)
	require.NoError(t, err)
	assert.True(t, first.Has("city"))
	assert.Nil(t, first.Value("city"))

	_, err = jsonstore.Open(types.Config{Backend: "csv", DataDir: dir})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}
