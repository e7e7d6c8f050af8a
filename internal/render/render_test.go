package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jsonstore/pkg/table"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		v       types.Value
		present bool
		want    string
	}{
		{nil, false, ""},
		{nil, true, "null"},
		{true, true, "true"},
		{30.0, true, "30"},
		{-2.5, true, "-2.5"},
		{1e20, true, "1e+20"},
		{"Oslo", true, "Oslo"},
		{"", true, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.v, tt.present), "%#v", tt.v)
	}
}

func TestTable(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.Insert(
		types.NewRow(types.F("name", "Alice"), types.F("age", 30)),
		types.NewRow(types.F("name", "Bob"), types.F("age", 25), types.F("city", "Oslo")),
	))

	var sb strings.Builder
	require.NoError(t, Table(&sb, "people", tbl))
	want := `--- Contents of 'people' ---
----------------------
| name  | age | city |
----------------------
| Alice | 30  | null |
| Bob   | 25  | Oslo |
----------------------
--- End ---
`
	assert.Equal(t, want, sb.String())
}

func TestRowsMissingCells(t *testing.T) {
	rows := []types.Row{
		types.NewRow(types.F("a", "x")),
		types.NewRow(types.F("b", "é")),
	}
	var sb strings.Builder
	require.NoError(t, Rows(&sb, "t", []string{"a", "b"}, rows))
	lines := strings.Split(sb.String(), "\n")
	assert.Equal(t, "| a | b |", lines[2])
	assert.Equal(t, "| x |   |", lines[4])
	assert.Equal(t, "|   | é |", lines[5])
}

func TestEmpty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Table(&sb, "people", table.New()))
	assert.Equal(t, "[i] Table 'people' is empty.\n", sb.String())
}
