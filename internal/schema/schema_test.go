package schema

import (
	"encoding/json"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jsonstore/pkg/table"
	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

func people(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New()
	require.NoError(t, tbl.Insert(
		types.NewRow(types.F("name", "Alice"), types.F("age", 30), types.F("admin", true)),
		types.NewRow(types.F("name", "Bob"), types.F("age", "unknown"), types.F("admin", false), types.F("city", "Oslo")),
	))
	return tbl
}

func TestInfer(t *testing.T) {
	cols := Infer(people(t))
	require.Len(t, cols, 4)

	tests := []struct {
		name     string
		kinds    Kind
		nullable bool
	}{
		{"name", KindString, false},
		{"age", KindNumber | KindString, false},
		{"admin", KindBool, false},
		{"city", KindString | KindNull, true},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.name, cols[i].Name)
		assert.Equal(t, tt.kinds, cols[i].Kinds, tt.name)
		assert.Equal(t, tt.nullable, cols[i].Nullable(), tt.name)
	}
	assert.True(t, cols[0].Only(KindString))
	assert.True(t, cols[3].Only(KindString))
	assert.False(t, cols[1].Only(KindNumber))
}

func TestInferMissingKeys(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.Insert(types.NewRow(types.F("a", 1))))
	// Rows inserted later may lack existing columns.
	require.NoError(t, tbl.Insert(types.NewRow(types.F("b", 2))))

	cols := Infer(tbl)
	require.Len(t, cols, 2)
	assert.True(t, cols[0].Nullable(), "row 1 lacks a")
	assert.True(t, cols[1].Nullable(), "row 0 holds b as null")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "none", Kind(0).String())
	assert.Equal(t, "null|number|string", (KindString | KindNull | KindNumber).String())
}

func TestDescribe(t *testing.T) {
	s := Describe("people", people(t))
	assert.Equal(t, jsonschema.Version, s.Version)
	assert.Equal(t, "people", s.Title)
	assert.Equal(t, "object", s.Type)

	row, ok := s.PatternProperties[rowKeyPattern]
	require.True(t, ok)
	assert.Equal(t, "object", row.Type)
	assert.Equal(t, []string{"name", "age", "admin"}, row.Required)

	var keys []string
	for pair := row.Properties.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"name", "age", "admin", "city"}, keys)

	name, _ := row.Properties.Get("name")
	assert.Equal(t, "string", name.Type)

	age, _ := row.Properties.Get("age")
	require.Len(t, age.AnyOf, 2)
	assert.Equal(t, "number", age.AnyOf[0].Type)
	assert.Equal(t, "string", age.AnyOf[1].Type)

	city, _ := row.Properties.Get("city")
	require.Len(t, city.AnyOf, 2)
	assert.Equal(t, "null", city.AnyOf[0].Type)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["additionalProperties"])
	assert.Contains(t, decoded, "patternProperties")
}

func TestDescribeEmpty(t *testing.T) {
	s := Describe("empty", table.New())
	row := s.PatternProperties[rowKeyPattern]
	assert.Zero(t, row.Properties.Len())
	assert.Empty(t, row.Required)
}
