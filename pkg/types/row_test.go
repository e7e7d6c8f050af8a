package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow(t *testing.T) {
	t.Run("zero row is empty", func(t *testing.T) {
		var r Row
		assert.Equal(t, 0, r.Len())
		assert.False(t, r.Has("a"))
		assert.Nil(t, r.Value("a"))
		assert.Empty(t, r.Keys())
		assert.False(t, r.Delete("a"))
	})

	t.Run("set keeps position of existing keys", func(t *testing.T) {
		r := NewRow(F("b", 1.0), F("a", 2.0))
		r.Set("b", 3.0)
		r.Set("c", nil)
		assert.Equal(t, []string{"b", "a", "c"}, r.Keys())
		assert.Equal(t, 3.0, r.Value("b"))
		assert.True(t, r.Has("c"))
	})

	t.Run("clone is independent", func(t *testing.T) {
		r := NewRow(F("a", 1.0))
		c := r.Clone()
		c.Set("a", 2.0)
		c.Set("b", "x")
		assert.Equal(t, 1.0, r.Value("a"))
		assert.False(t, r.Has("b"))
	})

	t.Run("equal compares order and values", func(t *testing.T) {
		a := NewRow(F("x", 1.0), F("y", "z"))
		assert.True(t, a.Equal(NewRow(F("x", 1.0), F("y", "z"))))
		assert.False(t, a.Equal(NewRow(F("y", "z"), F("x", 1.0))))
		assert.False(t, a.Equal(NewRow(F("x", "1"), F("y", "z"))))
		assert.True(t, Row{}.Equal(NewRow()))
	})

	t.Run("delete", func(t *testing.T) {
		r := NewRow(F("a", 1.0), F("b", 2.0))
		assert.True(t, r.Delete("a"))
		assert.Equal(t, []string{"b"}, r.Keys())
	})
}

func TestRowJSON(t *testing.T) {
	t.Run("marshal keeps key order", func(t *testing.T) {
		r := NewRow(F("name", "Alice"), F("age", 30.0), F("city", nil))
		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Alice","age":30,"city":null}`, string(data))
		assert.Equal(t, `{"name":"Alice","age":30,"city":null}`, string(data))
	})

	t.Run("empty row marshals as object", func(t *testing.T) {
		data, err := json.Marshal(Row{})
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(data))
	})

	t.Run("unmarshal keeps key order", func(t *testing.T) {
		var r Row
		require.NoError(t, json.Unmarshal([]byte(`{"b":1,"c":true,"a":"x"}`), &r))
		assert.Equal(t, []string{"b", "c", "a"}, r.Keys())
		assert.Equal(t, float64(1), r.Value("b"))
		assert.Equal(t, true, r.Value("c"))
		assert.Equal(t, "x", r.Value("a"))
	})

	t.Run("non-object is malformed", func(t *testing.T) {
		for _, in := range []string{`5`, `"x"`, `[1]`} {
			var r Row
			err := json.Unmarshal([]byte(in), &r)
			if !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("input %s: expected ErrMalformedDocument, got %v", in, err)
			}
		}
	})
}
