package types

import (
	"bytes"
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field is one key/value pair used to build a Row.
type Field struct {
	Key   string
	Value Value
}

// F is shorthand for Field{Key: key, Value: value}.
func F(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

// Row is one record: an ordered mapping from column name to value. The zero
// Row is empty and ready to use. Rows share storage when copied; use Clone
// to obtain an independent row.
type Row struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewRow builds a row from fields in order. A repeated key keeps its first
// position and its last value.
func NewRow(fields ...Field) Row {
	var r Row
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Len returns the number of keys in the row.
func (r Row) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Get returns the value stored for key and whether the key is present.
func (r Row) Get(key string) (Value, bool) {
	if r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Value returns the value stored for key, or nil when the key is absent.
func (r Row) Value(key string) Value {
	v, _ := r.Get(key)
	return v
}

// Has reports whether key is present, even when it holds null.
func (r Row) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the row's keys in order.
func (r Row) Keys() []string {
	keys := make([]string, 0, r.Len())
	for k := range r.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates over the row's key/value pairs in order.
func (r Row) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if r.fields == nil {
			return
		}
		for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Set stores value under key. An existing key keeps its position; a new key
// is appended.
func (r *Row) Set(key string, value Value) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, Value]()
	}
	r.fields.Set(key, value)
}

// Delete removes key and reports whether it was present.
func (r *Row) Delete(key string) bool {
	if r.fields == nil {
		return false
	}
	_, ok := r.fields.Delete(key)
	return ok
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	var c Row
	for k, v := range r.All() {
		c.Set(k, v)
	}
	return c
}

// Equal reports whether r and other hold the same keys in the same order
// with equal values.
func (r Row) Equal(other Row) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}
	a, b := r.fields.Oldest(), other.fields.Oldest()
	for a != nil && b != nil {
		if a.Key != b.Key || !EqualValues(a.Value, b.Value) {
			return false
		}
		a, b = a.Next(), b.Next()
	}
	return a == nil && b == nil
}

// Map returns an unordered copy of the row.
func (r Row) Map() map[string]Value {
	m := make(map[string]Value, r.Len())
	for k, v := range r.All() {
		m[k] = v
	}
	return m
}

// String formats the row for debugging.
func (r Row) String() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<row: %v>", err)
	}
	return string(data)
}

// MarshalJSON encodes the row as a JSON object in key order.
func (r Row) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping key order. Values are not
// normalized here; tables validate them on load.
func (r *Row) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: row must be a JSON object", ErrMalformedDocument)
	}
	fields := orderedmap.New[string, Value]()
	if err := fields.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	r.fields = fields
	return nil
}
