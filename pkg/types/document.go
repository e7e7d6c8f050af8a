package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Document is the persisted shape of a table: an ordered mapping from
// stringified row index ("0", "1", ...) to row. A Document only carries the
// shape; tables check that keys are contiguous when they load one.
type Document struct {
	entries *orderedmap.OrderedMap[string, Row]
}

// NewDocument returns a well-formed document holding rows in order.
func NewDocument(rows ...Row) *Document {
	d := &Document{}
	for i, r := range rows {
		d.Set(strconv.Itoa(i), r)
	}
	return d
}

// Len returns the number of entries.
func (d *Document) Len() int {
	if d == nil || d.entries == nil {
		return 0
	}
	return d.entries.Len()
}

// Set stores row under key, appending new keys.
func (d *Document) Set(key string, row Row) {
	if d.entries == nil {
		d.entries = orderedmap.New[string, Row]()
	}
	d.entries.Set(key, row)
}

// Get returns the row stored under key.
func (d *Document) Get(key string) (Row, bool) {
	if d == nil || d.entries == nil {
		return Row{}, false
	}
	return d.entries.Get(key)
}

// Entries iterates over key/row pairs in document order.
func (d *Document) Entries() iter.Seq2[string, Row] {
	return func(yield func(string, Row) bool) {
		if d == nil || d.entries == nil {
			return
		}
		for pair := d.entries.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Equal reports whether both documents hold the same keys and rows in the
// same order.
func (d *Document) Equal(other *Document) bool {
	if d.Len() != other.Len() {
		return false
	}
	if d.Len() == 0 {
		return true
	}
	a, b := d.entries.Oldest(), other.entries.Oldest()
	for a != nil && b != nil {
		if a.Key != b.Key || !a.Value.Equal(b.Value) {
			return false
		}
		a, b = a.Next(), b.Next()
	}
	return a == nil && b == nil
}

// MarshalJSON encodes the document as a JSON object in key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil || d.entries == nil {
		return []byte("{}"), nil
	}
	return d.entries.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object of rows. A JSON array of row objects,
// the older on-disk layout, is accepted too and keyed by position.
func (d *Document) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty input", ErrMalformedDocument)
	}
	switch trimmed[0] {
	case '[':
		var rows []Row
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		*d = *NewDocument(rows...)
		return nil
	case '{':
		entries := orderedmap.New[string, Row]()
		if err := entries.UnmarshalJSON(trimmed); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		d.entries = entries
		return nil
	default:
		return fmt.Errorf("%w: document must be a JSON object", ErrMalformedDocument)
	}
}

// IsLegacyArray reports whether data holds the older JSON array layout.
func IsLegacyArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
