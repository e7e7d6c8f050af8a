package types

import (
	"errors"
	"strconv"
)

// Predicate selects rows by exact match: a row matches when, for every key,
// it holds an equal value. Absent keys read as null, so a nil predicate value
// matches explicit nulls and missing columns alike. An empty predicate
// matches every row.
type Predicate map[string]Value

// Change is one step of a batch update: rows matching Where receive the
// fields of Set.
type Change struct {
	Where Predicate
	Set   Row
}

// ColumnRef names a column either by name or by position in the current
// column order. Build one with ByName or ByPosition.
type ColumnRef struct {
	name  string
	pos   int
	isPos bool
}

// ByName refers to the column called name.
func ByName(name string) ColumnRef {
	return ColumnRef{name: name}
}

// ByPosition refers to the column at zero-based position pos.
func ByPosition(pos int) ColumnRef {
	return ColumnRef{pos: pos, isPos: true}
}

// ParseColumnRef treats s as a position when it parses as an integer and
// as a name otherwise.
func ParseColumnRef(s string) ColumnRef {
	if n, err := strconv.Atoi(s); err == nil {
		return ByPosition(n)
	}
	return ByName(s)
}

// Name returns the referenced name and false for positional references.
func (c ColumnRef) Name() (string, bool) {
	return c.name, !c.isPos
}

// Position returns the referenced position and false for named references.
func (c ColumnRef) Position() (int, bool) {
	return c.pos, c.isPos
}

// String formats the reference the way ParseColumnRef reads it.
func (c ColumnRef) String() string {
	if c.isPos {
		return strconv.Itoa(c.pos)
	}
	return c.name
}

// Table is the public surface of one table's in-memory state. Methods that
// take rows or predicates validate every value before changing anything, so
// a failed call leaves the table untouched. A Table is not safe for
// concurrent use.
type Table interface {
	// Columns returns the current column order.
	Columns() []string

	// Len returns the number of rows.
	Len() int

	// At returns a copy of the row at index.
	// Returns ErrIndexOutOfRange when index is outside [0, Len()).
	At(index int) (Row, error)

	// All returns copies of every row in order.
	All() []Row

	// Insert appends rows in order. Keys not yet known become columns,
	// appended in the row's key order and set to null on the other rows.
	Insert(rows ...Row) error

	// Query returns copies of the rows matching p in table order.
	Query(p Predicate) ([]Row, error)

	// Update merges changes into every row matching p and returns the
	// number of rows matched. Columns left without a non-null value are
	// dropped.
	Update(p Predicate, changes Row) (int, error)

	// BatchUpdate applies each change in order and returns the total number
	// of rows matched. Emptied columns are dropped once, at the end.
	BatchUpdate(changes ...Change) (int, error)

	// Delete removes every row matching p and returns the number removed.
	// Columns left without a non-null value are dropped.
	Delete(p Predicate) (int, error)

	// RenameKey renames a column in place on every row.
	// Returns ErrNotFound if oldKey is not a column and ErrAlreadyExists if
	// newKey already is one.
	RenameKey(oldKey, newKey string) error

	// Sort stably reorders rows by the value at key.
	Sort(key string, reverse bool)

	// SortColumnsByRow orders columns like the keys of the row at index.
	SortColumnsByRow(index int, reverse bool) error

	// SortColumnsByList moves the referenced columns to the front.
	SortColumnsByList(refs ...ColumnRef)

	// Load replaces the table's state with doc.
	Load(doc *Document) error

	// Dump returns the table as a document.
	Dump() *Document
}

// Table operation errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrUnsupportedType   = errors.New("unsupported value type")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrMalformedDocument = errors.New("malformed document")
)
