package table

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// Table is one table's in-memory state: rows plus the derived column set.
// Every mutating method validates its whole input before touching the rows,
// and the steps that follow cannot fail, so callers never observe a
// half-applied change. A Table is not safe for concurrent use.
type Table struct {
	rows rowStore
	cols columnSet
}

var _ types.Table = (*Table)(nil)

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// FromDocument returns a table hydrated from doc.
func FromDocument(doc *types.Document) (*Table, error) {
	t := New()
	if err := t.Load(doc); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) columns() columnManager {
	return columnManager{rows: &t.rows, cols: &t.cols}
}

// Columns returns the current column order.
func (t *Table) Columns() []string {
	return t.cols.list()
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows.len()
}

// At returns a copy of the row at index.
func (t *Table) At(index int) (types.Row, error) {
	r, err := t.rows.at(index)
	if err != nil {
		return types.Row{}, err
	}
	return r.Clone(), nil
}

// All returns copies of every row in order.
func (t *Table) All() []types.Row {
	out := make([]types.Row, 0, t.rows.len())
	for _, r := range t.rows.all() {
		out = append(out, r.Clone())
	}
	return out
}

// Insert appends rows in order. Unseen keys become columns appended in the
// row's key order, and every other row gets an explicit null for them.
// Returns ErrUnsupportedType, with nothing inserted, if any value is outside
// the Value set.
func (t *Table) Insert(rows ...types.Row) error {
	staged := make([]types.Row, 0, len(rows))
	for i, r := range rows {
		nr, err := normalizeRow(r)
		if err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
		staged = append(staged, nr)
	}
	for _, r := range staged {
		t.rows.append(r)
		t.columns().addForRow(t.rows.len() - 1)
	}
	return nil
}

// Query returns copies of the rows matching p in table order. An empty
// predicate matches every row; a key that is not a column matches only a
// nil predicate value.
func (t *Table) Query(p types.Predicate) ([]types.Row, error) {
	np, err := normalizePredicate(p)
	if err != nil {
		return nil, err
	}
	return selectRows(&t.rows, np), nil
}

// Update merges changes into every row matching p. Existing keys keep their
// position, new keys become columns. Columns that end up holding only nulls
// are dropped after all rows are updated. It returns the number of rows
// matched.
func (t *Table) Update(p types.Predicate, changes types.Row) (int, error) {
	return t.BatchUpdate(types.Change{Where: p, Set: changes})
}

// BatchUpdate applies each change in order, each seeing the effect of the
// ones before it, then drops emptied columns once. It returns the total
// number of rows matched across all changes.
func (t *Table) BatchUpdate(changes ...types.Change) (int, error) {
	staged := make([]types.Change, 0, len(changes))
	for i, c := range changes {
		np, err := normalizePredicate(c.Where)
		if err != nil {
			return 0, fmt.Errorf("update %d: %w", i, err)
		}
		nr, err := normalizeRow(c.Set)
		if err != nil {
			return 0, fmt.Errorf("update %d: %w", i, err)
		}
		staged = append(staged, types.Change{Where: np, Set: nr})
	}

	total := 0
	for _, c := range staged {
		for _, i := range indices(&t.rows, c.Where) {
			for k, v := range c.Set.All() {
				t.rows.rows[i].Set(k, v)
			}
			t.columns().addForRow(i)
			total++
		}
	}
	t.columns().recompute()
	return total, nil
}

// Delete removes every row matching p and drops the columns left holding
// only nulls. It returns the number of rows removed.
func (t *Table) Delete(p types.Predicate) (int, error) {
	np, err := normalizePredicate(p)
	if err != nil {
		return 0, err
	}
	idx := indices(&t.rows, np)
	for _, i := range slices.Backward(idx) {
		t.rows.remove(i)
	}
	t.columns().recompute()
	return len(idx), nil
}

// RenameKey renames a column on every row, keeping its position.
func (t *Table) RenameKey(oldKey, newKey string) error {
	return t.columns().rename(oldKey, newKey)
}

// Sort stably orders rows by the value at key using CompareValues: missing
// and null values first, then false, true, numbers and strings. reverse
// flips the comparison only; rows that compare equal keep their relative
// order in both directions.
func (t *Table) Sort(key string, reverse bool) {
	slices.SortStableFunc(t.rows.rows, func(a, b types.Row) int {
		c := types.CompareValues(a.Value(key), b.Value(key))
		if reverse {
			return -c
		}
		return c
	})
}

// SortColumnsByRow orders columns like the keys of the row at index (in
// reverse when reverse is set). Columns that row lacks keep their relative
// order after it. Every row is rewritten to the new order with missing
// columns set to null.
// Returns ErrIndexOutOfRange if index is not a row.
func (t *Table) SortColumnsByRow(index int, reverse bool) error {
	return t.columns().reorderByReference(index, reverse)
}

// SortColumnsByList moves the referenced columns to the front in the given
// order; the rest follow in their prior order. Unknown names and positions
// out of range are skipped. Every row is rewritten to the new order.
func (t *Table) SortColumnsByList(refs ...types.ColumnRef) {
	t.columns().reorderByList(refs)
}

// Load replaces the table's state with doc. Keys must run "0", "1", ... in
// order and every value must be in the Value set, otherwise
// ErrMalformedDocument is returned and the table is unchanged. Columns are
// derived from the rows without backfilling, so Dump reproduces doc.
func (t *Table) Load(doc *types.Document) error {
	var rows rowStore
	pos := 0
	for key, r := range doc.Entries() {
		if want := strconv.Itoa(pos); key != want {
			return fmt.Errorf("%w: key %q at position %d, want %q", types.ErrMalformedDocument, key, pos, want)
		}
		nr, err := normalizeRow(r)
		if err != nil {
			return fmt.Errorf("%w: row %s: %w", types.ErrMalformedDocument, key, err)
		}
		rows.append(nr)
		pos++
	}

	var cols columnSet
	columnManager{rows: &rows, cols: &cols}.derive()
	t.rows, t.cols = rows, cols
	return nil
}

// Dump returns the table as a document keyed by row position.
func (t *Table) Dump() *types.Document {
	return types.NewDocument(t.All()...)
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	return &Table{rows: t.rows.clone(), cols: t.cols.clone()}
}

// Restore replaces t's state with a copy of snapshot's.
func (t *Table) Restore(snapshot *Table) {
	c := snapshot.Clone()
	t.rows, t.cols = c.rows, c.cols
}

// normalizeRow returns a copy of r with every value normalized.
func normalizeRow(r types.Row) (types.Row, error) {
	var out types.Row
	for k, v := range r.All() {
		nv, err := types.NormalizeValue(v)
		if err != nil {
			return types.Row{}, fmt.Errorf("column %q: %w", k, err)
		}
		out.Set(k, nv)
	}
	return out, nil
}
