package table

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// columnSet is the ordered, deduplicated list of column names.
type columnSet struct {
	names []string
	known map[string]bool
}

func (c *columnSet) has(name string) bool {
	return c.known[name]
}

func (c *columnSet) len() int {
	return len(c.names)
}

// list returns a copy of the column order.
func (c *columnSet) list() []string {
	return slices.Clone(c.names)
}

// add appends name if it is not already a column and reports whether it did.
func (c *columnSet) add(name string) bool {
	if c.known[name] {
		return false
	}
	if c.known == nil {
		c.known = make(map[string]bool)
	}
	c.known[name] = true
	c.names = append(c.names, name)
	return true
}

func (c *columnSet) drop(name string) {
	if !c.known[name] {
		return
	}
	delete(c.known, name)
	c.names = slices.DeleteFunc(c.names, func(n string) bool { return n == name })
}

// setOrder replaces the order. order must be a permutation of the names.
func (c *columnSet) setOrder(order []string) {
	c.names = order
}

func (c *columnSet) clone() columnSet {
	known := make(map[string]bool, len(c.known))
	for k := range c.known {
		known[k] = true
	}
	return columnSet{names: slices.Clone(c.names), known: known}
}

// columnManager keeps the column set consistent with the rows. Every row
// mutation is followed by addForRow (inserts) or recompute (updates and
// deletes).
type columnManager struct {
	rows *rowStore
	cols *columnSet
}

// derive rebuilds the column set as the union of row keys in order of first
// appearance. Rows are left as they are.
func (m columnManager) derive() {
	*m.cols = columnSet{}
	for _, r := range m.rows.all() {
		for k := range r.All() {
			m.cols.add(k)
		}
	}
}

// addForRow registers the keys of row i. Keys that are new to the table are
// appended in the row's key order and set to null on every other row that
// lacks them.
func (m columnManager) addForRow(i int) {
	row := m.rows.rows[i]
	var added []string
	for k := range row.All() {
		if m.cols.add(k) {
			added = append(added, k)
		}
	}
	if len(added) == 0 {
		return
	}
	for j := range m.rows.rows {
		if j == i {
			continue
		}
		for _, k := range added {
			if !m.rows.rows[j].Has(k) {
				m.rows.rows[j].Set(k, nil)
			}
		}
	}
}

// recompute drops every column that no row holds a non-null value for,
// removing the key from every row. It returns the dropped names in column
// order.
func (m columnManager) recompute() []string {
	var dropped []string
	for _, name := range m.cols.list() {
		if m.inUse(name) {
			continue
		}
		m.cols.drop(name)
		for j := range m.rows.rows {
			m.rows.rows[j].Delete(name)
		}
		dropped = append(dropped, name)
	}
	return dropped
}

func (m columnManager) inUse(name string) bool {
	for _, r := range m.rows.all() {
		if r.Value(name) != nil {
			return true
		}
	}
	return false
}

// rename changes a column's name in the column set and in every row,
// keeping its position in both.
func (m columnManager) rename(oldName, newName string) error {
	if !m.cols.has(oldName) {
		return fmt.Errorf("column %q: %w", oldName, types.ErrNotFound)
	}
	if oldName == newName {
		return nil
	}
	if m.cols.has(newName) {
		return fmt.Errorf("column %q: %w", newName, types.ErrAlreadyExists)
	}

	names := m.cols.list()
	names[slices.Index(names, oldName)] = newName
	*m.cols = columnSet{}
	for _, n := range names {
		m.cols.add(n)
	}

	for j, r := range m.rows.all() {
		if !r.Has(oldName) {
			continue
		}
		var renamed types.Row
		for k, v := range r.All() {
			if k == oldName {
				k = newName
			}
			renamed.Set(k, v)
		}
		m.rows.replace(j, renamed)
	}
	return nil
}

// reorderByReference orders columns like the keys of row i, reversed when
// reverse is set. Columns the row lacks follow in their prior order.
func (m columnManager) reorderByReference(i int, reverse bool) error {
	ref, err := m.rows.at(i)
	if err != nil {
		return err
	}
	lead := ref.Keys()
	if reverse {
		slices.Reverse(lead)
	}
	m.applyOrder(lead)
	return nil
}

// reorderByList moves the referenced columns to the front in the given
// order. Positions index the order as it was before the call. Unknown names,
// positions out of range and repeats are skipped.
func (m columnManager) reorderByList(refs []types.ColumnRef) {
	prior := m.cols.list()
	var lead []string
	for _, ref := range refs {
		if name, ok := ref.Name(); ok {
			lead = append(lead, name)
			continue
		}
		if pos, _ := ref.Position(); pos >= 0 && pos < len(prior) {
			lead = append(lead, prior[pos])
		}
	}
	m.applyOrder(lead)
}

// applyOrder puts lead first (known columns only, first occurrence wins),
// appends the rest in prior order, and rewrites every row to match.
func (m columnManager) applyOrder(lead []string) {
	order := make([]string, 0, m.cols.len())
	placed := make(map[string]bool, m.cols.len())
	for _, name := range lead {
		if m.cols.has(name) && !placed[name] {
			placed[name] = true
			order = append(order, name)
		}
	}
	for _, name := range m.cols.list() {
		if !placed[name] {
			order = append(order, name)
		}
	}
	m.cols.setOrder(order)
	m.conformRows()
}

// conformRows rewrites every row so its keys follow the column order,
// materializing missing columns as explicit null.
func (m columnManager) conformRows() {
	for j, r := range m.rows.all() {
		var shaped types.Row
		for _, name := range m.cols.names {
			shaped.Set(name, r.Value(name))
		}
		m.rows.replace(j, shaped)
	}
}
