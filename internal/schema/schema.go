// Package schema infers column types from a table's rows and describes the
// table's document as a JSON Schema.
package schema

import (
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// Kind is a bit set of the JSON types observed in a column.
type Kind uint8

const (
	KindNull Kind = 1 << iota
	KindBool
	KindNumber
	KindString
)

var kindNames = []struct {
	kind Kind
	name string
}{
	{KindNull, "null"},
	{KindBool, "boolean"},
	{KindNumber, "number"},
	{KindString, "string"},
}

// Names returns the JSON Schema type names in k, in a fixed order.
func (k Kind) Names() []string {
	var names []string
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			names = append(names, kn.name)
		}
	}
	return names
}

// String joins the type names with "|".
func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	return strings.Join(k.Names(), "|")
}

// Column is what the rows say about one column. A row that lacks the key
// counts as null.
type Column struct {
	Name  string
	Kinds Kind
}

// Nullable reports whether any row holds null or lacks the column.
func (c Column) Nullable() bool {
	return c.Kinds&KindNull != 0
}

// Only reports whether every non-null value has kind k and at least one
// does.
func (c Column) Only(k Kind) bool {
	return c.Kinds&^KindNull == k
}

func kindOf(v types.Value) Kind {
	switch v.(type) {
	case bool:
		return KindBool
	case float64:
		return KindNumber
	case string:
		return KindString
	default:
		return KindNull
	}
}

// Infer walks t's rows and returns one Column per column in column order.
func Infer(t types.Table) []Column {
	names := t.Columns()
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i].Name = n
	}
	for _, r := range t.All() {
		for i, n := range names {
			cols[i].Kinds |= kindOf(r.Value(n))
		}
	}
	return cols
}

// rowKeyPattern matches the stringified row indexes of a document.
const rowKeyPattern = `^(0|[1-9][0-9]*)$`

// Describe returns a JSON Schema for t's document. Rows are objects whose
// properties follow the column order; columns that are never null or
// missing are required.
func Describe(title string, t types.Table) *jsonschema.Schema {
	row := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, c := range Infer(t) {
		row.Properties.Set(c.Name, columnSchema(c))
		if !c.Nullable() {
			row.Required = append(row.Required, c.Name)
		}
	}

	return &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                title,
		Type:                 "object",
		PatternProperties:    map[string]*jsonschema.Schema{rowKeyPattern: row},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func columnSchema(c Column) *jsonschema.Schema {
	names := c.Kinds.Names()
	switch len(names) {
	case 0:
		return &jsonschema.Schema{}
	case 1:
		return &jsonschema.Schema{Type: names[0]}
	}
	s := &jsonschema.Schema{}
	for _, n := range names {
		s.AnyOf = append(s.AnyOf, &jsonschema.Schema{Type: n})
	}
	return s
}
