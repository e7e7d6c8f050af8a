// Package render formats tables and values for the terminal.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// Format renders one cell. Absent values are empty, null is "null" and
// whole numbers print without a fraction.
func Format(v types.Value, present bool) string {
	if !present {
		return ""
	}
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Table writes the contents of t under a title line, framed in a box with
// one row per line. An empty table prints a single notice instead.
func Table(w io.Writer, name string, t types.Table) error {
	return Rows(w, name, t.Columns(), t.All())
}

// Rows writes rows in the layout of Table, showing columns in order.
func Rows(w io.Writer, name string, columns []string, rows []types.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "[i] Table '%s' is empty.\n", name)
		return err
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, c := range columns {
			v, ok := row.Get(c)
			s := Format(v, ok)
			cells[r][i] = s
			widths[i] = max(widths[i], utf8.RuneCountInString(s))
		}
	}

	total := 1
	for _, n := range widths {
		total += n + 3
	}
	rule := strings.Repeat("-", total)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Contents of '%s' ---\n", name)
	sb.WriteString(rule + "\n")
	writeLine(&sb, columns, widths)
	sb.WriteString(rule + "\n")
	for _, line := range cells {
		writeLine(&sb, line, widths)
	}
	sb.WriteString(rule + "\n")
	sb.WriteString("--- End ---\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeLine(sb *strings.Builder, vals []string, widths []int) {
	sb.WriteString("|")
	for i, v := range vals {
		sb.WriteString(" ")
		sb.WriteString(v)
		sb.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(v)))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}
