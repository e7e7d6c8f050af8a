package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseRow reads a JSON object argument, keeping its key order.
func parseRow(arg string) (types.Row, error) {
	var r types.Row
	if err := json.Unmarshal([]byte(arg), &r); err != nil {
		return types.Row{}, fmt.Errorf("%w: expected a JSON object: %w", errUsage, err)
	}
	return r, nil
}

// parseRows reads either one JSON object or a JSON array of objects.
func parseRows(arg string) ([]types.Row, error) {
	trimmed := bytes.TrimSpace([]byte(arg))
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []types.Row
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%w: expected a JSON array of objects: %w", errUsage, err)
		}
		return rows, nil
	}
	r, err := parseRow(arg)
	if err != nil {
		return nil, err
	}
	return []types.Row{r}, nil
}

// parsePredicate reads a JSON object of key/value conditions. An empty
// argument matches every row.
func parsePredicate(arg string) (types.Predicate, error) {
	if len(bytes.TrimSpace([]byte(arg))) == 0 {
		return types.Predicate{}, nil
	}
	var p types.Predicate
	if err := json.Unmarshal([]byte(arg), &p); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON object predicate: %w", errUsage, err)
	}
	if p == nil {
		return types.Predicate{}, nil
	}
	return p, nil
}

// parseIndex reads a row index argument.
func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: row index %q is not an integer", errUsage, arg)
	}
	return i, nil
}

// plural returns "row" or "rows" to match n.
func plural(n int) string {
	if n == 1 {
		return "row"
	}
	return "rows"
}
