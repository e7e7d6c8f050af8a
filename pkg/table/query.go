package table

import (
	"fmt"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// normalizePredicate validates and normalizes every predicate value so that
// matching can compare strictly.
func normalizePredicate(p types.Predicate) (types.Predicate, error) {
	out := make(types.Predicate, len(p))
	for k, v := range p {
		nv, err := types.NormalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("predicate %q: %w", k, err)
		}
		out[k] = nv
	}
	return out, nil
}

// matches reports whether row satisfies every pair of p. Absent keys read as
// null. p must be normalized.
func matches(row types.Row, p types.Predicate) bool {
	for k, want := range p {
		if !types.EqualValues(row.Value(k), want) {
			return false
		}
	}
	return true
}

// selectRows returns clones of the matching rows in order.
func selectRows(s *rowStore, p types.Predicate) []types.Row {
	out := []types.Row{}
	for _, r := range s.all() {
		if matches(r, p) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// indices returns the positions of the matching rows in ascending order.
func indices(s *rowStore, p types.Predicate) []int {
	var out []int
	for i, r := range s.all() {
		if matches(r, p) {
			out = append(out, i)
		}
	}
	return out
}
