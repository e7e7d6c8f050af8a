package types

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Value is a single cell. After normalization it holds nil, bool, float64
// or string; no other dynamic type is ever stored in a table.
type Value = any

// NormalizeValue converts v to its canonical form. All Go integer and float
// kinds and json.Number become float64. NaN, infinities and any type outside
// the Value set return ErrUnsupportedType.
func NormalizeValue(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case string:
		return x, nil
	case float64:
		return checkFloat(x)
	case float32:
		return checkFloat(float64(x))
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrUnsupportedType, x.String())
		}
		return checkFloat(f)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

func checkFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: non-finite number %v", ErrUnsupportedType, f)
	}
	return f, nil
}

// EqualValues reports whether a and b hold the same normalized value. The
// dynamic types must match: 30 is never equal to "30" and true is never
// equal to 1.
func EqualValues(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	default:
		return false
	}
}

// valueRank orders the kinds of values against each other.
func valueRank(v Value) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

// CompareValues defines the total order used for row sorting:
// null < false < true < numbers < strings. Numbers compare numerically and
// strings byte-wise.
func CompareValues(a, b Value) int {
	if c := cmp.Compare(valueRank(a), valueRank(b)); c != 0 {
		return c
	}
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case float64:
		return cmp.Compare(x, b.(float64))
	case string:
		return strings.Compare(x, b.(string))
	default:
		return 0
	}
}
