package eval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type Op string

const (
	OpEq       Op = "eq"
	OpNeq      Op = "neq"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpContains Op = "contains"
)

func parseOp(s string) (Op, error) {
	op, ok := map[string]Op{
		"eq": OpEq, "==": OpEq, "": OpEq,
		"neq": OpNeq, "!=": OpNeq,
		"lt": OpLt, "<": OpLt,
		"lte": OpLte, "<=": OpLte,
		"gt": OpGt, ">": OpGt,
		"gte": OpGte, ">=": OpGte,
		"contains": OpContains,
	}[strings.ToLower(s)]
	if !ok {
		return "", fmt.Errorf("%w: unknown operation %q", ErrBadCondition, s)
	}
	return op, nil
}

// Compare applies op to a and b. Numbers compare numerically whatever their
// Go type, strings compare ignoring case.
func Compare(a any, op Op, b any) bool {
	switch op {
	case OpEq:
		return equal(a, b)
	case OpNeq:
		return !equal(a, b)
	case OpContains:
		return contains(a, b)
	}
	c, ok := order(a, b)
	if !ok {
		return false
	}
	switch op {
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	}
	return false
}

func equal(a, b any) bool {
	if x, ok := ToFloat(a); ok {
		if y, ok := ToFloat(b); ok {
			return x == y
		}
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		return strings.EqualFold(sa, sb)
	}
	if (aok || bok) && a != nil && b != nil {
		return strings.EqualFold(fmt.Sprint(a), fmt.Sprint(b))
	}
	return reflect.DeepEqual(a, b)
}

func order(a, b any) (int, bool) {
	x, aok := ToFloat(a)
	y, bok := ToFloat(b)
	if aok && bok {
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		return strings.Compare(strings.ToLower(sa), strings.ToLower(sb)), true
	}
	return 0, false
}

func contains(a, b any) bool {
	switch x := a.(type) {
	case string:
		sb, ok := b.(string)
		return ok && strings.Contains(strings.ToLower(x), strings.ToLower(sb))
	case []any:
		for _, e := range x {
			if equal(e, b) {
				return true
			}
		}
	}
	return false
}

// ToFloat converts numbers, and strings holding numbers, to float64.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// Truth reports whether v counts as true in a condition.
func Truth(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
			return b
		}
		return x != ""
	case []any:
		return len(x) != 0
	case map[string]any:
		return len(x) != 0
	}
	if f, ok := ToFloat(v); ok {
		return f != 0
	}
	return true
}
