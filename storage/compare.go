package storage

import (
	"strings"
	"time"
)

// CompareValues returns -1, 0, or 1 for ordering, or -2 if the values
// are not comparable (nil or type mismatch). It is the default
// comparator for catalog index keys.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		return -2
	}
	switch av := a.(type) {
	case int64:
		switch bv := b.(type) {
		case int64:
			return compareInt64(av, bv)
		case float64:
			return compareFloat64(float64(av), bv)
		default:
			return -2
		}
	case int:
		bv, ok := b.(int)
		if !ok {
			return -2
		}
		return compareInt64(int64(av), int64(bv))
	case float64:
		switch bv := b.(type) {
		case float64:
			return compareFloat64(av, bv)
		case int64:
			return compareFloat64(av, float64(bv))
		default:
			return -2
		}
	case string:
		bv, ok := b.(string)
		if !ok {
			return -2
		}
		return strings.Compare(av, bv)
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return -2
		}
		if av == bv {
			return 0
		}
		if !av && bv {
			return -1
		}
		return 1
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return -2
		}
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		default:
			return 0
		}
	default:
		return -2
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
