// Package deepsize estimates the deep memory footprint of a value via
// reflection. The catalog uses it to report how much heap its trees,
// history and loan containers occupy.
package deepsize

import (
	"reflect"
	"unsafe"
)

// Of returns an estimate of the total memory occupied by v, including
// every reachable heap allocation (string bytes, slice backing arrays,
// pointer targets, map entries). Shared pointers are counted once.
func Of(v any) int64 {
	if v == nil {
		return 0
	}
	s := sizer{seen: make(map[uintptr]bool)}
	return s.total(reflect.ValueOf(v))
}

// sizer tracks visited pointers so cyclic structures terminate and
// shared nodes are not double counted.
type sizer struct {
	seen map[uintptr]bool
}

// total counts both the inline representation of v and everything it
// points at.
func (s *sizer) total(v reflect.Value) int64 {
	if !v.IsValid() {
		return 0
	}
	return int64(v.Type().Size()) + s.indirect(v)
}

// indirect counts only the heap allocations reachable from v. The
// inline storage is assumed to be counted by the caller, which is what
// makes struct fields and array elements come out right: their inline
// bytes are already part of the parent's Type().Size().
func (s *sizer) indirect(v reflect.Value) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return 0
		}
		ptr := v.Pointer()
		if s.seen[ptr] {
			return 0
		}
		s.seen[ptr] = true
		return s.total(v.Elem())

	case reflect.String:
		return int64(v.Len())

	case reflect.Slice:
		if v.IsNil() {
			return 0
		}
		size := int64(v.Cap()) * int64(v.Type().Elem().Size())
		if hasIndirect(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				size += s.indirect(v.Index(i))
			}
		}
		return size

	case reflect.Map:
		if v.IsNil() {
			return 0
		}
		// Rough amortized bucket overhead per hmap.
		size := int64(unsafe.Sizeof(uint64(0))) * 8
		iter := v.MapRange()
		for iter.Next() {
			size += s.total(iter.Key())
			size += s.total(iter.Value())
		}
		return size

	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return s.total(v.Elem())

	case reflect.Struct:
		size := int64(0)
		for i := 0; i < v.NumField(); i++ {
			size += s.indirect(v.Field(i))
		}
		return size

	case reflect.Array:
		size := int64(0)
		if hasIndirect(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				size += s.indirect(v.Index(i))
			}
		}
		return size

	default:
		return 0
	}
}

// hasIndirect reports whether values of type t can reach heap data.
func hasIndirect(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.String,
		reflect.Interface:
		return true
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasIndirect(t.Field(i).Type) {
				return true
			}
		}
	case reflect.Array:
		return hasIndirect(t.Elem())
	}
	return false
}
