package archon

import (
	"reflect"

	"golang.org/x/sys/cpu"
)

// simdVectorBytes is the widest vector register archon will slice spans
// for, chosen from the running CPU's feature bits rather than assumed.
func simdVectorBytes() int {
	switch {
	case cpu.X86.HasAVX2:
		return 32
	case cpu.X86.HasSSE2:
		return 16
	case cpu.ARM64.HasASIMD:
		return 16
	default:
		return 0
	}
}

// simdEligible reports whether T's in-memory representation is compatible
// with vectorized access: a primitive numeric type, or a struct composed
// entirely of float32 fields. It never claims support where a boxing or
// fallback conversion would be required.
func simdEligible[T any]() bool {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return true
	case reflect.Struct:
		return structIsAllFloat32(t)
	default:
		return false
	}
}

func structIsAllFloat32(t reflect.Type) bool {
	if t.NumField() == 0 {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i).Type
		switch f.Kind() {
		case reflect.Float32:
			continue
		case reflect.Struct:
			if !structIsAllFloat32(f) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// IsSimdSupported reports whether the running hardware AND T's
// representation together support vectorized span access.
func IsSimdSupported[T any]() bool {
	return simdVectorBytes() > 0 && simdEligible[T]()
}

// simdLaneWidth returns how many T values fit in one vector register, or 1
// if SIMD access isn't supported for T on this hardware (meaning SimdSpan
// is empty and RemainderSpan is the whole span).
func simdLaneWidth[T any]() int {
	if !IsSimdSupported[T]() {
		return 1
	}
	var zero T
	sz := int(reflect.TypeOf(zero).Size())
	if sz == 0 {
		return 1
	}
	width := simdVectorBytes() / sz
	if width <= 1 {
		return 1
	}
	return width
}
