package treehouse

import "reflect"

// Props is a flat mapping from field name to value. It is used for incoming
// component props, tree snapshots, and the merged props handed to render.
type Props map[string]any

// Merge returns a new Props containing every entry of every layer.
// Later layers take precedence on key collision.
func Merge(layers ...Props) Props {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	out := make(Props, size)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// ShallowEqual reports whether a and b have the same key set and identical
// values for every key. A key present with a nil value is distinct from an
// absent key. Values are compared with Identical; nothing is compared deeply.
func ShallowEqual(a, b Props) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !Identical(av, bv) {
			return false
		}
	}
	return true
}

// Identical compares two values the way the equality gate does.
//
// Comparable values use ==. Maps, pointers and channels compare by identity,
// slices by backing array, length and capacity. Funcs are identical only when
// both are nil. Values that are not comparable (structs holding slices, for
// example) are never identical.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len() && va.Cap() == vb.Cap()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	}
	if !va.Comparable() {
		return false
	}
	return a == b
}
