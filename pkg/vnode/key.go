package vnode

import "reflect"

type sentinelKey struct{ name string }

func (k *sentinelKey) String() string { return k.name }

// NullKey and UndefinedKey are keys distinct from each other, from every
// other key and from the absence of a key.
var (
	NullKey      any = &sentinelKey{"null"}
	UndefinedKey any = &sentinelKey{"undefined"}
)

// KeysEqual compares keys strictly: same dynamic type and equal value.
// A nil key only equals nil. Keys that cannot be compared never match.
func KeysEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
