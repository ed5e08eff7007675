package vnode

import (
	"reflect"

	"github.com/go-drift/vdom/pkg/dom"
)

// Props holds element properties or widget properties.
type Props map[string]any

// DeferredProps computes properties at commit time. inserted is false on
// the call made while the node is committed and true on the call made after
// the following frame.
type DeferredProps func(inserted bool) Props

// Animation is nil, a bool, a transition name, an EnterFunc or an ExitFunc.
type Animation any

// EnterFunc runs when an element is inserted.
type EnterFunc func(node *dom.Node, props Props)

// ExitFunc runs when an element is removed. It must call remove once the
// node may leave the tree.
type ExitFunc func(node *dom.Node, remove func(), props Props)

// Merge returns a new Props with the entries of base overwritten by over.
func Merge(base, over Props) Props {
	out := make(Props, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// ValueEqual compares two property values shallowly. Functions always
// compare unequal; slices and maps compare by content.
func ValueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Func {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// PropsEqual reports whether two property sets hold the same keys with
// values equal under ValueEqual.
func PropsEqual(a, b Props) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !ValueEqual(va, vb) {
			return false
		}
	}
	return true
}

// ChildrenEqual reports whether two child lists hold the same descriptions.
// Empty lists are equal; otherwise elements are compared by identity.
func ChildrenEqual(a, b []Node) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameDescription(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameDescription(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Empty:
		_, ok := b.(Empty)
		return ok
	case Sequence:
		bv, ok := b.(Sequence)
		return ok && len(av) == len(bv) && ChildrenEqual(av, bv)
	}
	return a == b
}
