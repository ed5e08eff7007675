package vnode

import "github.com/go-drift/vdom/pkg/dom"

// V builds an element description. A "key" entry in props becomes the key.
func V(tag string, props Props, children ...Node) *Element {
	e := &Element{Tag: tag, Props: props, Children: children}
	if k, ok := props["key"]; ok {
		e.Key = k
	}
	return e
}

// VD builds an element whose properties are computed at commit.
func VD(tag string, deferred DeferredProps, children ...Node) *Element {
	return &Element{Tag: tag, Deferred: deferred, Children: children}
}

// W builds a widget slot. A "key" entry in props becomes the key.
func W(ref Ref, props Props, children ...Node) *Component {
	c := &Component{Ref: ref, Props: props, Children: children}
	if k, ok := props["key"]; ok {
		c.Key = k
	}
	return c
}

// D wraps an existing node.
func D(node *dom.Node, props Props, children ...Node) *Adopted {
	return &Adopted{Node: node, Props: props, Children: children}
}

// T builds a text description.
func T(s string) Text { return Text(s) }

// S builds a sequence.
func S(nodes ...Node) Sequence { return Sequence(nodes) }

// If returns n when cond holds and Empty otherwise.
func If(cond bool, n Node) Node {
	if !cond {
		return Empty{}
	}
	return n
}

// Keyed returns a copy of e with key set.
func (e *Element) Keyed(key any) *Element {
	c := *e
	c.Key = key
	return &c
}

// Keyed returns a copy of c with key set.
func (c *Component) Keyed(key any) *Component {
	cc := *c
	cc.Key = key
	return &cc
}
