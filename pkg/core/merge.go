package core

import (
	"slices"
	"strings"

	"github.com/go-drift/vdom/pkg/dom"
)

// mergeState adopts existing output nodes during the first pass of Merge.
// Every parent reached through adoption offers its live children in order;
// descriptions claim the first remaining child with a matching tag.
type mergeState struct {
	remaining map[*dom.Node][]*dom.Node
	order     []*dom.Node
	// last is the node most recently claimed or inserted under each parent.
	last map[*dom.Node]*dom.Node
}

func newMergeState(root *dom.Node) *mergeState {
	m := &mergeState{
		remaining: make(map[*dom.Node][]*dom.Node),
		last:      make(map[*dom.Node]*dom.Node),
	}
	m.track(root)
	return m
}

// track offers the children of parent for adoption.
func (m *mergeState) track(parent *dom.Node) {
	if _, ok := m.remaining[parent]; ok {
		return
	}
	m.remaining[parent] = parent.Children()
	m.order = append(m.order, parent)
}

// claim returns the first remaining element child of parent with tag.
func (m *mergeState) claim(parent *dom.Node, tag string) *dom.Node {
	list, ok := m.remaining[parent]
	if !ok {
		return nil
	}
	for i, n := range list {
		if n.Type == dom.ElementNode && strings.EqualFold(n.Tag(), tag) {
			m.remaining[parent] = append(list[:i:i], list[i+1:]...)
			m.last[parent] = n
			m.track(n)
			return n
		}
	}
	return nil
}

// claimText returns the first remaining text child of parent when its data
// equals data.
func (m *mergeState) claimText(parent *dom.Node, data string) *dom.Node {
	list, ok := m.remaining[parent]
	if !ok {
		return nil
	}
	for i, n := range list {
		if n.Type != dom.TextNode {
			continue
		}
		if n.Data() != data {
			return nil
		}
		m.remaining[parent] = append(list[:i:i], list[i+1:]...)
		m.last[parent] = n
		return n
	}
	return nil
}

// anchor returns the first unclaimed child of parent after the last node
// placed there. Created nodes go before it, so they keep description order
// relative to the nodes claimed after them.
func (m *mergeState) anchor(parent *dom.Node) *dom.Node {
	list := m.remaining[parent]
	if len(list) == 0 {
		return nil
	}
	children := parent.Children()
	start := 0
	if prev := m.last[parent]; prev != nil {
		if i := slices.Index(children, prev); i >= 0 {
			start = i + 1
		}
	}
	for _, c := range children[start:] {
		if slices.Contains(list, c) {
			return c
		}
	}
	return nil
}

func (m *mergeState) placed(parent, node *dom.Node) {
	m.last[parent] = node
}

// release withdraws a node inserted by the commit from the leftovers.
func (m *mergeState) release(node *dom.Node) {
	parent := node.Parent()
	if parent == nil {
		return
	}
	list := m.remaining[parent]
	for i, n := range list {
		if n == node {
			m.remaining[parent] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// finish removes every live child that no description claimed.
func (m *mergeState) finish(a Adapter) error {
	for _, parent := range m.order {
		for _, n := range m.remaining[parent] {
			if n.Parent() != parent {
				continue
			}
			if err := a.RemoveNode(n); err != nil {
				return err
			}
		}
	}
	m.remaining = nil
	m.last = nil
	return nil
}
