package core

import (
	"reflect"
	"sync"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/vnode"
)

// NodeTable maps the keys of one owner's render output to live nodes.
// Element and adopted slots register their node; keyed widget slots
// register the widget's root nodes. The table is rebuilt after every
// commit that re-renders its owner.
type NodeTable struct {
	mu      sync.RWMutex
	entries map[any]*slot
}

var _ vnode.NodeLookup = (*NodeTable)(nil)

func newNodeTable() *NodeTable {
	return &NodeTable{entries: make(map[any]*slot)}
}

func usableKey(key any) bool {
	return key != nil && reflect.ValueOf(key).Comparable()
}

// Get returns the first node registered for key, or nil.
func (t *NodeTable) Get(key any) *dom.Node {
	if nodes := t.All(key); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// All returns every node registered for key.
func (t *NodeTable) All(key any) []*dom.Node {
	if !usableKey(key) {
		return nil
	}
	t.mu.RLock()
	s := t.entries[key]
	t.mu.RUnlock()
	if s == nil {
		return nil
	}
	return s.liveNodes()
}

// Has reports whether key is registered.
func (t *NodeTable) Has(key any) bool {
	if !usableKey(key) {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[key]
	return ok
}

// Len returns the number of registered keys.
func (t *NodeTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *NodeTable) rebuild(root *slot) {
	entries := make(map[any]*slot)
	var walk func(list []*slot)
	walk = func(list []*slot) {
		for _, s := range list {
			if s.removed {
				continue
			}
			if usableKey(s.key) {
				if _, dup := entries[s.key]; !dup {
					entries[s.key] = s
				}
			}
			if s.ownsNode() {
				walk(s.children)
			}
		}
	}
	walk(root.children)

	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
}

func (t *NodeTable) reset() {
	t.mu.Lock()
	t.entries = make(map[any]*slot)
	t.mu.Unlock()
}
