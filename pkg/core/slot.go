package core

import (
	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/vnode"
)

// slot is a reconciled position in the tree. Element, adopted and text
// slots own one output node; component slots own the slots of their
// instance's render.
type slot struct {
	kind vnode.Kind
	desc vnode.Node
	key  any
	tag  string
	text string
	svg  bool

	node     *dom.Node
	inst     *Instance
	owner    *Instance
	parent   *slot
	children []*slot

	applied      vnode.Props
	appliedAttrs map[string]string
	appliedOn    map[string]bool
	selectValue  any

	inserted bool
	merged   bool
	removed  bool
}

func (s *slot) ownsNode() bool {
	return s.kind == vnode.KindElement || s.kind == vnode.KindAdopted
}

// domParent returns the output node the slot's nodes are inserted into.
func (s *slot) domParent(root *dom.Node) *dom.Node {
	for p := s.parent; p != nil; p = p.parent {
		if p.ownsNode() {
			return p.node
		}
	}
	return root
}

// nextAnchor returns the node s must be inserted before: the first live
// node of a following sibling under the same output parent. The search
// climbs through component slots and stops at the slot owning the parent.
func (s *slot) nextAnchor(parent *dom.Node) *dom.Node {
	for cur := s; cur.parent != nil; cur = cur.parent {
		siblings := cur.parent.children
		for i := indexOfSlot(siblings, cur) + 1; i > 0 && i < len(siblings); i++ {
			if n := siblings[i].firstLiveNode(parent); n != nil {
				return n
			}
		}
		if cur.parent.ownsNode() {
			return nil
		}
	}
	return nil
}

func (s *slot) firstLiveNode(parent *dom.Node) *dom.Node {
	if s.removed {
		return nil
	}
	if s.kind != vnode.KindComponent {
		if s.node != nil && s.inserted && s.node.Parent() == parent {
			return s.node
		}
		return nil
	}
	for _, c := range s.children {
		if n := c.firstLiveNode(parent); n != nil {
			return n
		}
	}
	return nil
}

// rootNodeSlots returns the slots owning the top-level output nodes of s.
func (s *slot) rootNodeSlots() []*slot {
	if s.kind != vnode.KindComponent {
		return []*slot{s}
	}
	var out []*slot
	for _, c := range s.children {
		out = append(out, c.rootNodeSlots()...)
	}
	return out
}

// liveNodes returns the output nodes currently produced by s.
func (s *slot) liveNodes() []*dom.Node {
	var out []*dom.Node
	for _, ns := range s.rootNodeSlots() {
		if ns.node != nil && !ns.removed {
			out = append(out, ns.node)
		}
	}
	return out
}

func indexOfSlot(list []*slot, s *slot) int {
	for i, c := range list {
		if c == s {
			return i
		}
	}
	return -1
}

// staticProps returns the properties written by the description itself.
func (s *slot) staticProps() vnode.Props {
	switch d := s.desc.(type) {
	case *vnode.Element:
		return d.Props
	case *vnode.Adopted:
		return d.Props
	}
	return nil
}

func (s *slot) deferred() vnode.DeferredProps {
	switch d := s.desc.(type) {
	case *vnode.Element:
		return d.Deferred
	case *vnode.Adopted:
		return d.Deferred
	}
	return nil
}

// props merges deferred properties under the static ones.
func (s *slot) props(inserted bool) vnode.Props {
	static := s.staticProps()
	if fn := s.deferred(); fn != nil {
		return vnode.Merge(fn(inserted), static)
	}
	return static
}

func (s *slot) attrs() map[string]string {
	switch d := s.desc.(type) {
	case *vnode.Element:
		return d.Attrs
	case *vnode.Adopted:
		return d.Attrs
	}
	return nil
}

func (s *slot) listeners() map[string]dom.Listener {
	switch d := s.desc.(type) {
	case *vnode.Element:
		return d.On
	case *vnode.Adopted:
		return d.On
	}
	return nil
}

func (s *slot) policy() vnode.DiffPolicy {
	var p vnode.DiffPolicy
	switch d := s.desc.(type) {
	case *vnode.Element:
		p = d.Policy
		if p == vnode.DefaultDiff {
			p = vnode.FullDiff
		}
	case *vnode.Adopted:
		p = d.Policy
		if p == vnode.DefaultDiff {
			p = vnode.LiveDiff
		}
	}
	return p
}

func (s *slot) String() string {
	switch s.kind {
	case vnode.KindText:
		return "#text"
	case vnode.KindElement:
		return "<" + s.tag + ">"
	case vnode.KindAdopted:
		if s.node != nil {
			return "adopted " + s.node.String()
		}
		return "adopted"
	case vnode.KindComponent:
		if s.inst != nil {
			return s.inst.name()
		}
		return "component"
	}
	return s.kind.String()
}
