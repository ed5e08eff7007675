package core

import (
	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/vnode"
)

type opKind int

const (
	opCreate opKind = iota
	opUpdate
	opText
	opRemove
	opAfterChildren
)

func (k opKind) String() string {
	switch k {
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	case opText:
		return "text"
	case opRemove:
		return "remove"
	case opAfterChildren:
		return "afterChildren"
	default:
		return "unknown"
	}
}

// op is one output mutation produced by the diff phase and applied, in
// order, by the commit phase.
type op struct {
	kind    opKind
	slot    *slot
	removal *removal
}

// attachment is a pending attach notification: either a widget instance
// or the hook of an adopted node.
type attachment struct {
	inst *Instance
	slot *slot
	hook func()
}

// pass collects the work of one commit.
type pass struct {
	r     *Renderer
	merge *mergeState

	ops      []op
	attach   []attachment
	removals []*removal
	rendered []*Instance
	deferred []*slot
}

func (r *Renderer) newPass(merge *mergeState) *pass {
	return &pass{r: r, merge: merge}
}

// flatten splices sequences and drops empty or malformed descriptions.
// A tagless element with text becomes a text description.
func flatten(nodes []vnode.Node) []vnode.Node {
	var out []vnode.Node
	for _, n := range nodes {
		switch vnode.KindOf(n) {
		case vnode.KindEmpty:
			continue
		case vnode.KindSequence:
			out = append(out, flatten(n.(vnode.Sequence))...)
		case vnode.KindElement:
			e := n.(*vnode.Element)
			if e.Tag == "" {
				if e.Text != "" {
					out = append(out, vnode.Text(e.Text))
				}
				continue
			}
			out = append(out, e)
		case vnode.KindText, vnode.KindAdopted, vnode.KindComponent:
			out = append(out, n)
		}
	}
	return out
}

func descChildren(n vnode.Node) []vnode.Node {
	switch d := n.(type) {
	case *vnode.Element:
		if d.Text != "" {
			return flatten(append([]vnode.Node{vnode.Text(d.Text)}, d.Children...))
		}
		return flatten(d.Children)
	case *vnode.Adopted:
		return flatten(d.Children)
	}
	return nil
}

// sameDesc reports whether two descriptions occupy the same logical slot.
func (r *Renderer) sameDesc(a, b vnode.Node) bool {
	if vnode.KindOf(a) != vnode.KindOf(b) {
		return false
	}
	switch av := a.(type) {
	case vnode.Text:
		return true
	case *vnode.Element:
		bv := b.(*vnode.Element)
		return av.Tag == bv.Tag && vnode.KeysEqual(av.Key, bv.Key)
	case *vnode.Adopted:
		return av.Node == b.(*vnode.Adopted).Node
	case *vnode.Component:
		bv := b.(*vnode.Component)
		return vnode.KeysEqual(av.Key, bv.Key) && r.sameRef(av.Ref, bv.Ref)
	}
	return false
}

func (p *pass) same(s *slot, n vnode.Node) bool {
	return p.r.sameDesc(s.desc, n)
}

func (p *pass) indexOfNew(next []vnode.Node, s *slot, start int) int {
	for i := start; i < len(next); i++ {
		if p.same(s, next[i]) {
			return i
		}
	}
	return -1
}

func (p *pass) indexOfOld(old []*slot, n vnode.Node, start int) int {
	for i := start; i < len(old); i++ {
		if p.same(old[i], n) {
			return i
		}
	}
	return -1
}

// diffChildren matches next against the previous child slots of parent and
// returns the new child slots. Unmatched new children are created,
// unmatched old ones removed. A child found further along on both sides is
// replaced rather than moved.
func (p *pass) diffChildren(parent *slot, owner *Instance, old []*slot, next []vnode.Node) []*slot {
	out := make([]*slot, 0, len(next))
	oi, ni := 0, 0
	for oi < len(old) || ni < len(next) {
		var o *slot
		if oi < len(old) {
			o = old[oi]
		}
		if ni >= len(next) {
			p.checkRemoved(old, oi, owner)
			p.remove(o)
			oi++
			continue
		}
		n := next[ni]
		if o != nil && p.same(o, n) {
			p.update(o, n)
			out = append(out, o)
			oi++
			ni++
			continue
		}
		if o == nil || p.indexOfOld(old, n, oi+1) == -1 {
			if len(old) > 0 {
				p.checkAdded(next, ni, owner)
			}
			out = append(out, p.create(parent, owner, n))
			ni++
			continue
		}
		if p.indexOfNew(next, o, ni+1) == -1 {
			p.checkRemoved(old, oi, owner)
			p.remove(o)
			oi++
			continue
		}
		if len(old) > 0 {
			p.checkAdded(next, ni, owner)
		}
		out = append(out, p.create(parent, owner, n))
		ni++
		p.checkRemoved(old, oi, owner)
		p.remove(o)
		oi++
	}
	return out
}

func (p *pass) create(parent *slot, owner *Instance, n vnode.Node) *slot {
	s := &slot{
		kind:   vnode.KindOf(n),
		desc:   n,
		key:    vnode.KeyOf(n),
		parent: parent,
		owner:  owner,
	}
	switch v := n.(type) {
	case vnode.Text:
		s.text = string(v)
		p.ops = append(p.ops, op{kind: opCreate, slot: s})
	case *vnode.Element:
		s.tag = v.Tag
		s.svg = v.Tag == "svg" || p.inheritsSVG(parent)
		p.ops = append(p.ops, op{kind: opCreate, slot: s})
		p.nodeChildren(s, nil, n)
	case *vnode.Adopted:
		s.tag = v.Node.Tag()
		s.svg = v.Node.Namespace() == dom.SVGNamespace
		p.ops = append(p.ops, op{kind: opCreate, slot: s})
		p.nodeChildren(s, nil, n)
		if v.OnAttach != nil {
			p.attach = append(p.attach, attachment{slot: s, hook: v.OnAttach})
		}
	case *vnode.Component:
		inst := p.r.createInstance(v, owner, s)
		s.inst = inst
		out := p.r.renderInstance(inst)
		s.children = p.diffChildren(s, inst, nil, out)
		p.rendered = append(p.rendered, inst)
		p.attach = append(p.attach, attachment{inst: inst})
	}
	return s
}

func (p *pass) nodeChildren(s *slot, old []*slot, n vnode.Node) {
	s.children = p.diffChildren(s, s.owner, old, descChildren(n))
	if s.tag == "select" {
		p.ops = append(p.ops, op{kind: opAfterChildren, slot: s})
	}
	if s.deferred() != nil {
		p.deferred = append(p.deferred, s)
	}
}

func (p *pass) update(s *slot, n vnode.Node) {
	if p.r.opts.SkipIdentical && s.desc == n {
		if s.inst == nil || !p.r.sched.isDirty(s.inst) {
			return
		}
	}
	s.desc = n
	switch v := n.(type) {
	case vnode.Text:
		if string(v) != s.text {
			s.text = string(v)
			p.ops = append(p.ops, op{kind: opText, slot: s})
		}
	case *vnode.Element, *vnode.Adopted:
		p.ops = append(p.ops, op{kind: opUpdate, slot: s})
		p.nodeChildren(s, s.children, n)
	case *vnode.Component:
		inst := s.inst
		changed := p.r.updateInstance(inst, v)
		if changed || p.r.sched.isDirty(inst) {
			p.rerenderSlot(inst)
		}
	}
}

// rerender re-renders a dirty instance scheduled for this commit.
func (p *pass) rerender(inst *Instance) {
	if inst.destroyed() || !p.r.sched.isDirty(inst) {
		return
	}
	p.rerenderSlot(inst)
}

func (p *pass) rerenderSlot(inst *Instance) {
	s := inst.slot
	out := p.r.renderInstance(inst)
	s.children = p.diffChildren(s, inst, s.children, out)
	p.rendered = append(p.rendered, inst)
	if !inst.attachQueued {
		p.attach = append(p.attach, attachment{inst: inst})
	}
}

func (p *pass) remove(s *slot) {
	rm := &removal{}
	p.removals = append(p.removals, rm)
	p.ops = append(p.ops, op{kind: opRemove, slot: s, removal: rm})
	p.teardown(s, rm)
}

// teardown marks s and its descendants removed, children first.
func (p *pass) teardown(s *slot, rm *removal) {
	for _, c := range s.children {
		p.teardown(c, rm)
	}
	s.removed = true
	if s.inst != nil {
		p.r.destroyInstance(s.inst)
		rm.instances = append(rm.instances, s.inst)
	}
}

func (p *pass) inheritsSVG(parent *slot) bool {
	for s := parent; s != nil; s = s.parent {
		if s.ownsNode() {
			return s.svg && s.tag != "foreignObject"
		}
	}
	return p.r.root != nil && p.r.root.Namespace() == dom.SVGNamespace && p.r.root.Tag() != "foreignObject"
}

func (p *pass) checkAdded(next []vnode.Node, index int, owner *Instance) {
	if !p.r.opts.Diagnostics {
		return
	}
	n := next[index]
	for i, other := range next {
		if i != index && p.indistinguishable(n, other) {
			p.diagnose("added", n, owner)
			return
		}
	}
}

func (p *pass) checkRemoved(old []*slot, index int, owner *Instance) {
	if !p.r.opts.Diagnostics {
		return
	}
	n := old[index].desc
	for i, other := range old {
		if i != index && p.indistinguishable(n, other.desc) {
			p.diagnose("removed", n, owner)
			return
		}
	}
}

// indistinguishable reports whether two unkeyed siblings would match the
// same slot.
func (p *pass) indistinguishable(a, b vnode.Node) bool {
	switch vnode.KindOf(a) {
	case vnode.KindElement, vnode.KindComponent:
	default:
		return false
	}
	return vnode.KeyOf(a) == nil && p.r.sameDesc(a, b)
}

func (p *pass) diagnose(operation string, n vnode.Node, owner *Instance) {
	name := ""
	switch v := n.(type) {
	case *vnode.Element:
		name = v.Tag
	case *vnode.Component:
		name = refName(v.Ref)
	}
	parent := "unknown"
	if owner != nil {
		parent = owner.name()
	}
	errors.ReportDiagnostic(&errors.Diagnostic{
		Kind:      errors.KindIdentity,
		Operation: operation,
		Parent:    parent,
		Node:      name,
	})
}

func refName(ref vnode.Ref) string {
	switch r := ref.(type) {
	case *vnode.Definition:
		return r.String()
	case vnode.Label:
		return string(r)
	case *vnode.Lazy:
		return r.Name
	}
	return "unknown"
}
