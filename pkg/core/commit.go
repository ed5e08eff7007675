package core

import (
	"sync"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/vnode"
)

// commit applies the pass's operations in order. The first adapter
// failure stops the commit; already applied operations are kept.
func (p *pass) commit() error {
	for _, o := range p.ops {
		if err := p.apply(o); err != nil {
			return err
		}
	}
	if p.merge != nil {
		if err := p.merge.finish(p.r.adapter); err != nil {
			return &errors.RenderError{Op: "core.merge", Kind: errors.KindAdapter, Err: err}
		}
		p.merge = nil
	}
	for _, inst := range p.rendered {
		if !inst.destroyed() {
			inst.nodes.rebuild(inst.slot)
		}
	}
	return nil
}

func (p *pass) apply(o op) error {
	switch o.kind {
	case opCreate:
		return p.applyCreate(o.slot)
	case opUpdate:
		if o.slot.removed || o.slot.node == nil {
			return nil
		}
		return p.applyProperties(o.slot, o.slot.props(true), false)
	case opText:
		if o.slot.node != nil {
			p.r.adapter.SetText(o.slot.node, o.slot.text)
		}
		return nil
	case opRemove:
		return p.applyRemove(o.slot, o.removal)
	case opAfterChildren:
		return p.applySelectValue(o.slot)
	}
	return nil
}

func (p *pass) applyCreate(s *slot) error {
	if s.removed {
		return nil
	}
	a := p.r.adapter
	parent := s.domParent(p.r.root)

	switch s.kind {
	case vnode.KindText:
		if p.merge != nil {
			if n := p.merge.claimText(parent, s.text); n != nil {
				s.node, s.merged, s.inserted = n, true, true
				return nil
			}
		}
		s.node = a.CreateText(s.text)
	case vnode.KindElement:
		if p.merge != nil {
			if n := p.merge.claim(parent, s.tag); n != nil {
				s.node, s.merged, s.inserted = n, true, true
				return p.applyProperties(s, s.props(false), true)
			}
		}
		ns := ""
		if s.svg {
			ns = dom.SVGNamespace
		}
		n, err := a.CreateNode(s.tag, ns)
		if err != nil {
			return &errors.RenderError{Op: "core.createNode", Kind: errors.KindAdapter, Err: err, Node: s.String()}
		}
		s.node = n
	case vnode.KindAdopted:
		s.node = s.desc.(*vnode.Adopted).Node
		if p.merge != nil {
			p.merge.release(s.node)
		}
	default:
		return nil
	}

	anchor := s.nextAnchor(parent)
	if anchor == nil && p.merge != nil {
		anchor = p.merge.anchor(parent)
	}
	if err := a.InsertBefore(parent, s.node, anchor); err != nil {
		return &errors.RenderError{Op: "core.insertBefore", Kind: errors.KindAdapter, Err: err, Node: s.String()}
	}
	s.inserted = true
	if p.merge != nil {
		p.merge.placed(parent, s.node)
	}

	if s.ownsNode() {
		if err := p.applyProperties(s, s.props(false), true); err != nil {
			return err
		}
		p.enter(s)
	}
	return nil
}

func (p *pass) applyRemove(s *slot, rm *removal) error {
	for _, ns := range s.rootNodeSlots() {
		if ns.node == nil || !ns.inserted {
			continue
		}
		ns.inserted = false
		if err := p.exit(ns, rm); err != nil {
			return &errors.RenderError{Op: "core.removeNode", Kind: errors.KindAdapter, Err: err, Node: ns.String()}
		}
	}
	return nil
}

func (p *pass) enter(s *slot) {
	e, ok := s.desc.(*vnode.Element)
	if !ok || e.Enter == nil {
		return
	}
	switch anim := e.Enter.(type) {
	case string:
		if anim != "" && p.r.opts.Transition != nil {
			p.r.opts.Transition.Enter(s.node, s.applied, anim)
		}
	case vnode.EnterFunc:
		anim(s.node, s.applied)
	case func(*dom.Node, vnode.Props):
		anim(s.node, s.applied)
	}
}

// exit removes the node of s, handing removal to the exit animation when
// the element has one. An animation holds rm until it calls remove.
func (p *pass) exit(s *slot, rm *removal) error {
	a := p.r.adapter
	node := s.node
	e, _ := s.desc.(*vnode.Element)
	if e == nil || e.Exit == nil {
		return a.RemoveNode(node)
	}
	var once sync.Once
	remove := func() {
		once.Do(func() {
			if err := a.RemoveNode(node); err != nil {
				errors.Report(&errors.RenderError{Op: "core.removeNode", Kind: errors.KindAdapter, Err: err, Node: s.String()})
			}
			if rm.release() {
				for _, fn := range p.r.detachAll(rm.instances) {
					fn()
				}
			}
		})
	}
	switch anim := e.Exit.(type) {
	case string:
		if anim != "" && p.r.opts.Transition != nil {
			rm.hold()
			p.r.opts.Transition.Exit(node, s.applied, anim, remove)
			return nil
		}
	case vnode.ExitFunc:
		rm.hold()
		anim(node, remove, s.applied)
		return nil
	case func(*dom.Node, func(), vnode.Props):
		rm.hold()
		anim(node, remove, s.applied)
		return nil
	}
	return a.RemoveNode(node)
}

// removal is one removed subtree. Its instances are detached once the
// commit has finished and every exit animation under it has removed its
// node.
type removal struct {
	instances []*Instance

	mu      sync.Mutex
	pending int
	settled bool
}

func (rm *removal) hold() {
	rm.mu.Lock()
	rm.pending++
	rm.mu.Unlock()
}

// release ends one hold and reports whether the instances are now due.
func (rm *removal) release() bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.pending--
	return rm.pending == 0 && rm.settled
}

// settle marks the commit finished and reports whether no animation holds
// the instances.
func (rm *removal) settle() bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.settled = true
	return rm.pending == 0
}

func (r *Renderer) detachAll(instances []*Instance) []func() {
	var out []func()
	for _, inst := range instances {
		if fn := r.detachInstance(inst); fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// followUp is the work a commit leaves for after the frame or for idle
// time.
type followUp struct {
	deferred  []*slot
	lifecycle []func()
}

func (f *followUp) add(o followUp) {
	f.deferred = append(f.deferred, o.deferred...)
	f.lifecycle = append(f.lifecycle, o.lifecycle...)
}

func (f followUp) empty() bool {
	return len(f.deferred) == 0 && len(f.lifecycle) == 0
}

// finish settles instance states after the commit and collects lifecycle
// notifications: detaches, then attaches, children first within each.
func (p *pass) finish() followUp {
	var f followUp
	for _, rm := range p.removals {
		if rm.settle() {
			f.lifecycle = append(f.lifecycle, p.r.detachAll(rm.instances)...)
		}
	}
	for _, at := range p.attach {
		if at.inst != nil {
			if fn := p.r.attachInstance(at.inst); fn != nil {
				f.lifecycle = append(f.lifecycle, fn)
			}
			continue
		}
		if at.slot.inserted && !at.slot.removed {
			hook := at.hook
			f.lifecycle = append(f.lifecycle, func() { safeCall("core.onAttach", hook) })
		}
	}
	for _, s := range p.deferred {
		if !s.removed && s.node != nil {
			f.deferred = append(f.deferred, s)
		}
	}
	return f
}

// runDeferred is the second call of a slot's deferred properties, made
// after the frame following its commit.
func (p *pass) runDeferred(s *slot) error {
	if s.removed || s.node == nil || !s.inserted {
		return nil
	}
	if err := p.applyProperties(s, s.props(true), false); err != nil {
		return err
	}
	if s.tag == "select" {
		return p.applySelectValue(s)
	}
	return nil
}
