package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/vnode"
)

// actions are properties that invoke a node method when they become true.
var actions = map[string]func(*dom.Node){
	"focus":          (*dom.Node).Focus,
	"blur":           (*dom.Node).Blur,
	"click":          (*dom.Node).Click,
	"scrollIntoView": (*dom.Node).ScrollIntoView,
}

func propString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func sortedNames[V any](a, b map[string]V) []string {
	names := make([]string, 0, len(a)+len(b))
	for k := range a {
		names = append(names, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	return names
}

func toListener(v any) dom.Listener {
	switch fn := v.(type) {
	case dom.Listener:
		return fn
	case func(*dom.Event):
		return fn
	case func():
		return func(*dom.Event) { fn() }
	}
	return nil
}

func isListener(name string, v any) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on") && toListener(v) != nil
}

func eventName(prop string) string {
	return strings.ToLower(prop[2:])
}

func classList(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = []string{t}
	case []string:
		raw = t
	}
	var out []string
	for _, r := range raw {
		for _, c := range strings.Fields(r) {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func actionValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case func() bool:
		return t()
	}
	return false
}

// applyProperties writes next to the slot's node. When fresh is set the
// previous state is ignored, as for a node that was just created or merged.
func (p *pass) applyProperties(s *slot, next vnode.Props, fresh bool) error {
	node := s.node
	policy := s.policy()
	prev := s.applied
	if fresh {
		prev = nil
	}
	applied := make(vnode.Props, len(next))

	for _, name := range sortedNames(prev, next) {
		nv, has := next[name]
		pv, had := prev[name]
		if !has {
			nv = nil
		}
		if !had {
			pv = nil
		}
		var err error
		switch {
		case name == "key":
			continue
		case name == "classes":
			p.applyClasses(node, pv, nv, policy)
		case name == "styles":
			p.applyStyles(node, pv, nv, policy)
		case isListener(name, nv):
			node.SetListener(eventName(name), toListener(nv))
		case isListener(name, pv):
			node.RemoveListener(eventName(name))
			continue
		case actions[name] != nil:
			cur := actionValue(nv)
			if cur && !actionValue(pv) {
				actions[name](node)
			}
			applied[name] = cur
			continue
		case name == "value":
			if s.tag == "select" && !s.svg {
				break
			}
			err = p.applyValue(s, pv, nv, fresh)
		default:
			err = p.applyProperty(s, name, pv, nv, had, policy, fresh)
		}
		if err != nil {
			s.applied = applied
			return &errors.RenderError{Op: "core.setProperty", Kind: errors.KindAdapter, Err: err, Node: s.String()}
		}
		if has && nv != nil {
			applied[name] = nv
		}
	}
	s.applied = applied

	if err := p.applyAttrs(s, fresh); err != nil {
		return &errors.RenderError{Op: "core.setAttribute", Kind: errors.KindAdapter, Err: err, Node: s.String()}
	}
	p.applyListeners(s, fresh)
	return nil
}

func (p *pass) applyProperty(s *slot, name string, pv, nv any, had bool, policy vnode.DiffPolicy, fresh bool) error {
	a := p.r.adapter
	if nv == nil {
		if had && pv != nil {
			return a.RemoveProperty(s.node, name)
		}
		return nil
	}
	changed := fresh
	switch policy {
	case vnode.AlwaysSet:
		changed = true
	case vnode.LiveDiff:
		cur, ok := a.ReadCurrentValue(s.node, name)
		changed = changed || !ok || !vnode.ValueEqual(cur, nv)
	default:
		changed = changed || !vnode.ValueEqual(pv, nv)
	}
	if !changed {
		return nil
	}
	return a.SetProperty(s.node, name, nv)
}

// applyValue writes a form value only when it differs from both the
// previous description and the live value, so values typed by the user
// survive re-renders that do not change the description.
func (p *pass) applyValue(s *slot, pv, nv any, fresh bool) error {
	a := p.r.adapter
	if nv == nil {
		if pv != nil {
			return a.SetProperty(s.node, "value", "")
		}
		return nil
	}
	if fresh && s.merged && s.node.HasDirtyValue() {
		return nil
	}
	live, _ := a.ReadCurrentValue(s.node, "value")
	differsLive := propString(live) != propString(nv)
	switch s.policy() {
	case vnode.AlwaysSet:
		return a.SetProperty(s.node, "value", nv)
	case vnode.LiveDiff:
		if !differsLive {
			return nil
		}
	default:
		if (!fresh && vnode.ValueEqual(pv, nv)) || !differsLive {
			return nil
		}
	}
	return a.SetProperty(s.node, "value", nv)
}

// applySelectValue runs after a select's options have been committed.
func (p *pass) applySelectValue(s *slot) error {
	if s.removed || s.node == nil {
		return nil
	}
	nv := s.applied["value"]
	prev := s.selectValue
	s.selectValue = nv
	if nv == nil {
		return nil
	}
	if s.policy() == vnode.FullDiff && vnode.ValueEqual(prev, nv) {
		return nil
	}
	if s.node.Value() == propString(nv) && s.policy() != vnode.AlwaysSet {
		return nil
	}
	if err := p.r.adapter.SetProperty(s.node, "value", nv); err != nil {
		return &errors.RenderError{Op: "core.setProperty", Kind: errors.KindAdapter, Err: err, Node: s.String()}
	}
	return nil
}

// applyClasses adds and removes only the classes the description controls.
func (p *pass) applyClasses(node *dom.Node, pv, nv any, policy vnode.DiffPolicy) {
	prev, next := classList(pv), classList(nv)
	var remove []string
	for _, c := range prev {
		if !slices.Contains(next, c) {
			remove = append(remove, c)
		}
	}
	if len(remove) > 0 {
		node.RemoveClass(remove...)
	}
	var add []string
	for _, c := range next {
		if policy != vnode.FullDiff || !slices.Contains(prev, c) {
			add = append(add, c)
		}
	}
	if len(add) > 0 {
		node.AddClass(add...)
	}
}

func (p *pass) applyStyles(node *dom.Node, pv, nv any, policy vnode.DiffPolicy) {
	prev, _ := pv.(map[string]string)
	next, _ := nv.(map[string]string)
	for _, name := range sortedNames(prev, next) {
		value, ok := next[name]
		switch {
		case !ok || value == "":
			if _, had := prev[name]; had {
				node.RemoveStyle(name)
			}
		case policy == vnode.FullDiff && prev[name] == value:
		case policy == vnode.LiveDiff && node.Style(name) == value:
		default:
			node.SetStyle(name, value)
		}
	}
}

func (p *pass) applyAttrs(s *slot, fresh bool) error {
	a := p.r.adapter
	next := s.attrs()
	prev := s.appliedAttrs
	if fresh {
		prev = nil
	}
	policy := s.policy()
	for _, name := range sortedNames(prev, next) {
		value, ok := next[name]
		old, had := prev[name]
		if !ok {
			if had {
				a.RemoveAttribute(s.node, name)
			}
			continue
		}
		if !fresh && had && old == value && policy == vnode.FullDiff {
			continue
		}
		if policy == vnode.LiveDiff {
			if cur, present := a.ReadAttribute(s.node, name); present && cur == value {
				continue
			}
		}
		if err := a.SetAttribute(s.node, name, value); err != nil {
			return err
		}
	}
	if len(next) == 0 {
		s.appliedAttrs = nil
		return nil
	}
	s.appliedAttrs = make(map[string]string, len(next))
	for k, v := range next {
		s.appliedAttrs[k] = v
	}
	return nil
}

// applyListeners rebinds every listener of the description. Functions
// cannot be compared, so rebinding is unconditional.
func (p *pass) applyListeners(s *slot, fresh bool) {
	next := s.listeners()
	prev := s.appliedOn
	if fresh {
		prev = nil
	}
	for name := range prev {
		if next[name] == nil {
			s.node.RemoveListener(name)
		}
	}
	bound := make(map[string]bool, len(next))
	for name, fn := range next {
		if fn == nil {
			continue
		}
		s.node.SetListener(name, fn)
		bound[name] = true
	}
	s.appliedOn = bound
}
