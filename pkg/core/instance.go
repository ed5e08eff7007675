package core

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/go-drift/vdom/pkg/async"
	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/vnode"
)

// InstanceState is the lifecycle state of an Instance.
type InstanceState int32

const (
	// StatePending means the definition has not resolved yet.
	StatePending InstanceState = iota
	// StateCreated means the widget exists but has not rendered.
	StateCreated
	// StateClean means the last render is current.
	StateClean
	// StateDirty means a re-render has been requested.
	StateDirty
	// StateRemoving means the slot is gone and output removal is pending.
	StateRemoving
	// StateDetached means the instance has been destroyed.
	StateDetached
)

func (s InstanceState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCreated:
		return "created"
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateRemoving:
		return "removing"
	case StateDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// Instance is a live widget occupying a Component slot. It implements
// vnode.Context for the widget it holds.
type Instance struct {
	id       string
	r        *Renderer
	ref      vnode.Ref
	def      *vnode.Definition
	widget   vnode.Widget
	props    vnode.Props
	children []vnode.Node
	rendered []vnode.Node

	// dirty is guarded by the scheduler's mutex.
	dirty bool
	state atomic.Int32

	parent  *Instance
	slot    *slot
	depth   int
	nodes   *NodeTable
	waiting *async.Future[*vnode.Definition]

	// attachQueued is guarded by the renderer's commit lock.
	attachQueued bool

	life     sync.Mutex
	attached bool
}

var _ vnode.Context = (*Instance)(nil)

// ID returns the stable identity token of the instance.
func (inst *Instance) ID() string { return inst.id }

// Properties returns the properties of the last update.
func (inst *Instance) Properties() vnode.Props { return inst.props }

// Children returns the children of the last update.
func (inst *Instance) Children() []vnode.Node { return inst.children }

// Nodes returns the keyed nodes of the instance's last committed render.
func (inst *Instance) Nodes() vnode.NodeLookup { return inst.nodes }

// Definition returns the resolved definition, or nil while pending.
func (inst *Instance) Definition() *vnode.Definition { return inst.def }

// Widget returns the widget, or nil while the definition is pending.
func (inst *Instance) Widget() vnode.Widget { return inst.widget }

// Parent returns the instance whose render produced this one.
func (inst *Instance) Parent() *Instance { return inst.parent }

// State returns the lifecycle state.
func (inst *Instance) State() InstanceState {
	st := InstanceState(inst.state.Load())
	if st == StateClean && inst.r != nil && inst.r.sched.isDirty(inst) {
		return StateDirty
	}
	return st
}

// Invalidate marks the instance dirty and requests a commit. Only the
// instance's own subtree is re-rendered.
func (inst *Instance) Invalidate() {
	if inst.r == nil {
		return
	}
	inst.r.sched.Schedule(inst)
}

func (inst *Instance) destroyed() bool {
	st := InstanceState(inst.state.Load())
	return st == StateRemoving || st == StateDetached
}

func (inst *Instance) name() string {
	if inst.def != nil {
		return inst.def.Name
	}
	switch ref := inst.ref.(type) {
	case vnode.Label:
		return string(ref)
	case *vnode.Lazy:
		return ref.Name
	}
	return "unknown"
}

// createInstance builds the instance for a newly created Component slot.
func (r *Renderer) createInstance(c *vnode.Component, parent *Instance, s *slot) *Instance {
	inst := &Instance{
		id:       uuid.NewString(),
		r:        r,
		ref:      c.Ref,
		props:    c.Props,
		children: c.Children,
		parent:   parent,
		slot:     s,
		nodes:    newNodeTable(),
	}
	if parent != nil {
		inst.depth = parent.depth + 1
	}
	inst.state.Store(int32(StatePending))
	r.resolveInstance(inst)
	return inst
}

// resolveInstance resolves the instance's definition and constructs its
// widget. It reports false while the definition is pending.
func (r *Renderer) resolveInstance(inst *Instance) bool {
	if inst.def != nil {
		return true
	}
	res := vnode.ResolveRef(inst.ref, r.resolver())
	if def, ok := res.Definition(); ok {
		inst.def = def
		inst.widget = def.New()
		if b, ok := inst.widget.(widgetBase); ok {
			b.base().bind(inst)
		}
		inst.waiting = nil
		inst.state.Store(int32(StateCreated))
		return true
	}
	if f := res.Future(); f != nil && f != inst.waiting {
		inst.waiting = f
		f.Then(func(*vnode.Definition) { r.instanceResolved(inst) })
	}
	return false
}

// instanceResolved re-renders an instance whose definition arrived, along
// with the instance owning its slot.
func (r *Renderer) instanceResolved(inst *Instance) {
	if inst.destroyed() {
		return
	}
	inst.Invalidate()
	if inst.parent != nil {
		inst.parent.Invalidate()
	}
}

// updateInstance stores new properties and children. It reports whether
// either changed.
func (r *Renderer) updateInstance(inst *Instance, c *vnode.Component) bool {
	changed := !vnode.PropsEqual(inst.props, c.Props) || !vnode.ChildrenEqual(inst.children, c.Children)
	inst.props = c.Props
	inst.children = c.Children
	inst.ref = c.Ref
	return changed
}

// renderInstance renders the instance and returns its flattened output.
// An unresolved instance renders nothing.
func (r *Renderer) renderInstance(inst *Instance) []vnode.Node {
	r.sched.markClean(inst)
	if !r.resolveInstance(inst) {
		inst.rendered = nil
		return nil
	}
	out := r.safeRender(inst)
	inst.rendered = flatten([]vnode.Node{out})
	inst.state.Store(int32(StateClean))
	return inst.rendered
}

// safeRender executes a widget render with panic recovery. A panicking
// render is reported and renders nothing.
func (r *Renderer) safeRender(inst *Instance) (out vnode.Node) {
	defer errors.RecoverWidget("core.renderInstance", inst.name(), DebugMode, func(*errors.PanicError) {
		out = nil
	})
	return inst.widget.Render(inst)
}

// destroyInstance marks the instance as leaving the tree. It becomes
// Detached once its output has been removed.
func (r *Renderer) destroyInstance(inst *Instance) {
	inst.state.Store(int32(StateRemoving))
	r.sched.drop(inst)
}

// detachInstance completes the removal of inst and returns its OnDetach
// notification. OnDetach runs only for an instance whose OnAttach ran.
func (r *Renderer) detachInstance(inst *Instance) func() {
	inst.state.Store(int32(StateDetached))
	inst.nodes.reset()
	w := inst.widget
	if w == nil {
		return nil
	}
	return func() {
		inst.life.Lock()
		attached := inst.attached
		inst.attached = false
		inst.life.Unlock()

		if d, ok := w.(vnode.Detacher); ok && attached {
			func() {
				defer errors.RecoverWidget("core.onDetach", inst.name(), DebugMode, nil)
				d.OnDetach()
			}()
		}
		if b, ok := w.(widgetBase); ok {
			b.base().release()
		}
	}
}

// attachInstance returns the OnAttach notification of a rendered instance,
// once per instance. A pending instance is attached by the commit that
// first renders its widget. The notification is dropped when the instance
// has left the tree by the time it runs.
func (r *Renderer) attachInstance(inst *Instance) func() {
	if inst.attachQueued || inst.widget == nil || inst.destroyed() {
		return nil
	}
	inst.attachQueued = true
	w := inst.widget
	return func() {
		inst.life.Lock()
		if inst.destroyed() || inst.attached {
			inst.life.Unlock()
			return
		}
		inst.attached = true
		inst.life.Unlock()

		if a, ok := w.(vnode.Attacher); ok {
			defer errors.RecoverWidget("core.onAttach", inst.name(), DebugMode, nil)
			a.OnAttach()
		}
	}
}

// sameRef reports whether two refs name the same definition.
func (r *Renderer) sameRef(a, b vnode.Ref) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	da, ok := vnode.ResolveRef(a, r.resolver()).Definition()
	if !ok {
		return false
	}
	db, ok := vnode.ResolveRef(b, r.resolver()).Definition()
	return ok && da == db
}
