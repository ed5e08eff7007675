package vnode

import (
	"sync"

	"github.com/go-drift/vdom/pkg/async"
	"github.com/go-drift/vdom/pkg/dom"
)

// Widget is a stateful render unit.
type Widget interface {
	Render(ctx Context) Node
}

// Context is the view a widget has of its own instance.
type Context interface {
	// ID returns the stable identity token of the instance.
	ID() string
	Properties() Props
	Children() []Node
	// Invalidate marks the instance dirty and requests a commit.
	Invalidate()
	// Nodes returns the keyed output nodes of the widget's last render.
	Nodes() NodeLookup
}

// NodeLookup resolves keys to live output nodes.
type NodeLookup interface {
	// Get returns the node registered for key, or nil. For a keyed widget
	// slot it returns the widget's first root node.
	Get(key any) *dom.Node
	// All returns every node registered for key.
	All(key any) []*dom.Node
	Has(key any) bool
}

// Attacher is implemented by widgets that want a notification once their
// output is first present in the tree.
type Attacher interface {
	OnAttach()
}

// Detacher is implemented by widgets that want a notification after their
// output has been removed.
type Detacher interface {
	OnDetach()
}

// Definition creates widgets. Definitions are compared by identity.
type Definition struct {
	Name   string
	create func() Widget
}

// Define returns a definition whose widgets are built by create.
func Define(name string, create func() Widget) *Definition {
	return &Definition{Name: name, create: create}
}

// Func returns a definition for a stateless widget.
func Func(name string, render func(ctx Context) Node) *Definition {
	return Define(name, func() Widget { return funcWidget(render) })
}

// New creates a widget. A definition without a constructor yields a widget
// that renders nothing.
func (d *Definition) New() Widget {
	if d == nil || d.create == nil {
		return funcWidget(nil)
	}
	w := d.create()
	if w == nil {
		return funcWidget(nil)
	}
	return w
}

func (d *Definition) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.Name
}

type funcWidget func(ctx Context) Node

func (f funcWidget) Render(ctx Context) Node {
	if f == nil {
		return nil
	}
	return f(ctx)
}

// Ref names the widget a Component slot renders: a *Definition, a Label
// resolved through the registry, or a *Lazy resolver.
type Ref interface {
	isRef()
}

func (*Definition) isRef() {}

// Label names a definition registered with a Resolver.
type Label string

func (Label) isRef() {}

// Lazy loads a definition on first use.
type Lazy struct {
	Name string
	Load func() *async.Future[*Definition]

	once   sync.Once
	future *async.Future[*Definition]
}

func (*Lazy) isRef() {}

// NewLazy returns a resolver backed by load.
func NewLazy(name string, load func() *async.Future[*Definition]) *Lazy {
	return &Lazy{Name: name, Load: load}
}

// Resolve starts loading on first call and returns the current resolution.
func (l *Lazy) Resolve() Resolution {
	l.once.Do(func() {
		if l.Load != nil {
			l.future = l.Load()
		}
	})
	if l.future == nil {
		return Resolution{}
	}
	if def, ok := l.future.Value(); ok {
		return Resolved(def)
	}
	return Pending(l.future)
}

// Resolution is either a resolved definition or a pending future.
// The zero value resolves to nothing.
type Resolution struct {
	def     *Definition
	pending *async.Future[*Definition]
}

// Resolved returns a resolution holding def.
func Resolved(def *Definition) Resolution { return Resolution{def: def} }

// Pending returns a resolution waiting on f.
func Pending(f *async.Future[*Definition]) Resolution { return Resolution{pending: f} }

// Definition returns the resolved definition.
func (r Resolution) Definition() (*Definition, bool) { return r.def, r.def != nil }

// Future returns the pending future, or nil once resolved.
func (r Resolution) Future() *async.Future[*Definition] {
	if r.def != nil {
		return nil
	}
	return r.pending
}

// Resolver maps labels to definitions.
type Resolver interface {
	Resolve(label Label) Resolution
}

// ResolveRef resolves a Ref using resolver for labels. A nil resolver leaves
// labels unresolved.
func ResolveRef(ref Ref, resolver Resolver) Resolution {
	switch r := ref.(type) {
	case *Definition:
		if r == nil {
			return Resolution{}
		}
		return Resolved(r)
	case Label:
		if resolver == nil {
			return Resolution{}
		}
		return resolver.Resolve(r)
	case *Lazy:
		if r == nil {
			return Resolution{}
		}
		return r.Resolve()
	default:
		return Resolution{}
	}
}
