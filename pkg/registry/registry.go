// Package registry maps labels to widget definitions. Labels may be
// defined eagerly, defined with a future that resolves later, or resolved
// before they are defined at all; in the last two cases callers receive a
// pending resolution that completes once the definition arrives.
package registry

import (
	"fmt"
	"sync"

	"github.com/go-drift/vdom/pkg/async"
	"github.com/go-drift/vdom/pkg/vnode"
)

// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	defs     map[vnode.Label]*vnode.Definition
	pending  map[vnode.Label]*async.Future[*vnode.Definition]
	watchers []func(vnode.Label, *vnode.Definition)
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		defs:    make(map[vnode.Label]*vnode.Definition),
		pending: make(map[vnode.Label]*async.Future[*vnode.Definition]),
	}
}

// Define registers def under label. Defining a label twice is an error.
func (r *Registry) Define(label vnode.Label, def *vnode.Definition) error {
	if def == nil {
		return fmt.Errorf("registry: nil definition for %q", label)
	}
	r.mu.Lock()
	if _, ok := r.defs[label]; ok {
		r.mu.Unlock()
		return fmt.Errorf("registry: %q is already defined", label)
	}
	r.defs[label] = def
	f := r.pending[label]
	delete(r.pending, label)
	watchers := append([]func(vnode.Label, *vnode.Definition){}, r.watchers...)
	r.mu.Unlock()

	if f != nil {
		f.Resolve(def)
	}
	for _, w := range watchers {
		w(label, def)
	}
	return nil
}

// DefineAsync registers a definition that becomes available when f
// resolves.
func (r *Registry) DefineAsync(label vnode.Label, f *async.Future[*vnode.Definition]) error {
	if f == nil {
		return fmt.Errorf("registry: nil future for %q", label)
	}
	r.mu.Lock()
	if _, ok := r.defs[label]; ok {
		r.mu.Unlock()
		return fmt.Errorf("registry: %q is already defined", label)
	}
	if _, ok := r.pending[label]; !ok {
		r.pending[label] = async.NewFuture[*vnode.Definition]()
	}
	r.mu.Unlock()

	f.Then(func(def *vnode.Definition) {
		_ = r.Define(label, def)
	})
	return nil
}

// Has reports whether label has a resolved definition.
func (r *Registry) Has(label vnode.Label) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.defs[label]
	return ok
}

// Resolve returns the definition for label, or a pending resolution that
// completes when the label is defined.
func (r *Registry) Resolve(label vnode.Label) vnode.Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	if def, ok := r.defs[label]; ok {
		return vnode.Resolved(def)
	}
	f, ok := r.pending[label]
	if !ok {
		f = async.NewFuture[*vnode.Definition]()
		r.pending[label] = f
	}
	return vnode.Pending(f)
}

// OnResolved registers fn to run every time a label gets a definition.
func (r *Registry) OnResolved(fn func(vnode.Label, *vnode.Definition)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.watchers = append(r.watchers, fn)
	r.mu.Unlock()
}
