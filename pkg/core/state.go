package core

import (
	"sync"

	"github.com/go-drift/vdom/pkg/vnode"
)

// widgetBase is satisfied by any widget that embeds WidgetBase.
type widgetBase interface {
	base() *WidgetBase
}

func (b *WidgetBase) base() *WidgetBase { return b }

// WidgetBase provides invalidation and owned resources for widgets.
// Embed it in a widget; the renderer binds it before the first render.
//
// Example:
//
//	type clock struct {
//	    core.WidgetBase
//	}
//
//	func (c *clock) OnAttach() {
//	    t := time.AfterFunc(time.Second, c.Invalidate)
//	    c.Own(func() { t.Stop() })
//	}
type WidgetBase struct {
	mu       sync.Mutex
	ctx      vnode.Context
	owned    []func()
	detached bool
}

func (b *WidgetBase) bind(ctx vnode.Context) {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()
}

// Context returns the instance holding the widget, or nil before binding.
func (b *WidgetBase) Context() vnode.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

// Invalidate requests a re-render. It is a no-op before binding and after
// the widget has been detached.
func (b *WidgetBase) Invalidate() {
	b.mu.Lock()
	ctx, detached := b.ctx, b.detached
	b.mu.Unlock()
	if ctx != nil && !detached {
		ctx.Invalidate()
	}
}

// Own registers a release function run when the widget is detached, and
// returns a function that unregisters it. Releasing an already detached
// widget runs release immediately.
func (b *WidgetBase) Own(release func()) func() {
	if release == nil {
		return func() {}
	}
	b.mu.Lock()
	if b.detached {
		b.mu.Unlock()
		release()
		return func() {}
	}
	index := len(b.owned)
	b.owned = append(b.owned, release)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if index < len(b.owned) {
			b.owned[index] = nil
		}
	}
}

// OnDetach runs owned release functions in reverse order. The renderer
// also releases a widget that overrides OnDetach or was never attached.
func (b *WidgetBase) OnDetach() {
	b.release()
}

func (b *WidgetBase) release() {
	b.mu.Lock()
	if b.detached {
		b.mu.Unlock()
		return
	}
	b.detached = true
	owned := b.owned
	b.owned = nil
	b.mu.Unlock()

	for i := len(owned) - 1; i >= 0; i-- {
		if owned[i] != nil {
			owned[i]()
		}
	}
}

// Detached reports whether the widget has left the tree.
func (b *WidgetBase) Detached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.detached
}

// Disposable is a resource released with Dispose.
type Disposable interface {
	Dispose()
}

// UseController creates a controller owned by the widget. It is disposed
// when the widget is detached.
func UseController[C Disposable](w widgetBase, create func() C) C {
	controller := create()
	w.base().Own(controller.Dispose)
	return controller
}
