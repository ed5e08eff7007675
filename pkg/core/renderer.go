package core

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/logging"
	"github.com/go-drift/vdom/pkg/scheduler"
	"github.com/go-drift/vdom/pkg/vnode"
)

// ErrAlreadyMounted is returned by Mount and Merge on a mounted renderer.
var ErrAlreadyMounted = stderrors.New("core: renderer is already mounted")

// maxPasses bounds the re-render passes of one commit.
const maxPasses = 100

// Options configures Mount and Merge.
type Options struct {
	// Document owns created nodes. Defaults to Root's document, or a new
	// document when Root is nil.
	Document *dom.Document
	// Root receives the output. Defaults to the document body.
	Root *dom.Node
	// Sync commits invalidations immediately instead of on the next frame.
	Sync bool
	// Registry resolves labels.
	Registry vnode.Resolver
	// Transition runs named enter and exit animations.
	Transition Transition
	// Port schedules frame and idle work in async mode. When nil, a
	// scheduler.Loop is started and stopped by Unmount.
	Port scheduler.Port
	// Adapter performs output mutations. Defaults to a DOMAdapter.
	Adapter Adapter
	// Logger receives commit debug records. Defaults to a no-op logger.
	Logger logging.Logger
	// Diagnostics reports unkeyed siblings that cannot be told apart.
	Diagnostics bool
	// SkipIdentical skips the diff of a description that is the same value
	// as the one it replaces.
	SkipIdentical bool
}

// Renderer owns the root instance and the output it commits.
type Renderer struct {
	factory func() vnode.Node

	opts    Options
	doc     *dom.Document
	root    *dom.Node
	adapter Adapter
	port    scheduler.Port
	logger  logging.Logger
	sched   *Scheduler
	stop    context.CancelFunc

	rootInst atomic.Pointer[Instance]

	// mu serializes commits and output mutations.
	mu       sync.Mutex
	rootSlot *slot
	mounted  bool
}

// NewRenderer returns a renderer whose root renders factory's output.
func NewRenderer(factory func() vnode.Node) *Renderer {
	return &Renderer{factory: factory, sched: NewScheduler()}
}

// Mount renders into an empty or externally owned root. The first commit
// is synchronous in both modes.
func (r *Renderer) Mount(opts Options) error {
	return r.mount(opts, nil)
}

// Merge renders over existing markup, adopting live children that match
// by tag and removing the ones nothing claimed.
func (r *Renderer) Merge(opts Options) error {
	return r.mount(opts, func(root *dom.Node) *mergeState { return newMergeState(root) })
}

func (r *Renderer) mount(opts Options, merge func(*dom.Node) *mergeState) error {
	r.mu.Lock()
	if r.mounted {
		r.mu.Unlock()
		return ErrAlreadyMounted
	}
	r.configure(opts)
	r.mounted = true
	r.sched.begin()

	factory := r.factory
	def := vnode.Func("root", func(vnode.Context) vnode.Node {
		if factory == nil {
			return nil
		}
		return factory()
	})
	comp := &vnode.Component{Ref: def}
	r.rootSlot = &slot{kind: vnode.KindComponent, desc: comp}
	rootInst := r.createInstance(comp, nil, r.rootSlot)
	r.rootSlot.inst = rootInst
	r.rootInst.Store(rootInst)

	var ms *mergeState
	if merge != nil {
		ms = merge(r.root)
	}
	p := r.newPass(ms)
	out := r.renderInstance(rootInst)
	r.rootSlot.children = p.diffChildren(r.rootSlot, rootInst, nil, out)
	p.rendered = append(p.rendered, rootInst)
	p.attach = append(p.attach, attachment{inst: rootInst})

	f, err := r.drainLocked(p)
	r.mu.Unlock()
	r.dispatch(f)
	return err
}

func (r *Renderer) configure(opts Options) {
	r.opts = opts
	r.doc = opts.Document
	r.root = opts.Root
	if r.doc == nil && r.root != nil {
		r.doc = r.root.Document()
	}
	if r.doc == nil {
		r.doc = dom.NewDocument()
	}
	if r.root == nil {
		r.root = r.doc.Body()
	}
	r.adapter = opts.Adapter
	if r.adapter == nil {
		r.adapter = NewDOMAdapter(r.doc)
	}
	r.logger = opts.Logger
	if r.logger == nil {
		r.logger = logging.NoOpLogger{}
	}

	r.port = opts.Port
	if r.port == nil {
		if opts.Sync {
			r.port = scheduler.Immediate{}
		} else {
			loop := scheduler.NewLoop(scheduler.WithPanicHandler(func(v any) {
				errors.ReportPanic(&errors.PanicError{Op: "scheduler.Loop", Value: v})
			}))
			ctx, cancel := context.WithCancel(context.Background())
			r.stop = cancel
			go func() { _ = loop.Run(ctx) }()
			r.port = loop
		}
	}

	if opts.Sync {
		r.sched.OnNeedsCommit = func() { r.report(r.flush()) }
	} else {
		r.sched.OnNeedsCommit = func() {
			r.port.AfterNextFrame(func() { r.report(r.flush()) })
		}
	}
}

func (r *Renderer) resolver() vnode.Resolver {
	return r.opts.Registry
}

// Invalidate re-renders the root. It is safe to call from renders and
// lifecycle callbacks.
func (r *Renderer) Invalidate() {
	if inst := r.rootInst.Load(); inst != nil {
		inst.Invalidate()
	}
}

// Flush commits pending invalidations now, in either mode.
func (r *Renderer) Flush() error {
	return r.flush()
}

func (r *Renderer) flush() error {
	if !r.sched.begin() {
		return nil
	}
	r.mu.Lock()
	if !r.mounted {
		r.mu.Unlock()
		r.sched.end()
		return nil
	}
	f, err := r.drainLocked(nil)
	r.mu.Unlock()
	r.dispatch(f)
	return err
}

// drainLocked commits first, then every queued instance until the queue is
// empty. The scheduler must be in a commit and r.mu held.
func (r *Renderer) drainLocked(first *pass) (followUp, error) {
	var f followUp
	start := time.Now()
	passes, ops := 0, 0

	run := func(p *pass) error {
		passes++
		ops += len(p.ops)
		err := p.commit()
		f.add(p.finish())
		return err
	}

	if first != nil {
		if err := run(first); err != nil {
			r.sched.end()
			return f, err
		}
	}
	for {
		batch := r.sched.take()
		if batch == nil {
			break
		}
		if passes >= maxPasses {
			r.sched.end()
			return f, &errors.RenderError{
				Op:   "core.commit",
				Kind: errors.KindRender,
				Err:  fmt.Errorf("invalidations did not settle after %d passes", maxPasses),
			}
		}
		p := r.newPass(nil)
		for _, inst := range batch {
			p.rerender(inst)
		}
		if err := run(p); err != nil {
			r.sched.end()
			return f, err
		}
	}

	if logging.Enabled(r.logger, logging.LogLevelDebug) {
		r.logger.Debug("commit", "passes", passes, "ops", ops, "duration", time.Since(start))
	}
	return f, nil
}

// dispatch schedules the follow-up work of a commit: deferred properties
// after the next frame, then lifecycle notifications when idle.
func (r *Renderer) dispatch(f followUp) {
	if f.empty() {
		return
	}
	deferred := func() {
		began := r.sched.begin()
		r.mu.Lock()
		var next followUp
		var err error
		for _, s := range f.deferred {
			p := r.newPass(nil)
			if derr := p.runDeferred(s); derr != nil && err == nil {
				err = derr
			}
		}
		if began {
			var derr error
			next, derr = r.drainLocked(nil)
			if err == nil {
				err = derr
			}
		}
		r.mu.Unlock()
		r.report(err)
		r.dispatch(next)
	}
	lifecycle := func() {
		for _, fn := range f.lifecycle {
			fn()
		}
	}

	if r.opts.Sync {
		if len(f.deferred) > 0 {
			deferred()
		}
		lifecycle()
		return
	}
	if len(f.deferred) > 0 {
		r.port.AfterNextFrame(deferred)
	}
	if len(f.lifecycle) > 0 {
		r.port.WhenIdle(lifecycle)
	}
}

func safeCall(op string, fn func()) {
	defer errors.Recover(op)
	fn()
}

// report sends asynchronous commit errors to the error handler.
func (r *Renderer) report(err error) {
	if err == nil {
		return
	}
	var re *errors.RenderError
	if stderrors.As(err, &re) {
		errors.Report(re)
		return
	}
	errors.Report(&errors.RenderError{Op: "core.commit", Kind: errors.KindUnknown, Err: err})
}

// Unmount removes all output and detaches every instance. A loop started
// by Mount is stopped.
func (r *Renderer) Unmount() error {
	began := r.sched.begin()
	r.mu.Lock()
	if !r.mounted {
		r.mu.Unlock()
		if began {
			r.sched.end()
		}
		return nil
	}
	p := r.newPass(nil)
	p.remove(r.rootSlot)
	err := p.commit()
	f := p.finish()
	r.mounted = false
	r.rootSlot = nil
	stop := r.stop
	r.stop = nil
	r.mu.Unlock()
	if began {
		r.sched.end()
	}

	for _, fn := range f.lifecycle {
		fn()
	}
	if stop != nil {
		stop()
	}
	return err
}

// Nodes returns the keyed nodes of the root render.
func (r *Renderer) Nodes() vnode.NodeLookup {
	if inst := r.rootInst.Load(); inst != nil {
		return inst.nodes
	}
	return newNodeTable()
}

// Root returns the output node the renderer commits into.
func (r *Renderer) Root() *dom.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// Mounted reports whether the renderer is mounted.
func (r *Renderer) Mounted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounted
}
