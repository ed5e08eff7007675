package testing

import (
	"errors"
	"sync"
	"testing"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/vnode"
)

// DefaultSettleLimit bounds the frame and idle rounds run by Pump.
const DefaultSettleLimit = 100

// ErrSettleTimeout is returned when Pump exceeds its round limit.
var ErrSettleTimeout = errors.New("Pump did not settle: frame or idle work keeps rescheduling")

// RenderTester mounts a renderer on an in-memory document and records
// every mutation the renderer makes. Asynchronous renders are driven by a
// FakePort, so frames and idle periods happen only when the test says so.
type RenderTester struct {
	doc      *dom.Document
	port     *FakePort
	renderer *core.Renderer
	unwatch  func()

	mu        sync.Mutex
	mutations []dom.Mutation
}

// NewRenderTester creates a tester with an empty document.
// Call Cleanup() when done, or use NewRenderTesterWithT() instead.
func NewRenderTester() *RenderTester {
	t := &RenderTester{doc: dom.NewDocument(), port: NewFakePort()}
	t.unwatch = t.doc.Observe(t.record)
	return t
}

// NewRenderTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewRenderTesterWithT(t *testing.T) *RenderTester {
	tester := NewRenderTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

func (t *RenderTester) record(m dom.Mutation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mutations = append(t.mutations, m)
}

// Cleanup unmounts the renderer and stops recording.
func (t *RenderTester) Cleanup() {
	if t.renderer != nil {
		_ = t.renderer.Unmount()
		t.renderer = nil
	}
	if t.unwatch != nil {
		t.unwatch()
		t.unwatch = nil
	}
}

// Mount renders factory's output synchronously into the body.
func (t *RenderTester) Mount(factory func() vnode.Node) error {
	return t.MountWith(factory, core.Options{Sync: true})
}

// MountAsync renders factory's output into the body; later invalidations
// wait for the tester's port.
func (t *RenderTester) MountAsync(factory func() vnode.Node) error {
	return t.MountWith(factory, core.Options{})
}

// MountWith mounts with opts. The document, root and, in async mode, the
// port default to the tester's own.
func (t *RenderTester) MountWith(factory func() vnode.Node, opts core.Options) error {
	t.fill(&opts)
	t.renderer = core.NewRenderer(factory)
	return t.renderer.Mount(opts)
}

// Merge parses markup into the body and merges factory's output over it.
// Mutations made by parsing are not recorded.
func (t *RenderTester) Merge(markup string, factory func() vnode.Node, opts core.Options) error {
	if err := t.doc.Body().SetInnerHTML(markup); err != nil {
		return err
	}
	t.ResetMutations()
	t.fill(&opts)
	t.renderer = core.NewRenderer(factory)
	return t.renderer.Merge(opts)
}

func (t *RenderTester) fill(opts *core.Options) {
	if opts.Document == nil {
		opts.Document = t.doc
	}
	if opts.Root == nil {
		opts.Root = t.doc.Body()
	}
	if !opts.Sync && opts.Port == nil {
		opts.Port = t.port
	}
}

// Pump commits pending invalidations, then resolves frames and idle
// periods until no work is queued.
func (t *RenderTester) Pump() error {
	if t.renderer == nil {
		return nil
	}
	if err := t.renderer.Flush(); err != nil {
		return err
	}
	if !t.port.Resolve(DefaultSettleLimit) {
		return ErrSettleTimeout
	}
	return nil
}

// Renderer returns the mounted renderer, or nil.
func (t *RenderTester) Renderer() *core.Renderer { return t.renderer }

// Document returns the tester's document.
func (t *RenderTester) Document() *dom.Document { return t.doc }

// Body returns the document body.
func (t *RenderTester) Body() *dom.Node { return t.doc.Body() }

// Port returns the fake scheduling port.
func (t *RenderTester) Port() *FakePort { return t.port }

// HTML returns the markup of the body's children.
func (t *RenderTester) HTML() string { return t.doc.Body().InnerHTML() }

// Find evaluates f under the body.
func (t *RenderTester) Find(f Finder) FinderResult {
	return Find(t.doc.Body(), f)
}

// Mutations returns the mutations recorded since the last reset.
func (t *RenderTester) Mutations() []dom.Mutation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]dom.Mutation, len(t.mutations))
	copy(out, t.mutations)
	return out
}

// MutationCount returns the number of recorded mutations of the given
// types, or of any type when none are given.
func (t *RenderTester) MutationCount(types ...dom.MutationType) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(types) == 0 {
		return len(t.mutations)
	}
	n := 0
	for _, m := range t.mutations {
		for _, typ := range types {
			if m.Type == typ {
				n++
				break
			}
		}
	}
	return n
}

// ResetMutations clears the recorded mutations.
func (t *RenderTester) ResetMutations() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mutations = nil
}

// Snapshot compares the body against a golden file.
func (t *RenderTester) Snapshot(tb *testing.T, name string) {
	tb.Helper()
	MatchesGolden(tb, name, t.doc.Body())
}
