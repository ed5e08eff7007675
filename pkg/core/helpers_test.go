package core_test

import (
	"sync"
	"testing"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/vnode"
)

// events is an ordered log shared by the widgets of one test.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, s)
}

func (e *events) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

func (e *events) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = nil
}

// recorder is a widget that records renders and lifecycle callbacks.
type recorder struct {
	name     string
	ev       *events
	render   func(ctx vnode.Context) vnode.Node
	ctx      vnode.Context
	renders  int
	onAttach func()
	onDetach func()
}

func (p *recorder) Render(ctx vnode.Context) vnode.Node {
	p.ctx = ctx
	p.renders++
	p.ev.add("render:" + p.name)
	if p.render == nil {
		return nil
	}
	return p.render(ctx)
}

func (p *recorder) OnAttach() {
	p.ev.add("attach:" + p.name)
	if p.onAttach != nil {
		p.onAttach()
	}
}

func (p *recorder) OnDetach() {
	p.ev.add("detach:" + p.name)
	if p.onDetach != nil {
		p.onDetach()
	}
}

// recorders defines recorder widgets and remembers every widget created.
type recorders struct {
	ev  *events
	mu  sync.Mutex
	all map[string][]*recorder
}

func newRecorders() *recorders {
	return &recorders{ev: &events{}, all: make(map[string][]*recorder)}
}

func (ps *recorders) define(name string, render func(ctx vnode.Context) vnode.Node) *vnode.Definition {
	return vnode.Define(name, func() vnode.Widget {
		p := &recorder{name: name, ev: ps.ev, render: render}
		ps.mu.Lock()
		ps.all[name] = append(ps.all[name], p)
		ps.mu.Unlock()
		return p
	})
}

// last returns the most recently created widget of name.
func (ps *recorders) last(name string) *recorder {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	list := ps.all[name]
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

func (ps *recorders) count(name string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.all[name])
}

// captureHandler collects everything reported to the global error handler.
type captureHandler struct {
	mu     sync.Mutex
	errs   []*errors.RenderError
	panics []*errors.PanicError
	diags  []*errors.Diagnostic
}

func (h *captureHandler) HandleError(err *errors.RenderError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs = append(h.errs, err)
}

func (h *captureHandler) HandlePanic(err *errors.PanicError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panics = append(h.panics, err)
}

func (h *captureHandler) HandleDiagnostic(d *errors.Diagnostic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.diags = append(h.diags, d)
}

func (h *captureHandler) diagnostics() []*errors.Diagnostic {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*errors.Diagnostic(nil), h.diags...)
}

func (h *captureHandler) panicked() []*errors.PanicError {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*errors.PanicError(nil), h.panics...)
}

func (h *captureHandler) reported() []*errors.RenderError {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*errors.RenderError(nil), h.errs...)
}

// captureErrors installs a capturing handler for the duration of the test.
func captureErrors(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

// texts returns the text content of each node.
func texts(children []*dom.Node) []string {
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.TextContent()
	}
	return out
}
