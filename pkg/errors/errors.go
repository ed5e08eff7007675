// Package errors provides structured error handling for the rendering engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindAdapter indicates a rejected operation on the live output tree.
	KindAdapter
	// KindRender indicates a widget render failure.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindIdentity indicates siblings that could not be told apart.
	KindIdentity
	// KindResolve indicates a component definition that could not be resolved.
	KindResolve
	// KindConfig indicates an invalid configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindAdapter:
		return "adapter"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindIdentity:
		return "identity"
	case KindResolve:
		return "resolve"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// RenderError represents a structured error raised while committing a pass.
type RenderError struct {
	// Op is the operation that failed (e.g., "core.insertBefore").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Node describes the description or live node involved, if any.
	Node string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s [%s] node=%s: %v", e.Op, e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "core.renderInstance").
	Op string
	// Widget is the definition name of the widget whose render panicked, if any.
	Widget string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Widget != "" {
		return fmt.Sprintf("panic in %s.Render(): %v", e.Widget, e.Value)
	}
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Diagnostic is a non-fatal report surfaced for development tooling.
// Reconciliation proceeds with a best-effort result whenever one is raised.
type Diagnostic struct {
	// Kind categorizes the diagnostic.
	Kind ErrorKind
	// Operation is what the reconciler was doing ("added" or "removed").
	Operation string
	// Parent names the widget that owns the sibling list.
	Parent string
	// Node names the tag or widget that could not be uniquely identified.
	Node string
	// Timestamp is when the diagnostic was raised.
	Timestamp time.Time
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf(
		"A widget (%s) has had a child %s, but they were not able to uniquely identified. "+
			"It is recommended to provide a unique 'key' property when using the same parent widget (%s) multiple times as siblings",
		d.Parent, d.Operation, d.Node,
	)
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *RenderError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleDiagnostic is called when a non-fatal diagnostic is raised.
	HandleDiagnostic(d *Diagnostic)
}
