package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives everything passed to Report, ReportPanic and
	// ReportDiagnostic. It defaults to a non-verbose LogHandler.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler installs h as the global handler. Nil restores a LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	DefaultHandler = h
	handlerMu.Unlock()
}

func handler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

// Report sends a commit error to the global handler, stamping it when
// Timestamp is zero.
func Report(err *RenderError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	if h := handler(); h != nil {
		h.HandleError(err)
	}
}

// ReportPanic sends a recovered panic to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	if h := handler(); h != nil {
		h.HandlePanic(err)
	}
}

// ReportDiagnostic sends a diagnostic to the global handler.
func ReportDiagnostic(d *Diagnostic) {
	if d == nil {
		return
	}
	stamp(&d.Timestamp)
	if h := handler(); h != nil {
		h.HandleDiagnostic(d)
	}
}

// Recover reports a panic raised by the deferring function.
//
//	defer errors.Recover("core.onDetach")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	}
}

// RecoverWidget reports a panic raised while running code of the named
// widget. The stack is captured only when stack is set. onPanic, when not
// nil, runs after the report with the reported error, so the deferring
// function can substitute its result.
//
//	defer errors.RecoverWidget("core.renderInstance", name, debug, func(*errors.PanicError) { out = nil })
func RecoverWidget(op, widget string, stack bool, onPanic func(*PanicError)) {
	r := recover()
	if r == nil {
		return
	}
	err := &PanicError{Op: op, Widget: widget, Value: r}
	if stack {
		err.StackTrace = CaptureStack()
	}
	ReportPanic(err)
	if onPanic != nil {
		onPanic(err)
	}
}

// CaptureStack returns the caller's stack, one "function\n\tfile:line"
// entry per frame, omitting CaptureStack and the runtime frames above it.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		sb.WriteString(f.Function + "\n\t" + f.File + ":" + strconv.Itoa(f.Line) + "\n")
		if !more {
			return sb.String()
		}
	}
}
