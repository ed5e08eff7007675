package errors

import (
	"sync"

	"github.com/go-drift/vdom/pkg/logging"
)

// LogHandler is an ErrorHandler that writes through a logging.Logger.
// The zero value logs to stderr in text format.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger receives the records. Nil uses a default stderr logger.
	Logger logging.Logger

	once     sync.Once
	fallback logging.Logger
}

func (h *LogHandler) logger() logging.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	h.once.Do(func() { h.fallback = logging.NewLogger(nil) })
	return h.fallback
}

// HandleError logs a RenderError.
func (h *LogHandler) HandleError(err *RenderError) {
	if err == nil {
		return
	}
	args := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if err.Node != "" {
		args = append(args, "node", err.Node)
	}
	if h.Verbose && err.StackTrace != "" {
		args = append(args, "stack", err.StackTrace)
	}
	h.logger().Error("[vdom error]", args...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	args := []any{"value", err.Value}
	if err.Op != "" {
		args = append(args, "op", err.Op)
	}
	if err.Widget != "" {
		args = append(args, "widget", err.Widget)
	}
	if h.Verbose && err.StackTrace != "" {
		args = append(args, "stack", err.StackTrace)
	}
	h.logger().Error("[vdom panic]", args...)
}

// HandleDiagnostic logs a Diagnostic as a warning.
func (h *LogHandler) HandleDiagnostic(d *Diagnostic) {
	if d == nil {
		return
	}
	h.logger().Warn(d.Error(), "kind", d.Kind.String())
}
