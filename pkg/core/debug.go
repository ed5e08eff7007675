package core

// DebugMode controls whether recovered render panics carry a stack trace.
var DebugMode = false

// SetDebugMode enables or disables stack capture for render panics.
func SetDebugMode(debug bool) {
	DebugMode = debug
}
