// Package scheduler provides the scheduling ports the renderer uses to
// defer work past frame boundaries and into idle time.
package scheduler

// Port schedules callbacks. Implementations run callbacks on the goroutine
// that owns the output tree.
type Port interface {
	// AfterNextFrame runs fn after the next frame boundary.
	AfterNextFrame(fn func())
	// WhenIdle runs fn once no frame work is pending.
	WhenIdle(fn func())
}

// Immediate runs every callback synchronously.
type Immediate struct{}

// AfterNextFrame runs fn now.
func (Immediate) AfterNextFrame(fn func()) {
	if fn != nil {
		fn()
	}
}

// WhenIdle runs fn now.
func (Immediate) WhenIdle(fn func()) {
	if fn != nil {
		fn()
	}
}
