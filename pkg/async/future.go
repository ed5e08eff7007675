// Package async provides a minimal single-assignment future used for lazily
// resolved widget definitions.
package async

import "sync"

// Future holds a value that becomes available later. It is resolved at most
// once; callbacks registered with Then run exactly once, on the resolving
// goroutine or immediately when the future is already resolved.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	resolved  bool
	callbacks []func(T)
}

// NewFuture returns an unresolved future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future that already holds value.
func Resolved[T any](value T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(value)
	return f
}

// Resolve stores value and runs pending callbacks. It reports false when the
// future was already resolved.
func (f *Future[T]) Resolve(value T) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.value = value
	f.resolved = true
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(value)
	}
	return true
}

// Then registers fn to run with the resolved value.
func (f *Future[T]) Then(fn func(T)) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	if f.resolved {
		v := f.value
		f.mu.Unlock()
		fn(v)
		return
	}
	f.callbacks = append(f.callbacks, fn)
	f.mu.Unlock()
}

// Done returns a channel closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Value returns the resolved value and whether resolution happened.
func (f *Future[T]) Value() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.resolved
}
