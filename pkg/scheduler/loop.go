package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrLoopAlreadyRunning is returned when Run is called on a running loop.
	ErrLoopAlreadyRunning = errors.New("scheduler: loop is already running")
	// ErrLoopTerminated is returned when work is submitted to a stopped loop.
	ErrLoopTerminated = errors.New("scheduler: loop has been terminated")
)

const (
	stateIdle int32 = iota
	stateRunning
	stateTerminated
)

// DefaultFrameInterval is the frame period used when none is configured.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop runs tasks, frame callbacks and idle callbacks on a single
// goroutine. Tasks run in submission order. Frame callbacks queued before a
// frame tick run on that tick. Idle callbacks run once no tasks or frame
// callbacks are waiting.
type Loop struct {
	interval time.Duration

	mu    sync.Mutex
	tasks []func()
	frame []func()
	idle  []func()

	wake  chan struct{}
	done  chan struct{}
	state atomic.Int32

	// OnPanic receives values recovered from callbacks. When nil, panics
	// propagate and stop the loop.
	OnPanic func(any)
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameInterval sets the frame period.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithPanicHandler installs fn as the loop's panic handler.
func WithPanicHandler(fn func(any)) LoopOption {
	return func(l *Loop) { l.OnPanic = fn }
}

// NewLoop returns a loop that is not yet running.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		interval: DefaultFrameInterval,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dispatch queues fn to run on the loop goroutine.
func (l *Loop) Dispatch(fn func()) error {
	return l.enqueue(&l.tasks, fn)
}

// AfterNextFrame queues fn for the next frame tick.
func (l *Loop) AfterNextFrame(fn func()) {
	_ = l.enqueue(&l.frame, fn)
}

// WhenIdle queues fn for the next idle period.
func (l *Loop) WhenIdle(fn func()) {
	_ = l.enqueue(&l.idle, fn)
}

func (l *Loop) enqueue(q *[]func(), fn func()) error {
	if fn == nil {
		return nil
	}
	if l.state.Load() == stateTerminated {
		return ErrLoopTerminated
	}
	l.mu.Lock()
	*q = append(*q, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Running reports whether Run is active.
func (l *Loop) Running() bool { return l.state.Load() == stateRunning }

// Run processes work until ctx is cancelled. A loop runs at most once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(stateIdle, stateRunning) {
		if l.state.Load() == stateTerminated {
			return ErrLoopTerminated
		}
		return ErrLoopAlreadyRunning
	}
	defer func() {
		l.state.Store(stateTerminated)
		l.mu.Lock()
		l.tasks, l.frame, l.idle = nil, nil, nil
		l.mu.Unlock()
		close(l.done)
	}()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		l.runAll(l.take(&l.tasks))

		l.mu.Lock()
		framePending := len(l.frame) > 0
		var idle []func()
		if len(l.tasks) == 0 && !framePending {
			idle, l.idle = l.idle, nil
		}
		l.mu.Unlock()
		if len(idle) > 0 {
			l.runAll(idle)
			continue
		}

		var tick <-chan time.Time
		if framePending {
			tick = ticker.C
		}
		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		case <-tick:
			l.runAll(l.take(&l.frame))
		}
	}
}

func (l *Loop) take(q *[]func()) []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := *q
	*q = nil
	return out
}

func (l *Loop) runAll(fns []func()) {
	for _, fn := range fns {
		l.safeRun(fn)
	}
}

func (l *Loop) safeRun(fn func()) {
	if l.OnPanic != nil {
		defer func() {
			if r := recover(); r != nil {
				l.OnPanic(r)
			}
		}()
	}
	fn()
}
