package testing

import "sync"

// FakePort is a scheduling port whose frame and idle callbacks run only
// when the test resolves them. All methods are safe for concurrent use.
type FakePort struct {
	mu     sync.Mutex
	frames []func()
	idle   []func()
}

// NewFakePort returns an empty FakePort.
func NewFakePort() *FakePort {
	return &FakePort{}
}

// AfterNextFrame queues fn until the next ResolveFrame.
func (p *FakePort) AfterNextFrame(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, fn)
}

// WhenIdle queues fn until the next ResolveIdle.
func (p *FakePort) WhenIdle(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idle = append(p.idle, fn)
}

// ResolveFrame runs the frame callbacks queued so far. Callbacks queued
// while they run wait for the next frame. It returns the number run.
func (p *FakePort) ResolveFrame() int {
	p.mu.Lock()
	batch := p.frames
	p.frames = nil
	p.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// ResolveIdle runs the idle callbacks queued so far.
func (p *FakePort) ResolveIdle() int {
	p.mu.Lock()
	batch := p.idle
	p.idle = nil
	p.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Resolve alternates frames and idle periods until both queues are empty
// or limit rounds have run. It reports whether the port settled.
func (p *FakePort) Resolve(limit int) bool {
	for i := 0; i < limit; i++ {
		if p.ResolveFrame()+p.ResolveIdle() == 0 {
			return true
		}
	}
	return p.PendingFrames()+p.PendingIdle() == 0
}

// PendingFrames returns the number of queued frame callbacks.
func (p *FakePort) PendingFrames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

// PendingIdle returns the number of queued idle callbacks.
func (p *FakePort) PendingIdle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
