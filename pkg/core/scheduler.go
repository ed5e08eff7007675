package core

import (
	"slices"
	"sync"
)

// Scheduler tracks dirty instances that need re-rendering.
type Scheduler struct {
	dirty      []*Instance
	dirtySet   map[*Instance]bool
	committing bool
	requested  bool
	mu         sync.Mutex

	// OnNeedsCommit is called when the first instance is scheduled while no
	// commit is running or already requested. Requests made during a commit
	// are picked up by that commit.
	OnNeedsCommit func()
}

// NewScheduler creates a new Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule marks an instance dirty and queues it for re-rendering.
func (s *Scheduler) Schedule(inst *Instance) {
	notify := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if inst.destroyed() {
			return false
		}
		inst.dirty = true
		if !s.dirtySet[inst] {
			if s.dirtySet == nil {
				s.dirtySet = make(map[*Instance]bool)
			}
			s.dirtySet[inst] = true
			s.dirty = append(s.dirty, inst)
		}
		// An aborted commit leaves its queue behind without a request.
		if s.committing || s.requested {
			return false
		}
		s.requested = true
		return true
	}()

	if notify && s.OnNeedsCommit != nil {
		s.OnNeedsCommit()
	}
}

// Pending returns the number of queued instances.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty)
}

// begin starts a commit. It reports false when one is already running.
func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing {
		return false
	}
	s.committing = true
	s.requested = false
	return true
}

// end aborts a commit without draining the queue. The next Schedule
// requests a commit for what is left.
func (s *Scheduler) end() {
	s.mu.Lock()
	s.committing = false
	s.mu.Unlock()
}

// take returns the queued instances in depth order, dropping destroyed
// ones. When nothing is queued the commit ends and take returns nil.
func (s *Scheduler) take() []*Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if len(s.dirty) == 0 {
			s.committing = false
			return nil
		}
		slices.SortStableFunc(s.dirty, func(a, b *Instance) int {
			return a.depth - b.depth
		})
		dirty := s.dirty
		s.dirty = nil
		clear(s.dirtySet)

		live := dirty[:0]
		for _, inst := range dirty {
			if !inst.destroyed() {
				live = append(live, inst)
			}
		}
		if len(live) > 0 {
			return live
		}
	}
}

func (s *Scheduler) isDirty(inst *Instance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return inst.dirty
}

func (s *Scheduler) markClean(inst *Instance) {
	s.mu.Lock()
	inst.dirty = false
	s.mu.Unlock()
}

func (s *Scheduler) drop(inst *Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirtySet[inst] {
		return
	}
	delete(s.dirtySet, inst)
	s.dirty = slices.DeleteFunc(s.dirty, func(i *Instance) bool { return i == inst })
}
