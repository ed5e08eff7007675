package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerNotifiesOncePerCommit(t *testing.T) {
	s := NewScheduler()
	calls := 0
	s.OnNeedsCommit = func() { calls++ }

	a, b := &Instance{depth: 1}, &Instance{depth: 2}
	s.Schedule(a)
	s.Schedule(a)
	s.Schedule(b)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, s.Pending())
	assert.True(t, s.isDirty(a))

	require.True(t, s.begin())
	assert.False(t, s.begin(), "a commit is already running")
	s.Schedule(&Instance{})
	assert.Equal(t, 1, calls, "requests during a commit are drained by it")

	for s.take() != nil {
	}
	s.Schedule(a)
	assert.Equal(t, 2, calls)
}

func TestSchedulerTakeOrdersByDepth(t *testing.T) {
	s := NewScheduler()
	deep, mid, top := &Instance{depth: 3}, &Instance{depth: 1}, &Instance{depth: 0}
	gone := &Instance{depth: 2}
	s.Schedule(deep)
	s.Schedule(gone)
	s.Schedule(mid)
	s.Schedule(top)
	gone.state.Store(int32(StateRemoving))

	require.True(t, s.begin())
	assert.Equal(t, []*Instance{top, mid, deep}, s.take())
	assert.Nil(t, s.take())
	assert.True(t, s.begin(), "an empty take ends the commit")
	s.end()
}

func TestSchedulerDrop(t *testing.T) {
	s := NewScheduler()
	a, b := &Instance{}, &Instance{}
	s.Schedule(a)
	s.Schedule(b)
	s.drop(a)
	s.drop(&Instance{})
	assert.Equal(t, 1, s.Pending())

	require.True(t, s.begin())
	assert.Equal(t, []*Instance{b}, s.take())
	s.end()
}

func TestSchedulerIgnoresDestroyed(t *testing.T) {
	s := NewScheduler()
	calls := 0
	s.OnNeedsCommit = func() { calls++ }
	inst := &Instance{}
	inst.state.Store(int32(StateDetached))
	s.Schedule(inst)
	assert.Zero(t, calls)
	assert.Zero(t, s.Pending())
}

func TestSchedulerMarkClean(t *testing.T) {
	s := NewScheduler()
	inst := &Instance{}
	s.Schedule(inst)
	s.markClean(inst)
	assert.False(t, s.isDirty(inst))
	// Still queued; the pass skips it as clean.
	assert.Equal(t, 1, s.Pending())
}

func TestSchedulerRequestsAfterAbortedCommit(t *testing.T) {
	s := NewScheduler()
	calls := 0
	s.OnNeedsCommit = func() { calls++ }

	a := &Instance{}
	s.Schedule(a)
	require.Equal(t, 1, calls)
	require.True(t, s.begin())
	s.end()
	require.Equal(t, 1, s.Pending(), "an aborted commit keeps its queue")

	s.Schedule(a)
	assert.Equal(t, 2, calls, "re-scheduling a queued instance requests a new commit")
	assert.Equal(t, 1, s.Pending())

	s.Schedule(a)
	assert.Equal(t, 2, calls)
}
