package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func startLoop(t *testing.T, opts ...LoopOption) (*Loop, context.CancelFunc) {
	t.Helper()
	l := NewLoop(append([]LoopOption{WithFrameInterval(time.Millisecond)}, opts...)...)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l, cancel
}

func wait(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for loop")
	}
}

func TestImmediateRunsSynchronously(t *testing.T) {
	var got []string
	var p Port = Immediate{}
	p.AfterNextFrame(func() { got = append(got, "frame") })
	p.WhenIdle(func() { got = append(got, "idle") })
	p.WhenIdle(nil)
	if len(got) != 2 || got[0] != "frame" || got[1] != "idle" {
		t.Fatalf("got %v", got)
	}
}

func TestLoopOrdersFrameBeforeIdle(t *testing.T) {
	l, _ := startLoop(t)

	var mu sync.Mutex
	var got []string
	record := func(s string) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	}
	done := make(chan struct{})
	if err := l.Dispatch(func() {
		l.AfterNextFrame(func() { record("frame") })
		l.WhenIdle(func() {
			record("idle")
			close(done)
		})
		record("task")
	}); err != nil {
		t.Fatal(err)
	}
	wait(t, done)

	mu.Lock()
	defer mu.Unlock()
	want := []string{"task", "frame", "idle"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLoopDispatchOrder(t *testing.T) {
	l, _ := startLoop(t)
	var got []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		_ = l.Dispatch(func() {
			got = append(got, i)
			if i == 4 {
				close(done)
			}
		})
	}
	wait(t, done)
	for i, v := range got {
		if v != i {
			t.Fatalf("tasks ran out of order: %v", got)
		}
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	recovered := make(chan any, 1)
	l, _ := startLoop(t, WithPanicHandler(func(v any) { recovered <- v }))
	done := make(chan struct{})
	_ = l.Dispatch(func() { panic("boom") })
	_ = l.Dispatch(func() { close(done) })
	wait(t, done)
	if v := <-recovered; v != "boom" {
		t.Fatalf("recovered %v", v)
	}
}

func TestLoopRunTwice(t *testing.T) {
	l, cancel := startLoop(t)
	ready := make(chan struct{})
	_ = l.Dispatch(func() { close(ready) })
	wait(t, ready)

	if err := l.Run(context.Background()); !errors.Is(err, ErrLoopAlreadyRunning) {
		t.Fatalf("Run() = %v, want ErrLoopAlreadyRunning", err)
	}
	cancel()
	<-l.Done()
	if err := l.Run(context.Background()); !errors.Is(err, ErrLoopTerminated) {
		t.Fatalf("Run() = %v, want ErrLoopTerminated", err)
	}
	if err := l.Dispatch(func() {}); !errors.Is(err, ErrLoopTerminated) {
		t.Fatalf("Dispatch() = %v, want ErrLoopTerminated", err)
	}
}
