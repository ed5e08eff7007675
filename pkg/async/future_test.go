package async

import (
	"sync"
	"testing"
)

func TestThenBeforeResolve(t *testing.T) {
	f := NewFuture[int]()
	var got []int
	f.Then(func(v int) { got = append(got, v) })
	f.Then(func(v int) { got = append(got, v*2) })

	if _, ok := f.Value(); ok {
		t.Fatal("expected unresolved future")
	}
	if !f.Resolve(3) {
		t.Fatal("first Resolve should succeed")
	}
	if f.Resolve(4) {
		t.Fatal("second Resolve should be ignored")
	}
	if len(got) != 2 || got[0] != 3 || got[1] != 6 {
		t.Fatalf("callbacks got %v", got)
	}
	if v, ok := f.Value(); !ok || v != 3 {
		t.Fatalf("Value() = %d, %v", v, ok)
	}
}

func TestThenAfterResolve(t *testing.T) {
	f := Resolved("x")
	called := false
	f.Then(func(v string) {
		called = v == "x"
	})
	if !called {
		t.Fatal("Then on resolved future should run immediately")
	}
	select {
	case <-f.Done():
	default:
		t.Fatal("Done should be closed")
	}
}

func TestConcurrentResolve(t *testing.T) {
	f := NewFuture[int]()
	var wg sync.WaitGroup
	wins := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wins <- f.Resolve(i)
		}(i)
	}
	wg.Wait()
	close(wins)
	n := 0
	for w := range wins {
		if w {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly one winning Resolve, got %d", n)
	}
	<-f.Done()
}
