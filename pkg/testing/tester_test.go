package testing

import (
	"testing"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/vnode"
)

func list(items ...string) vnode.Node {
	children := make([]vnode.Node, len(items))
	for i, item := range items {
		children[i] = vnode.V("li", vnode.Props{"classes": "item"}, vnode.T(item))
	}
	return vnode.V("ul", vnode.Props{"id": "list"}, children...)
}

func TestMount_RendersIntoBody(t *testing.T) {
	tester := NewRenderTesterWithT(t)

	err := tester.Mount(func() vnode.Node { return list("a", "b") })
	if err != nil {
		t.Fatal(err)
	}
	if got := tester.HTML(); got != `<ul id="list"><li class="item">a</li><li class="item">b</li></ul>` {
		t.Errorf("unexpected markup %s", got)
	}
	if tester.Find(ByClass("item")).Count() != 2 {
		t.Error("expected 2 items")
	}
	tester.Snapshot(t, "tester_list")
}

func TestMount_RecordsMutations(t *testing.T) {
	tester := NewRenderTesterWithT(t)
	items := []string{"a"}
	if err := tester.Mount(func() vnode.Node { return list(items...) }); err != nil {
		t.Fatal(err)
	}
	if tester.MutationCount(dom.MutationChildList) == 0 {
		t.Fatal("expected child list mutations from mount")
	}

	tester.ResetMutations()
	tester.Renderer().Invalidate()
	if err := tester.Pump(); err != nil {
		t.Fatal(err)
	}
	if n := tester.MutationCount(); n != 0 {
		t.Errorf("expected identical re-render to write nothing, got %d mutations", n)
	}

	items = append(items, "b")
	tester.Renderer().Invalidate()
	if err := tester.Pump(); err != nil {
		t.Fatal(err)
	}
	if n := tester.MutationCount(dom.MutationChildList); n != 2 {
		t.Errorf("expected li and text insertions, got %d", n)
	}
	if tester.Find(ByText("b")).Count() != 1 {
		t.Error("expected item 'b'")
	}
}

func TestMountAsync_WaitsForFrame(t *testing.T) {
	tester := NewRenderTesterWithT(t)
	label := "before"
	if err := tester.MountAsync(func() vnode.Node { return vnode.V("p", nil, vnode.T(label)) }); err != nil {
		t.Fatal(err)
	}
	if tester.HTML() != "<p>before</p>" {
		t.Fatalf("expected first commit to be synchronous, got %s", tester.HTML())
	}

	label = "after"
	tester.Renderer().Invalidate()
	if tester.HTML() != "<p>before</p>" {
		t.Errorf("expected commit to wait for the frame, got %s", tester.HTML())
	}
	if tester.Port().PendingFrames() == 0 {
		t.Fatal("expected a frame request")
	}
	tester.Port().ResolveFrame()
	if tester.HTML() != "<p>after</p>" {
		t.Errorf("expected commit after frame, got %s", tester.HTML())
	}
}

func TestMerge_AdoptsMarkup(t *testing.T) {
	tester := NewRenderTesterWithT(t)
	err := tester.Merge(`<p id="x">hello</p>`, func() vnode.Node {
		return vnode.V("p", vnode.Props{"id": "x"}, vnode.T("hello"))
	}, core.Options{Sync: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := tester.MutationCount(dom.MutationChildList); n != 0 {
		t.Errorf("expected matching markup to be adopted, got %d child mutations", n)
	}
	if tester.HTML() != `<p id="x">hello</p>` {
		t.Errorf("unexpected markup %s", tester.HTML())
	}
}

func TestCleanup_Unmounts(t *testing.T) {
	tester := NewRenderTester()
	if err := tester.Mount(func() vnode.Node { return list("a") }); err != nil {
		t.Fatal(err)
	}
	r := tester.Renderer()
	tester.Cleanup()

	if r.Mounted() {
		t.Error("expected renderer to be unmounted")
	}
	if tester.HTML() != "" {
		t.Errorf("expected empty body, got %s", tester.HTML())
	}
	if tester.Renderer() != nil {
		t.Error("expected renderer to be released")
	}
}
