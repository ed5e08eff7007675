// Package testing provides a rendering test harness for vdom.
//
// # Quick Start
//
// Create a tester, mount a description, and make assertions:
//
//	func TestList(t *testing.T) {
//	    tester := vdomtest.NewRenderTesterWithT(t)
//	    tester.Mount(func() vnode.Node {
//	        return vnode.V("ul", nil, vnode.V("li", nil, vnode.T("a")))
//	    })
//
//	    if !tester.Find(vdomtest.ByText("a")).Exists() {
//	        t.Error("expected item 'a'")
//	    }
//	}
//
// # Asynchronous Rendering
//
// MountAsync routes frame and idle work through a FakePort:
//
//	tester.MountAsync(app)
//	widget.Invalidate()
//	tester.Port().ResolveFrame() // commit
//	tester.Port().ResolveIdle()  // attach and detach callbacks
//
// # Snapshot Testing
//
// Compare the body against testdata/golden/<name>.golden:
//
//	tester.Snapshot(t, "list")
//
// Update golden files with:
//
//	go test ./... -update
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import vdomtest "github.com/go-drift/vdom/pkg/testing"
package testing
