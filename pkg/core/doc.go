// Package core reconciles descriptions against a live output tree.
//
// A Renderer owns a root widget instance. Each commit renders the dirty
// instances, diffs their output against the slots of the previous commit
// and applies the resulting operations to the output tree through an
// Adapter. Widgets are re-rendered only when invalidated or when their
// properties or children change.
//
// # Commits
//
// Mount and Merge perform the first commit synchronously. Later commits
// are requested by Instance.Invalidate or Renderer.Invalidate and run
//
//   - immediately, when Options.Sync is set, or
//   - after the next frame of the scheduling port otherwise.
//
// Invalidations raised while a commit is running are folded into it.
// Deferred properties are evaluated again after the frame following their
// commit; attach and detach notifications run when the port is idle.
//
// # Matching
//
// Siblings match when they have the same kind, strictly equal keys and the
// same tag, wrapped node or widget definition. Keys never move nodes: a
// keyed child that changes position is replaced.
//
//	r := core.NewRenderer(func() vnode.Node {
//	    return vnode.V("ul", nil,
//	        vnode.V("li", vnode.Props{"key": 1}, vnode.T("one")),
//	        vnode.V("li", vnode.Props{"key": 2}, vnode.T("two")),
//	    )
//	})
//	err := r.Mount(core.Options{Root: doc.Body(), Sync: true})
package core
