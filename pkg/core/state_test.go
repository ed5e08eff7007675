package core_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/vdom/pkg/core"
	vdomtest "github.com/go-drift/vdom/pkg/testing"
	"github.com/go-drift/vdom/pkg/vnode"
)

type controller struct {
	disposed bool
}

func (c *controller) Dispose() { c.disposed = true }

type counter struct {
	core.WidgetBase
	count    int
	ctrl     *controller
	released []string
}

func (c *counter) Render(vnode.Context) vnode.Node {
	return vnode.V("output", nil, vnode.T(strconv.Itoa(c.count)))
}

func TestWidgetBase(t *testing.T) {
	var w *counter
	def := vnode.Define("counter", func() vnode.Widget {
		w = &counter{}
		w.ctrl = core.UseController(w, func() *controller { return &controller{} })
		w.Own(func() { w.released = append(w.released, "first") })
		unown := w.Own(func() { w.released = append(w.released, "dropped") })
		unown()
		w.Own(func() { w.released = append(w.released, "last") })
		return w
	})
	show := true

	tester := vdomtest.NewRenderTesterWithT(t)
	require.NoError(t, tester.Mount(func() vnode.Node {
		return vnode.V("div", nil, vnode.If(show, vnode.W(def, nil)))
	}))
	require.NotNil(t, w.Context())
	assert.Equal(t, "<div><output>0</output></div>", tester.HTML())

	w.count = 2
	w.Invalidate()
	assert.Equal(t, "<div><output>2</output></div>", tester.HTML(), "sync mode commits on Invalidate")

	show = false
	tester.Renderer().Invalidate()
	require.NoError(t, tester.Pump())
	assert.True(t, w.Detached())
	assert.True(t, w.ctrl.disposed)
	assert.Equal(t, []string{"last", "first"}, w.released, "owned resources are released in reverse")

	w.Invalidate()
	assert.Equal(t, "<div></div>", tester.HTML(), "a detached widget cannot re-render")

	ran := false
	w.Own(func() { ran = true })
	assert.True(t, ran, "owning after detach releases immediately")
}

func TestWidgetBaseUnbound(t *testing.T) {
	var b core.WidgetBase
	assert.Nil(t, b.Context())
	b.Invalidate()
	b.OnDetach()
	b.OnDetach()
	assert.True(t, b.Detached())
}

func TestWidgetBaseReleasedWithoutAttach(t *testing.T) {
	var w *counter
	def := vnode.Define("counter", func() vnode.Widget {
		w = &counter{}
		w.ctrl = core.UseController(w, func() *controller { return &controller{} })
		return w
	})

	tester := vdomtest.NewRenderTesterWithT(t)
	require.NoError(t, tester.MountAsync(func() vnode.Node { return vnode.W(def, nil) }))
	require.NoError(t, tester.Renderer().Unmount())
	assert.True(t, w.Detached(), "unmounting before idle still releases owned resources")
	assert.True(t, w.ctrl.disposed)
}
