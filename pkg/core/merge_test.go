package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
	vdomtest "github.com/go-drift/vdom/pkg/testing"
	"github.com/go-drift/vdom/pkg/vnode"
)

const serverMarkup = `<div id="app"><button disabled="">Go</button><input type="text"/><em>stale</em><p>old</p></div>`

func TestMergeAdoptsExistingNodes(t *testing.T) {
	doc, err := dom.ParseString(serverMarkup)
	require.NoError(t, err)
	body := doc.Body()
	app := body.ByID("app")
	button := body.QueryTag("button")[0]
	label := button.FirstChild()
	input := body.QueryTag("input")[0]
	input.SetValue("typed")

	r := core.NewRenderer(func() vnode.Node {
		return vnode.V("div", vnode.Props{"id": "app"},
			vnode.V("button", vnode.Props{"disabled": false}, vnode.T("Go")),
			vnode.V("input", vnode.Props{"value": "initial"}),
			vnode.V("p", nil, vnode.T("new")),
		)
	})
	require.NoError(t, r.Merge(core.Options{Document: doc, Sync: true}))
	t.Cleanup(func() { _ = r.Unmount() })

	assert.Same(t, app, body.FirstChild())
	assert.Same(t, button, app.Child(0))
	assert.Same(t, label, button.FirstChild(), "equal text is adopted")
	assert.Same(t, input, app.Child(1))
	assert.False(t, button.HasAttribute("disabled"), "false removes the merged attribute")
	assert.Equal(t, "typed", input.Value(), "a value written before merge is preserved")
	assert.Empty(t, body.QueryTag("em"), "unclaimed nodes are removed")
	assert.Equal(t, "new", body.QueryTag("p")[0].TextContent(), "differing text is replaced")

	vdomtest.MatchesGolden(t, "merge", body)
}

func TestMergeFallsBackToCreation(t *testing.T) {
	tester := vdomtest.NewRenderTesterWithT(t)
	err := tester.Merge(`<section></section>`, func() vnode.Node {
		return vnode.S(vnode.V("header", nil), vnode.V("section", nil, vnode.T("body")))
	}, core.Options{Sync: true})
	require.NoError(t, err)

	assert.Equal(t, "<header></header><section>body</section>", tester.HTML())
	assert.Equal(t, 2, tester.MutationCount(dom.MutationChildList), "header and the text are inserted")
}

func TestMergeOnlyOnFirstPass(t *testing.T) {
	tester := vdomtest.NewRenderTesterWithT(t)
	show := false
	require.NoError(t, tester.Merge(`<ul><li>a</li></ul>`, func() vnode.Node {
		return vnode.V("ul", nil, vnode.V("li", nil, vnode.T("a")), vnode.If(show, vnode.V("li", nil, vnode.T("b"))))
	}, core.Options{Sync: true}))
	first := tester.Find(vdomtest.ByTag("li")).First()

	// An externally added node is not adopted by later commits.
	ul := tester.Find(vdomtest.ByTag("ul")).First()
	extra := tester.Document().CreateElement("li")
	require.NoError(t, ul.AppendChild(extra))

	show = true
	tester.Renderer().Invalidate()
	require.NoError(t, tester.Pump())

	items := tester.Find(vdomtest.ByTag("li")).All()
	require.Len(t, items, 3)
	assert.Same(t, first, items[0])
	assert.Same(t, extra, items[1], "nodes added outside the renderer are left alone")
	assert.Equal(t, "b", items[2].TextContent())
}

func TestMergeFormControls(t *testing.T) {
	doc, err := dom.ParseString(`<div><label>Name</label><select>` +
		`<option value="1">One</option><option value="2">Two</option><option value="3" selected="">Three</option>` +
		`</select><button disabled="">Go</button></div>`)
	require.NoError(t, err)
	body := doc.Body()
	div := body.FirstChild()
	label := div.Child(0)
	sel := div.Child(1)
	options := sel.QueryTag("option")
	require.Len(t, options, 3)
	button := div.Child(2)
	require.Equal(t, "3", sel.Value())

	r := core.NewRenderer(func() vnode.Node {
		return vnode.V("div", nil,
			vnode.V("label", nil, vnode.T("Name")),
			vnode.V("select", vnode.Props{"value": "2"},
				vnode.V("option", vnode.Props{"value": "1"}, vnode.T("One")),
				vnode.V("option", vnode.Props{"value": "2"}, vnode.T("Two")),
				vnode.V("option", vnode.Props{"value": "3"}, vnode.T("Three")),
			),
			vnode.V("button", vnode.Props{"disabled": false}, vnode.T("Go")),
		)
	})
	require.NoError(t, r.Merge(core.Options{Document: doc, Sync: true}))
	t.Cleanup(func() { _ = r.Unmount() })

	assert.Same(t, div, body.FirstChild())
	assert.Same(t, label, div.Child(0))
	assert.Same(t, sel, div.Child(1))
	assert.Equal(t, options, sel.QueryTag("option"), "options are adopted in order")
	assert.Same(t, button, div.Child(2))
	assert.Equal(t, 3, div.ChildCount())

	assert.Equal(t, "2", sel.Value())
	assert.True(t, options[1].Selected())
	assert.False(t, options[2].Selected())
	assert.False(t, button.HasAttribute("disabled"))
	assert.Equal(t, "Go", button.TextContent())
}
