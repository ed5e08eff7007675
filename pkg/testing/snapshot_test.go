package testing

import (
	"testing"

	"github.com/go-drift/vdom/pkg/dom"
)

func TestFormat(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	_ = div.SetAttribute("title", "t")
	_ = div.SetAttribute("id", "root")
	_ = div.AppendChild(doc.CreateTextNode("a \"b\""))
	_ = div.AppendChild(doc.CreateElement("br"))
	_ = doc.Body().AppendChild(div)

	want := "<div id=\"root\" title=\"t\">\n" +
		"  \"a \\\"b\\\"\"\n" +
		"  <br/>\n" +
		"</div>\n"
	if got := Format(doc.Body()); got != want {
		t.Errorf("unexpected format:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormat_Empty(t *testing.T) {
	doc := dom.NewDocument()
	if got := Format(doc.Body()); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestMatchesGolden(t *testing.T) {
	doc, err := dom.ParseString(`<main><h1 class="title">Hello</h1><p>world</p></main>`)
	if err != nil {
		t.Fatal(err)
	}
	MatchesGolden(t, "parsed", doc.Body())
}
