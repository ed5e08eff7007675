package testing

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/go-drift/vdom/pkg/dom"
)

// GoldenDir is the fixture directory used by MatchesGolden, relative to the
// package under test.
const GoldenDir = "testdata/golden"

// Format renders the children of root as an indented outline, one node per
// line. Attributes are sorted by name, so the output does not depend on the
// order in which a commit wrote them. Text nodes are quoted.
func Format(root *dom.Node) string {
	var sb strings.Builder
	for _, c := range root.Children() {
		formatNode(&sb, c, 0)
	}
	return sb.String()
}

func formatNode(sb *strings.Builder, n *dom.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Type {
	case dom.TextNode:
		sb.WriteString(indent + strconv.Quote(n.Data()) + "\n")
		return
	case dom.CommentNode:
		sb.WriteString(indent + "<!--" + n.Data() + "-->\n")
		return
	}

	sb.WriteString(indent + "<" + n.Tag())
	attrs := n.Attributes()
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	for _, a := range attrs {
		sb.WriteString(" " + a.Name + "=" + strconv.Quote(a.Value))
	}
	children := n.Children()
	if len(children) == 0 {
		sb.WriteString("/>\n")
		return
	}
	sb.WriteString(">\n")
	for _, c := range children {
		formatNode(sb, c, depth+1)
	}
	sb.WriteString(indent + "</" + n.Tag() + ">\n")
}

// MatchesGolden compares Format(root) against testdata/golden/<name>.golden.
// Run the tests with -update to rewrite the fixture.
func MatchesGolden(t *testing.T, name string, root *dom.Node) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(Format(root)))
}
