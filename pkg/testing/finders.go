package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/vdom/pkg/dom"
)

// Finder locates elements in the output tree.
type Finder interface {
	// Evaluate returns all matching elements under root (depth-first pre-order).
	Evaluate(root *dom.Node) []*dom.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*dom.Node
	finder Finder
}

// Find evaluates f under root.
func Find(root *dom.Node, f Finder) FinderResult {
	return FinderResult{nodes: f.Evaluate(root), finder: f}
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *dom.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *dom.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *dom.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*dom.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Text returns the text content of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return r.First().TextContent()
}

// predicateFinder matches elements satisfying a predicate.
type predicateFinder struct {
	fn   func(*dom.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *dom.Node) []*dom.Node {
	var out []*dom.Node
	var visit func(*dom.Node)
	visit = func(n *dom.Node) {
		for _, c := range n.Children() {
			if c.Type == dom.ElementNode && f.fn(c) {
				out = append(out, c)
			}
			visit(c)
		}
	}
	if root != nil {
		visit(root)
	}
	return out
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches elements for which fn returns
// true. desc appears in failure messages.
func ByPredicate(fn func(*dom.Node) bool, desc string) Finder {
	return &predicateFinder{fn: fn, desc: desc}
}

// ByTag returns a finder that matches elements by tag name.
func ByTag(tag string) Finder {
	return ByPredicate(func(n *dom.Node) bool {
		return strings.EqualFold(n.Tag(), tag)
	}, fmt.Sprintf("ByTag(%q)", tag))
}

// ByID returns a finder that matches elements whose id attribute is id.
func ByID(id string) Finder {
	return ByAttribute("id", id)
}

// ByAttribute returns a finder that matches elements carrying the
// attribute name with value.
func ByAttribute(name, value string) Finder {
	return ByPredicate(func(n *dom.Node) bool {
		v, ok := n.Attribute(name)
		return ok && v == value
	}, fmt.Sprintf("ByAttribute(%q=%q)", name, value))
}

// ByClass returns a finder that matches elements carrying class.
func ByClass(class string) Finder {
	return ByPredicate(func(n *dom.Node) bool {
		return n.HasClass(class)
	}, fmt.Sprintf("ByClass(%q)", class))
}

// ByText returns a finder that matches elements whose direct text children
// read exactly text.
func ByText(text string) Finder {
	return ByPredicate(func(n *dom.Node) bool {
		own, ok := ownText(n)
		return ok && own == text
	}, fmt.Sprintf("ByText(%q)", text))
}

// ByTextContaining returns a finder that matches elements whose direct text
// children contain substring.
func ByTextContaining(substring string) Finder {
	return ByPredicate(func(n *dom.Node) bool {
		own, ok := ownText(n)
		return ok && strings.Contains(own, substring)
	}, fmt.Sprintf("ByTextContaining(%q)", substring))
}

func ownText(n *dom.Node) (string, bool) {
	var sb strings.Builder
	found := false
	for _, c := range n.Children() {
		if c.Type == dom.TextNode {
			sb.WriteString(c.Data())
			found = true
		}
	}
	return sb.String(), found
}
