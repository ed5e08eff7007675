package dom

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := &Document{}
	d.root = &Node{Type: DocumentNode, doc: d}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := fromHTML(d, c); n != nil {
			d.root.appendRaw(n)
		}
	}
	for _, c := range d.root.children {
		if c.Type == ElementNode && c.tag == "html" {
			d.html = c
		}
	}
	if d.html == nil {
		d.html = d.CreateElement("html")
		d.root.appendRaw(d.html)
	}
	for _, c := range d.html.children {
		if c.Type != ElementNode {
			continue
		}
		switch c.tag {
		case "head":
			d.head = c
		case "body":
			d.body = c
		}
	}
	if d.head == nil {
		d.head = d.CreateElement("head")
		d.html.appendRaw(d.head)
	}
	if d.body == nil {
		d.body = d.CreateElement("body")
		d.html.appendRaw(d.body)
	}
	return d, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFragment parses markup in the context of the given element and
// returns the resulting detached nodes.
func (d *Document) ParseFragment(context *Node, markup string) ([]*Node, error) {
	var ctx *html.Node
	if context != nil && context.Type == ElementNode {
		ctx = contextNode(context)
	} else {
		ctx = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(parsed))
	for _, hn := range parsed {
		if n := fromHTML(d, hn); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func contextNode(n *Node) *html.Node {
	ctx := &html.Node{Type: html.ElementNode, Data: n.tag, Namespace: shortNamespace(n.namespace)}
	if ctx.Namespace == "" {
		ctx.DataAtom = atom.Lookup([]byte(n.tag))
	}
	return ctx
}

// InnerHTML serializes the children of the node.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	for _, c := range n.children {
		_ = html.Render(&buf, toHTML(c))
	}
	return buf.String()
}

// SetInnerHTML replaces the children of the node with parsed markup.
func (n *Node) SetInnerHTML(markup string) error {
	nodes, err := n.doc.ParseFragment(n, markup)
	if err != nil {
		return err
	}
	n.removeAllChildren()
	for _, c := range nodes {
		n.appendNotify(c)
	}
	return nil
}

// OuterHTML serializes the node and its descendants.
func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	_ = n.Render(&buf)
	return buf.String()
}

// Render writes the HTML serialization of the node to w.
func (n *Node) Render(w io.Writer) error {
	return html.Render(w, toHTML(n))
}

func shortNamespace(ns string) string {
	switch ns {
	case SVGNamespace:
		return "svg"
	case MathNamespace:
		return "math"
	default:
		return ""
	}
}

func longNamespace(ns string) string {
	switch ns {
	case "svg":
		return SVGNamespace
	case "math":
		return MathNamespace
	case "":
		return HTMLNamespace
	default:
		return ns
	}
}

func attrNamespace(ns string) string {
	switch ns {
	case "xlink":
		return XLinkNamespace
	case "xml":
		return "http://www.w3.org/XML/1998/namespace"
	case "xmlns":
		return "http://www.w3.org/2000/xmlns/"
	default:
		return ns
	}
}

func attrPrefix(ns string) string {
	switch ns {
	case XLinkNamespace:
		return "xlink"
	case "http://www.w3.org/XML/1998/namespace":
		return "xml"
	case "http://www.w3.org/2000/xmlns/":
		return "xmlns"
	default:
		return ns
	}
}

func fromHTML(d *Document, hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return d.CreateTextNode(hn.Data)
	case html.CommentNode:
		return d.CreateComment(hn.Data)
	case html.ElementNode:
		n := d.CreateElementNS(longNamespace(hn.Namespace), hn.Data)
		for _, a := range hn.Attr {
			name := a.Key
			ns := ""
			if a.Namespace != "" {
				ns = attrNamespace(a.Namespace)
				name = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, Attr{Namespace: ns, Name: name, Value: a.Val})
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(d, c); child != nil {
				n.appendRaw(child)
			}
		}
		return n
	default:
		return nil
	}
}

func toHTML(n *Node) *html.Node {
	switch n.Type {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.data}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.data}
	case DocumentNode:
		hn := &html.Node{Type: html.DocumentNode}
		for _, c := range n.children {
			hn.AppendChild(toHTML(c))
		}
		return hn
	}
	hn := &html.Node{
		Type:      html.ElementNode,
		Data:      n.tag,
		Namespace: shortNamespace(n.namespace),
	}
	if hn.Namespace == "" {
		hn.DataAtom = atom.Lookup([]byte(n.tag))
	}
	for _, a := range n.attrs {
		attr := html.Attribute{Key: a.Name, Val: a.Value}
		if a.Namespace != "" {
			attr.Namespace = attrPrefix(a.Namespace)
			attr.Key = strings.TrimPrefix(a.Name, attr.Namespace+":")
		}
		hn.Attr = append(hn.Attr, attr)
	}
	for _, c := range n.children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}
