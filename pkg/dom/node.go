package dom

import (
	"errors"
	"strings"
)

// NodeType identifies the kind of a Node.
type NodeType int

const (
	// ElementNode is an element.
	ElementNode NodeType = iota
	// TextNode is a text node.
	TextNode
	// CommentNode is a comment.
	CommentNode
	// DocumentNode is the root of a Document.
	DocumentNode
)

var (
	// ErrHierarchy is returned when an insertion would create a cycle or
	// attach a child to a node that cannot hold children.
	ErrHierarchy = errors.New("dom: hierarchy request error")
	// ErrNotFound is returned when a reference node is not a child of the target.
	ErrNotFound = errors.New("dom: node is not a child of this node")
	// ErrInvalidCharacter is returned for malformed attribute names.
	ErrInvalidCharacter = errors.New("dom: invalid character in name")
)

// Node is a node of the live output tree.
//
// Node is not safe for concurrent use; all access is expected to happen on
// the goroutine that commits render passes.
type Node struct {
	Type NodeType

	doc       *Document
	parent    *Node
	children  []*Node
	tag       string
	namespace string
	data      string

	attrs     []Attr
	props     map[string]any
	listeners map[string]Listener

	value    *string
	checked  *bool
	selected *bool
}

// Document returns the owner document.
func (n *Node) Document() *Document { return n.doc }

// Tag returns the tag name of an element, or "" for other node types.
func (n *Node) Tag() string { return n.tag }

// Namespace returns the namespace URI of an element.
func (n *Node) Namespace() string { return n.namespace }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at index i, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// ElementChildren returns the element children, skipping text and comments.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.Child(0) }

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	return n.parent.Child(i + 1)
}

// Data returns the text of a text or comment node.
func (n *Node) Data() string { return n.data }

// SetData replaces the text of a text or comment node.
func (n *Node) SetData(data string) {
	n.data = data
	n.doc.notify(Mutation{Type: MutationText, Target: n})
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.data
	}
	var sb strings.Builder
	n.walk(func(c *Node) {
		if c.Type == TextNode {
			sb.WriteString(c.data)
		}
	})
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n.Type == TextNode || n.Type == CommentNode {
		n.SetData(text)
		return
	}
	n.removeAllChildren()
	if text != "" {
		n.appendNotify(n.doc.CreateTextNode(text))
	}
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// IsConnected reports whether the node is attached to its document.
func (n *Node) IsConnected() bool {
	return n.doc != nil && n.doc.root.Contains(n)
}

// AppendChild appends child, detaching it from its previous parent first.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if child == nil {
		return ErrHierarchy
	}
	if n.Type == TextNode || n.Type == CommentNode || child.Contains(n) {
		return ErrHierarchy
	}
	if ref != nil && ref.parent != n {
		return ErrNotFound
	}
	if child == ref {
		return nil
	}
	if child.parent != nil {
		child.parent.removeRaw(child)
	}
	if ref == nil {
		n.appendRaw(child)
	} else {
		i := n.indexOf(ref)
		n.children = append(n.children, nil)
		copy(n.children[i+1:], n.children[i:])
		n.children[i] = child
		child.parent = n
	}
	n.doc.notify(Mutation{Type: MutationChildList, Target: n, Added: child})
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		return ErrNotFound
	}
	n.removeRaw(child)
	n.doc.notify(Mutation{Type: MutationChildList, Target: n, Removed: child})
	return nil
}

// Remove detaches the node from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		_ = n.parent.RemoveChild(n)
	}
}

func (n *Node) appendRaw(child *Node) {
	n.children = append(n.children, child)
	child.parent = n
}

func (n *Node) appendNotify(child *Node) {
	n.appendRaw(child)
	n.doc.notify(Mutation{Type: MutationChildList, Target: n, Added: child})
}

func (n *Node) removeRaw(child *Node) {
	i := n.indexOf(child)
	if i < 0 {
		return
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	child.parent = nil
}

func (n *Node) removeAllChildren() {
	for len(n.children) > 0 {
		_ = n.RemoveChild(n.children[len(n.children)-1])
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// walk visits every descendant in document order.
func (n *Node) walk(fn func(*Node)) {
	for _, c := range n.children {
		fn(c)
		c.walk(fn)
	}
}

// QueryTag returns descendant elements with the given tag, in document order.
func (n *Node) QueryTag(tag string) []*Node {
	var out []*Node
	n.walk(func(c *Node) {
		if c.Type == ElementNode && strings.EqualFold(c.tag, tag) {
			out = append(out, c)
		}
	})
	return out
}

// ByID returns the first descendant element whose id attribute equals id.
func (n *Node) ByID(id string) *Node {
	var found *Node
	n.walk(func(c *Node) {
		if found == nil && c.Type == ElementNode {
			if v, ok := c.Attribute("id"); ok && v == id {
				found = c
			}
		}
	})
	return found
}

func (n *Node) String() string {
	switch n.Type {
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	case DocumentNode:
		return "#document"
	default:
		return "<" + n.tag + ">"
	}
}
