package core

import (
	"fmt"
	"strings"

	"github.com/go-drift/vdom/pkg/dom"
)

// Adapter performs the output mutations of a commit.
type Adapter interface {
	CreateNode(tag, namespace string) (*dom.Node, error)
	CreateText(data string) *dom.Node
	SetText(node *dom.Node, data string)
	// SetProperty writes a property, or an attribute when the node has no
	// property of that name and the value is a string.
	SetProperty(node *dom.Node, name string, value any) error
	RemoveProperty(node *dom.Node, name string) error
	SetAttribute(node *dom.Node, name, value string) error
	RemoveAttribute(node *dom.Node, name string)
	ReadAttribute(node *dom.Node, name string) (string, bool)
	InsertBefore(parent, node, ref *dom.Node) error
	RemoveNode(node *dom.Node) error
	// ReadCurrentValue returns the live value of a property or attribute.
	ReadCurrentValue(node *dom.Node, name string) (any, bool)
}

// DOMAdapter writes to a dom.Document.
type DOMAdapter struct {
	Document *dom.Document
}

var _ Adapter = (*DOMAdapter)(nil)

// NewDOMAdapter returns an adapter for doc.
func NewDOMAdapter(doc *dom.Document) *DOMAdapter {
	return &DOMAdapter{Document: doc}
}

func (a *DOMAdapter) CreateNode(tag, namespace string) (*dom.Node, error) {
	if tag == "" {
		return nil, fmt.Errorf("empty tag")
	}
	return a.Document.CreateElementNS(namespace, tag), nil
}

func (a *DOMAdapter) CreateText(data string) *dom.Node {
	return a.Document.CreateTextNode(data)
}

func (a *DOMAdapter) SetText(node *dom.Node, data string) {
	node.SetData(data)
}

func isSVG(node *dom.Node) bool {
	return node.Namespace() == dom.SVGNamespace
}

func attrNamespace(name string) string {
	if strings.HasPrefix(name, "xlink:") {
		return dom.XLinkNamespace
	}
	return ""
}

func (a *DOMAdapter) SetProperty(node *dom.Node, name string, value any) error {
	if value == nil {
		return a.RemoveProperty(node, name)
	}
	if isSVG(node) {
		return node.SetAttributeNS(attrNamespace(name), name, propString(value))
	}
	if s, ok := value.(string); ok && !node.HasProperty(name) {
		return node.SetAttribute(name, s)
	}
	return node.SetProperty(name, value)
}

func (a *DOMAdapter) RemoveProperty(node *dom.Node, name string) error {
	if isSVG(node) {
		node.RemoveAttributeNS(attrNamespace(name), name)
		return nil
	}
	if node.HasProperty(name) {
		return node.SetProperty(name, nil)
	}
	node.RemoveAttribute(name)
	return nil
}

func (a *DOMAdapter) SetAttribute(node *dom.Node, name, value string) error {
	return node.SetAttributeNS(attrNamespace(name), name, value)
}

func (a *DOMAdapter) RemoveAttribute(node *dom.Node, name string) {
	node.RemoveAttributeNS(attrNamespace(name), name)
}

func (a *DOMAdapter) ReadAttribute(node *dom.Node, name string) (string, bool) {
	return node.AttributeNS(attrNamespace(name), name)
}

func (a *DOMAdapter) InsertBefore(parent, node, ref *dom.Node) error {
	return parent.InsertBefore(node, ref)
}

func (a *DOMAdapter) RemoveNode(node *dom.Node) error {
	if node.Parent() == nil {
		return nil
	}
	return node.Parent().RemoveChild(node)
}

func (a *DOMAdapter) ReadCurrentValue(node *dom.Node, name string) (any, bool) {
	if isSVG(node) {
		return a.ReadAttribute(node, name)
	}
	if node.HasProperty(name) {
		return node.Property(name)
	}
	return node.Attribute(name)
}
