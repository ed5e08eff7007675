// Package vnode defines the immutable descriptions produced by render
// functions and the definitions of the widgets that produce them.
//
// Descriptions form a closed sum type: every Node reports one Kind and the
// reconciler switches on it. A nil Node, a nil pointer variant or a value of
// an unknown shape is treated as Empty.
package vnode

import "github.com/go-drift/vdom/pkg/dom"

// Kind tags a description variant.
type Kind int

const (
	// KindEmpty contributes nothing to the output.
	KindEmpty Kind = iota
	// KindText is a text node.
	KindText
	// KindElement is an element created and owned by the engine.
	KindElement
	// KindAdopted wraps an existing output node.
	KindAdopted
	// KindComponent is a widget slot.
	KindComponent
	// KindSequence is spliced one level into its parent's child list.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindElement:
		return "element"
	case KindAdopted:
		return "adopted"
	case KindComponent:
		return "component"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Node is a description. The set of implementations is closed.
type Node interface {
	Kind() Kind
	isNode()
}

// Text describes a text node.
type Text string

func (Text) Kind() Kind { return KindText }
func (Text) isNode()    {}

// Empty describes nothing. It keeps positions in a child list stable
// without producing output.
type Empty struct{}

func (Empty) Kind() Kind { return KindEmpty }
func (Empty) isNode()    {}

// Sequence is a list of nodes that is flattened into the surrounding list.
type Sequence []Node

func (Sequence) Kind() Kind { return KindSequence }
func (Sequence) isNode()    {}

// DiffPolicy selects how element properties are compared between commits.
type DiffPolicy int

const (
	// DefaultDiff uses FullDiff for elements and LiveDiff for adopted nodes.
	DefaultDiff DiffPolicy = iota
	// FullDiff compares against the previously applied description.
	FullDiff
	// LiveDiff compares against the current state of the live node.
	LiveDiff
	// AlwaysSet writes every property on every commit.
	AlwaysSet
)

func (p DiffPolicy) String() string {
	switch p {
	case FullDiff:
		return "full-vdom-diff"
	case LiveDiff:
		return "live-dom-diff"
	case AlwaysSet:
		return "always-set"
	default:
		return "default"
	}
}

// Element describes an element created by the engine.
type Element struct {
	Tag string
	// Key distinguishes siblings. nil means no key.
	Key   any
	Props Props
	// Deferred is invoked at commit and once more after the next frame.
	// Its results are merged under Props.
	Deferred DeferredProps
	Attrs    map[string]string
	On       map[string]dom.Listener
	Children []Node
	// Text renders as a text node when Tag is empty, and as a leading text
	// child otherwise.
	Text   string
	Policy DiffPolicy
	// Enter and Exit are nil, a transition name, an EnterFunc or an ExitFunc.
	Enter Animation
	Exit  Animation
}

func (*Element) Kind() Kind { return KindElement }
func (*Element) isNode()    {}

// Adopted wraps an existing output node. Its identity is the node itself.
type Adopted struct {
	Node     *dom.Node
	Props    Props
	Deferred DeferredProps
	Attrs    map[string]string
	On       map[string]dom.Listener
	Children []Node
	Policy   DiffPolicy
	// OnAttach runs each time the node is freshly inserted.
	OnAttach func()
}

func (*Adopted) Kind() Kind { return KindAdopted }
func (*Adopted) isNode()    {}

// Component describes a widget slot.
type Component struct {
	Ref      Ref
	Key      any
	Props    Props
	Children []Node
}

func (*Component) Kind() Kind { return KindComponent }
func (*Component) isNode()    {}

// KindOf returns the kind of n, mapping nil and nil pointer variants to
// KindEmpty.
func KindOf(n Node) Kind {
	switch v := n.(type) {
	case nil:
		return KindEmpty
	case *Element:
		if v == nil {
			return KindEmpty
		}
	case *Adopted:
		if v == nil || v.Node == nil {
			return KindEmpty
		}
	case *Component:
		if v == nil || v.Ref == nil {
			return KindEmpty
		}
	}
	return n.Kind()
}

// KeyOf returns the key of a keyed variant, or nil.
func KeyOf(n Node) any {
	switch v := n.(type) {
	case *Element:
		if v != nil {
			return v.Key
		}
	case *Component:
		if v != nil {
			return v.Key
		}
	}
	return nil
}
