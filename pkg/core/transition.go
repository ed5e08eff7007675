package core

import (
	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/vnode"
)

// Transition runs named enter and exit animations.
type Transition interface {
	Enter(node *dom.Node, props vnode.Props, name string)
	// Exit must call remove once the node may leave the tree.
	Exit(node *dom.Node, props vnode.Props, name string, remove func())
}

// ClassTransition marks animated nodes with CSS classes: the animation name
// and the name suffixed with "-active". The in-memory tree has no animation
// events, so exit removes the node immediately after marking it.
type ClassTransition struct{}

func (ClassTransition) Enter(node *dom.Node, _ vnode.Props, name string) {
	node.AddClass(name, name+"-active")
}

func (ClassTransition) Exit(node *dom.Node, _ vnode.Props, name string, remove func()) {
	node.AddClass(name, name+"-active")
	remove()
}
