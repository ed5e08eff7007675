package dom

import "strings"

// Namespace URIs used for element creation and namespaced attributes.
const (
	HTMLNamespace  = "http://www.w3.org/1999/xhtml"
	SVGNamespace   = "http://www.w3.org/2000/svg"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
	MathNamespace  = "http://www.w3.org/1998/Math/MathML"
)

// Document owns a tree of nodes and the observers watching it.
type Document struct {
	root      *Node
	html      *Node
	head      *Node
	body      *Node
	active    *Node
	observers map[int]func(Mutation)
	nextObs   int
}

// NewDocument creates an empty document with html, head and body elements.
func NewDocument() *Document {
	d := &Document{}
	d.root = &Node{Type: DocumentNode, doc: d}
	d.html = d.CreateElement("html")
	d.head = d.CreateElement("head")
	d.body = d.CreateElement("body")
	d.root.appendRaw(d.html)
	d.html.appendRaw(d.head)
	d.html.appendRaw(d.body)
	return d
}

// Root returns the document node.
func (d *Document) Root() *Node { return d.root }

// Body returns the body element.
func (d *Document) Body() *Node { return d.body }

// Head returns the head element.
func (d *Document) Head() *Node { return d.head }

// ActiveElement returns the focused element, or the body when nothing has focus.
func (d *Document) ActiveElement() *Node {
	if d.active != nil && d.active.IsConnected() {
		return d.active
	}
	return d.body
}

// CreateElement creates an HTML element. Tag names are lower-cased.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Type: ElementNode, doc: d, tag: strings.ToLower(tag), namespace: HTMLNamespace}
}

// CreateElementNS creates an element in the given namespace. Tag names in
// foreign namespaces keep their case.
func (d *Document) CreateElementNS(namespace, tag string) *Node {
	if namespace == "" || namespace == HTMLNamespace {
		return d.CreateElement(tag)
	}
	return &Node{Type: ElementNode, doc: d, tag: tag, namespace: namespace}
}

// CreateTextNode creates a text node.
func (d *Document) CreateTextNode(data string) *Node {
	return &Node{Type: TextNode, doc: d, data: data}
}

// CreateComment creates a comment node.
func (d *Document) CreateComment(data string) *Node {
	return &Node{Type: CommentNode, doc: d, data: data}
}

// Observe registers fn to receive every mutation of nodes owned by the
// document. The returned function removes the observer.
func (d *Document) Observe(fn func(Mutation)) func() {
	if fn == nil {
		return func() {}
	}
	if d.observers == nil {
		d.observers = make(map[int]func(Mutation))
	}
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() {
		delete(d.observers, id)
	}
}

func (d *Document) notify(m Mutation) {
	if d == nil || len(d.observers) == 0 {
		return
	}
	for i := 0; i < d.nextObs; i++ {
		if fn, ok := d.observers[i]; ok {
			fn(m)
		}
	}
}
