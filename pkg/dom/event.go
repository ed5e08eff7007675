package dom

// Listener handles an event dispatched at a node.
type Listener func(*Event)

// Event is a DOM event.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	Bubbles       bool

	stopped          bool
	defaultPrevented bool
}

// NewEvent creates a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// SetListener binds the listener for an event type, replacing any previous
// one. A nil listener removes the binding.
func (n *Node) SetListener(typ string, fn Listener) {
	if fn == nil {
		n.RemoveListener(typ)
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string]Listener)
	}
	n.listeners[typ] = fn
	n.doc.notify(Mutation{Type: MutationListener, Target: n, Name: typ})
}

// RemoveListener removes the listener for an event type.
func (n *Node) RemoveListener(typ string) {
	if _, ok := n.listeners[typ]; !ok {
		return
	}
	delete(n.listeners, typ)
	n.doc.notify(Mutation{Type: MutationListener, Target: n, Name: typ})
}

// HasListener reports whether a listener is bound for an event type.
func (n *Node) HasListener(typ string) bool {
	_, ok := n.listeners[typ]
	return ok
}

// Dispatch delivers ev to the node and, when the event bubbles, to its
// ancestors. It returns false if a listener called PreventDefault.
func (n *Node) Dispatch(ev *Event) bool {
	if ev == nil {
		return true
	}
	ev.Target = n
	for cur := n; cur != nil; cur = cur.parent {
		if fn, ok := cur.listeners[ev.Type]; ok {
			ev.CurrentTarget = cur
			fn(ev)
		}
		if ev.stopped || !ev.Bubbles {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}
