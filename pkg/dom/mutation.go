package dom

// MutationType classifies a Mutation.
type MutationType int

const (
	// MutationChildList reports an insertion or removal of a child.
	MutationChildList MutationType = iota
	// MutationAttribute reports an attribute write or removal.
	MutationAttribute
	// MutationProperty reports a property write.
	MutationProperty
	// MutationText reports a change of text data.
	MutationText
	// MutationFocus reports a focus call.
	MutationFocus
	// MutationBlur reports a blur call.
	MutationBlur
	// MutationClick reports a click call.
	MutationClick
	// MutationScroll reports a scrollIntoView call.
	MutationScroll
	// MutationListener reports an event listener change.
	MutationListener
)

func (t MutationType) String() string {
	switch t {
	case MutationChildList:
		return "childList"
	case MutationAttribute:
		return "attribute"
	case MutationProperty:
		return "property"
	case MutationText:
		return "text"
	case MutationFocus:
		return "focus"
	case MutationBlur:
		return "blur"
	case MutationClick:
		return "click"
	case MutationScroll:
		return "scrollIntoView"
	case MutationListener:
		return "listener"
	default:
		return "unknown"
	}
}

// Mutation describes one write to the tree.
type Mutation struct {
	Type   MutationType
	Target *Node
	// Name is the attribute, property or event name, if any.
	Name string
	// Added and Removed are set for MutationChildList.
	Added   *Node
	Removed *Node
}
