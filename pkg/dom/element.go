package dom

import (
	"fmt"
	"strconv"
	"strings"
)

// Attr is an attribute of an element. Name is the qualified name.
type Attr struct {
	Namespace string
	Name      string
	Value     string
}

type propKind int

const (
	propString propKind = iota
	propBool
	propInt
)

type reflectedProp struct {
	attr string
	kind propKind
}

// reflected lists DOM properties backed by an attribute.
var reflected = map[string]reflectedProp{
	"id":          {"id", propString},
	"className":   {"class", propString},
	"title":       {"title", propString},
	"lang":        {"lang", propString},
	"dir":         {"dir", propString},
	"name":        {"name", propString},
	"type":        {"type", propString},
	"href":        {"href", propString},
	"src":         {"src", propString},
	"alt":         {"alt", propString},
	"placeholder": {"placeholder", propString},
	"htmlFor":     {"for", propString},
	"tabIndex":    {"tabindex", propInt},
	"disabled":    {"disabled", propBool},
	"hidden":      {"hidden", propBool},
	"readOnly":    {"readonly", propBool},
	"required":    {"required", propBool},
	"multiple":    {"multiple", propBool},
}

// live lists properties with state that is not reflected to attributes.
var live = map[string]bool{
	"value":       true,
	"checked":     true,
	"selected":    true,
	"innerHTML":   true,
	"textContent": true,
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, " \t\n\f\r\"'>/=<")
}

// Attributes returns a copy of the attribute list in insertion order.
func (n *Node) Attributes() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Attribute returns the value of a non-namespaced attribute.
func (n *Node) Attribute(name string) (string, bool) {
	return n.AttributeNS("", name)
}

// AttributeNS returns the value of an attribute in namespace.
func (n *Node) AttributeNS(namespace, name string) (string, bool) {
	if i := n.attrIndex(namespace, name); i >= 0 {
		return n.attrs[i].Value, true
	}
	return "", false
}

// HasAttribute reports whether a non-namespaced attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// SetAttribute sets a non-namespaced attribute.
func (n *Node) SetAttribute(name, value string) error {
	return n.SetAttributeNS("", name, value)
}

// SetAttributeNS sets an attribute in namespace.
func (n *Node) SetAttributeNS(namespace, name, value string) error {
	if n.Type != ElementNode {
		return ErrHierarchy
	}
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCharacter, name)
	}
	if n.namespace == HTMLNamespace && namespace == "" {
		name = strings.ToLower(name)
	}
	if i := n.attrIndex(namespace, name); i >= 0 {
		n.attrs[i].Value = value
	} else {
		n.attrs = append(n.attrs, Attr{Namespace: namespace, Name: name, Value: value})
	}
	n.doc.notify(Mutation{Type: MutationAttribute, Target: n, Name: name})
	return nil
}

// RemoveAttribute removes a non-namespaced attribute.
func (n *Node) RemoveAttribute(name string) {
	n.RemoveAttributeNS("", name)
}

// RemoveAttributeNS removes an attribute in namespace.
func (n *Node) RemoveAttributeNS(namespace, name string) {
	i := n.attrIndex(namespace, name)
	if i < 0 {
		return
	}
	n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
	n.doc.notify(Mutation{Type: MutationAttribute, Target: n, Name: name})
}

func (n *Node) attrIndex(namespace, name string) int {
	if n.namespace == HTMLNamespace && namespace == "" {
		name = strings.ToLower(name)
	}
	for i, a := range n.attrs {
		if a.Namespace == namespace && a.Name == name {
			return i
		}
	}
	return -1
}

// HasProperty reports whether name is a DOM property of the element,
// either built in or previously assigned.
func (n *Node) HasProperty(name string) bool {
	if n.namespace != HTMLNamespace {
		_, ok := n.props[name]
		return ok
	}
	if _, ok := reflected[name]; ok {
		return true
	}
	if live[name] {
		return true
	}
	_, ok := n.props[name]
	return ok
}

// Property returns the current value of a DOM property.
func (n *Node) Property(name string) (any, bool) {
	switch name {
	case "value":
		return n.Value(), true
	case "checked":
		return n.Checked(), true
	case "selected":
		return n.Selected(), true
	case "innerHTML":
		return n.InnerHTML(), true
	case "textContent":
		return n.TextContent(), true
	}
	if r, ok := reflected[name]; ok && n.namespace == HTMLNamespace {
		v, present := n.Attribute(r.attr)
		switch r.kind {
		case propBool:
			return present, true
		case propInt:
			i, err := strconv.Atoi(v)
			if err != nil {
				return 0, true
			}
			return i, true
		default:
			return v, true
		}
	}
	v, ok := n.props[name]
	return v, ok
}

// SetProperty assigns a DOM property. A nil value resets it.
func (n *Node) SetProperty(name string, value any) error {
	if n.Type != ElementNode {
		return ErrHierarchy
	}
	switch name {
	case "value":
		n.SetValue(stringOf(value))
		return nil
	case "checked":
		n.SetChecked(truthy(value))
		return nil
	case "selected":
		n.SetSelected(truthy(value))
		return nil
	case "innerHTML":
		return n.SetInnerHTML(stringOf(value))
	case "textContent":
		n.SetTextContent(stringOf(value))
		return nil
	}
	if r, ok := reflected[name]; ok && n.namespace == HTMLNamespace {
		return n.setReflected(r, value)
	}
	if value == nil {
		if _, ok := n.props[name]; !ok {
			return nil
		}
		delete(n.props, name)
	} else {
		if n.props == nil {
			n.props = make(map[string]any)
		}
		n.props[name] = value
	}
	n.doc.notify(Mutation{Type: MutationProperty, Target: n, Name: name})
	return nil
}

func (n *Node) setReflected(r reflectedProp, value any) error {
	if value == nil {
		n.RemoveAttribute(r.attr)
		return nil
	}
	switch r.kind {
	case propBool:
		if truthy(value) {
			return n.SetAttribute(r.attr, "")
		}
		n.RemoveAttribute(r.attr)
		return nil
	default:
		return n.SetAttribute(r.attr, stringOf(value))
	}
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	default:
		return true
	}
}

// ClassList returns the classes of the element in attribute order.
func (n *Node) ClassList() []string {
	v, _ := n.Attribute("class")
	return strings.Fields(v)
}

// HasClass reports whether the element carries class.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.ClassList() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds classes that are not present yet.
func (n *Node) AddClass(classes ...string) {
	list := n.ClassList()
	changed := false
	for _, c := range classes {
		if c == "" || contains(list, c) {
			continue
		}
		list = append(list, c)
		changed = true
	}
	if changed {
		_ = n.SetAttribute("class", strings.Join(list, " "))
	}
}

// RemoveClass removes classes. The class attribute is dropped when empty.
func (n *Node) RemoveClass(classes ...string) {
	list := n.ClassList()
	out := list[:0]
	for _, c := range list {
		if !contains(classes, c) {
			out = append(out, c)
		}
	}
	if len(out) == len(n.ClassList()) {
		return
	}
	if len(out) == 0 {
		_ = n.SetAttribute("class", "")
		return
	}
	_ = n.SetAttribute("class", strings.Join(out, " "))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Style returns the value of an inline style declaration.
func (n *Node) Style(name string) string {
	for _, d := range n.styleDecls() {
		if d[0] == name {
			return d[1]
		}
	}
	return ""
}

// Styles returns the inline style declarations keyed by property name.
func (n *Node) Styles() map[string]string {
	out := make(map[string]string)
	for _, d := range n.styleDecls() {
		out[d[0]] = d[1]
	}
	return out
}

// SetStyle sets an inline style declaration. An empty value removes it.
func (n *Node) SetStyle(name, value string) {
	decls := n.styleDecls()
	found := false
	out := decls[:0]
	for _, d := range decls {
		if d[0] == name {
			found = true
			if value == "" {
				continue
			}
			d[1] = value
		}
		out = append(out, d)
	}
	if !found && value != "" {
		out = append(out, [2]string{name, value})
	}
	n.writeStyle(out)
}

// RemoveStyle removes an inline style declaration.
func (n *Node) RemoveStyle(name string) {
	n.SetStyle(name, "")
}

func (n *Node) styleDecls() [][2]string {
	v, _ := n.Attribute("style")
	var out [][2]string
	for _, part := range strings.Split(v, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		out = append(out, [2]string{name, value})
	}
	return out
}

func (n *Node) writeStyle(decls [][2]string) {
	if len(decls) == 0 {
		n.RemoveAttribute("style")
		return
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d[0] + ": " + d[1]
	}
	_ = n.SetAttribute("style", strings.Join(parts, "; ")+";")
}

// Value returns the current value of a form control. Inputs and textareas
// return their live value, falling back to the default from markup; a
// select returns the value of its first selected option.
func (n *Node) Value() string {
	switch n.tag {
	case "select":
		options := n.QueryTag("option")
		for _, o := range options {
			if o.Selected() {
				return o.Value()
			}
		}
		if len(options) > 0 && !n.HasAttribute("multiple") {
			return options[0].Value()
		}
		return ""
	case "option":
		if v, ok := n.Attribute("value"); ok {
			return v
		}
		return strings.TrimSpace(n.TextContent())
	case "textarea":
		if n.value != nil {
			return *n.value
		}
		return n.TextContent()
	default:
		if n.value != nil {
			return *n.value
		}
		v, _ := n.Attribute("value")
		return v
	}
}

// SetValue assigns the value of a form control. On a select it selects the
// option with a matching value.
func (n *Node) SetValue(value string) {
	switch n.tag {
	case "select":
		for _, o := range n.QueryTag("option") {
			o.setSelectedRaw(o.Value() == value)
		}
	case "option":
		_ = n.SetAttribute("value", value)
		return
	default:
		n.value = &value
	}
	n.doc.notify(Mutation{Type: MutationProperty, Target: n, Name: "value"})
}

// HasDirtyValue reports whether the live value was written since the node
// was created or parsed.
func (n *Node) HasDirtyValue() bool {
	return n.value != nil
}

// Checked returns the checkedness of an input.
func (n *Node) Checked() bool {
	if n.checked != nil {
		return *n.checked
	}
	return n.HasAttribute("checked")
}

// SetChecked sets the checkedness of an input.
func (n *Node) SetChecked(checked bool) {
	n.checked = &checked
	n.doc.notify(Mutation{Type: MutationProperty, Target: n, Name: "checked"})
}

// Selected returns the selectedness of an option.
func (n *Node) Selected() bool {
	if n.selected != nil {
		return *n.selected
	}
	return n.HasAttribute("selected")
}

// SetSelected sets the selectedness of an option. Selecting an option of a
// single-select deselects its siblings.
func (n *Node) SetSelected(selected bool) {
	if selected {
		if sel := n.owningSelect(); sel != nil && !sel.HasAttribute("multiple") {
			for _, o := range sel.QueryTag("option") {
				if o != n {
					o.setSelectedRaw(false)
				}
			}
		}
	}
	n.setSelectedRaw(selected)
	n.doc.notify(Mutation{Type: MutationProperty, Target: n, Name: "selected"})
}

func (n *Node) setSelectedRaw(selected bool) {
	n.selected = &selected
}

func (n *Node) owningSelect() *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.tag == "select" {
			return p
		}
	}
	return nil
}

// Focus gives the element focus.
func (n *Node) Focus() {
	if n.doc == nil {
		return
	}
	n.doc.active = n
	n.doc.notify(Mutation{Type: MutationFocus, Target: n})
}

// Blur removes focus from the element if it has it.
func (n *Node) Blur() {
	if n.doc == nil {
		return
	}
	if n.doc.active == n {
		n.doc.active = nil
	}
	n.doc.notify(Mutation{Type: MutationBlur, Target: n})
}

// Click dispatches a click event at the element.
func (n *Node) Click() {
	n.doc.notify(Mutation{Type: MutationClick, Target: n})
	n.Dispatch(NewEvent("click"))
}

// ScrollIntoView records a request to scroll the element into view.
func (n *Node) ScrollIntoView() {
	n.doc.notify(Mutation{Type: MutationScroll, Target: n})
}
