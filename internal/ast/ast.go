// Package ast defines the document tree a parsed dictionary source turns
// into. There is exactly one node type; the name decides what a node means
// and the serialized form is isomorphic to nested XML elements.
package ast

// Child is either a nested *Node or a Text leaf.
type Child interface {
	isChild()
}

// Text is a raw string leaf.
type Text string

func (Text) isChild() {}

// Attr is one attribute on a node. Attributes keep insertion order so
// serialization stays deterministic.
type Attr struct {
	Key   string
	Value string
}

// Node is the single document node type. Name comes from the fixed
// vocabulary in names.go. A word node owns exactly one name, one properties
// and one contents child, in that order.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []Child
}

func (*Node) isChild() {}

// New creates a node with the given name.
func New(name string) *Node {
	return &Node{Name: name}
}

// WithAttr appends an attribute and returns the node for chaining.
func (n *Node) WithAttr(key, value string) *Node {
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
	return n
}

// Append adds children and returns the node for chaining.
func (n *Node) Append(children ...Child) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first child node with the given name, or nil.
func (n *Node) Find(name string) *Node {
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok && child.Name == name {
			return child
		}
	}
	return nil
}

// FindAll returns every child node with the given name.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok && child.Name == name {
			out = append(out, child)
		}
	}
	return out
}

// TextContent concatenates the direct Text children.
func (n *Node) TextContent() string {
	var out string
	for _, c := range n.Children {
		if t, ok := c.(Text); ok {
			out += string(t)
		}
	}
	return out
}

// Document is the ordered sequence of word nodes one parse produced.
type Document struct {
	Words []*Node
}

// Equal reports deep structural equality: same names, attributes in the same
// order, and children of the same kinds in the same order.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i] != b.Attrs[i] {
			return false
		}
	}
	for i := range a.Children {
		at, aIsText := a.Children[i].(Text)
		bt, bIsText := b.Children[i].(Text)
		if aIsText != bIsText {
			return false
		}
		if aIsText {
			if at != bt {
				return false
			}
			continue
		}
		if !Equal(a.Children[i].(*Node), b.Children[i].(*Node)) {
			return false
		}
	}
	return true
}

// EqualDocuments reports structural equality of two word sequences.
func EqualDocuments(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Words) != len(b.Words) {
		return false
	}
	for i := range a.Words {
		if !Equal(a.Words[i], b.Words[i]) {
			return false
		}
	}
	return true
}
