package ast

import (
	"encoding/xml"
	"io"
	"strings"
)

// EncodeXML writes the node as a nested XML element. This is the one
// canonical serialization of the tree: compact, attribute order preserved,
// text leaves escaped, childless nodes self-closed. Every other rendering
// (pretty trees, JSON views) is derived by walking the same structure.
func EncodeXML(w io.Writer, n *Node) error {
	e := &xmlEncoder{w: w}
	e.node(n)
	return e.err
}

// XMLString is a convenience wrapper around EncodeXML.
func XMLString(n *Node) string {
	var b strings.Builder
	// Writes into a strings.Builder cannot fail.
	_ = EncodeXML(&b, n)
	return b.String()
}

type xmlEncoder struct {
	w   io.Writer
	err error
}

func (e *xmlEncoder) str(s string) {
	if e.err == nil {
		_, e.err = io.WriteString(e.w, s)
	}
}

func (e *xmlEncoder) esc(s string) {
	if e.err == nil {
		e.err = xml.EscapeText(e.w, []byte(s))
	}
}

func (e *xmlEncoder) node(n *Node) {
	e.str("<")
	e.str(n.Name)
	for _, a := range n.Attrs {
		e.str(" ")
		e.str(a.Key)
		e.str(`="`)
		e.esc(a.Value)
		e.str(`"`)
	}
	if len(n.Children) == 0 {
		e.str("/>")
		return
	}
	e.str(">")
	for _, c := range n.Children {
		switch c := c.(type) {
		case Text:
			e.esc(string(c))
		case *Node:
			e.node(c)
		}
	}
	e.str("</")
	e.str(n.Name)
	e.str(">")
}
