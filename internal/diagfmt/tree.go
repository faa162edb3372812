package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"dv6/internal/ast"
	"dv6/internal/diag"
	"dv6/internal/source"
)

// NodeJSON mirrors one document node. Children holds strings for text
// leaves and nested NodeJSON objects for nodes.
type NodeJSON struct {
	Name     string            `json:"name"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []any             `json:"children,omitempty"`
}

// ResultJSON is the wire shape of one parsed file: the entries plus the
// split diagnostic lists.
type ResultJSON struct {
	File     string           `json:"file"`
	Words    []NodeJSON       `json:"words"`
	Errors   []DiagnosticJSON `json:"errors"`
	Warnings []DiagnosticJSON `json:"warnings"`
}

func makeNodeJSON(n *ast.Node) NodeJSON {
	out := NodeJSON{Name: n.Name}
	if len(n.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for _, a := range n.Attrs {
			out.Attrs[a.Key] = a.Value
		}
	}
	for _, c := range n.Children {
		switch c := c.(type) {
		case ast.Text:
			out.Children = append(out.Children, string(c))
		case *ast.Node:
			out.Children = append(out.Children, makeNodeJSON(c))
		}
	}
	return out
}

// BuildResultJSON shapes a parse result: entries, then errors and warnings
// pulled apart so callers can test emptiness of each list on its own.
func BuildResultJSON(doc *ast.Document, bag *diag.Bag, f *source.File, fs *source.FileSet, opts JSONOpts) ResultJSON {
	out := ResultJSON{
		File:     displayPath(f, fs, opts.PathMode),
		Words:    make([]NodeJSON, 0, len(doc.Words)),
		Errors:   make([]DiagnosticJSON, 0),
		Warnings: make([]DiagnosticJSON, 0),
	}
	for _, w := range doc.Words {
		out.Words = append(out.Words, makeNodeJSON(w))
	}
	for _, d := range bag.Errors() {
		out.Errors = append(out.Errors, makeDiagnosticJSON(d, fs, opts))
	}
	for _, d := range bag.Warnings() {
		out.Warnings = append(out.Warnings, makeDiagnosticJSON(d, fs, opts))
	}
	return out
}

// FormatResultJSON writes one parsed file as an indented JSON document.
func FormatResultJSON(w io.Writer, doc *ast.Document, bag *diag.Bag, f *source.File, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildResultJSON(doc, bag, f, fs, opts))
}

// FormatTreeXML writes each entry as one line of XML.
func FormatTreeXML(w io.Writer, doc *ast.Document) error {
	for _, word := range doc.Words {
		if err := ast.EncodeXML(w, word); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// FormatTreePretty dumps the document tree with box-drawing connectors.
func FormatTreePretty(w io.Writer, doc *ast.Document) error {
	for i, word := range doc.Words {
		fmt.Fprintf(w, "word[%d]\n", i)
		for j, c := range word.Children {
			printChild(w, c, "", j == len(word.Children)-1)
		}
	}
	return nil
}

func printChild(w io.Writer, c ast.Child, prefix string, last bool) {
	connector, childPrefix := "├─", prefix+"│  "
	if last {
		connector, childPrefix = "└─", prefix+"   "
	}

	switch c := c.(type) {
	case ast.Text:
		fmt.Fprintf(w, "%s%s %q\n", prefix, connector, string(c))
	case *ast.Node:
		fmt.Fprintf(w, "%s%s %s", prefix, connector, c.Name)
		for _, a := range c.Attrs {
			fmt.Fprintf(w, " %s=%s", a.Key, a.Value)
		}
		if text, ok := soleText(c); ok {
			fmt.Fprintf(w, ": %s\n", text)
			return
		}
		fmt.Fprintln(w)
		for j, gc := range c.Children {
			printChild(w, gc, childPrefix, j == len(c.Children)-1)
		}
	}
}

// soleText reports the text of a node whose only child is a text leaf.
func soleText(n *ast.Node) (string, bool) {
	if len(n.Children) != 1 {
		return "", false
	}
	t, ok := n.Children[0].(ast.Text)
	return string(t), ok
}
