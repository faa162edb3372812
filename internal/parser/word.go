package parser

import (
	"regexp"
	"strings"

	"dv6/internal/ast"
	"dv6/internal/outline"
)

// propertyRe recognizes a property assignment. The leading letter is
// case-sensitive, so Yomi: is not a property and ends the property region.
var propertyRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*:`)

// word builds one entry. The children split into three regions in fixed
// order: properties first, then content, then an optional extended region
// opened by the first // line.
func (p *parser) word(title string, n *outline.Node) *ast.Node {
	props, contents, extended := classifyTop(n.Children)

	w := ast.New(ast.NameWord).Append(
		ast.New(ast.NameName).Append(ast.Text(title)),
		p.properties(props),
		p.contents(contents),
	)
	if p.opts.Extended != nil && len(extended) > 0 {
		w.Append(p.opts.Extended.ParseExtended(extended)...)
	}
	return w
}

// classifyTop partitions an entry's children. The property region runs up
// to the first line that is not a property assignment; from there the first
// // line opens the extended region and everything in between is content.
func classifyTop(children []*outline.Node) (props, contents, extended []*outline.Node) {
	split := len(children)
	for i, c := range children {
		if !propertyRe.MatchString(c.Line.Text) {
			split = i
			break
		}
	}
	props = children[:split]
	rest := children[split:]

	ext := len(rest)
	for i, c := range rest {
		if strings.HasPrefix(c.Line.Text, "//") {
			ext = i
			break
		}
	}
	return props, rest[:ext], rest[ext:]
}

// classifyNested is the split for nested contexts: properties then content,
// no extended region. Reserved for recursive content structures.
func classifyNested(children []*outline.Node) (props, contents []*outline.Node) {
	split := len(children)
	for i, c := range children {
		if !propertyRe.MatchString(c.Line.Text) {
			split = i
			break
		}
	}
	return children[:split], children[split:]
}
