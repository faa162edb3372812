package parser

import (
	"regexp"

	"dv6/internal/ast"
	"dv6/internal/diag"
	"dv6/internal/outline"
)

// BodyParser is the extension point for inline content markup. It receives
// the marker and the body of one well-formed content line and returns the
// children to append under contents.
type BodyParser interface {
	ParseBody(marker, body string) []ast.Child
}

// RawBody keeps the line as it was written: one text child, marker
// included, no inline markup interpreted.
type RawBody struct{}

func (RawBody) ParseBody(marker, body string) []ast.Child {
	return []ast.Child{ast.Text(marker + " " + body)}
}

// ExtendedParser is the extension point for the trailing // region of an
// entry. Returned children are appended to the word after contents.
type ExtendedParser interface {
	ParseExtended(nodes []*outline.Node) []ast.Child
}

var contentLineRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*) (.*)$`)

// contents reads the content region into one contents node. Lines nested
// under a content line are not read yet; the line itself still counts.
func (p *parser) contents(nodes []*outline.Node) *ast.Node {
	contents := ast.New(ast.NameContents)
	for _, n := range nodes {
		m := contentLineRe.FindStringSubmatch(n.Line.Text)
		if m == nil {
			diag.ReportError(p.opts.Reporter, diag.ContentMalformed, n.Line.Span,
				"content line must be (marker)(space)(body)").Emit()
			continue
		}
		contents.Append(p.body.ParseBody(m[1], m[2])...)
	}
	return contents
}
