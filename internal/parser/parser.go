// Package parser turns a DV6 file into a document tree. The pipeline is
// strictly forward: the file is split into logical lines, the lines are
// lifted into an indent tree, and the tree is read entry by entry. Nothing
// aborts; every problem lands in the reporter and the parse keeps going.
package parser

import (
	"fmt"
	"strings"

	"dv6/internal/ast"
	"dv6/internal/diag"
	"dv6/internal/lines"
	"dv6/internal/outline"
	"dv6/internal/source"
)

// Options configures one parse run. The zero value parses with the
// historical behavior: default flag vocabulary, warning on listed flags,
// content bodies kept verbatim, extended regions dropped.
type Options struct {
	Reporter diag.Reporter

	// KnownFlags overrides the flag vocabulary. nil keeps DefaultKnownFlags;
	// an empty non-nil slice empties the set.
	KnownFlags []string

	// FlagWarning selects which side of the flag membership check warns.
	FlagWarning FlagWarning

	// Body parses content-line bodies. nil keeps RawBody.
	Body BodyParser

	// Extended parses the trailing // region of an entry. nil drops the
	// region without diagnostics.
	Extended ExtendedParser
}

type parser struct {
	opts  Options
	body  BodyParser
	known map[string]struct{}
}

func newParser(opts Options) *parser {
	vocab := opts.KnownFlags
	if vocab == nil {
		vocab = DefaultKnownFlags
	}
	known := make(map[string]struct{}, len(vocab))
	for _, f := range vocab {
		known[f] = struct{}{}
	}
	body := opts.Body
	if body == nil {
		body = RawBody{}
	}
	return &parser{opts: opts, body: body, known: known}
}

// Parse reads one file into a document. Diagnostics go to opts.Reporter;
// the document holds every entry that survived, in source order.
func Parse(file *source.File, opts Options) *ast.Document {
	ls := lines.Split(file, lines.Options{Reporter: opts.Reporter})
	root := outline.Lift(ls)
	return newParser(opts).document(root)
}

// document walks the top level of the indent tree. Only #-headed branches
// become entries: a #-headed leaf is an error and anything else at this
// depth is not part of the format and is skipped.
func (p *parser) document(root *outline.Node) *ast.Document {
	doc := &ast.Document{}
	for _, child := range root.Children {
		title, ok := strings.CutPrefix(child.Line.Text, "#")
		if !ok {
			continue
		}
		if !child.IsBranch() {
			diag.ReportError(p.opts.Reporter, diag.WordEmpty, child.Line.Span,
				fmt.Sprintf("word %q has no content", title)).Emit()
			continue
		}
		doc.Words = append(doc.Words, p.word(title, child))
	}
	return doc
}
