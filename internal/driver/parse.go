// Package driver wires the parse pipeline together for the CLI: it owns
// file loading, diagnostic bags and the fan-out over directories, so the
// commands only deal with results.
package driver

import (
	"dv6/internal/ast"
	"dv6/internal/diag"
	"dv6/internal/parser"
	"dv6/internal/source"
)

// DefaultMaxDiagnostics caps the bag when Options.MaxDiagnostics is unset.
const DefaultMaxDiagnostics = 100

// Options configures a driver run. The zero value uses the default flag
// vocabulary, the historical warning polarity and the default diagnostics cap.
type Options struct {
	MaxDiagnostics int

	// KnownFlags and FlagWarning are handed to the parser unchanged.
	KnownFlags  []string
	FlagWarning parser.FlagWarning
}

func (o Options) limit() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return DefaultMaxDiagnostics
}

func (o Options) parserOptions(bag *diag.Bag) parser.Options {
	return parser.Options{
		Reporter:    &diag.BagReporter{Bag: bag},
		KnownFlags:  o.KnownFlags,
		FlagWarning: o.FlagWarning,
	}
}

// ParseResult bundles everything one parsed file produces.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Doc     *ast.Document
	Bag     *diag.Bag
}

// ParseFile loads one dictionary file from disk and parses it.
func ParseFile(path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseInto(fs, id, opts), nil
}

// ParseText parses in-memory content under the given name. Content is
// normalized the same way Load normalizes disk files, so stdin behaves
// like a file.
func ParseText(name string, content []byte, opts Options) *ParseResult {
	return parseContent(name, content, source.FileVirtual, opts)
}

// ParseBytes parses already-read disk content under its path. The check
// pipeline reads files itself to probe the cache before parsing.
func ParseBytes(path string, content []byte, opts Options) *ParseResult {
	return parseContent(path, content, 0, opts)
}

func parseContent(name string, content []byte, extra source.FileFlags, opts Options) *ParseResult {
	fs := source.NewFileSet()
	content, flags := source.Normalize(content)
	id := fs.Add(name, content, flags|extra)
	return parseInto(fs, id, opts)
}

func parseInto(fs *source.FileSet, id source.FileID, opts Options) *ParseResult {
	file := fs.Get(id)
	bag := diag.NewBag(opts.limit())
	doc := parser.Parse(file, opts.parserOptions(bag))
	return &ParseResult{FileSet: fs, File: file, Doc: doc, Bag: bag}
}
