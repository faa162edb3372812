package diagfmt

import (
	"encoding/json"
	"io"

	"dv6/internal/diag"
	"dv6/internal/source"
)

// LocationJSON is a file position on the wire.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the diagnostics JSON document. Errors
// and Warnings count the full list even when Max truncated it.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	f := fs.Get(span.File)

	loc := LocationJSON{
		File:      displayPath(f, fs, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

func makeDiagnosticJSON(d diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
	}

	if opts.IncludeNotes && len(d.Notes) > 0 {
		out.Notes = make([]NoteJSON, len(d.Notes))
		for j, note := range d.Notes {
			out.Notes[j] = NoteJSON{
				Message:  note.Msg,
				Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
			}
		}
	}

	if opts.IncludeFixes && len(d.Fixes) > 0 {
		out.Fixes = make([]FixJSON, 0, len(d.Fixes))
		for _, fix := range d.Fixes {
			fixJSON := FixJSON{Title: fix.Title}
			for _, edit := range fix.Edits {
				editJSON := FixEditJSON{
					Location: makeLocation(edit.Span, fs, opts.PathMode, opts.IncludePositions),
					NewText:  edit.NewText,
				}
				if opts.IncludePreviews {
					if preview, err := buildFixEditPreview(fs, edit); err == nil {
						editJSON.BeforeLines = append([]string(nil), preview.before...)
						editJSON.AfterLines = append([]string(nil), preview.after...)
					}
				}
				fixJSON.Edits = append(fixJSON.Edits, editJSON)
			}
			out.Fixes = append(out.Fixes, fixJSON)
		}
	}
	return out
}

// BuildDiagnosticsOutput shapes the JSON output without serializing it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := 0; i < maxItems; i++ {
		diagnostics = append(diagnostics, makeDiagnosticJSON(items[i], fs, opts))
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
		Errors:      len(bag.Errors()),
		Warnings:    len(bag.Warnings()),
	}
}

// JSON writes the diagnostics as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
