package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"dv6/internal/lines"
	"dv6/internal/source"
)

// LineOutput is one logical line on the wire. End is present only when the
// line was merged from a continuation run.
type LineOutput struct {
	Start  uint32      `json:"start"`
	End    uint32      `json:"end,omitempty"`
	Indent int         `json:"indent"`
	Text   string      `json:"text"`
	Span   source.Span `json:"span"`
}

// FormatLinesPretty dumps logical lines in a human-readable form.
func FormatLinesPretty(w io.Writer, ls []lines.Line, fs *source.FileSet) error {
	for i, l := range ls {
		start, end := fs.Resolve(l.Span)

		fmt.Fprintf(w, "%3d: ", i+1)
		if l.Continued() {
			fmt.Fprintf(w, "lines %d-%d", l.Start, l.End)
		} else {
			fmt.Fprintf(w, "line %d", l.Start)
		}
		fmt.Fprintf(w, " indent %d %q at %d:%d-%d:%d\n",
			l.Indent, l.Text, start.Line, start.Col, end.Line, end.Col)
	}
	return nil
}

// FormatLinesJSON dumps logical lines as an indented JSON array.
func FormatLinesJSON(w io.Writer, ls []lines.Line) error {
	output := make([]LineOutput, 0, len(ls))
	for _, l := range ls {
		out := LineOutput{
			Start:  l.Start,
			Indent: l.Indent,
			Text:   l.Text,
			Span:   l.Span,
		}
		if l.Continued() {
			out.End = l.End
		}
		output = append(output, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
