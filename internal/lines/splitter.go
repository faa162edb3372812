package lines

import (
	"fmt"
	"strings"

	"dv6/internal/diag"
	"dv6/internal/source"
)

// Options configures a Splitter. A nil Reporter drops diagnostics while
// splitting continues; every stage of the pipeline reports into the same
// sink, the splitter has no error channel of its own.
type Options struct {
	Reporter diag.Reporter
}

// Splitter turns a file into logical lines: indent counted, trailing-
// backslash continuations merged, backslash pairs left verbatim.
type Splitter struct {
	file   *source.File
	cursor Cursor
	opts   Options

	physNo       uint32 // number of the last physical line read, 1-based
	prevIndent   int    // indent of the last completed logical line, -1 before the first
	emittedFinal bool
	look         *Line
}

func New(file *source.File, opts Options) *Splitter {
	return &Splitter{
		file:       file,
		cursor:     NewCursor(file),
		opts:       opts,
		prevIndent: -1,
	}
}

// physical is one raw line: indent stripped, newline excluded.
type physical struct {
	no      uint32
	indent  int
	content string
	span    source.Span // tabs + content
	tabs    source.Span // the leading tab run only
}

// readPhysical scans the next physical line. Mirroring a split on newlines,
// a file always holds count(\n)+1 physical lines: a trailing newline opens
// one final empty line and the empty file is a single empty line.
func (s *Splitter) readPhysical() (physical, bool) {
	if s.cursor.EOF() {
		if s.emittedFinal {
			return physical{}, false
		}
		s.emittedFinal = true
		s.physNo++
		m := s.cursor.Mark()
		return physical{
			no:   s.physNo,
			span: s.cursor.SpanFrom(m),
			tabs: s.cursor.SpanFrom(m),
		}, true
	}

	s.physNo++
	lineStart := s.cursor.Mark()
	indent := 0
	for s.cursor.Eat('\t') {
		indent++
	}
	tabs := s.cursor.SpanFrom(lineStart)

	contentStart := s.cursor.Mark()
	for !s.cursor.EOF() && s.cursor.Peek() != '\n' {
		s.cursor.Bump()
	}
	content := string(s.file.Content[uint32(contentStart):s.cursor.Off])
	span := s.cursor.SpanFrom(lineStart)

	if !s.cursor.Eat('\n') {
		// No trailing newline: this was the final line.
		s.emittedFinal = true
	}

	return physical{no: s.physNo, indent: indent, content: content, span: span, tabs: tabs}, true
}

// Next returns the next logical line, merging continuation runs.
func (s *Splitter) Next() (Line, bool) {
	if s.look != nil {
		l := *s.look
		s.look = nil
		return l, true
	}

	p, ok := s.readPhysical()
	if !ok {
		return Line{}, false
	}

	// The check needs a previous completed logical line; the first line of
	// a document may sit at any level.
	if s.prevIndent >= 0 && p.indent > s.prevIndent+1 {
		diag.ReportError(s.opts.Reporter, diag.LinIndentJump, p.span,
			"indent rises by two or more levels").
			WithNote(p.span, fmt.Sprintf("level %d follows level %d", p.indent, s.prevIndent)).
			Emit()
	}

	line := Line{Start: p.no, End: p.no, Indent: p.indent, Span: p.span}

	var text strings.Builder
	chunk, cont := stripContinuation(p.content)
	text.WriteString(chunk)

	for cont {
		c, ok := s.readPhysical()
		if !ok {
			// The file ended right after a continuation marker; the run
			// closes with what it has.
			break
		}
		if c.indent != line.Indent {
			diag.ReportError(s.opts.Reporter, diag.LinContinuationIndent, c.span,
				fmt.Sprintf("continuation indent %d does not match level %d of the continued line", c.indent, line.Indent)).
				WithFix("align continuation indent", diag.FixEdit{
					Span:    c.tabs,
					NewText: strings.Repeat("\t", line.Indent),
				}).
				Emit()
			// The mismatched indent is ignored, the text still counts.
		}
		line.End = c.no
		line.Span = line.Span.Cover(c.span)
		chunk, cont = stripContinuation(c.content)
		text.WriteString(chunk)
	}

	line.Text = text.String()
	s.prevIndent = line.Indent
	return line, true
}

// Peek returns the next logical line without consuming it.
func (s *Splitter) Peek() (Line, bool) {
	if s.look != nil {
		return *s.look, true
	}
	l, ok := s.Next()
	if !ok {
		return Line{}, false
	}
	s.look = &l
	return l, true
}

// Split materializes every logical line of the file.
func Split(file *source.File, opts Options) []Line {
	s := New(file, opts)
	out := make([]Line, 0, len(file.LineIdx)+1)
	for {
		l, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, l)
	}
	return out
}

// stripContinuation removes a trailing continuation marker. A backslash pair
// is an escaped backslash and stays in the text; only an unpaired trailing
// backslash continues the line.
func stripContinuation(content string) (text string, cont bool) {
	if trailingBackslashes(content)%2 == 1 {
		return content[:len(content)-1], true
	}
	return content, false
}

func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}
