package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dv6/internal/diag"
	"dv6/internal/source"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
)

// tabDisplayWidth is how wide a tab renders in context lines. Indentation is
// tabs in this format, so context lines nearly always start with some.
const tabDisplayWidth = 4

// Pretty renders diagnostics for humans. One block per diagnostic:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	   <n> | <source line>
//	       | ^~~~
//
// then notes and fixes when enabled. Run bag.Sort() beforehand if stable
// ordering matters.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyDiagnostic(w, d, fs, opts)
	}
}

func prettyDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		c := severityColor(d.Severity)
		sev = c.Sprint(sev)
		code = c.Sprint(code)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(f, fs, opts.PathMode), start.Line, start.Col, sev, code, d.Message)

	printContext(w, f, start, end, d.Severity, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n",
				displayPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			fmt.Fprintf(w, "  fix #%d: %s\n", i+1, fx.Title)
			for _, e := range fx.Edits {
				ef := fs.Get(e.Span.File)
				es, _ := fs.Resolve(e.Span)
				fmt.Fprintf(w, "    apply=%q at %s:%d:%d\n",
					e.NewText, displayPath(ef, fs, opts.PathMode), es.Line, es.Col)
				if opts.ShowPreview {
					printEditPreview(w, fs, e)
				}
			}
		}
	}
}

// printContext prints the primary line with its underline, padded with up to
// opts.Context physical lines on each side.
func printContext(w io.Writer, f *source.File, start, end source.LineCol, sev diag.Severity, opts PrettyOpts) {
	total := uint32(len(f.LineIdx) + 1)
	if start.Line == 0 || start.Line > total {
		return
	}

	ctx := uint32(0)
	if opts.Context > 0 {
		ctx = uint32(opts.Context)
	}
	lo := uint32(1)
	if start.Line > ctx {
		lo = start.Line - ctx
	}
	hi := start.Line + ctx
	if hi > total {
		hi = total
	}

	gutter := len(fmt.Sprintf("%d", hi))
	for n := lo; n <= hi; n++ {
		line := f.GetLine(n)
		fmt.Fprintf(w, "  %*d | %s\n", gutter, n, expandTabs(line))
		if n != start.Line {
			continue
		}
		pad, width := underlineExtent(line, start, end)
		carets := "^" + strings.Repeat("~", width-1)
		if opts.Color {
			carets = severityColor(sev).Sprint(carets)
		}
		fmt.Fprintf(w, "  %*s | %s%s\n", gutter, "", strings.Repeat(" ", pad), carets)
	}
}

// underlineExtent computes display-cell padding and width for the underline
// on the first line of the span. Widths go through runewidth so the carets
// line up under double-width text.
func underlineExtent(line string, start, end source.LineCol) (pad, width int) {
	startCol := clamp(int(start.Col), 1, len(line)+1)
	endCol := len(line) + 1
	if end.Line == start.Line {
		endCol = clamp(int(end.Col), startCol, len(line)+1)
	}

	pad = runewidth.StringWidth(expandTabs(line[:startCol-1]))
	width = runewidth.StringWidth(expandTabs(line[startCol-1 : endCol-1]))
	if width < 1 {
		width = 1
	}
	return pad, width
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabDisplayWidth))
}

func severityColor(sev diag.Severity) *color.Color {
	if sev == diag.SevError {
		return errorColor
	}
	return warnColor
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}
