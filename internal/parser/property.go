package parser

import (
	"fmt"
	"regexp"
	"strings"

	"dv6/internal/ast"
	"dv6/internal/diag"
	"dv6/internal/lines"
	"dv6/internal/outline"
	"dv6/internal/source"
)

// DefaultKnownFlags is the historical flag vocabulary.
var DefaultKnownFlags = []string{"SPL", "JOKE", "MEDICAL", "PHARM", "MISS", "DQN"}

// FlagWarning selects the polarity of the flag membership check. The format
// always warned when a flag value WAS in the known vocabulary, which reads
// backwards from the message it printed; neither polarity is settled as the
// intended one, so both are kept and the historical one is the zero value.
type FlagWarning uint8

const (
	// WarnKnownFlags warns when a flag is in the vocabulary.
	WarnKnownFlags FlagWarning = iota
	// WarnUnknownFlags warns when a flag is missing from the vocabulary.
	WarnUnknownFlags
)

// Warns reports whether a flag with the given membership draws a warning.
func (f FlagWarning) Warns(known bool) bool {
	if f == WarnUnknownFlags {
		return !known
	}
	return known
}

var (
	propertyLineRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*):(.*)$`)
	langValueRe    = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*):(.*)$`)
	dateRe         = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)
	dateTimeRe     = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}( \d{2}:\d{2}(:\d{2})?)?$`)
	relDateRe      = regexp.MustCompile(`^\d+ (day|week|month|year)$`)
)

// properties reads the property region into one properties node. A branch
// here is an error and is skipped whole; a bad line drops only itself and
// the region keeps going.
func (p *parser) properties(nodes []*outline.Node) *ast.Node {
	props := ast.New(ast.NameProperties)
	for _, n := range nodes {
		if n.IsBranch() {
			diag.ReportError(p.opts.Reporter, diag.PropNested, n.Line.Span,
				"property line must not have indented children").Emit()
			continue
		}
		p.property(props, n.Line)
	}
	return props
}

// property parses one line against the schema. The schema is closed: every
// identifier outside it is dropped with a warning.
func (p *parser) property(props *ast.Node, ln lines.Line) {
	m := propertyLineRe.FindStringSubmatch(ln.Text)
	if m == nil {
		diag.ReportError(p.opts.Reporter, diag.PropMalformed, ln.Span,
			"malformed property line, expected identifier:value").Emit()
		return
	}
	key, value := m[1], m[2]

	switch key {
	case ast.NameYomi, ast.NameQyomi:
		props.Append(ast.New(key).Append(ast.Text(value)))

	case ast.NameSpell, ast.NamePron:
		lm := langValueRe.FindStringSubmatch(value)
		if lm == nil {
			diag.ReportError(p.opts.Reporter, diag.PropMissingLang, ln.Span,
				fmt.Sprintf("%s value needs a lang: prefix", key)).Emit()
			return
		}
		props.Append(ast.New(key).WithAttr(ast.AttrLang, lm[1]).Append(ast.Text(lm[2])))

	case ast.NamePos:
		for _, item := range strings.Split(value, ",") {
			props.Append(ast.New(ast.NamePos).Append(ast.Text(item)))
		}

	case ast.NameDir:
		p.dir(props, ln, value)

	case ast.NameFlag:
		for _, item := range strings.Split(value, ",") {
			_, known := p.known[item]
			if p.opts.FlagWarning.Warns(known) {
				diag.ReportWarning(p.opts.Reporter, diag.PropFlagList, ln.Span,
					fmt.Sprintf("unknown flag %q", item)).Emit()
			}
			props.Append(ast.New(ast.NameFlag).Append(ast.Text(item)))
		}

	case ast.NameAuthor:
		p.author(props, ln, value)

	case ast.NameValid:
		if !dateRe.MatchString(value) && !relDateRe.MatchString(value) {
			diag.ReportError(p.opts.Reporter, diag.PropValidShape, ln.Span,
				"valid must be YYYY/MM/DD or a day, week, month or year count").Emit()
			return
		}
		props.Append(ast.New(ast.NameValid).Append(ast.Text(value)))

	case ast.NameExpire:
		if !dateRe.MatchString(value) {
			diag.ReportError(p.opts.Reporter, diag.PropExpireShape, ln.Span,
				"expire must be YYYY/MM/DD").Emit()
			return
		}
		props.Append(ast.New(ast.NameExpire).Append(ast.Text(value)))

	default:
		diag.ReportWarning(p.opts.Reporter, diag.PropUnknown, ln.Span,
			fmt.Sprintf("unknown property %q", key)).Emit()
	}
}

// dir checks the path shape: a leading slash, no trailing slash. The lone
// slash fails both ways and stays unfixable.
func (p *parser) dir(props *ast.Node, ln lines.Line, value string) {
	if !strings.HasPrefix(value, "/") || strings.HasSuffix(value, "/") {
		b := diag.ReportError(p.opts.Reporter, diag.PropDirShape, ln.Span,
			"dir must start with / and must not end with /")
		if strings.HasSuffix(value, "/") && len(value) > 1 {
			b.WithFix("drop the trailing slash", diag.FixEdit{
				Span: source.Span{File: ln.Span.File, Start: ln.Span.End - 1, End: ln.Span.End},
			})
		}
		b.Emit()
		return
	}
	props.Append(ast.New(ast.NameDir).Append(ast.Text(value)))
}

// author parses operation,dates;…,names;…[,sources;…]. Any bad field drops
// the whole property: a partially built author node never reaches the tree.
func (p *parser) author(props *ast.Node, ln lines.Line, value string) {
	fields := strings.Split(value, ",")
	if len(fields) > 4 {
		diag.ReportError(p.opts.Reporter, diag.PropAuthorFields, ln.Span,
			fmt.Sprintf("author takes at most 4 comma-separated fields, got %d", len(fields))).Emit()
		return
	}

	op := fields[0]
	if op != "A" && op != "R" && op != "I" {
		diag.ReportError(p.opts.Reporter, diag.PropAuthorOp, ln.Span,
			fmt.Sprintf("author operation must be A, R or I, got %q", op)).Emit()
		return
	}
	node := ast.New(ast.NameAuthor).WithAttr(ast.AttrOperation, op)

	if len(fields) > 1 {
		for _, d := range strings.Split(fields[1], ";") {
			if !dateTimeRe.MatchString(d) {
				diag.ReportError(p.opts.Reporter, diag.PropAuthorDate, ln.Span,
					fmt.Sprintf("author date %q must look like YYYY/MM/DD, with an optional HH:MM or HH:MM:SS", d)).Emit()
				return
			}
			node.Append(ast.New(ast.NameDate).Append(ast.Text(d)))
		}
	}
	if len(fields) > 2 {
		for _, name := range strings.Split(fields[2], ";") {
			node.Append(ast.New(ast.NameName).Append(ast.Text(name)))
		}
	}
	if len(fields) > 3 {
		for _, src := range strings.Split(fields[3], ";") {
			node.Append(ast.New(ast.NameSource).Append(ast.Text(src)))
		}
	}
	props.Append(node)
}
