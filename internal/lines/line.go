package lines

import (
	"fmt"

	"dv6/internal/source"
)

// Line is one logical line: a physical line plus any physical lines merged
// into it through trailing-backslash continuation.
type Line struct {
	Start  uint32 // 1-based first physical line
	End    uint32 // 1-based last physical line, == Start without continuation
	Indent int    // leading tab count of the first physical line
	Text   string // content with indent tabs and continuation markers removed
	Span   source.Span
}

// Continued reports whether the line was merged from several physical lines.
func (l Line) Continued() bool {
	return l.End > l.Start
}

func (l Line) String() string {
	if l.Continued() {
		return fmt.Sprintf("%d-%d @%d %q", l.Start, l.End, l.Indent, l.Text)
	}
	return fmt.Sprintf("%d @%d %q", l.Start, l.Indent, l.Text)
}
