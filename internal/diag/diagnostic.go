package diag

import (
	"dv6/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single text replacement in source coordinates.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a mechanical correction a tool may offer for a diagnostic.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is the central record every stage emits. Primary points at the
// offending logical line; for merged continuation lines it covers the whole
// physical range.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
