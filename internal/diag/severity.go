package diag

// Severity defines the importance of a diagnostic. The format knows exactly
// two levels: warnings never gate processing, errors mark the document as
// rejected even though parsing continues.
type Severity uint8

const (
	// SevWarning is for warning diagnostics.
	SevWarning Severity = iota
	// SevError is for error diagnostics.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
