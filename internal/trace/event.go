package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event, such as a cache hit.
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event. Lower numeric values
// represent coarser events.
type Scope uint8

const (
	// ScopeRun covers a whole CLI command.
	ScopeRun Scope = iota + 1
	// ScopeStage covers one pipeline stage (walk, parse).
	ScopeStage
	// ScopeFile covers one dictionary file inside a stage.
	ScopeFile
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeStage:
		return "stage"
	case ScopeFile:
		return "file"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier, 0 for points
	ParentID uint64            // parent span (0 if root)
	GID      uint64            // goroutine ID, meaningful for parallel file spans
	Name     string            // e.g. "check", "parse", "data/basic.dv6"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
