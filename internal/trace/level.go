package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelRun emits only the top-level command span.
	LevelRun
	// LevelStage adds walk and parse stage boundaries.
	LevelStage
	// LevelFile adds one span per dictionary file.
	LevelFile
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelRun:
		return "run"
	case LevelStage:
		return "stage"
	case LevelFile:
		return "file"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "run", "RUN":
		return LevelRun, nil
	case "stage", "STAGE":
		return LevelStage, nil
	case "file", "FILE":
		return LevelFile, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|run|stage|file)", s)
	}
}

// ShouldEmit reports whether events of the given scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelRun:
		return scope <= ScopeRun
	case LevelStage:
		return scope <= ScopeStage
	case LevelFile:
		return true
	}
	return false
}
