// Package trace records what a dictionary run spent its time on.
//
// Tracing is for the runs that feel slow or hang: it writes an event
// stream of span begin/end pairs that shows which stage, and which
// file inside the stage, was active at any moment.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	dv6 check --trace=- --trace-level=stage data/
//
// Writing to "-" streams events to stderr; any other value is treated
// as a file path. A path ending in .ndjson switches the output from
// human-readable text to newline-delimited JSON.
//
// # Levels
//
// Verbosity is controlled by levels:
//
//   - LevelOff: no tracing
//   - LevelRun: one span per command
//   - LevelStage: run plus walk/parse stage boundaries
//   - LevelFile: everything, one span per dictionary file
//
// # Context propagation
//
// The tracer travels through the pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	tr := trace.FromContext(ctx)
//
//	span := trace.Begin(tr, trace.ScopeStage, "parse", parentID)
//	defer span.End("")
//
// A nil or absent tracer degrades to Nop, so library code never has to
// check whether tracing is on.
package trace
