// Package diag defines the diagnostic model shared by all pipeline stages.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the line splitter, tree lifter and parser.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the CLI can surface.
//
// # Scope
//
// Package diag performs no formatting, IO, or CLI integration. Rendering
// lives in internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – two-level enum (Warning, Error) defined in severity.go.
//     Warnings never reject a document; errors do, though parsing always
//     continues to collect everything in one pass.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form such as PRP3004.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing at the offending
//     logical line (covering every physical line of a continuation run).
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing a mechanical correction.
//
// # Emitting diagnostics
//
// Stages accept a diag.Reporter so emission stays decoupled from storage.
// Every stage reports into the same sink; there is no second error channel
// anywhere in the pipeline. Use ReportError/ReportWarning with the builder
// chain for notes and fixes, or Reporter.Report directly when no extra
// metadata is needed. BagReporter aggregates into a Bag, which supports
// sorting, deduplication and stable golden formatting for tests.
package diag
