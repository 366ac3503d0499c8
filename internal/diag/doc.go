// Package diag defines the core diagnostic model shared by all analysis
// phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the lexer, parser, and semantic checker.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO, CLI integration, or
// interactive behaviour. Rendering responsibilities live in
// internal/diagfmt; orchestration lives in internal/host and the CLI.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// Notes should be used sparingly: each note must add new context (e.g.
// "previous declaration here") rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage. The
// parser, for example, constructs a ReportBuilder via NewReportBuilder (or
// the helper functions ReportError/ReportWarning/ReportInfo) and chains
// WithNote before calling Emit.
//
// When no additional metadata is needed, phases may call Reporter.Report
// directly. For convenience, diag.BagReporter aggregates diagnostics into a
// Bag, which supports sorting, deduplication, and merging.
//
// Keep the data model deterministic: diagnostics are compared byte-for-byte
// in tests and cached by the incremental engine, so any new field must be a
// pure function of the analyzed sources.
package diag
