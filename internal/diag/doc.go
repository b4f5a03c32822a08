// Package diag defines the diagnostic model shared by the schema loader and
// the CLI.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Location – the schema file and the logical path of the offending item,
//     e.g. provider[0].class[2].field[1].
//   - Notes – optional secondary locations, e.g. where a clashing name was
//     first produced.
//
// # Emitting diagnostics
//
// Producers report through a Reporter so that storage stays decoupled. Use
// ReportError/ReportWarning/ReportInfo to obtain a ReportBuilder, chain
// WithNote, then call Emit. BagReporter collects into a Bag, which supports
// sorting and error checks.
//
// Package diag performs no IO. FormatShort renders diagnostics as text for
// the CLI and for tests.
package diag
