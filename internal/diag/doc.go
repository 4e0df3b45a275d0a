// Package diag defines the diagnostic model shared by the scanner, the
// driver and the renderers.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings such as an
//     unmatched brace or a file that could not be read.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - Model fix suggestions as plain text edits.
//
// # Scope
//
// Package diag performs no IO and no terminal formatting. Rendering lives in
// internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: the human text. For brace findings it is exactly the line the
//     tool prints in plain mode, e.g. "Unmatched '}' at line 3, col 7".
//   - Primary: the source.Span of the offending character.
//   - Notes: optional secondary spans.
//   - Fixes: optional edits.
//
// # Emitting
//
// Producers call Reporter.Report directly or go through ReportBuilder
// (ReportError / ReportInfo, then WithNote, WithFix, Emit).
// BagReporter collects into a Bag.
//
// Order matters: a Bag keeps insertion order and the
// plain renderer relies on that order.
package diag
