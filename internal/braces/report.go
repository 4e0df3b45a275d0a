package braces

import (
	"fortio.org/safecast"

	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

// Report scans content and emits one diagnostic per finding, in finding order.
// Unmatched '}' get a "remove" fix; unmatched '{' get an "insert at end of
// file" fix and, when some '}' did close a brace, a note pointing at the last one.
func Report(r diag.Reporter, file source.FileID, content []byte, opts Options) Result {
	res := Scan(content, opts)
	ReportResult(r, file, content, res)
	return res
}

// ReportResult emits the diagnostics for a Result computed earlier over content.
func ReportResult(r diag.Reporter, file source.FileID, content []byte, res Result) {
	if r == nil || res.Balanced() {
		return
	}

	eof, err := safecast.Conv[uint32](len(content))
	if err != nil {
		eof = ^uint32(0)
	}

	for _, f := range res.Findings {
		sp := source.At(file, f.Offset, 1)
		switch f.Kind {
		case UnmatchedClose:
			diag.ReportError(r, diag.BraceUnmatchedClose, sp, f.Message()).
				WithFix("remove stray '}'", diag.FixEdit{Span: sp, NewText: "", OldText: "}"}).
				Emit()
		case UnmatchedOpen:
			b := diag.ReportError(r, diag.BraceUnmatchedOpen, sp, f.Message())
			if res.LastClose >= 0 {
				if last, err := safecast.Conv[uint32](res.LastClose); err == nil && last > f.Offset {
					b = b.WithNote(source.At(file, last, 1), "last closing brace here")
				}
			}
			b.WithFix("insert '}' at end of file", diag.FixEdit{Span: source.At(file, eof, 0), NewText: "}"}).
				Emit()
		}
	}
}
