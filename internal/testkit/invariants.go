package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"bracecheck/internal/braces"
	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

// CheckResultInvariants runs the structural checks on a scan of sf.Content:
// 1) counters agree: opens-pairs unmatched '{', closes-pairs unmatched '}'
// 2) unmatched '}' come first, then unmatched '{', each group in offset order
// 3) every finding points at the brace it names, inside the content
func CheckResultInvariants(res braces.Result, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var opens, closes int
	for _, f := range res.Findings {
		if f.Kind == braces.UnmatchedOpen {
			opens++
		} else {
			closes++
		}
	}
	// 1) counters
	if res.Pairs > res.Opens || res.Pairs > res.Closes {
		return fmt.Errorf("more pairs than braces: pairs=%d opens=%d closes=%d", res.Pairs, res.Opens, res.Closes)
	}
	if res.Opens-res.Pairs != opens {
		return fmt.Errorf("unmatched '{' count: got=%d want=%d", opens, res.Opens-res.Pairs)
	}
	if res.Closes-res.Pairs != closes {
		return fmt.Errorf("unmatched '}' count: got=%d want=%d", closes, res.Closes-res.Pairs)
	}
	if res.Pairs == 0 && res.LastClose != -1 {
		return fmt.Errorf("last close %d without any pair", res.LastClose)
	}

	// 2) order; 3) location
	seenOpen := false
	var prev uint32
	for i, f := range res.Findings {
		if f.Kind == braces.UnmatchedOpen && !seenOpen {
			seenOpen = true
		} else if i > 0 && f.Offset <= prev {
			return fmt.Errorf("finding %d out of order: offset %d after %d", i, f.Offset, prev)
		}
		if f.Kind == braces.UnmatchedClose && seenOpen {
			return fmt.Errorf("finding %d: unmatched '}' after unmatched '{'", i)
		}
		prev = f.Offset

		if f.Offset >= lenContent {
			return fmt.Errorf("finding %d beyond content: %d >= %d", i, f.Offset, lenContent)
		}
		if rune(sf.Content[f.Offset]) != f.Kind.Char() {
			return fmt.Errorf("finding %d points at %q, want %q", i, sf.Content[f.Offset], f.Kind.Char())
		}
		if f.Pos.Line == 0 || f.Pos.Col == 0 {
			return fmt.Errorf("finding %d has a zero position: %+v", i, f.Pos)
		}
	}
	return nil
}

// CheckDiagnosticInvariants verifies that bag mirrors res one to one:
// same order and messages, one-byte primary spans in sf, a fix on every entry.
func CheckDiagnosticInvariants(bag *diag.Bag, res braces.Result, sf *source.File) error {
	if bag == nil || sf == nil {
		return fmt.Errorf("nil bag or file")
	}
	items := bag.Items()
	if len(items) != len(res.Findings) {
		return fmt.Errorf("diagnostic count: got=%d want=%d", len(items), len(res.Findings))
	}
	for i, d := range items {
		f := res.Findings[i]
		if d.Message != f.Message() {
			return fmt.Errorf("diagnostic %d message %q, want %q", i, d.Message, f.Message())
		}
		sp := d.Primary
		if sp.File != sf.ID {
			return fmt.Errorf("diagnostic %d span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.Start != f.Offset || sp.Len() != 1 {
			return fmt.Errorf("diagnostic %d span %v does not cover offset %d", i, sp, f.Offset)
		}
		if len(d.Fixes) == 0 {
			return fmt.Errorf("diagnostic %d has no fix", i)
		}
		for _, n := range d.Notes {
			if n.Span.End <= sp.Start {
				return fmt.Errorf("diagnostic %d note %v precedes the brace", i, n.Span)
			}
		}
	}
	return nil
}
