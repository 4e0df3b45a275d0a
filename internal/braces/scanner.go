package braces

import (
	"fmt"
	"math"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ColumnMode selects how columns are numbered in findings.
type ColumnMode uint8

const (
	// ColumnsLegacy reports the column after the brace has been consumed:
	// a brace in the first column is reported as col 2.
	ColumnsLegacy ColumnMode = iota
	// ColumnsExact reports the 1-based column of the brace itself.
	ColumnsExact
)

func (m ColumnMode) String() string {
	switch m {
	case ColumnsLegacy:
		return "legacy"
	case ColumnsExact:
		return "exact"
	}
	return "unknown"
}

// ParseColumnMode accepts "legacy" or "exact"; empty means legacy.
func ParseColumnMode(s string) (ColumnMode, error) {
	switch s {
	case "", "legacy":
		return ColumnsLegacy, nil
	case "exact":
		return ColumnsExact, nil
	}
	return ColumnsLegacy, fmt.Errorf("invalid column mode %q (expected legacy|exact)", s)
}

// Options configures a scan. The zero value reproduces the classic output.
type Options struct {
	Columns ColumnMode
	// LeadingBOM tells the scanner that a UTF-8 byte order mark was stripped
	// from the front of content. Legacy columns count it as a character on line 1.
	LeadingBOM bool
}

// Position is a 1-based line and column.
type Position struct {
	Line uint32
	Col  uint32
}

// OpenBrace is a '{' waiting for its '}'.
type OpenBrace struct {
	Char   rune
	Pos    Position
	Offset uint32 // байтовое смещение в содержимом
}

// Kind tells which brace a finding is about.
type Kind uint8

const (
	// UnmatchedClose is a '}' seen while no '{' was open.
	UnmatchedClose Kind = iota + 1
	// UnmatchedOpen is a '{' that was never closed.
	UnmatchedOpen
)

// Char returns the brace character the kind refers to.
func (k Kind) Char() rune {
	if k == UnmatchedOpen {
		return '{'
	}
	return '}'
}

// Finding is one unmatched brace.
type Finding struct {
	Kind   Kind
	Pos    Position
	Offset uint32
}

// Message renders the finding the way the tool prints it.
func (f Finding) Message() string {
	return fmt.Sprintf("Unmatched '%c' at line %d, col %d", f.Kind.Char(), f.Pos.Line, f.Pos.Col)
}

// Result is the outcome of one scan.
type Result struct {
	Findings []Finding
	Opens    int // всего '{'
	Closes   int // всего '}'
	Pairs    int // сопоставленных пар
	// LastClose is the byte offset of the last '}' that closed a brace, -1 if none.
	LastClose int
}

// Balanced reports whether the scan produced no findings.
func (r Result) Balanced() bool {
	return len(r.Findings) == 0
}

// Messages returns the message of every finding, in order.
func (r Result) Messages() []string {
	out := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		out[i] = f.Message()
	}
	return out
}

// Scan walks content and returns every unmatched brace.
// content is treated as UTF-8; an invalid byte counts as one character.
func Scan(content []byte, opts Options) Result {
	var (
		stack []OpenBrace
		res          = Result{LastClose: -1}
		line  uint32 = 1
		col   uint32 = 1
	)
	if opts.LeadingBOM && opts.Columns == ColumnsLegacy {
		col = 2
	}

	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		off := offsetOf(i)

		at := Position{Line: line, Col: col}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		if opts.Columns == ColumnsLegacy {
			// колонка уже сдвинута за символ
			at.Col = col
		}

		switch r {
		case '{':
			res.Opens++
			stack = append(stack, OpenBrace{Char: r, Pos: at, Offset: off})
		case '}':
			res.Closes++
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
				res.Pairs++
				res.LastClose = i
			} else {
				res.Findings = append(res.Findings, Finding{Kind: UnmatchedClose, Pos: at, Offset: off})
			}
		}
		i += size
	}

	// от дна стека к вершине
	for _, ob := range stack {
		res.Findings = append(res.Findings, Finding{Kind: UnmatchedOpen, Pos: ob.Pos, Offset: ob.Offset})
	}
	return res
}

// offsetOf converts a byte index to a finding offset.
// Past 4 GiB the offset saturates at math.MaxUint32; lines and columns stay exact.
func offsetOf(i int) uint32 {
	off, err := safecast.Conv[uint32](i)
	if err != nil {
		return math.MaxUint32
	}
	return off
}

// Messages scans content with default options and returns the diagnostic
// lines; an empty slice means the braces balance.
func Messages(content []byte) []string {
	return Scan(content, Options{}).Messages()
}
