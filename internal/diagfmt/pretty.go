package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

type palette struct {
	err, warn, info, note, fix, gutter, path func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		fix:    mk(color.FgGreen),
		gutter: mk(color.FgBlue),
		path:   mk(color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) func(a ...any) string {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	if mode == PathModeRelative {
		return f.FormatPath(mode.String(), fs.BaseDir())
	}
	return f.FormatPath(mode.String(), "")
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() в порядке добавления.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с указателем ^ под скобкой, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writePretty(w, &d, fs, opts, p)
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "\n%s %d more diagnostics not shown\n", p.note("note:"), dropped)
	}
}

func writePretty(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	sev := p.severity(d.Severity)

	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path(fmt.Sprintf("%s:%d:%d", formatPath(fs, f, opts.PathMode), start.Line, start.Col)),
		sev(d.Severity.String()), sev(d.Code.ID()), d.Message)

	if opts.Context >= 0 && len(f.Content) > 0 {
		writeSnippet(w, f, start, d.Primary.Len(), opts, p, sev)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			nstart, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note("note:"),
				formatPath(fs, nf, opts.PathMode), nstart.Line, nstart.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.fix("fix:"), fix.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range fix.Edits {
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s %s\n", p.err("-"), line)
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s %s\n", p.fix("+"), line)
				}
			}
		}
	}
}

func writeSnippet(w io.Writer, f *source.File, at source.LineCol, spanLen uint32, opts PrettyOpts, p palette, sev func(a ...any) string) {
	ctx := uint32(opts.Context)
	first := at.Line
	if first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := at.Line + ctx
	if maxLine := uint32(len(f.LineIdx)) + 1; last > maxLine {
		last = maxLine
	}
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))
	blank := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(w, "%s %s\n", blank, p.gutter("|"))
	for line := first; line <= last; line++ {
		text := f.GetLine(line)
		if line != at.Line && text == "" {
			continue
		}
		text = clip(text, int(opts.Width))
		fmt.Fprintf(w, "%s %s %s\n", p.gutter(fmt.Sprintf("%*d", gutterWidth, line)), p.gutter("|"), text)
		if line == at.Line {
			marker := "^"
			if spanLen > 1 {
				marker += strings.Repeat("~", int(spanLen)-1)
			}
			fmt.Fprintf(w, "%s %s %s%s\n", blank, p.gutter("|"), caretPad(f.GetLine(line), at.Col), sev(marker))
		}
	}
}

// caretPad builds the indentation under a line up to column col (1-based, runes).
// Tabs are kept so the caret lines up in any terminal; wide runes take two cells.
func caretPad(line string, col uint32) string {
	var b strings.Builder
	n := uint32(1)
	for _, r := range line {
		if n >= col {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		n++
	}
	return b.String()
}

func clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
