package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bracecheck/internal/version"
)

const (
	exitBalanced = 0
	exitFindings = 1
	exitFailure  = 2 // ошибка чтения или использования
)

// exitError carries a process exit code through cobra.
// A nil err means the output already explains the failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bracecheck [flags] <path>",
		Short: "Report unmatched '{' and '}' in text files",
		Long: `bracecheck scans a file (or every file under a directory) and reports each
'{' that is never closed and each '}' that closes nothing, with line and column.
Strings and comments are not special: every brace counts.

Use "-" as the path to read from standard input.`,
		Version:       version.Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "print nothing when the braces balance")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to report per file, in every format (0=unlimited)")
	pf.String("config", "", "path to bracecheck.toml (default: search upwards from the target)")
	pf.String("trace", "", "write trace events to file ('-' for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "text", "trace format (text|ndjson)")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	f := root.Flags()
	f.String("format", "plain", "output format (plain|pretty|short|json|yaml|sarif)")
	f.String("columns", "legacy", "column convention (legacy|exact)")
	f.String("encoding", "utf-8", "input encoding (any WHATWG label)")
	f.Bool("keep-cr", false, "do not translate \\r\\n and \\r line endings")
	f.Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	f.StringSlice("ext", nil, "only check files with these extensions in directory mode")
	f.StringSlice("exclude", nil, "file or directory names (globs) to skip in directory mode")
	f.Bool("no-cache", false, "do not read or write the on-disk result cache")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("suggest", false, "include fix suggestions in output")
	f.Bool("preview", false, "show the text each suggested fix would produce")
	f.Bool("fullpath", false, "emit absolute file paths in output")
	f.Bool("fix", false, "apply the suggested fixes to the files in place")
	f.String("ui", "auto", "progress UI for directory runs (auto|on|off)")

	root.AddCommand(newVersionCmd(), newCleanCmd())
	return root
}

// execute runs the CLI and maps the outcome to a process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitBalanced
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "bracecheck: %v\n", err)
	return exitFailure
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
