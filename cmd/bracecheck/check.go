package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bracecheck/internal/diag"
	"bracecheck/internal/diagfmt"
	"bracecheck/internal/driver"
	"bracecheck/internal/observ"
	"bracecheck/internal/source"
	"bracecheck/internal/trace"
)

const stdinName = "<stdin>"

// runReport is everything the renderers need from one run.
type runReport struct {
	fileSet      *source.FileSet
	files        []diagfmt.FileMessages
	bag          *diag.Bag
	timer        *observ.Timer
	timingFile   source.FileID
	multi        bool // каталог: пути в plain-выводе
	unbalanced   bool
	findings     int
	readFailures int
}

// runCheck executes the root command: it layers the configuration, checks the
// target (file, directory or "-" for stdin), renders the result and maps it to
// an exit code: 0 balanced, 1 findings, 2 read failure.
func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	set, err := loadSettings(cmd, target)
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("bracecheck: %w", err)}
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("bracecheck: %w", err)}
	}
	defer cleanup()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("bracecheck: %w", err)}
	}
	defer stopProfiling()

	ctx := cmd.Context()
	opts := set.driverOptions()
	if opts.KeepCR, err = cmd.Flags().GetBool("keep-cr"); err != nil {
		return fmt.Errorf("failed to get keep-cr flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if !noCache {
		opts.Cache = openCache(ctx)
	}
	if set.ConfigPath != "" {
		trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "config", set.ConfigPath, 0)
	}

	var rep *runReport
	switch info, statErr := os.Stat(target); {
	case target == "-":
		rep, err = checkStdin(ctx, cmd.InOrStdin(), opts)
	case statErr == nil && info.IsDir():
		rep, err = checkDir(cmd, target, set, opts)
	default:
		rep, err = checkFile(ctx, target, opts)
	}
	if err != nil {
		var readErr *driver.ReadError
		if errors.As(err, &readErr) {
			return &exitError{code: exitFailure, err: err}
		}
		return err
	}

	if err := render(cmd, set, rep); err != nil {
		return err
	}

	applyFix, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return fmt.Errorf("failed to get fix flag: %w", err)
	}
	if applyFix && rep.unbalanced {
		if err := applyFixes(cmd, rep); err != nil {
			return err
		}
	}

	switch {
	case rep.readFailures > 0:
		return &exitError{code: exitFailure}
	case rep.unbalanced:
		return &exitError{code: exitFindings}
	}
	return nil
}

// cacheAppName names the cache directory under $XDG_CACHE_HOME.
const cacheAppName = "bracecheck"

func openCache(ctx context.Context) *driver.DiskCache {
	cache, err := driver.OpenDiskCache(cacheAppName)
	if err != nil {
		// без кэша работаем так же, только медленнее
		trace.Point(trace.FromContext(ctx), trace.ScopeFailure, "cache", err.Error(), 0)
		return nil
	}
	return cache
}

func checkFile(ctx context.Context, path string, opts driver.Options) (*runReport, error) {
	res, err := driver.Check(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return singleReport(res), nil
}

func checkStdin(ctx context.Context, in io.Reader, opts driver.Options) (*runReport, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, &driver.ReadError{Path: stdinName, Err: err}
	}
	opts.Cache = nil
	res, err := driver.CheckSource(ctx, stdinName, raw, opts)
	if err != nil {
		return nil, err
	}
	return singleReport(res), nil
}

func singleReport(res *driver.CheckResult) *runReport {
	return &runReport{
		fileSet:    res.FileSet,
		files:      []diagfmt.FileMessages{{Path: res.Path, Messages: res.ReportedMessages()}},
		bag:        res.Bag,
		timer:      res.Timer,
		timingFile: res.FileID,
		unbalanced: !res.Balanced(),
		findings:   len(res.Result.Findings),
	}
}

func checkDir(cmd *cobra.Command, dir string, set settings, opts driver.Options) (*runReport, error) {
	modeStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(modeStr)
	if err != nil {
		return nil, &exitError{code: exitFailure, err: err}
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	timer := observ.NewTimer()
	var (
		fileSet *source.FileSet
		results []driver.CheckDirResult
		runErr  error
	)
	timer.Track("check", func() string {
		if shouldUseTUI(mode, cmd.OutOrStdout(), set.Format, quiet) {
			fileSet, results, runErr = runDirWithUI(cmd.Context(), cmd.OutOrStdout(), dir, opts)
		} else {
			fileSet, results, runErr = driver.CheckDir(cmd.Context(), dir, opts)
		}
		return fmt.Sprintf("%d files", len(results))
	})
	if runErr != nil {
		return nil, fmt.Errorf("check failed: %w", runErr)
	}

	rep := &runReport{
		fileSet: fileSet,
		files:   make([]diagfmt.FileMessages, len(results)),
		bag:     driver.MergeBags(results, 0),
		timer:   timer,
		multi:   true,
	}
	for i, r := range results {
		rep.files[i] = diagfmt.FileMessages{Path: r.Path, Messages: r.ReportedMessages()}
		if r.ReadErr != nil {
			rep.files[i].Err = r.ReadErr.Err
			rep.readFailures++
		}
		if !r.Result.Balanced() {
			rep.unbalanced = true
		}
		rep.findings += len(r.Result.Findings)
	}
	return rep, nil
}
