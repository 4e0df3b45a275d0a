package driver

import (
	"context"
	"fmt"
	"strconv"

	"bracecheck/internal/braces"
	"bracecheck/internal/diag"
	"bracecheck/internal/observ"
	"bracecheck/internal/source"
	"bracecheck/internal/trace"
)

// CheckResult is the outcome of checking one file.
type CheckResult struct {
	Path    string
	FileSet *source.FileSet
	FileID  source.FileID
	Bag     *diag.Bag
	Result  braces.Result
	Timer   *observ.Timer
	Cached  bool // результат взят из дискового кэша
}

// Balanced reports whether the file had no unmatched braces.
func (r *CheckResult) Balanced() bool {
	return r != nil && r.Result.Balanced()
}

// Messages returns the diagnostic lines in the order they were produced.
func (r *CheckResult) Messages() []string {
	if r == nil {
		return nil
	}
	return r.Result.Messages()
}

// ReportedMessages returns the messages of the brace diagnostics kept in the
// bag. Unlike Messages it honours Options.MaxDiagnostics.
func (r *CheckResult) ReportedMessages() []string {
	if r == nil {
		return nil
	}
	return reportedMessages(r.Bag)
}

func reportedMessages(bag *diag.Bag) []string {
	if bag == nil {
		return nil
	}
	var out []string
	for _, d := range bag.Items() {
		if d.Code == diag.BraceUnmatchedClose || d.Code == diag.BraceUnmatchedOpen {
			out = append(out, d.Message)
		}
	}
	return out
}

// Check loads the file at path and scans it. A file that cannot be read or
// decoded yields a *ReadError and no scan.
func Check(ctx context.Context, path string, opts Options) (*CheckResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	defer span.End(path)

	fs := source.NewFileSet()
	timer := observ.NewTimer()

	var (
		fileID  source.FileID
		loadErr error
	)
	timer.Track("load", func() string {
		fileID, loadErr = fs.Load(path, opts.loadOptions())
		if loadErr != nil {
			return "failed"
		}
		return strconv.Itoa(len(fs.Get(fileID).Content)) + " bytes"
	})
	if loadErr != nil {
		trace.Point(tracer, trace.ScopeFailure, "load", loadErr.Error(), span.ID())
		return nil, newReadError(path, loadErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := scanFile(ctx, fs, fileID, opts, timer)
	res.Path = path
	span.WithExtra("findings", strconv.Itoa(len(res.Result.Findings)))
	return res, nil
}

// CheckSource scans raw bytes that did not come from a path on disk (stdin, tests).
func CheckSource(ctx context.Context, name string, raw []byte, opts Options) (*CheckResult, error) {
	fs := source.NewFileSet()
	timer := observ.NewTimer()

	idx := timer.Begin("load")
	fileID, err := fs.AddRaw(name, raw, opts.loadOptions())
	timer.End(idx, "")
	if err != nil {
		return nil, newReadError(name, err)
	}
	fs.Get(fileID).Flags |= source.FileVirtual

	res := scanFile(ctx, fs, fileID, opts, timer)
	res.Path = name
	return res, nil
}

// scanFile runs the scan (or a cache lookup) and reports into a fresh bag.
func scanFile(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options, timer *observ.Timer) *CheckResult {
	tracer := trace.FromContext(ctx)
	file := fs.Get(fileID)
	scanOpts := opts.scanOptions(file)

	var (
		res    braces.Result
		cached bool
	)
	key := CacheKey(file.Hash, scanOpts)
	if opts.Cache != nil {
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			trace.Point(tracer, trace.ScopeDebug, "cache", fmt.Sprintf("%s: %v", file.Path, err), trace.CurrentSpan(ctx))
		case ok:
			res, cached = payloadToResult(&payload), true
			trace.Point(tracer, trace.ScopeDebug, "cache", "hit "+file.Path, trace.CurrentSpan(ctx))
		default:
			trace.Point(tracer, trace.ScopeDebug, "cache", "miss "+file.Path, trace.CurrentSpan(ctx))
		}
	}

	if !cached {
		span := trace.Begin(tracer, trace.ScopePhase, "scan", trace.CurrentSpan(ctx))
		timer.Track("scan", func() string {
			res = braces.Scan(file.Content, scanOpts)
			return strconv.Itoa(len(res.Findings)) + " findings"
		})
		span.End(file.Path)

		if opts.Cache != nil {
			if err := opts.Cache.Put(key, resultToPayload(res, scanOpts)); err != nil {
				trace.Point(tracer, trace.ScopeFailure, "cache", err.Error(), trace.CurrentSpan(ctx))
			}
		}
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	timer.Track("report", func() string {
		braces.ReportResult(diag.BagReporter{Bag: bag}, fileID, file.Content, res)
		return ""
	})

	return &CheckResult{
		FileSet: fs,
		FileID:  fileID,
		Bag:     bag,
		Result:  res,
		Timer:   timer,
		Cached:  cached,
	}
}
