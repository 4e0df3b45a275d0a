package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bracecheck/internal/braces"
	"bracecheck/internal/diag"
	"bracecheck/internal/observ"
	"bracecheck/internal/source"
	"bracecheck/internal/trace"
)

// CheckDirResult содержит результат проверки одного файла каталога
type CheckDirResult struct {
	Path    string        // путь к файлу
	FileID  source.FileID // ID файла в FileSet
	Bag     *diag.Bag     // диагностики
	Result  braces.Result // пусто, если файл не прочитан
	ReadErr *ReadError    // ошибка чтения или декодирования
	Cached  bool
	Timing  *observ.Report
}

// Balanced reports whether the file was read and had no findings.
func (r CheckDirResult) Balanced() bool {
	return r.ReadErr == nil && r.Result.Balanced()
}

// ReportedMessages returns the brace messages kept in the file's bag.
func (r CheckDirResult) ReportedMessages() []string {
	return reportedMessages(r.Bag)
}

// ListFiles возвращает отсортированный список файлов каталога с учётом фильтров
func ListFiles(dir string, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && excluded(d.Name(), opts.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if matchExtension(path, opts.Extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

func matchExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, want := range exts {
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// CheckDir checks every file under dir in parallel.
// Files that cannot be read get an IO diagnostic instead of failing the run.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []CheckDirResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check_dir", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	defer span.End(dir)

	files, err := ListFiles(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// FileSet не потокобезопасен: загружаем последовательно, сканируем параллельно
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make([]*ReadError, len(files))
	loadTimes := make([]time.Duration, len(files))
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
		started := time.Now()
		fileID, loadErr := fileSet.Load(path, opts.loadOptions())
		loadTimes[i] = time.Since(started)
		if loadErr != nil {
			// пустой виртуальный файл, чтобы у диагностики был валидный span
			fileIDs[i] = fileSet.AddVirtual(path, nil)
			loadErrors[i] = newReadError(path, loadErr)
			trace.Point(tracer, trace.ScopeFailure, "load", loadErrors[i].Error(), span.ID())
			continue
		}
		fileIDs[i] = fileID
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]CheckDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(files)))

	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if readErr := loadErrors[i]; readErr != nil {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(readErrorDiagnostic(fileIDs[i], readErr))
				results[i] = CheckDirResult{
					Path:    path,
					FileID:  fileIDs[i],
					Bag:     bag,
					ReadErr: readErr,
				}
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: readErr, Elapsed: loadTimes[i]})
				return nil
			}

			emit(opts.Progress, Event{File: path, Stage: StageScan, Status: StatusWorking, Elapsed: loadTimes[i]})
			started := time.Now()
			res := scanFile(gctx, fileSet, fileIDs[i], opts, observ.NewTimer())
			report := res.Timer.Report()
			results[i] = CheckDirResult{
				Path:   path,
				FileID: fileIDs[i],
				Bag:    res.Bag,
				Result: res.Result,
				Cached: res.Cached,
				Timing: &report,
			}

			status := StatusDone
			if !res.Result.Balanced() {
				status = StatusUnbalanced
			}
			emit(opts.Progress, Event{File: path, Stage: StageScan, Status: status, Elapsed: loadTimes[i] + time.Since(started)})
			return nil
		})
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	return fileSet, results, nil
}

// readErrorDiagnostic converts a ReadError into IO4001 or IO4002.
func readErrorDiagnostic(fileID source.FileID, err *ReadError) diag.Diagnostic {
	code := diag.IOLoadFileError
	if err.IsDecodeError() {
		code = diag.IODecodeFileError
	}
	return diag.NewError(code, source.At(fileID, 0, 0), err.Error())
}

// MergeBags собирает диагностики всех файлов в один bag, сохраняя порядок внутри файла.
func MergeBags(results []CheckDirResult, maxDiagnostics int) *diag.Bag {
	out := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		if r.Bag != nil {
			out.Merge(r.Bag)
		}
	}
	return out
}
