package driver

import (
	"runtime"

	"bracecheck/internal/braces"
	"bracecheck/internal/source"
)

// Options configures Check and CheckDir.
type Options struct {
	Columns        braces.ColumnMode
	Encoding       string // WHATWG label, empty for UTF-8
	KeepCR         bool   // не переводить \r\n в \n
	MaxDiagnostics int    // 0 — без ограничения

	// Directory runs only.
	Jobs       int      // 0 — GOMAXPROCS
	Extensions []string // пусто — все файлы
	Exclude    []string // имена каталогов/файлов, которые пропускаются

	Cache    *DiskCache   // nil disables caching
	Progress ProgressSink // nil disables progress events
}

func (o Options) scanOptions(file *source.File) braces.Options {
	return braces.Options{
		Columns: o.Columns,
		// снятый UTF-8 BOM был первым символом строки 1
		LeadingBOM: file.Flags&source.FileHadBOM != 0 && file.Flags&source.FileTranscoded == 0,
	}
}

func (o Options) loadOptions() source.LoadOptions {
	return source.LoadOptions{Encoding: o.Encoding, KeepCR: o.KeepCR}
}

func (o Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}
