// Package fix applies the edits attached to diagnostics back to the files
// they came from.
package fix

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	order int
}

// Apply applies every fix attached to diagnostics and rewrites the touched files.
// Files whose bytes were changed on load (newline translation, transcoding) and
// virtual files are left alone; their fixes land in Skipped.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	applied, skipped, changes, err := applyCandidates(fs, candidates)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = append(result.FileChanges, changes...)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens the fixes of every diagnostic. Each fix gets an id
// "<code>-<file>-<start>-<index>" and an insertion order for stable sorting.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, id: id, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by file, span start, span end, insertion order and code.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		return di.Code < dj.Code
	})
}

// skipReason reports why a file cannot be rewritten, "" if it can.
func skipReason(file *source.File) string {
	switch {
	case file.Flags&source.FileVirtual != 0:
		return "target file is virtual"
	case file.Flags&source.FileNormalizedNewlines != 0:
		return "line endings were translated on load (rerun with --keep-cr)"
	case file.Flags&source.FileTranscoded != 0:
		return "file was transcoded on load"
	}
	return ""
}

func applyCandidates(fs *source.FileSet, selected []candidate) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	buffers := make(map[source.FileID][]byte)
	appliedEdits := make(map[source.FileID][]diag.FixEdit)
	fileEditCount := make(map[source.FileID]int)

	var (
		applied []AppliedFix
		skipped []SkippedFix
	)
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		buckets := groupEditsByFile(cand.fix.Edits)
		stagedBuffers := make(map[source.FileID][]byte)
		stagedApplied := make(map[source.FileID][]diag.FixEdit)
		totalEdits := 0
		var reason string

		for fileID, edits := range buckets {
			file := fs.Get(fileID)
			if reason = skipReason(file); reason != "" {
				break
			}
			if conflictsWithExisting(appliedEdits[fileID], edits) {
				reason = fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", baseDir))
				break
			}

			working := buffers[fileID]
			if working == nil {
				working = file.Content
			}
			working = slices.Clone(working)

			// с конца, чтобы смещения внутри одного fix не съезжали
			sort.SliceStable(edits, func(i, j int) bool {
				if edits[i].Span.Start == edits[j].Span.Start {
					return edits[i].Span.End > edits[j].Span.End
				}
				return edits[i].Span.Start > edits[j].Span.Start
			})

			existing := slices.Clone(appliedEdits[fileID])
			for _, edit := range edits {
				start := int(edit.Span.Start) + cumulativeDelta(existing, int(edit.Span.Start))
				end := int(edit.Span.End) + cumulativeDelta(existing, int(edit.Span.End))
				if start < 0 || end < start || end > len(working) {
					reason = "edit span out of range"
					break
				}
				if edit.OldText != "" && string(working[start:end]) != edit.OldText {
					reason = "existing text does not match expected content"
					break
				}
				working = slices.Concat(working[:start], []byte(edit.NewText), working[end:])
				existing = insertEditSorted(existing, edit)
			}
			if reason != "" {
				break
			}
			stagedBuffers[fileID] = working
			stagedApplied[fileID] = existing
			totalEdits += len(edits)
		}

		if reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: reason})
			continue
		}

		for fileID, buf := range stagedBuffers {
			buffers[fileID] = buf
			appliedEdits[fileID] = stagedApplied[fileID]
			fileEditCount[fileID] += len(buckets[fileID])
		}
		applied = append(applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: fs.Get(cand.diag.Primary.File).FormatPath("auto", baseDir),
			EditCount:   totalEdits,
		})
	}

	if len(applied) == 0 {
		return applied, skipped, nil, nil
	}

	fileChanges := make([]FileChange, 0, len(buffers))
	for fileID, buf := range buffers {
		file := fs.Get(fileID)
		if file.Flags&source.FileHadBOM != 0 {
			buf = slices.Concat(utf8BOM, buf)
		}

		mode := os.FileMode(0o644)
		if info, err := os.Stat(file.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(file.Path, buf, mode); err != nil {
			return applied, skipped, fileChanges, fmt.Errorf("write %s: %w", file.Path, err)
		}
		fileChanges = append(fileChanges, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			EditCount: fileEditCount[fileID],
		})
	}

	sort.SliceStable(fileChanges, func(i, j int) bool {
		return fileChanges[i].Path < fileChanges[j].Path
	})
	return applied, skipped, fileChanges, nil
}

func conflictsWithExisting(existing, edits []diag.FixEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits' half-open spans overlap.
// Two insertions never conflict; an insertion conflicts with a span that
// strictly contains its position.
func spansConflict(a, b diag.FixEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	switch {
	case a.Span.Empty() && b.Span.Empty():
		return false
	case a.Span.Empty():
		return bStart <= aStart && aStart < bEnd
	case b.Span.Empty():
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func groupEditsByFile(edits []diag.FixEdit) map[source.FileID][]diag.FixEdit {
	buckets := make(map[source.FileID][]diag.FixEdit)
	for _, edit := range edits {
		buckets[edit.Span.File] = append(buckets[edit.Span.File], edit)
	}
	return buckets
}

// cumulativeDelta is how far pos moved because of edits already applied before it.
func cumulativeDelta(edits []diag.FixEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart := int(e.Span.Start)
		if eStart > pos {
			break
		}
		eEnd := int(e.Span.End)
		if eEnd <= pos {
			delta += len(e.NewText) - (eEnd - eStart)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.FixEdit, edit diag.FixEdit) []diag.FixEdit {
	idx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	return slices.Insert(edits, idx, edit)
}
