package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"bracecheck/internal/braces"
	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

// reportFile сканирует content и возвращает FileSet и bag с диагностиками
func reportFile(t *testing.T, path, content string) (*source.FileSet, *diag.Bag) {
	t.Helper()
	return reportFileIn(t, "", path, content)
}

// reportFileIn то же, но относительные пути считаются от base
func reportFileIn(t *testing.T, base, path, content string) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSetWithBase(base)
	fileID := fs.AddVirtual(path, []byte(content))
	bag := diag.NewBag(0)
	braces.Report(diag.BagReporter{Bag: bag}, fileID, []byte(content), braces.Options{})
	return fs, bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs, bag := reportFileIn(t, "/home/user/project", "/home/user/project/src/main.c", "int main() {\n  return 0;\n")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/main.c:1:12"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/main.c:1:12"},
		{name: "Basename only", mode: PathModeBasename, contains: "main.c:1:12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR") {
				t.Error("Expected ERROR in output")
			}
			if !strings.Contains(output, "BRC1002") {
				t.Error("Expected BRC1002 code in output")
			}
			if !strings.Contains(output, "Unmatched '{' at line 1, col 13") {
				t.Error("Expected error message in output")
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "Short path - as is", path: "test.txt", expected: "test.txt:1:1"},
		{name: "Long absolute path - basename", path: "/very/long/absolute/path/to/some/nested/directory/file.txt", expected: "file.txt:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, bag := reportFile(t, tt.path, "}")
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			if !strings.HasPrefix(buf.String(), tt.expected) {
				t.Errorf("Expected output to start with %q, got:\n%s", tt.expected, buf.String())
			}
		})
	}
}

func TestPrettyCaret(t *testing.T) {
	fs, bag := reportFile(t, "a.txt", "ab}\n")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	want := strings.Join([]string{
		"a.txt:1:3: ERROR BRC1001: Unmatched '}' at line 1, col 4",
		"  |",
		"1 | ab}",
		"  |   ^",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyCaretWideRunes(t *testing.T) {
	fs, bag := reportFile(t, "w.txt", "日本}")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "  |     ^\n") {
		t.Fatalf("caret should skip two double-width runes:\n%s", buf.String())
	}
	if !strings.HasPrefix(buf.String(), "w.txt:1:3:") {
		t.Fatalf("column should count runes:\n%s", buf.String())
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs, bag := reportFile(t, "n.txt", "{\n{}\n")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: -1, ShowNotes: true, ShowFixes: true, ShowPreview: true})
	out := buf.String()

	for _, want := range []string{
		"note: n.txt:2:2: last closing brace here",
		"fix: insert '}' at end of file",
		"+ }",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, " | ") {
		t.Errorf("negative context must hide the source:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	fs, bag := reportFile(t, "c.txt", "}")

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("unexpected escape codes without color")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected escape codes with color")
	}
}

func TestPrettyDropped(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("}}}")
	fileID := fs.AddVirtual("d.txt", content)
	bag := diag.NewBag(1)
	braces.Report(diag.BagReporter{Bag: bag}, fileID, content, braces.Options{})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if !strings.Contains(buf.String(), "2 more diagnostics not shown") {
		t.Fatalf("expected dropped summary:\n%s", buf.String())
	}
}

func TestClip(t *testing.T) {
	if got := clip("abcdefgh", 6); got != "abc..." {
		t.Fatalf("clip = %q", got)
	}
	if got := clip("abc", 0); got != "abc" {
		t.Fatalf("clip without width = %q", got)
	}
}
