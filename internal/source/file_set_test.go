package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fset := NewFileSet()

	// Добавляем файл первый раз
	id1 := fset.Add("test.txt", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	// Тот же путь с новым содержимым
	id2 := fset.Add("test.txt", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	if got := string(fset.Get(id1).Content); got != "hello world" {
		t.Errorf("Expected first file content to be 'hello world', got %q", got)
	}
	if got := string(fset.Get(id2).Content); got != "hello universe" {
		t.Errorf("Expected second file content to be 'hello universe', got %q", got)
	}
	if fset.Len() != 2 {
		t.Errorf("Expected Len()=2, got %d", fset.Len())
	}
}

// TestAddVirtualLineIdx проверяет правильность построения LineIdx для AddVirtual
func TestAddVirtualLineIdx(t *testing.T) {
	fset := NewFileSet()

	id := fset.AddVirtual("a.txt", []byte("a\nb\n"))
	file := fset.Get(id)

	expected := []uint32{1, 3} // позиции символов \n
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestNormalizeNewlines(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{name: "no carriage returns", in: "a\nb\n", want: "a\nb\n", changed: false},
		{name: "crlf", in: "a\r\nb\r\n", want: "a\nb\n", changed: true},
		{name: "lone cr", in: "a\rb", want: "a\nb", changed: true},
		{name: "mixed", in: "{\r\r\n}", want: "{\n\n}", changed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := normalizeNewlines([]byte(tt.in))
			if string(got) != tt.want {
				t.Errorf("normalizeNewlines(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if changed != tt.changed {
				t.Errorf("normalizeNewlines(%q) changed = %v, want %v", tt.in, changed, tt.changed)
			}
		})
	}
}

func TestLoadNormalizesAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.txt")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("{\r\n}\r\n")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fset := NewFileSet()
	id, err := fset.Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fset.Get(id)
	if string(file.Content) != "{\n}\n" {
		t.Errorf("unexpected content %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
	if file.Flags&FileNormalizedNewlines == 0 {
		t.Error("Expected FileNormalizedNewlines flag to be set")
	}
}

func TestLoadKeepCR(t *testing.T) {
	fset := NewFileSet()
	id, err := fset.AddRaw("keep.txt", []byte("a\r\nb"), LoadOptions{KeepCR: true})
	if err != nil {
		t.Fatalf("AddRaw: %v", err)
	}
	if got := string(fset.Get(id).Content); got != "a\r\nb" {
		t.Errorf("content = %q, want CR preserved", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fset := NewFileSet()
	_, err := fset.Load(filepath.Join(t.TempDir(), "nope.txt"), LoadOptions{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
	if fset.Len() != 0 {
		t.Errorf("failed load must not add a file, Len()=%d", fset.Len())
	}
}

func TestLoadInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(path, []byte{'{', 0xff, 0xfe, '}'}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewFileSet().Load(path, LoadOptions{})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestResolveCountsCharacters(t *testing.T) {
	fset := NewFileSet()
	// "ж" занимает два байта, но одну колонку
	id := fset.AddVirtual("u.txt", []byte("жx{\n  }"))

	start, _ := fset.Resolve(Span{File: id, Start: 3, End: 4})
	if start != (LineCol{Line: 1, Col: 3}) {
		t.Errorf("'{' resolved to %+v, want 1:3", start)
	}

	start, end := fset.Resolve(Span{File: id, Start: 7, End: 8})
	if start != (LineCol{Line: 2, Col: 3}) {
		t.Errorf("'}' resolved to %+v, want 2:3", start)
	}
	if end != (LineCol{Line: 2, Col: 4}) {
		t.Errorf("'}' end resolved to %+v, want 2:4", end)
	}

	// перевод строки принадлежит строке, которую завершает
	start, _ = fset.Resolve(Span{File: id, Start: 4, End: 5})
	if start != (LineCol{Line: 1, Col: 4}) {
		t.Errorf("newline resolved to %+v, want 1:4", start)
	}
}

func TestGetLine(t *testing.T) {
	fset := NewFileSet()
	id := fset.AddVirtual("lines.txt", []byte("first\nsecond\nthird"))
	file := fset.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := file.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestFormatPath(t *testing.T) {
	fset := NewFileSet()
	id := fset.AddVirtual("/home/user/project/src/main.c", nil)
	file := fset.Get(id)

	if got := file.FormatPath("basename", ""); got != "main.c" {
		t.Errorf("basename = %q", got)
	}
	if got := file.FormatPath("relative", "/home/user/project"); got != "src/main.c" {
		t.Errorf("relative = %q", got)
	}
	if got := file.FormatPath("absolute", ""); got != "/home/user/project/src/main.c" {
		t.Errorf("absolute = %q", got)
	}
	if got := file.FormatPath("other", ""); got != file.Path {
		t.Errorf("default = %q", got)
	}
}
