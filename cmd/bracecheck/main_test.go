package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bracecheck/internal/diagfmt"
)

type runOutput struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) runOutput {
	t.Helper()
	// кэш пишется во временный каталог теста
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return runOutput{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBalancedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.c", "int main() { return 0; }\n")

	out := run(t, "", path)
	if out.code != exitBalanced {
		t.Fatalf("exit = %d, stderr = %q", out.code, out.stderr)
	}
	if out.stdout != "Braces are balanced.\n" {
		t.Fatalf("stdout = %q", out.stdout)
	}
}

func TestUnbalancedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.txt", "a{b}}\n{\n")

	out := run(t, "", path)
	if out.code != exitFindings {
		t.Fatalf("exit = %d, want %d", out.code, exitFindings)
	}
	want := "Unmatched '}' at line 1, col 6\nUnmatched '{' at line 2, col 2\n"
	if out.stdout != want {
		t.Fatalf("stdout = %q, want %q", out.stdout, want)
	}
	if out.stderr != "" {
		t.Fatalf("unexpected stderr %q", out.stderr)
	}
}

func TestMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	out := run(t, "", path)
	if out.code != exitFailure {
		t.Fatalf("exit = %d, want %d", out.code, exitFailure)
	}
	if out.stdout != "" {
		t.Fatalf("nothing should be printed to stdout, got %q", out.stdout)
	}
	if !strings.Contains(out.stderr, "failed to read "+path) {
		t.Fatalf("stderr = %q", out.stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	if out := run(t, ""); out.code != exitFailure || !strings.Contains(out.stderr, "accepts 1 arg") {
		t.Fatalf("missing path: code=%d stderr=%q", out.code, out.stderr)
	}
	path := writeFile(t, t.TempDir(), "x.txt", "{}")
	if out := run(t, "", "--columns", "weird", path); out.code != exitFailure || !strings.Contains(out.stderr, "check.columns") {
		t.Fatalf("bad columns: code=%d stderr=%q", out.code, out.stderr)
	}
	if out := run(t, "", "--format", "xml", path); out.code != exitFailure {
		t.Fatalf("bad format: code=%d stderr=%q", out.code, out.stderr)
	}
}

func TestStdin(t *testing.T) {
	out := run(t, "}", "-")
	if out.code != exitFindings || out.stdout != "Unmatched '}' at line 1, col 2\n" {
		t.Fatalf("code=%d stdout=%q", out.code, out.stdout)
	}
}

func TestLeadingBOMColumns(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.txt", "\xef\xbb\xbf{")

	out := run(t, "", path)
	if out.code != exitFindings || out.stdout != "Unmatched '{' at line 1, col 3\n" {
		t.Fatalf("code=%d stdout=%q", out.code, out.stdout)
	}
}

func TestExactColumns(t *testing.T) {
	path := writeFile(t, t.TempDir(), "e.txt", "a{b}}")

	out := run(t, "", "--columns", "exact", path)
	if out.stdout != "Unmatched '}' at line 1, col 5\n" {
		t.Fatalf("stdout = %q", out.stdout)
	}
}

func TestQuiet(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.txt", "{}")
	bad := writeFile(t, dir, "bad.txt", "{")

	if out := run(t, "", "--quiet", ok); out.code != exitBalanced || out.stdout != "" {
		t.Fatalf("quiet balanced: code=%d stdout=%q", out.code, out.stdout)
	}
	if out := run(t, "", "--quiet", bad); out.code != exitFindings || out.stdout == "" {
		t.Fatalf("quiet must still report findings: code=%d stdout=%q", out.code, out.stdout)
	}
}

func TestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "{}")
	writeFile(t, dir, "b.txt", "}")
	writeFile(t, dir, "vendor/c.txt", "{")

	out := run(t, "", "--ui", "off", dir)
	if out.code != exitFindings {
		t.Fatalf("exit = %d, stderr = %q", out.code, out.stderr)
	}
	want := filepath.Join(dir, "b.txt") + ": Unmatched '}' at line 1, col 2\n"
	if out.stdout != want {
		t.Fatalf("stdout = %q, want %q", out.stdout, want)
	}
}

func TestDirectoryReadFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "{}")
	writeFile(t, dir, "bin.dat", "\xc3\x28")

	out := run(t, "", "--ui", "off", dir)
	if out.code != exitFailure {
		t.Fatalf("exit = %d, want %d", out.code, exitFailure)
	}
	if !strings.Contains(out.stdout, "bin.dat: content is not valid UTF-8") {
		t.Fatalf("stdout = %q", out.stdout)
	}
}

func TestJSONOutput(t *testing.T) {
	path := writeFile(t, t.TempDir(), "j.txt", "{\n")

	out := run(t, "", "--format", "json", "--suggest", path)
	if out.code != exitFindings {
		t.Fatalf("exit = %d", out.code)
	}
	var doc diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(out.stdout), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.stdout)
	}
	if doc.Count != 1 || doc.Diagnostics[0].Code != "BRC1002" || len(doc.Diagnostics[0].Fixes) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
}

func TestJSONTimings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.txt", "{}")

	out := run(t, "", "--format", "json", "--timings", path)
	var doc diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(out.stdout), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.stdout)
	}
	if doc.Count != 1 || doc.Diagnostics[0].Code != "OBS6001" {
		t.Fatalf("expected a single timings entry, got %+v", doc)
	}
	if out.code != exitBalanced {
		t.Fatalf("timings must not change the exit code, got %d", out.code)
	}
}

func TestPlainTimingsOnStderr(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.txt", "{}")

	out := run(t, "", "--timings", path)
	if out.stdout != "Braces are balanced.\n" {
		t.Fatalf("stdout = %q", out.stdout)
	}
	for _, phase := range []string{"load", "scan", "render", "total"} {
		if !strings.Contains(out.stderr, phase) {
			t.Errorf("stderr missing %q: %q", phase, out.stderr)
		}
	}
}

func TestPrettyOutput(t *testing.T) {
	path := writeFile(t, t.TempDir(), "p.txt", "x}\n")

	out := run(t, "", "--format", "pretty", "--color", "off", path)
	if !strings.Contains(out.stdout, "p.txt:1:2: ERROR BRC1001: Unmatched '}' at line 1, col 3") {
		t.Fatalf("stdout = %q", out.stdout)
	}
}

func TestTraceToFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tr.txt", "{}")
	tracePath := filepath.Join(dir, "trace.ndjson")

	out := run(t, "", "--trace", tracePath, "--trace-format", "ndjson", path)
	if out.code != exitBalanced {
		t.Fatalf("exit = %d, stderr = %q", out.code, out.stderr)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("trace file: %v", err)
	}
	if !bytes.Contains(data, []byte(`"check"`)) {
		t.Fatalf("trace has no check span:\n%s", data)
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p.txt", "{}")
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")

	out := run(t, "", "--cpu-profile", cpu, "--mem-profile", mem, path)
	if out.code != exitBalanced {
		t.Fatalf("exit = %d, stderr = %q", out.code, out.stderr)
	}
	for _, p := range []string{cpu, mem} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("profile not written: %v", err)
		}
	}
}

func TestFixFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "f.txt", "}{\n")

	out := run(t, "", "--fix", path)
	if out.code != exitBalanced {
		t.Fatalf("exit = %d, stderr = %q", out.code, out.stderr)
	}
	// вывод описывает файл до исправления
	if !strings.Contains(out.stdout, "Unmatched '}' at line 1, col 2") {
		t.Fatalf("stdout = %q", out.stdout)
	}
	if !strings.Contains(out.stderr, "fixed ") {
		t.Fatalf("stderr = %q", out.stderr)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{\n}" {
		t.Fatalf("content = %q", got)
	}
}

func TestFixStdinIsSkipped(t *testing.T) {
	out := run(t, "{", "--fix", "-")
	if out.code != exitFindings {
		t.Fatalf("exit = %d", out.code)
	}
	if !strings.Contains(out.stderr, "target file is virtual") {
		t.Fatalf("stderr = %q", out.stderr)
	}
}

func TestMaxDiagnosticsPlain(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "many.txt", "}}}}")

	out := run(t, "", "--max-diagnostics", "1", path)
	if out.code != exitFindings {
		t.Fatalf("exit = %d, want %d", out.code, exitFindings)
	}
	if out.stdout != "Unmatched '}' at line 1, col 2\n" {
		t.Fatalf("stdout = %q", out.stdout)
	}

	short := run(t, "", "--max-diagnostics", "1", "--format", "short", path)
	if n := strings.Count(short.stdout, "BRC1001"); n != 1 {
		t.Fatalf("short printed %d diagnostics: %q", n, short.stdout)
	}

	writeFile(t, dir, "more.txt", "{{")
	out = run(t, "", "--ui", "off", "--max-diagnostics", "1", dir)
	want := filepath.Join(dir, "many.txt") + ": Unmatched '}' at line 1, col 2\n" +
		filepath.Join(dir, "more.txt") + ": Unmatched '{' at line 1, col 2\n"
	if out.stdout != want {
		t.Fatalf("stdout = %q, want %q", out.stdout, want)
	}
}
