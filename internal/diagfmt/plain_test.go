package diagfmt

import (
	"bytes"
	"errors"
	"testing"
)

func TestPlain(t *testing.T) {
	tests := []struct {
		name      string
		files     []FileMessages
		withPaths bool
		want      string
	}{
		{
			name:  "balanced",
			files: []FileMessages{{Path: "a"}},
			want:  "Braces are balanced.\n",
		},
		{
			name:  "no files",
			files: nil,
			want:  "Braces are balanced.\n",
		},
		{
			name:  "single file",
			files: []FileMessages{{Path: "a", Messages: []string{"Unmatched '}' at line 1, col 2", "Unmatched '{' at line 3, col 5"}}},
			want:  "Unmatched '}' at line 1, col 2\nUnmatched '{' at line 3, col 5\n",
		},
		{
			name: "with paths",
			files: []FileMessages{
				{Path: "a.txt"},
				{Path: "b.txt", Messages: []string{"Unmatched '}' at line 1, col 2"}},
				{Path: "c.txt", Err: errors.New("failed to read c.txt: boom")},
			},
			withPaths: true,
			want:      "b.txt: Unmatched '}' at line 1, col 2\nc.txt: failed to read c.txt: boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Plain(&buf, tt.files, tt.withPaths); err != nil {
				t.Fatalf("Plain: %v", err)
			}
			if buf.String() != tt.want {
				t.Fatalf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Fatalf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if got, _ := ParseFormat(""); got != FormatPlain {
		t.Fatalf("empty format should default to plain, got %q", got)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
	if !FormatSarif.MachineReadable() || FormatPretty.MachineReadable() {
		t.Fatalf("MachineReadable mismatch")
	}
}

func TestShort(t *testing.T) {
	fs, bag := reportFile(t, "s.txt", "{}}")

	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatal(err)
	}
	want := "error BRC1001 s.txt:1:3 Unmatched '}' at line 1, col 4\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
