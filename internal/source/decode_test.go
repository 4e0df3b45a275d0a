package source

import (
	"errors"
	"testing"
)

func TestDecodeUTF8(t *testing.T) {
	content, flags, err := Decode([]byte("{ü}"), "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(content) != "{ü}" {
		t.Errorf("content = %q", content)
	}
	if flags != 0 {
		t.Errorf("flags = %b, want 0", flags)
	}
}

func TestDecodeWindows1252(t *testing.T) {
	// 0xE9 = é в windows-1252
	content, flags, err := Decode([]byte{'{', 0xE9, '}'}, "windows-1252")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(content) != "{é}" {
		t.Errorf("content = %q, want %q", content, "{é}")
	}
	if flags&FileTranscoded == 0 {
		t.Error("expected FileTranscoded flag")
	}
}

func TestDecodeUTF16WithBOM(t *testing.T) {
	raw := []byte{0xFF, 0xFE, '{', 0, '\n', 0, '}', 0}
	content, _, err := Decode(raw, "utf-16le")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(content) != "{\n}" {
		t.Errorf("content = %q", content)
	}
}

func TestDecodeUnknownEncoding(t *testing.T) {
	_, _, err := Decode([]byte("x"), "klingon-8")
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}
