package source

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when LoadOptions.Encoding is empty.
const DefaultEncoding = "utf-8"

// ErrInvalidUTF8 is returned when content declared as UTF-8 is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// ErrUnknownEncoding is returned for encoding names x/text does not know.
var ErrUnknownEncoding = errors.New("unknown encoding")

// isUTF8 reports whether name denotes UTF-8 under any of its usual labels.
func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}

// LookupEncoding resolves a WHATWG encoding label ("windows-1252",
// "utf-16le", "koi8-r", ...). UTF-8 labels resolve to nil: UTF-8 is
// validated, not transcoded.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if isUTF8(name) {
		return nil, nil
	}
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// Decode converts raw file bytes into UTF-8 text.
// The returned flags report whether a BOM was dropped or the bytes were transcoded.
func Decode(raw []byte, name string) ([]byte, FileFlags, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, 0, err
	}

	var flags FileFlags
	if enc == nil {
		content, hadBOM := removeBOM(raw)
		if hadBOM {
			flags |= FileHadBOM
		}
		if !utf8.Valid(content) {
			return nil, flags, ErrInvalidUTF8
		}
		return content, flags, nil
	}

	// BOM, если есть, важнее заявленной кодировки
	dec := unicode.BOMOverride(enc.NewDecoder())
	content, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return nil, flags, fmt.Errorf("decode %s: %w", name, err)
	}
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	return content, flags | FileTranscoded, nil
}
