package driver

import (
	"errors"
	"fmt"

	"bracecheck/internal/source"
)

// ReadError reports that a file could not be opened, read or decoded.
// Nothing is scanned after a ReadError.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// IsDecodeError reports whether the file was read but is not valid text.
func (e *ReadError) IsDecodeError() bool {
	return errors.Is(e.Err, source.ErrInvalidUTF8) || errors.Is(e.Err, source.ErrUnknownEncoding)
}

func newReadError(path string, err error) *ReadError {
	return &ReadError{Path: path, Err: err}
}
