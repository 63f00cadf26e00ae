package cst

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat matches every *FormatError via errors.Is.
	ErrFormat = errors.New("invalid scene script")

	// ErrLineIndex is returned by DeleteLine for an index outside the line list.
	ErrLineIndex = errors.New("line index out of range")
)

// FormatError reports bytes that do not follow the container layout.
// It is always fatal for the file being read.
type FormatError struct {
	// Offset is the byte position the problem was detected at. Positions
	// past the 16-byte file header are relative to the (decompressed) body.
	Offset int64

	// Msg describes the problem.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at offset %d: %s: %v", ErrFormat, e.Offset, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s at offset %d: %s", ErrFormat, e.Offset, e.Msg)
}

// Is makes errors.Is(err, ErrFormat) hold for any FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrorf(offset uint64, format string, args ...any) *FormatError {
	return &FormatError{Offset: int64(offset), Msg: fmt.Sprintf(format, args...)} //nolint:gosec // offsets come from u32 fields
}
