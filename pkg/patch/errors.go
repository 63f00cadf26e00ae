package patch

import (
	"errors"
	"fmt"
)

// Consistency error kinds, matched with errors.Is.
var (
	// ErrSourceExhausted means a script has more messages than translations.
	ErrSourceExhausted = errors.New("not enough translation lines")

	// ErrTextMismatch means a message differs from the original text of its translation.
	ErrTextMismatch = errors.New("original text mismatch")

	// ErrUntranslatedName means a name line has no translation.
	ErrUntranslatedName = errors.New("untranslated name")
)

// Pipeline error categories.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrDecodeFailure    = errors.New("decode failure")
	ErrEncodeFailure    = errors.New("encode failure")
	ErrWriteFailure     = errors.New("write failure")
)

// ConsistencyError reports a script that does not agree with its translation
// data. The script is never written when one occurs.
type ConsistencyError struct {
	// Location is "script:id" of the offending line.
	Location string

	// Kind is one of ErrSourceExhausted, ErrTextMismatch or ErrUntranslatedName.
	Kind error

	// Msg shows the texts involved.
	Msg string
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Location, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Location, e.Kind, e.Msg)
}

// Unwrap returns Kind.
func (e *ConsistencyError) Unwrap() error {
	return e.Kind
}

// IsPipelineError checks if an error is a known pipeline error category.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrDecodeFailure) ||
		errors.Is(err, ErrEncodeFailure) ||
		errors.Is(err, ErrWriteFailure)
}
