// Package textenc converts between Go strings and the legacy byte encodings
// used by scene script files.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names accepted by Lookup.
const (
	NameShiftJIS = "shift_jis"
	NameEUCJP    = "euc-jp"
	NameUTF8     = "utf-8"
)

var (
	// ErrUnsupported is returned by Lookup for unknown encoding names.
	ErrUnsupported = errors.New("unsupported encoding")

	// ErrUnrepresentable indicates a character the encoding has no byte sequence for.
	ErrUnrepresentable = errors.New("character not representable")

	// ErrInvalidSequence indicates bytes that are not valid in the encoding.
	ErrInvalidSequence = errors.New("invalid byte sequence")
)

// Encoding encodes and decodes string fields of a script.
type Encoding interface {
	// Name returns the canonical encoding name.
	Name() string

	// Encode converts s to the encoding's byte form.
	Encode(s string) ([]byte, error)

	// Decode converts encoded bytes back to a string.
	Decode(b []byte) (string, error)
}

type xtextEncoding struct {
	name string
	enc  encoding.Encoding
}

func (e *xtextEncoding) Name() string { return e.name }

func (e *xtextEncoding) Encode(s string) ([]byte, error) {
	out, err := e.enc.NewEncoder().Bytes([]byte(s))
	if err == nil {
		return out, nil
	}
	if r, ok := firstUnrepresentable(e, s); ok {
		return nil, fmt.Errorf("%w in %s: %q (U+%04X)", ErrUnrepresentable, e.name, r, r)
	}
	return nil, fmt.Errorf("encode %s: %w", e.name, err)
}

func (e *xtextEncoding) Decode(b []byte) (string, error) {
	out, err := e.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", e.name, err)
	}
	// x/text substitutes U+FFFD for malformed input instead of failing.
	if bytes.ContainsRune(out, utf8.RuneError) {
		if again, err := e.enc.NewEncoder().Bytes(out); err != nil || !bytes.Equal(again, b) {
			return "", fmt.Errorf("%w in %s: % X", ErrInvalidSequence, e.name, b)
		}
	}
	return string(out), nil
}

// firstUnrepresentable finds the first rune of s that cannot be encoded.
func firstUnrepresentable(e *xtextEncoding, s string) (rune, bool) {
	encoder := e.enc.NewEncoder()
	for _, r := range s {
		if _, err := encoder.String(string(r)); err != nil {
			return r, true
		}
	}
	return 0, false
}

// ShiftJIS returns the Shift_JIS encoding used by the engine.
func ShiftJIS() Encoding {
	return &xtextEncoding{name: NameShiftJIS, enc: japanese.ShiftJIS}
}

// EUCJP returns the EUC-JP encoding.
func EUCJP() Encoding {
	return &xtextEncoding{name: NameEUCJP, enc: japanese.EUCJP}
}

// UTF8 returns a pass-through UTF-8 encoding. Useful for tests and
// fan-made scripts that were re-saved as UTF-8.
func UTF8() Encoding {
	return &xtextEncoding{name: NameUTF8, enc: unicode.UTF8}
}

// Lookup returns the encoding registered under name.
// Matching ignores case and accepts the usual aliases.
func Lookup(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameShiftJIS, "shift-jis", "shiftjis", "sjis", "cp932":
		return ShiftJIS(), nil
	case NameEUCJP, "euc_jp", "eucjp":
		return EUCJP(), nil
	case NameUTF8, "utf8":
		return UTF8(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
}

// Representable reports whether r can be encoded by enc.
func Representable(enc Encoding, r rune) bool {
	_, err := enc.Encode(string(r))
	return err == nil
}

// ByteCount returns the encoded length of s.
func ByteCount(enc Encoding, s string) (int, error) {
	b, err := enc.Encode(s)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}
