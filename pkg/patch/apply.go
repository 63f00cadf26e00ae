// Package patch replaces the dialogue of scene scripts with translated text.
package patch

import (
	"strconv"

	"github.com/yaklabco/cstpatch/pkg/cst"
	"github.com/yaklabco/cstpatch/pkg/textenc"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

// Options controls Apply.
type Options struct {
	// Encoding decides which translated characters are escaped.
	Encoding textenc.Encoding

	// ContinuationMarker selects the message lines merged before translating.
	// Empty disables merging.
	ContinuationMarker string

	// WordGuard wraps translated words in [brackets].
	WordGuard bool
}

// DefaultOptions returns the options used by the game's own scripts.
func DefaultOptions() Options {
	return Options{
		Encoding:           textenc.ShiftJIS(),
		ContinuationMarker: cst.ContinuationMarker,
		WordGuard:          true,
	}
}

// Result counts what Apply changed.
type Result struct {
	// Merged is the number of continuation lines folded into their predecessor.
	Merged int `json:"merged"`

	// Messages is the number of message lines replaced.
	Messages int `json:"messages"`

	// Names is the number of name lines replaced.
	Names int `json:"names"`

	// Unused is the number of translation entries left over.
	Unused int `json:"unused"`
}

// Apply merges continuation lines of s and then replaces every non-empty
// message with the next translation entry for label and every non-empty name
// through the source's name map. On error s is left partially modified and
// must not be written.
func Apply(s *cst.Script, src translation.Source, label string, opts Options) (Result, error) {
	var result Result

	result.Merged = s.MergeContinuations(opts.ContinuationMarker)

	entries := src.LinesFor(label)
	next := 0
	textOpts := TextOptions{Encoding: opts.Encoding, WordGuard: opts.WordGuard}

	for _, line := range s.Lines {
		if line.Content == "" {
			continue
		}

		switch line.Type {
		case cst.Message:
			if next >= len(entries) {
				return result, &ConsistencyError{
					Location: line.Location(),
					Kind:     ErrSourceExhausted,
					Msg:      strconv.Quote(line.Content),
				}
			}
			entry := entries[next]
			next++

			if line.Content != entry.OriginalText {
				return result, &ConsistencyError{
					Location: line.Location(),
					Kind:     ErrTextMismatch,
					Msg: "script has " + strconv.Quote(line.Content) +
						", translation " + entry.Location() + " has " + strconv.Quote(entry.OriginalText),
				}
			}

			line.Content = ProcessText(line.Content, entry.Text(), textOpts)
			result.Messages++

		case cst.Name:
			name, ok := src.Name(line.Content)
			if !ok {
				return result, &ConsistencyError{
					Location: line.Location(),
					Kind:     ErrUntranslatedName,
					Msg:      strconv.Quote(line.Content),
				}
			}
			line.Content = name
			result.Names++
		}
	}

	result.Unused = len(entries) - next
	return result, nil
}
