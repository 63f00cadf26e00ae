package cst

import (
	"fmt"
	"strings"
)

// ContinuationMarker prefixes a message line that continues the previous one.
// It is the two characters backslash and 'n', not a newline.
const ContinuationMarker = `\n`

// DeleteLine removes the line at index and keeps the block table consistent:
// blocks starting after index move down by one, blocks reaching index shrink
// by one, and blocks left empty are dropped.
//
// The reach test compares against the exclusive end, so a block ending
// exactly at index also shrinks.
func (s *Script) DeleteLine(index int) error {
	if index < 0 || index >= len(s.Lines) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrLineIndex, index, len(s.Lines))
	}
	s.deleteLine(index)
	return nil
}

func (s *Script) deleteLine(index int) {
	s.Lines = append(s.Lines[:index], s.Lines[index+1:]...)

	idx := uint64(index) //nolint:gosec // index checked non-negative
	kept := s.Blocks[:0]
	for _, block := range s.Blocks {
		switch {
		case uint64(block.Start) > idx:
			block.Start--
			if block.Length == 0 {
				continue
			}
		case block.End() >= idx:
			if block.Length <= 1 {
				continue
			}
			block.Length--
		}
		kept = append(kept, block)
	}
	clear(s.Blocks[len(kept):])
	s.Blocks = kept
}

// MergeContinuations folds every message line that starts with marker into
// the message line before it, stripping the marker. Chains collapse into
// their first line. It returns the number of lines removed.
//
// Message lines without the marker are left alone, as are marked lines
// whose predecessor is not a message.
func (s *Script) MergeContinuations(marker string) int {
	if marker == "" {
		return 0
	}

	merged := 0
	for i := 1; i < len(s.Lines); {
		prev, line := s.Lines[i-1], s.Lines[i]
		if prev.Type != Message || line.Type != Message || !strings.HasPrefix(line.Content, marker) {
			i++
			continue
		}
		prev.Content += line.Content[len(marker):]
		s.deleteLine(i)
		merged++
	}
	return merged
}
