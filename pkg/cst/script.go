// Package cst reads, edits and writes CatScene (.cst) scene scripts.
//
// A script is a block table plus an ordered list of tagged text lines.
// Blocks are opaque {start, length} ranges over line indices; the package
// only keeps them consistent when lines are removed.
package cst

import "strconv"

// Line is one tagged text record of a script.
type Line struct {
	// Script is the label of the script the line was read from.
	Script string

	// ID is the line's index in the file as read. Edits never renumber it.
	ID int

	// Type tells the engine how to interpret Content.
	Type LineType

	// Content is the decoded text.
	Content string
}

// Location returns "script:id" for diagnostics.
func (l *Line) Location() string {
	return l.Script + ":" + strconv.Itoa(l.ID)
}

// Block is a range over line indices, copied verbatim from the file.
type Block struct {
	Start  uint32
	Length uint32
}

// End returns the index one past the block's last line.
func (b Block) End() uint64 {
	return uint64(b.Start) + uint64(b.Length)
}

// Script is the in-memory form of a scene script file.
type Script struct {
	Blocks []Block
	Lines  []*Line
}

// CountByType returns how many lines carry each type.
func (s *Script) CountByType() map[LineType]int {
	counts := make(map[LineType]int)
	for _, line := range s.Lines {
		counts[line.Type]++
	}
	return counts
}
