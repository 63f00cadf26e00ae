package cst

import "fmt"

// LineType is the single-byte tag stored before every line's text.
type LineType byte

// Known line types.
const (
	Input      LineType = 0x02
	Page       LineType = 0x03
	Message    LineType = 0x20
	Name       LineType = 0x21
	Command    LineType = 0x30
	ScriptName LineType = 0xF0
	LineNo     LineType = 0xF1
)

// String returns a lowercase name, or the hex value for unknown tags.
func (t LineType) String() string {
	switch t {
	case Input:
		return "input"
	case Page:
		return "page"
	case Message:
		return "message"
	case Name:
		return "name"
	case Command:
		return "command"
	case ScriptName:
		return "script-name"
	case LineNo:
		return "line-no"
	default:
		return fmt.Sprintf("0x%02x", byte(t))
	}
}

// Known reports whether t is one of the documented tags.
// Unknown tags still round-trip unchanged.
func (t LineType) Known() bool {
	switch t {
	case Input, Page, Message, Name, Command, ScriptName, LineNo:
		return true
	default:
		return false
	}
}
