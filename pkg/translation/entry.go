// Package translation loads translated dialogue and character names and
// exposes them to the patcher through the Source interface.
package translation

import (
	"strconv"
	"strings"
)

// PromptSuffix ends a message that continues without waiting for input.
const PromptSuffix = `\@`

// displayMarker separates an internal character name from its display name.
const displayMarker = "＠"

// Entry is one translated message of a script.
type Entry struct {
	ID             int
	Script         string
	OriginalName   string
	OriginalText   string
	TranslatedName string
	Translation    string
	Edit           string
}

// Location returns "script:id" for diagnostics.
func (e Entry) Location() string {
	return e.Script + ":" + strconv.Itoa(e.ID)
}

// IsTranslated reports whether the entry carries a translation or an edit.
func (e Entry) IsTranslated() bool {
	return !isBlank(e.Edit) || !isBlank(e.Translation)
}

// Text returns the edit if present, otherwise the translation, falling back
// to the original text.
func (e Entry) Text() string {
	switch {
	case !isBlank(e.Edit):
		return e.Edit
	case !isBlank(e.Translation):
		return e.Translation
	default:
		return e.OriginalText
	}
}

// HasAttachedPrompt reports whether the original text ends with PromptSuffix.
func (e Entry) HasAttachedPrompt() bool {
	return strings.HasSuffix(strings.TrimSpace(e.OriginalText), PromptSuffix)
}

// Check returns the non-fatal problems found in the entry.
func (e Entry) Check() []Warning {
	var warnings []Warning
	add := func(msg string) {
		warnings = append(warnings, Warning{Location: e.Location(), Message: msg})
	}

	if e.OriginalText == "" {
		add("empty original text")
	}
	if !e.IsTranslated() {
		add("untranslated line: " + e.OriginalText)
	}
	if strings.Contains(e.Text(), PromptSuffix) && !e.HasAttachedPrompt() {
		add(`unexpected \@: ` + e.OriginalText)
	}
	if strings.ContainsRune(e.Text(), '\uFFFD') {
		add("translation contains U+FFFD replacement characters")
	}
	if !isBlank(e.OriginalName) && isBlank(e.TranslatedName) {
		add("untranslated name: " + e.OriginalName)
	}
	if strings.Contains(e.OriginalName, displayMarker) && !strings.Contains(e.TranslatedName, displayMarker) {
		add("name " + strconv.Quote(e.OriginalName) + " has a display name but " +
			strconv.Quote(e.TranslatedName) + " does not")
	}
	return warnings
}

// Warning is a non-fatal problem in the translation data.
type Warning struct {
	Location string
	Message  string
}

// String formats the warning as "location: message".
func (w Warning) String() string {
	if w.Location == "" {
		return w.Message
	}
	return w.Location + ": " + w.Message
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
