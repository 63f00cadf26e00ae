package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/cstpatch/pkg/patch"
	"github.com/yaklabco/cstpatch/pkg/runner"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

// FormatOutcome formats one script's outcome as a single line.
//
//	scene01.cst  patched  42 lines, 3 names, 2 merged
//	scene02.cst  error: decode failure: ...
func (s *Styles) FormatOutcome(outcome runner.FileOutcome, displayPath string) string {
	path := s.FilePath.Render(displayPath)

	if outcome.Error != nil {
		return fmt.Sprintf("%s  %s\n", path, s.Error.Render(fmt.Sprintf("error: %v", outcome.Error)))
	}
	res := outcome.Result
	if res == nil {
		return path + "\n"
	}

	summary := res.Summary()
	switch res.Action {
	case patch.ActionPatched:
		detail := fmt.Sprintf("%d lines, %d names", res.Messages, res.Names)
		if res.Merged > 0 {
			detail += fmt.Sprintf(", %d merged", res.Merged)
		}
		if res.Unused > 0 {
			detail += ", " + s.Warning.Render(fmt.Sprintf("%d unused", res.Unused))
		}
		return fmt.Sprintf("%s  %s  %s\n", path, s.Patched.Render(summary), s.Dim.Render(detail))
	case patch.ActionCopied:
		return fmt.Sprintf("%s  %s\n", path, s.Copied.Render(summary))
	default:
		return fmt.Sprintf("%s  %s\n", path, s.Skipped.Render(summary))
	}
}

// FormatWarning formats a translation data warning.
func (s *Styles) FormatWarning(w translation.Warning) string {
	var builder strings.Builder
	builder.WriteString(s.Warning.Render("warning"))
	builder.WriteString("  ")
	if w.Location != "" {
		builder.WriteString(s.Location.Render(w.Location))
		builder.WriteString("  ")
	}
	builder.WriteString(w.Message)
	builder.WriteString("\n")
	return builder.String()
}

// FormatFileHeader formats a script header with its line count.
func (s *Styles) FormatFileHeader(path string, lines int) string {
	return s.FilePath.Render(path) + s.Dim.Render(fmt.Sprintf(" (%d lines)", lines))
}
