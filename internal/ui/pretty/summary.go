package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/cstpatch/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordScript          = "script"
	wordScripts         = "scripts"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 scripts patched, 1 copied, 2 failed (240 lines, 12 names)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.ScriptsDiscovered == 0 {
		return s.Dim.Render("No scripts found") + "\n"
	}

	parts := []string{
		s.Success.Render(fmt.Sprintf("%d %s patched",
			stats.ScriptsPatched, plural(stats.ScriptsPatched, wordScript, wordScripts))),
	}
	if stats.ScriptsCopied > 0 {
		parts = append(parts, fmt.Sprintf("%d copied", stats.ScriptsCopied))
	}
	if stats.ScriptsSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.ScriptsSkipped)))
	}
	if stats.ScriptsErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.ScriptsErrored)))
	}

	line := strings.Join(parts, ", ")
	line += s.Dim.Render(fmt.Sprintf(" (%d lines, %d names)", stats.MessagesTranslated, stats.NamesTranslated))
	if stats.Warnings > 0 {
		line += ", " + s.Warning.Render(fmt.Sprintf("%d %s", stats.Warnings, plural(stats.Warnings, "warning", "warnings")))
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value int, style func(...string) string) {
		builder.WriteString(fmt.Sprintf("  %-20s%s\n", label+":", style(strconv.Itoa(value))))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Scripts found", stats.ScriptsDiscovered, s.SummaryValue.Render)
	row("Patched", stats.ScriptsPatched, s.Success.Render)
	if stats.ScriptsCopied > 0 {
		row("Copied", stats.ScriptsCopied, s.SummaryValue.Render)
	}
	if stats.ScriptsSkipped > 0 {
		row("Skipped", stats.ScriptsSkipped, s.Warning.Render)
	}
	if stats.ScriptsErrored > 0 {
		row("Failed", stats.ScriptsErrored, s.Failure.Render)
	}
	if stats.BackupsCreated > 0 {
		row("Backups created", stats.BackupsCreated, s.SummaryValue.Render)
	}

	builder.WriteString("\n")
	row("Lines translated", stats.MessagesTranslated, s.SummaryValue.Render)
	row("Names translated", stats.NamesTranslated, s.SummaryValue.Render)
	row("Lines merged", stats.LinesMerged, s.SummaryValue.Render)
	if stats.EntriesUnused > 0 {
		row("Unused entries", stats.EntriesUnused, s.Warning.Render)
	}
	if stats.Warnings > 0 {
		row("Warnings", stats.Warnings, s.Warning.Render)
	}

	builder.WriteString("\n")
	switch {
	case stats.ScriptsErrored > 0:
		builder.WriteString(s.Failure.Render("Patch failed"))
	case stats.ScriptsPatched+stats.ScriptsCopied > 0 && stats.ScriptsWritten == 0:
		builder.WriteString(s.Warning.Render("Dry run, nothing written"))
	default:
		builder.WriteString(s.Success.Render("Patch complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
