// Package pretty renders styled terminal output with lipgloss.
package pretty

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI palette indices.
const (
	colorGray    = "8"
	colorRed     = "9"
	colorGreen   = "10"
	colorYellow  = "11"
	colorBlue    = "12"
	colorMagenta = "13"
	colorCyan    = "14"
	colorWhite   = "7"
)

// Styles holds every style used by the CLI. With color disabled all of
// them render text unchanged.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Per-script outcome lines.
	FilePath lipgloss.Style
	Location lipgloss.Style
	Patched  lipgloss.Style
	Copied   lipgloss.Style
	Skipped  lipgloss.Style

	// Run summary.
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Line tables printed by inspect, one style per line type.
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style
	LineMessage    lipgloss.Style
	LineName       lipgloss.Style
	LineCommand    lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns the CLI styles, colored when colorEnabled is set.
func NewStyles(colorEnabled bool) *Styles {
	style := func(fg string, bold bool) lipgloss.Style {
		s := lipgloss.NewStyle()
		if !colorEnabled {
			return s
		}
		if fg != "" {
			s = s.Foreground(lipgloss.Color(fg))
		}
		return s.Bold(bold)
	}

	return &Styles{
		Error:   style(colorRed, true),
		Warning: style(colorYellow, true),
		Info:    style(colorBlue, true),

		FilePath: style("", true),
		Location: style(colorGray, false),
		Patched:  style(colorGreen, false),
		Copied:   style(colorCyan, false),
		Skipped:  style(colorYellow, false),

		SummaryTitle: style("", true),
		SummaryValue: style("", false),
		Success:      style(colorGreen, true),
		Failure:      style(colorRed, true),

		TableHeader:    style(colorWhite, true),
		TableSeparator: style(colorGray, false),
		LineMessage:    style("", false),
		LineName:       style(colorMagenta, true),
		LineCommand:    style(colorGray, false),

		Dim:  style(colorGray, false),
		Bold: style("", true),
	}
}

// IsColorEnabled resolves a --color mode for writer. "always" and "never"
// are absolute. Anything else means auto: color only on a terminal and only
// when NO_COLOR is unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
