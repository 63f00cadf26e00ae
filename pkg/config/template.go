package config

import (
	"bytes"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its documentation and default value.
	// If false, generates a minimal commented template.
	Full bool

	// Translations pre-fills the translations path.
	Translations string

	// OutputDir pre-fills the output directory.
	OutputDir string
}

// settingDoc documents one top-level key for the full template.
type settingDoc struct {
	Key         string
	Description string
}

var settingDocs = []settingDoc{
	{"encoding", "Text encoding of script lines: shift_jis, euc-jp or utf-8."},
	{"translations", "Workbook (.xlsx, .xlsm) or SQLite database (.db, .sqlite) holding the translated lines."},
	{"sheet", "Worksheet read from a workbook. Ignored for databases."},
	{"output_dir", "Directory receiving patched scripts. Leave empty to patch scripts in place, " +
		"which creates backups when backups are enabled."},
	{"ignore", "Glob patterns of files skipped during discovery."},
	{"ignored_scripts", "Script names (without extension) copied to the output unchanged."},
	{"continuation_marker", "Prefix of message lines that are merged into the previous message."},
	{"compress", "Write zlib-compressed scripts."},
	{"word_guard", "Wrap every translated word in [brackets] so the engine never breaks a line inside it."},
	{"backups", "Backups of scripts patched in place. Mode is sidecar or none."},
	{"log", "Log level (debug, info, warn, error) and an optional rotated log file."},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate(opts)
	}
	return generateMinimalTemplate(opts), nil
}

func generateMinimalTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	buf.WriteString("# Workbook or SQLite database with the translated lines\n")
	writeSetting(&buf, "translations", opts.Translations, "translations.xlsx")

	buf.WriteString("\n# Directory receiving patched scripts (empty = patch in place)\n")
	writeSetting(&buf, "output_dir", opts.OutputDir, "patched")

	buf.WriteString(`
# Text encoding of script lines
# encoding: shift_jis

# Worksheet holding the translations
# sheet: Translation

# Scripts copied unchanged
# ignored_scripts:
#   - character_test
#   - test
#   - start

# Write compressed scripts
# compress: true
`)

	return buf.Bytes()
}

func generateFullTemplate(opts TemplateOptions) ([]byte, error) {
	cfg := NewConfig()
	cfg.Translations = opts.Translations
	cfg.OutputDir = opts.OutputDir

	var header strings.Builder
	header.WriteString(DefaultTemplateHeader())
	header.WriteString("\n#\n# Settings:\n")
	for _, doc := range settingDocs {
		fmt.Fprintf(&header, "#\n#   %s\n#     %s\n", doc.Key, wrapComment(doc.Description, commentWrapWidth))
	}

	out, err := cfg.ToYAMLWithHeader(header.String())
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

func writeSetting(buf *bytes.Buffer, key, value, example string) {
	if value != "" {
		fmt.Fprintf(buf, "%s: %q\n", key, value)
		return
	}
	fmt.Fprintf(buf, "# %s: %s\n", key, example)
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n#     ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# cstpatch configuration
# See: https://github.com/yaklabco/cstpatch`
}
