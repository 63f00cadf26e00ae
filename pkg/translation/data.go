package translation

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Source supplies translations to the patcher.
type Source interface {
	// LinesFor returns the entries of a script in file order.
	LinesFor(script string) []Entry

	// Name maps an original character name to its translation.
	Name(original string) (string, bool)
}

// Row holds the raw cells of one translation record.
type Row struct {
	ID             string
	Script         string
	OriginalName   string
	OriginalText   string
	TranslatedName string
	Translation    string
	Edit           string
}

// nameRE splits "name＠display // comment"; only name＠display is kept.
var nameRE = regexp.MustCompile(`^(?P<complete>(?P<name>.+?)(?:＠(?P<disp>\S+)))(?:\s*//.*)??$`)

// Data is an in-memory Source.
type Data struct {
	scripts map[string][]Entry
	order   []string
	names   map[string]string
	total   int
}

var _ Source = (*Data)(nil)

// NewData builds Data from rows. Rows are read until the first one whose ID
// is not an integer. It returns the warnings found along the way.
func NewData(rows []Row) (*Data, []Warning) {
	data := &Data{
		scripts: make(map[string][]Entry),
		names:   make(map[string]string),
	}
	var warnings []Warning

	for _, row := range rows {
		id, err := strconv.Atoi(strings.TrimSpace(row.ID))
		if err != nil {
			break
		}

		entry := Entry{
			ID:             id,
			Script:         ScriptLabel(row.Script),
			OriginalName:   NormalizeName(row.OriginalName),
			OriginalText:   row.OriginalText,
			TranslatedName: row.TranslatedName,
			Translation:    row.Translation,
			Edit:           row.Edit,
		}

		if w, ok := data.addName(entry); !ok {
			warnings = append(warnings, w)
		}
		warnings = append(warnings, entry.Check()...)

		if _, seen := data.scripts[entry.Script]; !seen {
			data.order = append(data.order, entry.Script)
		}
		data.scripts[entry.Script] = append(data.scripts[entry.Script], entry)
		data.total++
	}

	return data, warnings
}

// addName records the entry's name translation. The first translation of a
// name wins; a differing later one is reported.
func (d *Data) addName(entry Entry) (Warning, bool) {
	if isBlank(entry.OriginalName) || isBlank(entry.TranslatedName) {
		return Warning{}, true
	}
	existing, ok := d.names[entry.OriginalName]
	if !ok {
		d.names[entry.OriginalName] = entry.TranslatedName
		return Warning{}, true
	}
	if existing == entry.TranslatedName {
		return Warning{}, true
	}
	return Warning{
		Location: entry.Location(),
		Message: "conflicting name translation: " + strconv.Quote(entry.OriginalName) +
			" was translated as " + strconv.Quote(entry.TranslatedName) + " and " + strconv.Quote(existing),
	}, false
}

// LinesFor implements Source.
func (d *Data) LinesFor(script string) []Entry {
	return d.scripts[script]
}

// Name implements Source.
func (d *Data) Name(original string) (string, bool) {
	name, ok := d.names[original]
	return name, ok
}

// Scripts returns the script labels in first-seen order.
func (d *Data) Scripts() []string {
	return d.order
}

// Len returns the number of entries.
func (d *Data) Len() int {
	return d.total
}

// NameCount returns the number of mapped names.
func (d *Data) NameCount() int {
	return len(d.names)
}

// ScriptLabel reduces a file name or path to its base name without extension.
func ScriptLabel(name string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NormalizeName strips a trailing "// comment" from names of the form
// "name＠display". Other names are returned unchanged.
func NormalizeName(name string) string {
	if isBlank(name) {
		return name
	}
	match := nameRE.FindStringSubmatch(name)
	if match == nil {
		return name
	}
	return match[nameRE.SubexpIndex("complete")]
}
