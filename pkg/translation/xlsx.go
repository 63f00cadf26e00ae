package translation

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet holding translations.
const DefaultSheet = "Translation"

// Spreadsheet columns, zero-based.
const (
	colID = iota
	colScript
	colOriginalName
	colOriginalText
	colTranslatedName
	colTranslation
	colEdit
)

// LoadXLSX reads translations from the named sheet of a workbook file.
// The first row is a header.
func LoadXLSX(path, sheet string) (*Data, []Warning, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = book.Close() }()

	return readWorkbook(book, sheet)
}

// ReadXLSX is LoadXLSX for an already open stream.
func ReadXLSX(r io.Reader, sheet string) (*Data, []Warning, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = book.Close() }()

	return readWorkbook(book, sheet)
}

func readWorkbook(book *excelize.File, sheet string) (*Data, []Warning, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	cells, err := book.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, nil, fmt.Errorf("%w: sheet %q is empty", ErrNoData, sheet)
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
		cell := func(col int) string {
			if col < len(record) {
				return record[col]
			}
			return ""
		}
		rows = append(rows, Row{
			ID:             cell(colID),
			Script:         cell(colScript),
			OriginalName:   cell(colOriginalName),
			OriginalText:   cell(colOriginalText),
			TranslatedName: cell(colTranslatedName),
			Translation:    cell(colTranslation),
			Edit:           cell(colEdit),
		})
	}

	data, warnings := NewData(rows)
	return data, warnings, nil
}
