package translation

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// Table is the SQLite table holding translations. Its columns mirror the
// spreadsheet: id, script, original_name, original_text, translated_name,
// translation, edit.
const Table = "translations"

const selectRows = `SELECT id, script, original_name, original_text, translated_name, translation, edit
FROM ` + Table + ` ORDER BY rowid`

// LoadSQLite reads translations from a SQLite database opened read-only.
func LoadSQLite(ctx context.Context, path string) (*Data, []Warning, error) {
	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	db.SetMaxOpenConns(1)

	rows, err := readTable(ctx, db)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: table %s in %s has no rows", ErrNoData, Table, path)
	}

	data, warnings := NewData(rows)
	return data, warnings, nil
}

func readTable(ctx context.Context, db *sql.DB) ([]Row, error) {
	result, err := db.QueryContext(ctx, selectRows)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", Table, err)
	}
	defer func() { _ = result.Close() }()

	var rows []Row
	for result.Next() {
		var cols [7]sql.NullString
		if err := result.Scan(&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6]); err != nil {
			return nil, fmt.Errorf("scan %s: %w", Table, err)
		}
		rows = append(rows, Row{
			ID:             cols[colID].String,
			Script:         cols[colScript].String,
			OriginalName:   cols[colOriginalName].String,
			OriginalText:   cols[colOriginalText].String,
			TranslatedName: cols[colTranslatedName].String,
			Translation:    cols[colTranslation].String,
			Edit:           cols[colEdit].String,
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", Table, err)
	}
	return rows, nil
}

// readOnlyDSN builds a read-only SQLite URI for path. The path is escaped so
// that '?', '#' and '%' in file names are not taken as URI syntax.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	dsn := url.URL{Scheme: "file", Path: slashed, RawQuery: "mode=ro"}
	return dsn.String(), nil
}
