package translation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedSource is returned for translation files of an unknown kind.
	ErrUnsupportedSource = errors.New("unsupported translation source")

	// ErrNoData is returned when a source holds no rows at all.
	ErrNoData = errors.New("no translation data")
)

// Load reads translations from path, choosing the reader by extension:
// .xlsx and .xlsm are workbooks (sheet selects the worksheet), .db, .sqlite
// and .sqlite3 are SQLite databases.
func Load(ctx context.Context, path, sheet string) (*Data, []Warning, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, sheet)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, ext)
	}
}
