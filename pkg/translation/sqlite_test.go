package translation_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cstpatch/pkg/translation"
)

func writeDatabase(t *testing.T, path string, rows [][]any) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE translations (
		id              INTEGER,
		script          TEXT,
		original_name   TEXT,
		original_text   TEXT,
		translated_name TEXT,
		translation     TEXT,
		edit            TEXT
	)`)
	require.NoError(t, err)

	for _, row := range rows {
		_, err := db.ExecContext(ctx, `INSERT INTO translations VALUES (?, ?, ?, ?, ?, ?, ?)`, row...)
		require.NoError(t, err)
	}
}

func TestLoadSQLite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lines.sqlite")
	writeDatabase(t, path, [][]any{
		{1, "scene01.cst", "ユウ", "おはよう", "Yu", "Good morning", nil},
		{2, "scene01.cst", nil, "またね", nil, "Bye", "See you"},
		{3, "scene02.cst", "ミカ", "うん", "Mika", "Yeah", nil},
	})

	data, warnings, err := translation.Load(context.Background(), path, "ignored")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, 3, data.Len())
	assert.Equal(t, []string{"scene01", "scene02"}, data.Scripts())

	lines := data.LinesFor("scene01")
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[1].ID)
	assert.Equal(t, "See you", lines[1].Text())

	name, ok := data.Name("ミカ")
	require.True(t, ok)
	assert.Equal(t, "Mika", name)
}

func TestLoadSQLite_SpecialCharactersInPath(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "release #3 (100%)")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "lines.db")
	writeDatabase(t, path, [][]any{
		{1, "scene01.cst", "ユウ", "おはよう", "Yu", "Good morning", nil},
	})

	data, _, err := translation.LoadSQLite(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Len())
}

func TestLoadSQLite_Empty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lines.db")
	writeDatabase(t, path, nil)

	_, _, err := translation.LoadSQLite(context.Background(), path)
	require.ErrorIs(t, err, translation.ErrNoData)
}

func TestLoadSQLite_MissingTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), `CREATE TABLE other (x INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, _, err = translation.LoadSQLite(context.Background(), path)
	require.Error(t, err)
}
