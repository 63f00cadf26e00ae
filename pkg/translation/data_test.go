package translation_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cstpatch/pkg/translation"
)

func TestNewData(t *testing.T) {
	t.Parallel()

	rows := []translation.Row{
		{ID: "1", Script: "scene01.cst", OriginalName: "ユウ＠ゆう // hero", TranslatedName: "Yu＠Yu", OriginalText: "はい", Translation: "Yes"},
		{ID: "2", Script: "scene01.cst", OriginalText: "いいえ", Translation: "No"},
		{ID: "3", Script: "scene02.cst", OriginalName: "ユウ＠ゆう", TranslatedName: "You＠You", OriginalText: "うん", Translation: "Yeah"},
		{ID: " 4 ", Script: `data\scene02.cst`, OriginalText: "ね", Edit: "Right"},
		{ID: "total", Script: "summary"},
		{ID: "5", Script: "scene03.cst", OriginalText: "後", Translation: "After"},
	}

	data, warnings := translation.NewData(rows)

	assert.Equal(t, 4, data.Len())
	assert.Equal(t, []string{"scene01", "scene02"}, data.Scripts())
	assert.Empty(t, data.LinesFor("scene03"), "rows after a non-integer id are ignored")

	lines := data.LinesFor("scene01")
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].ID)
	assert.Equal(t, "ユウ＠ゆう", lines[0].OriginalName)
	assert.Equal(t, "scene01:2", lines[1].Location())
	assert.Equal(t, "Right", data.LinesFor("scene02")[1].Text())

	name, ok := data.Name("ユウ＠ゆう")
	require.True(t, ok)
	assert.Equal(t, "Yu＠Yu", name, "first translation wins")
	assert.Equal(t, 1, data.NameCount())

	_, ok = data.Name("ユウ")
	assert.False(t, ok)

	require.Len(t, warnings, 1)
	assert.Equal(t, "scene02:3", warnings[0].Location)
	assert.Contains(t, warnings[0].Message, "conflicting name translation")
}

func TestScriptLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"scene01.cst", "scene01"},
		{"scripts/scene01.cst", "scene01"},
		{`C:\game\scene02.cst`, "scene02"},
		{" start ", "start"},
		{"", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, translation.ScriptLabel(testCase.in))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"ユウ＠ゆう", "ユウ＠ゆう"},
		{"ユウ＠ゆう // note", "ユウ＠ゆう"},
		{"ユウ", "ユウ"},
		{"ユウ // no display", "ユウ // no display"},
		{"", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, translation.NormalizeName(testCase.in))
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, _, err := translation.Load(context.Background(), filepath.Join(t.TempDir(), "lines.csv"), "")
	require.ErrorIs(t, err, translation.ErrUnsupportedSource)
}
