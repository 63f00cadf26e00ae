package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cstpatch/pkg/patch"
	"github.com/yaklabco/cstpatch/pkg/reporter"
	"github.com/yaklabco/cstpatch/pkg/runner"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "case insensitive", input: " JSON ", want: reporter.FormatJSON},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, reporter.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.True(t, got.IsValid())
		})
	}

	assert.False(t, reporter.Format("").IsValid())
	assert.Equal(t, []reporter.Format{reporter.FormatJSON, reporter.FormatText}, reporter.Formats())
}

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	rep, err := reporter.New(reporter.Options{Writer: &buf})
	require.NoError(t, err)
	assert.IsType(t, &reporter.TextReporter{}, rep)

	rep, err = reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON})
	require.NoError(t, err)
	assert.IsType(t, &reporter.JSONReporter{}, rep)

	_, err = reporter.New(reporter.Options{Writer: &buf, Format: "xml"})
	require.ErrorIs(t, err, reporter.ErrUnknownFormat)
}

func sampleResult(dir string) *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:   filepath.Join(dir, "scene01.cst"),
				Output: filepath.Join(dir, "out", "scene01.cst"),
				Result: &patch.FileResult{
					Label:   "scene01",
					Action:  patch.ActionPatched,
					Written: true,
					Result:  patch.Result{Messages: 10, Names: 2, Merged: 1},
					Lines:   30,
					Size:    512,
				},
			},
			{
				Path:   filepath.Join(dir, "scene02.cst"),
				Output: filepath.Join(dir, "out", "scene02.cst"),
				Result: &patch.FileResult{
					Label:   "scene02",
					Action:  patch.ActionPatched,
					Written: true,
					Result:  patch.Result{Messages: 3, Unused: 2},
				},
			},
			{
				Path:   filepath.Join(dir, "test.cst"),
				Output: filepath.Join(dir, "out", "test.cst"),
				Result: &patch.FileResult{Label: "test", Action: patch.ActionCopied, Written: true},
			},
			{
				Path:  filepath.Join(dir, "broken.cst"),
				Error: errors.New("decode failure: bad signature"),
			},
		},
		Warnings: []translation.Warning{{Location: "scene01:4", Message: "untranslated line: はい"}},
		Stats: runner.Stats{
			ScriptsDiscovered: 4, ScriptsPatched: 2, ScriptsCopied: 1, ScriptsErrored: 1, ScriptsWritten: 3,
			MessagesTranslated: 13, NamesTranslated: 2, LinesMerged: 1, EntriesUnused: 2, Warnings: 1,
		},
	}
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	dir := filepath.FromSlash("/game")

	t.Run("quiet lists only notable scripts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true, WorkingDir: dir})

		failed, err := rep.Report(context.Background(), sampleResult(dir))
		require.NoError(t, err)
		assert.Equal(t, 1, failed)

		out := buf.String()
		assert.Contains(t, out, "warning  scene01:4  untranslated line: はい\n")
		assert.NotContains(t, out, "scene01.cst  patched")
		assert.NotContains(t, out, "test.cst")
		assert.Contains(t, out, "scene02.cst  patched  3 lines, 0 names, 2 unused\n")
		assert.Contains(t, out, "broken.cst  error: decode failure: bad signature\n")
		assert.Contains(t, out, "2 scripts patched, 1 copied, 1 failed (13 lines, 2 names), 1 warning\n")
	})

	t.Run("verbose lists everything", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true, Verbose: true, WorkingDir: dir})

		_, err := rep.Report(context.Background(), sampleResult(dir))
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "scene01.cst  patched  10 lines, 2 names, 1 merged\n")
		assert.Contains(t, out, "test.cst  copied\n")
		assert.Contains(t, out, "Summary")
		assert.Contains(t, out, "Patch failed")
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		failed, err := reporter.NewTextReporter(reporter.Options{Writer: &buf}).Report(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, failed)
		assert.Empty(t, buf.String())
	})
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	dir := filepath.FromSlash("/game")

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: dir})

	failed, err := rep.Report(context.Background(), sampleResult(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "1.0.0", output.Version)
	require.Len(t, output.Files, 4)

	first := output.Files[0]
	assert.Equal(t, "scene01.cst", first.Path)
	assert.Equal(t, filepath.Join("out", "scene01.cst"), first.Output)
	assert.Equal(t, "patched", first.Action)
	assert.Equal(t, 10, first.Messages)
	assert.Equal(t, 512, first.Size)
	assert.True(t, first.Written)

	assert.Equal(t, "decode failure: bad signature", output.Files[3].Error)
	assert.Empty(t, output.Files[3].Action)

	assert.Equal(t, []reporter.JSONWarning{{Location: "scene01:4", Message: "untranslated line: はい"}}, output.Warnings)
	assert.Equal(t, 13, output.Summary.MessagesTranslated)
	assert.Equal(t, 1, output.Summary.ScriptsErrored)
}

func TestJSONReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true}).Report(context.Background(), nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"version":"1.0.0","files":[],"warnings":[],"summary":{
		"scripts_discovered":0,"scripts_patched":0,"scripts_copied":0,"scripts_skipped":0,
		"scripts_errored":0,"scripts_written":0,"backups_created":0,"lines_merged":0,
		"messages_translated":0,"names_translated":0,"entries_unused":0,"warnings":0}}`, buf.String())
}
