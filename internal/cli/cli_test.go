package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yaklabco/cstpatch/internal/cli"
	"github.com/yaklabco/cstpatch/pkg/cst"
	"github.com/yaklabco/cstpatch/pkg/fsutil"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}
}

// execute runs the root command with args inside dir and returns stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(append([]string{"--dir", dir, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

// writeScript writes a compressed script whose only message is text.
func writeScript(t *testing.T, path, text string) {
	t.Helper()

	label := translation.ScriptLabel(path)
	script := &cst.Script{
		Blocks: []cst.Block{{Start: 0, Length: 2}},
		Lines: []*cst.Line{
			{Script: label, ID: 0, Type: cst.ScriptName, Content: label},
			{Script: label, ID: 1, Type: cst.Message, Content: text},
		},
	}
	data, err := cst.NewCodec(nil).Encode(script, true)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func readMessage(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	script, err := cst.NewCodec(nil).Decode(data, "test")
	require.NoError(t, err)
	require.Len(t, script.Lines, 2)
	return script.Lines[1].Content
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()

	book := excelize.NewFile()
	defer func() { _ = book.Close() }()

	require.NoError(t, book.SetSheetName("Sheet1", translation.DefaultSheet))
	header := []any{"ID", "Script", "Name", "Text", "English name", "Translation", "Edit"}
	for i, row := range append([][]any{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(translation.DefaultSheet, cell, &row))
	}
	require.NoError(t, book.SaveAs(path))
}

// project lays out a game directory with one script and a workbook.
func project(t *testing.T, original, expected string) (dir, workbook string) {
	t.Helper()
	if testing.Short() {
		t.Skip("end-to-end patch run")
	}

	dir = t.TempDir()
	writeScript(t, filepath.Join(dir, "scene", "scene01.cst"), original)
	workbook = filepath.Join(dir, "tl.xlsx")
	writeWorkbook(t, workbook, [][]any{{1, "scene01.cst", "", expected, "", "Good morning"}})
	return dir, workbook
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "cstpatch", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, flagName := range []string{"debug", "config", "color", "log-file", "dir"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flagName), "global flag %q", flagName)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"patch", "inspect", "restore", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestPatchCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	patchCmd, _, err := cmd.Find([]string{"patch"})
	require.NoError(t, err)

	for _, flagName := range []string{
		"output", "translations", "sheet", "encoding", "format", "ignore",
		"no-compress", "no-word-guard", "dry-run", "jobs", "fail-fast", "no-backups", "verbose", "compact",
	} {
		assert.NotNil(t, patchCmd.Flags().Lookup(flagName), "flag %q", flagName)
	}

	require.NoError(t, patchCmd.Args(patchCmd, []string{"scene/", "op01.cst"}))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cstpatch")
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "shift_jis")

	out, err = execute(t, t.TempDir(), "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestPatchCommand_OutputDir(t *testing.T) {
	t.Parallel()

	dir, workbook := project(t, "おはよう", "おはよう")
	out := filepath.Join(dir, "patched")

	stdout, err := execute(t, dir, "patch", "--translations", workbook, "--output", out, "scene")
	require.NoError(t, err)

	assert.Equal(t, "[Good] [morning]", readMessage(t, filepath.Join(out, "scene01.cst")))
	assert.Equal(t, "おはよう", readMessage(t, filepath.Join(dir, "scene", "scene01.cst")), "input untouched")
	assert.Contains(t, stdout, "1 script patched")
}

func TestPatchCommand_DryRun(t *testing.T) {
	t.Parallel()

	dir, workbook := project(t, "おはよう", "おはよう")
	out := filepath.Join(dir, "patched")

	_, err := execute(t, dir, "patch", "--translations", workbook, "--output", out, "--dry-run")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(out, "scene01.cst"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPatchCommand_Failure(t *testing.T) {
	t.Parallel()

	dir, workbook := project(t, "こんばんは", "おはよう")

	stdout, err := execute(t, dir, "patch", "--translations", workbook, "--output", "patched", "--format", "json")
	require.ErrorIs(t, err, cli.ErrPatchFailed)
	assert.Equal(t, cli.ExitPatchFailures, cli.ExitCode(err))

	var report struct {
		Files []struct {
			Path  string `json:"path"`
			Error string `json:"error"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Files, 1)
	assert.NotEmpty(t, report.Files[0].Error)
}

func TestPatchCommand_ConfigFile(t *testing.T) {
	t.Parallel()

	dir, _ := project(t, "おはよう", "おはよう")
	config := "translations: tl.xlsx\noutput_dir: patched\ncompress: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cstpatch.yml"), []byte(config), 0o644))

	_, err := execute(t, dir, "patch")
	require.NoError(t, err)
	assert.Equal(t, "[Good] [morning]", readMessage(t, filepath.Join(dir, "patched", "scene01.cst")))
}

func TestPatchCommand_UsageErrors(t *testing.T) {
	t.Parallel()

	dir, workbook := project(t, "おはよう", "おはよう")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no translations", []string{"patch"}, cli.ExitInvalidUsage},
		{"unknown flag", []string{"patch", "--bogus"}, cli.ExitInvalidUsage},
		{"bad format", []string{"patch", "--translations", workbook, "--format", "xml"}, cli.ExitConfigError},
		{"bad encoding", []string{"patch", "--translations", workbook, "--encoding", "latin1"}, cli.ExitConfigError},
		{"missing translations", []string{"patch", "--translations", filepath.Join(dir, "none.db")}, cli.ExitConfigError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, dir, testCase.args...)
			require.Error(t, err)
			assert.Equal(t, testCase.want, cli.ExitCode(err), "error: %v", err)
		})
	}
}

func TestInspectCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "op01.cst")
	writeScript(t, path, "こんにちは")

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		stdout, err := execute(t, dir, "inspect", "--format", "json", path)
		require.NoError(t, err)

		var output struct {
			Script string `json:"script"`
			Blocks []struct {
				Start  int `json:"start"`
				Length int `json:"length"`
			} `json:"blocks"`
			Lines []struct {
				ID      int    `json:"id"`
				Type    string `json:"type"`
				Content string `json:"content"`
			} `json:"lines"`
			Counts map[string]int `json:"counts"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &output))

		assert.Equal(t, "op01", output.Script)
		require.Len(t, output.Blocks, 1)
		assert.Equal(t, 2, output.Blocks[0].Length)
		require.Len(t, output.Lines, 2)
		assert.Equal(t, "message", output.Lines[1].Type)
		assert.Equal(t, "こんにちは", output.Lines[1].Content)
		assert.Equal(t, map[string]int{"script-name": 1, "message": 1}, output.Counts)
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		stdout, err := execute(t, dir, "inspect", "--merge", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "(2 lines)")
		assert.Contains(t, stdout, "こんにちは")
		assert.Contains(t, stdout, "0 continuation lines merged")
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, dir, "inspect")
		assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

		_, err = execute(t, dir, "inspect", filepath.Join(dir, "missing.cst"))
		assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))

		garbage := filepath.Join(dir, "garbage.cst")
		require.NoError(t, os.WriteFile(garbage, []byte("not a script at all"), 0o644))
		_, err = execute(t, dir, "inspect", garbage)
		assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
	})
}

func TestRestoreCommand(t *testing.T) {
	t.Parallel()

	dir, workbook := project(t, "おはよう", "おはよう")
	script := filepath.Join(dir, "scene", "scene01.cst")

	_, err := execute(t, dir, "patch", "--translations", workbook)
	require.NoError(t, err)
	assert.Equal(t, "[Good] [morning]", readMessage(t, script))
	require.True(t, fsutil.BackupExists(script, fsutil.BackupModeSidecar))

	stdout, err := execute(t, dir, "restore", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Would restore 1 of 1 scripts")
	assert.Equal(t, "[Good] [morning]", readMessage(t, script))

	stdout, err = execute(t, dir, "restore")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Restored 1 of 1 scripts")
	assert.Equal(t, "おはよう", readMessage(t, script))
	assert.False(t, fsutil.BackupExists(script, fsutil.BackupModeSidecar))
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".cstpatch.yml")

	_, err := execute(t, dir, "init", "--translations", "tl.xlsx")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "tl.xlsx")

	_, err = execute(t, dir, "init")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, err = execute(t, dir, "init", "--force", "--full")
	require.NoError(t, err)
}
