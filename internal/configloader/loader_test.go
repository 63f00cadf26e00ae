package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cstpatch/pkg/config"
)

func isolated(workDir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         workDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func boolPtr(b bool) *bool { return &b }

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cstpatch.yml"), `
encoding: euc-jp
translations: tl/script.xlsx
sheet: Main
output_dir: patched
ignored_scripts: [prologue]
compress: false
backups:
  enabled: false
`)
	writeConfig(t, filepath.Join(dir, "tl", "script.xlsx"), "stub")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "euc-jp", cfg.Encoding)
	assert.Equal(t, filepath.Join(dir, "tl", "script.xlsx"), cfg.Translations)
	assert.Equal(t, "Main", cfg.Sheet)
	assert.Equal(t, filepath.Join(dir, "patched"), cfg.OutputDir)
	assert.Equal(t, []string{"prologue"}, cfg.IgnoredScripts)
	assert.False(t, cfg.CompressEnabled())
	assert.True(t, cfg.WordGuardEnabled(), "absent keys keep defaults")
	assert.False(t, cfg.Backups.Enabled, "a file can turn a default off")
	assert.Equal(t, "sidecar", cfg.Backups.Mode)
	assert.Equal(t, config.DefaultContinuationMarker, cfg.ContinuationMarker)

	assert.Equal(t, []string{filepath.Join(dir, ".cstpatch.yml")}, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_SearchesUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeConfig(t, filepath.Join(root, "cstpatch.yaml"), "sheet: Upper\n")

	nested := filepath.Join(root, "game", "scene")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolated(nested))
	require.NoError(t, err)
	assert.Equal(t, "Upper", result.Config.Sheet)
	assert.Equal(t, filepath.Join(root, "cstpatch.yaml"), result.Paths.Project)
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, filepath.Join(root, ".cstpatch.yml"), "sheet: Outside\n")

	repo := filepath.Join(root, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cstpatch.yml"), "sheet: Project\nencoding: euc-jp\n")
	explicit := filepath.Join(dir, "conf", "release.yml")
	writeConfig(t, explicit, "sheet: Release\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "Release", result.Config.Sheet)
	assert.Equal(t, "euc-jp", result.Config.Encoding)
	assert.Equal(t, []string{filepath.Join(dir, ".cstpatch.yml"), explicit}, result.LoadedFrom)
}

func TestLoad_UserConfig(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	writeConfig(t, filepath.Join(configHome, "cstpatch", "config.yaml"), "encoding: utf-8\nsheet: User\n")

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cstpatch.yml"), "sheet: Project\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreEnv:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, "utf-8", result.Config.Encoding)
	assert.Equal(t, "Project", result.Config.Sheet)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_EnvAndCLIPrecedence(t *testing.T) {
	t.Setenv("CSTPATCH_SHEET", "FromEnv")
	t.Setenv("CSTPATCH_ENCODING", "utf-8")
	t.Setenv("CSTPATCH_JOBS", "3")
	t.Setenv("CSTPATCH_WORD_GUARD", "false")
	t.Setenv("CSTPATCH_IGNORED_SCRIPTS", "a, b ,,c")

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cstpatch.yml"), "sheet: FromFile\nencoding: euc-jp\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		CLIConfig:          &config.Config{Sheet: "FromFlag", DryRun: true, Compress: boolPtr(false)},
	})
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "FromFlag", cfg.Sheet)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, 3, cfg.Jobs)
	assert.False(t, cfg.WordGuardEnabled())
	assert.False(t, cfg.CompressEnabled())
	assert.True(t, cfg.DryRun)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.IgnoredScripts)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "encoding: [unclosed\n", "parse yaml"},
		{"unknown key", "output-dir: patched\n", "field output-dir not found"},
		{"unknown encoding", "encoding: latin1\n", `unsupported encoding "latin1"`},
		{"bad backup mode", "backups:\n  mode: xdg\n", `invalid backup mode "xdg"`},
		{"bad log level", "log:\n  level: loud\n", `invalid log level "loud"`},
		{"bad ignore glob", "ignore: ['[unclosed']\n", "invalid glob pattern"},
		{"unsupported translations", "translations: tl.csv\n", "unsupported translation source"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, filepath.Join(dir, ".cstpatch.yml"), testCase.content)

			_, err := Load(context.Background(), isolated(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cstpatch.yml"), "translations: missing.db\ncontinuation_marker: ''\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.Equal(t, "", result.Config.ContinuationMarker)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "translation file not found")
	assert.Contains(t, result.Warnings[1], "continuation marker is empty")
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestConfigPaths_Layers(t *testing.T) {
	t.Parallel()

	paths := &ConfigPaths{User: "/home/u/.config/cstpatch/config.yaml", Explicit: "release.yml"}
	assert.Equal(t, []LayerPath{
		{Layer: LayerUser, Path: "/home/u/.config/cstpatch/config.yaml"},
		{Layer: LayerExplicit, Path: "release.yml"},
	}, paths.Layers())

	assert.Empty(t, (&ConfigPaths{}).Layers())
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bool", "CSTPATCH_COMPRESS", "maybe"},
		{"int", "CSTPATCH_JOBS", "many"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(testCase.key, testCase.value)

			err := LoadFromEnv(config.NewConfig())
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.key)
		})
	}
}

func TestEnvVars(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CSTPATCH_OUTPUT_DIR", GetEnvVarName("output_dir"))
	assert.Empty(t, GetEnvVarName("nope"))

	vars := ListEnvVars()
	assert.Len(t, vars, len(envMappings))
	assert.Contains(t, vars, "CSTPATCH_TRANSLATIONS")
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Ignore = []string{"drafts/**"}

	merged := merge(base, &config.Config{
		Encoding:  "utf-8",
		Jobs:      4,
		NoBackups: true,
		WordGuard: boolPtr(false),
		Log:       config.LogConfig{File: "run.log"},
	})

	assert.Equal(t, "utf-8", merged.Encoding)
	assert.Equal(t, config.DefaultSheet, merged.Sheet)
	assert.Equal(t, 4, merged.Jobs)
	assert.True(t, merged.NoBackups)
	assert.False(t, merged.WordGuardEnabled())
	assert.True(t, merged.CompressEnabled())
	assert.Equal(t, []string{"drafts/**"}, merged.Ignore)
	assert.Equal(t, config.DefaultLogLevel, merged.Log.Level)
	assert.Equal(t, "run.log", merged.Log.File)

	assert.Equal(t, config.DefaultEncoding, base.Encoding, "base is not modified")
	assert.Same(t, base, merge(base, nil))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.True(t, Validate(nil).Valid())
	assert.True(t, Validate(config.NewConfig()).Valid())

	cfg := config.NewConfig()
	cfg.Jobs = -1
	cfg.Format = "sarif"
	cfg.IgnoredScripts = []string{" "}

	result := Validate(cfg)
	assert.False(t, result.Valid())
	assert.True(t, result.HasWarnings())
	assert.Len(t, result.Errors, 2)

	messages := result.AllMessages()
	assert.Contains(t, messages[0], "error: format")
	assert.Contains(t, messages[1], "error: jobs")
	assert.Contains(t, messages[2], "warning: ignored_scripts[0]")
}
