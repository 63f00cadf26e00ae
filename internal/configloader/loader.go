// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, layered overlays,
// environment variable support, and validation.
package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/cstpatch/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// It is applied on top of any discovered project config.
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by layering all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (CSTPATCH_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.cstpatch.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/cstpatch/config.yaml)
//  6. System config (/etc/cstpatch/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	skip := map[Layer]bool{
		LayerSystem:  opts.IgnoreSystemConfig,
		LayerUser:    opts.IgnoreUserConfig,
		LayerProject: opts.IgnoreProjectConfig,
	}
	for _, layer := range paths.Layers() {
		if skip[layer.Layer] {
			continue
		}
		cfg, err = overlayConfigFile(cfg, layer.Path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.Layer, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.Path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if err := validation.Err(); err != nil {
		return nil, err
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// overlayConfigFile applies the YAML file at path on top of base and anchors
// relative paths the file set to the file's directory.
func overlayConfigFile(base *config.Config, path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := base.Overlay(content)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}

	dir := filepath.Dir(path)
	cfg.Translations = resolveFrom(dir, base.Translations, cfg.Translations)
	cfg.OutputDir = resolveFrom(dir, base.OutputDir, cfg.OutputDir)
	cfg.Log.File = resolveFrom(dir, base.Log.File, cfg.Log.File)

	return cfg, nil
}

// resolveFrom anchors value to dir when the layer changed it to a relative path.
func resolveFrom(dir, before, value string) string {
	if value == "" || value == before || filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(dir, value)
}
