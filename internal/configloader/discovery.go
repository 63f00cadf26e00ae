package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appDir = "cstpatch"

// Layer names a configuration file source.
type Layer string

// File layers, lowest precedence first.
const (
	LayerSystem   Layer = "system"
	LayerUser     Layer = "user"
	LayerProject  Layer = "project"
	LayerExplicit Layer = "explicit"
)

// ConfigPaths holds the configuration file found for each layer.
// An empty path means the layer has no file.
type ConfigPaths struct {
	// System is /etc/cstpatch/config.yaml or its Windows equivalent.
	System string

	// User is $XDG_CONFIG_HOME/cstpatch/config.yaml.
	User string

	// Project is the nearest .cstpatch.yml above the working directory.
	Project string

	// Explicit comes from --config.
	Explicit string
}

// LayerPath pairs a layer with its file.
type LayerPath struct {
	Layer Layer
	Path  string
}

// Layers returns the non-empty paths in the order they are applied.
func (p *ConfigPaths) Layers() []LayerPath {
	all := []LayerPath{
		{LayerSystem, p.System},
		{LayerUser, p.User},
		{LayerProject, p.Project},
		{LayerExplicit, p.Explicit},
	}
	layers := all[:0]
	for _, layer := range all {
		if layer.Path != "" {
			layers = append(layers, layer)
		}
	}
	return layers
}

// Project configuration names, most preferred first.
var projectConfigFiles = []string{".cstpatch.yml", ".cstpatch.yaml", "cstpatch.yml", "cstpatch.yaml"}

// Directory-level configuration names.
var dirConfigFiles = []string{"config.yaml", "config.yml"}

// The upward search ends at a directory holding one of these.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds the system, user and project configuration files.
// Missing files leave their field empty.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), dirConfigFiles),
		User:    firstFile(userConfigDir(), dirConfigFiles),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appDir)
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, appDir)
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir)
}

// FindProjectConfig walks up from startDir and returns the first project
// configuration file, or "" when the walk reaches a VCS root, the home
// directory or the filesystem root without finding one.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		if path := firstFile(dir, projectConfigFiles); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || hasDir(dir, vcsRootMarkers) {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// hasDir reports whether dir holds a subdirectory with any of names.
func hasDir(dir string, names []string) bool {
	for _, name := range names {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
