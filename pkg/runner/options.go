// Package runner patches many scripts concurrently.
package runner

import (
	"github.com/yaklabco/cstpatch/pkg/config"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

// ScriptExtension is the extension of scene scripts.
const ScriptExtension = ".cst"

// Options controls a batch run.
type Options struct {
	// Paths are the files or directories to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// to match ExcludeGlobs. If empty, the process working directory is used.
	WorkingDir string

	// ExcludeGlobs are slash-separated patterns relative to WorkingDir.
	// A pattern without a slash is also matched against the base name.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// OutputDir receives the patched scripts under their base names.
	// Empty means patch in place.
	OutputDir string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// FailFast stops handing out work after the first failed script.
	FailFast bool

	// Warnings from loading the translation source, carried into the result.
	Warnings []translation.Warning

	// Config is the resolved configuration for this run.
	Config *config.Config
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
