package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ErrOutputCollision is returned when two scripts would be written to the
// same output file.
var ErrOutputCollision = errors.New("output collision")

// Discover finds scripts under opts.Paths. It returns a sorted, de-duplicated
// list of absolute paths. Hidden entries, files inside OutputDir and anything
// matching ExcludeGlobs are left out. Explicitly named files only need the
// right extension and must not be excluded.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	keep, err := newFilter(workDir, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if keep.keepFile(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := walkDirectory(ctx, absPath, keep, opts.FollowSymlinks)
		if err != nil {
			return nil, err
		}
		for _, path := range discovered {
			add(path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// OutputPaths maps each script to its output file. Without an output
// directory every script is patched in place. A relative outputDir is
// resolved against the process working directory.
func OutputPaths(files []string, outputDir string) (map[string]string, error) {
	outputs := make(map[string]string, len(files))
	if outputDir == "" {
		for _, path := range files {
			outputs[path] = path
		}
		return outputs, nil
	}

	dir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}

	owners := make(map[string]string, len(files))
	for _, path := range files {
		out := filepath.Join(dir, filepath.Base(path))
		if prev, ok := owners[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s both map to %s", ErrOutputCollision, prev, path, out)
		}
		owners[out] = path
		outputs[path] = out
	}
	return outputs, nil
}

func resolveOutputDir(workDir, outputDir string) string {
	if outputDir == "" {
		return ""
	}
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(workDir, outputDir)
	}
	return filepath.Clean(outputDir)
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

type filter struct {
	workDir   string
	outputDir string
	excludes  []glob.Glob
}

func newFilter(workDir string, opts Options) (*filter, error) {
	f := &filter{workDir: workDir}

	f.outputDir = resolveOutputDir(workDir, opts.OutputDir)

	for _, pattern := range opts.ExcludeGlobs {
		compiled, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		f.excludes = append(f.excludes, compiled)
	}
	return f, nil
}

func (f *filter) excluded(path string) bool {
	rel, err := filepath.Rel(f.workDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, g := range f.excludes {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

func (f *filter) insideOutput(path string) bool {
	if f.outputDir == "" {
		return false
	}
	return path == f.outputDir || strings.HasPrefix(path, f.outputDir+string(filepath.Separator))
}

func (f *filter) keepFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ScriptExtension) && !f.excluded(path)
}

func walkDirectory(ctx context.Context, root string, f *filter, followSymlinks bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (path != root && (f.insideOutput(path) || f.excluded(path))) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || f.insideOutput(path) {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !followSymlinks {
					return nil
				}
				sub, err := walkDirectory(ctx, target, f, followSymlinks)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if f.keepFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}
