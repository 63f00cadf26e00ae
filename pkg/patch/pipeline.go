package patch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/yaklabco/cstpatch/internal/logging"
	"github.com/yaklabco/cstpatch/pkg/config"
	"github.com/yaklabco/cstpatch/pkg/cst"
	"github.com/yaklabco/cstpatch/pkg/fsutil"
	"github.com/yaklabco/cstpatch/pkg/textenc"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

// Action tells what the pipeline did with a file.
type Action string

const (
	// ActionPatched means the script was translated.
	ActionPatched Action = "patched"

	// ActionCopied means an ignored script was copied unchanged.
	ActionCopied Action = "copied"

	// ActionSkipped means the file was left alone.
	ActionSkipped Action = "skipped"
)

// FileResult is the outcome of processing one script.
type FileResult struct {
	// Path is the script that was read.
	Path string

	// Output is where the result goes.
	Output string

	// Label is the script name used to look up translations.
	Label string

	// Action is what was done.
	Action Action

	// SkipReason explains ActionSkipped.
	SkipReason string

	// Result counts the edits of a patched script.
	Result

	// Lines is the line count after merging.
	Lines int

	// Size is the length of the output in bytes.
	Size int

	// OriginalInfo is the input's state before processing.
	OriginalInfo *fsutil.FileInfo

	// BackupCreated is true if a backup of the input was made.
	BackupCreated bool

	// Written is true if the output was written to disk.
	Written bool
}

// Summary returns a short human-readable description of the outcome.
func (fr *FileResult) Summary() string {
	switch fr.Action {
	case ActionSkipped:
		return "skipped: " + fr.SkipReason
	case ActionCopied:
		if fr.Written {
			return "copied"
		}
		return "copy pending"
	case ActionPatched:
		switch {
		case fr.Written && fr.BackupCreated:
			return "patched (backup created)"
		case fr.Written:
			return "patched"
		default:
			return "patch pending"
		}
	default:
		return string(fr.Action)
	}
}

// PipelineOptions controls Pipeline.ProcessFile.
type PipelineOptions struct {
	Options

	// Compress writes zlib-compressed scripts.
	Compress bool

	// DryRun does everything but write.
	DryRun bool

	// Backup configures backups for in-place writes.
	Backup fsutil.BackupConfig

	// IgnoredScripts are labels copied to the output unchanged.
	IgnoredScripts []string
}

// DefaultPipelineOptions returns the defaults for the game's scripts.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Options:        DefaultOptions(),
		Compress:       true,
		Backup:         fsutil.DefaultBackupConfig(),
		IgnoredScripts: config.DefaultIgnoredScripts(),
	}
}

// Pipeline reads, translates and writes scripts one at a time.
// It holds no per-file state and may be shared by concurrent workers.
type Pipeline struct {
	Codec  *cst.Codec
	Source translation.Source
}

// NewPipeline returns a Pipeline decoding with codec and translating from src.
func NewPipeline(codec *cst.Codec, src translation.Source) *Pipeline {
	return &Pipeline{Codec: codec, Source: src}
}

// ProcessFile patches the script at path into output. When output equals
// path the script is patched in place, after a backup if enabled.
// Log entries go to the logger carried by ctx; see logging.WithScript.
//
// Steps:
//  1. Read and hash the input.
//  2. Copy ignored scripts verbatim.
//  3. Decode, merge continuations and translate.
//  4. Encode, optionally compressed.
//  5. Stop here in dry-run mode.
//  6. For in-place writes, check for concurrent changes and back up.
//  7. Write atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path, output string, opts PipelineOptions) (*FileResult, error) {
	logger := logging.FromContext(ctx)

	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result := &FileResult{
		Path:         path,
		Output:       output,
		Label:        translation.ScriptLabel(path),
		OriginalInfo: info,
	}
	inPlace := output == path

	if slices.Contains(opts.IgnoredScripts, result.Label) {
		result.Action = ActionCopied
		result.Size = len(original)
		if inPlace {
			result.Action = ActionSkipped
			result.SkipReason = "ignored script"
			return result, nil
		}
		logger.Debug("copying ignored script", logging.FieldOutput, output)
		return p.write(ctx, result, original, info.Mode, opts)
	}

	script, err := p.Codec.Decode(original, result.Label)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, err)
	}

	applyOpts := opts.Options
	if applyOpts.Encoding == nil {
		applyOpts.Encoding = p.Codec.Encoding
	}
	applied, err := Apply(script, p.Source, result.Label, applyOpts)
	if err != nil {
		return nil, err
	}
	result.Action = ActionPatched
	result.Result = applied
	result.Lines = len(script.Lines)

	logger.Debug("translated",
		logging.FieldMerged, applied.Merged,
		logging.FieldMessages, applied.Messages,
		logging.FieldNames, applied.Names)
	if applied.Unused > 0 {
		logger.Warn("translation lines left over", logging.FieldUnused, applied.Unused)
	}

	content, err := p.Codec.Encode(script, opts.Compress)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncodeFailure, path, err)
	}
	result.Size = len(content)

	if inPlace && !opts.DryRun {
		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil {
			return nil, fmt.Errorf("check modified: %w", err)
		}
		if modified {
			result.Action = ActionSkipped
			result.SkipReason = "file modified during processing"
			return result, nil
		}

		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	return p.write(ctx, result, content, info.Mode, opts)
}

func (p *Pipeline) write(
	ctx context.Context,
	result *FileResult,
	content []byte,
	mode os.FileMode,
	opts PipelineOptions,
) (*FileResult, error) {
	if opts.DryRun {
		return result, nil
	}

	if _, err := fsutil.WriteAtomicIfChanged(ctx, result.Output, content, mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	return result, nil
}

// categorizeError wraps an error with the matching pipeline error category.
func categorizeError(err error) error {
	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) (PipelineOptions, error) {
	if cfg == nil {
		return DefaultPipelineOptions(), nil
	}

	enc, err := textenc.Lookup(cfg.Encoding)
	if err != nil {
		return PipelineOptions{}, err
	}

	return PipelineOptions{
		Options: Options{
			Encoding:           enc,
			ContinuationMarker: cfg.ContinuationMarker,
			WordGuard:          cfg.WordGuardEnabled(),
		},
		Compress:       cfg.CompressEnabled(),
		DryRun:         cfg.DryRun,
		Backup:         BackupConfigFromConfig(cfg),
		IgnoredScripts: cfg.IgnoredScripts,
	}, nil
}
