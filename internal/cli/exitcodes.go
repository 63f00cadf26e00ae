package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/cstpatch/internal/configloader"
	"github.com/yaklabco/cstpatch/pkg/cst"
	"github.com/yaklabco/cstpatch/pkg/fsutil"
	"github.com/yaklabco/cstpatch/pkg/runner"
)

// Exit codes for cstpatch.
const (
	// ExitSuccess indicates every script was patched, copied or skipped.
	ExitSuccess = 0

	// ExitPatchFailures indicates the run completed but some scripts failed.
	ExitPatchFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration, translation data or script
	// format errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrPatchFailed is returned when at least one script failed to patch.
	ErrPatchFailed = errors.New("some scripts failed to patch")

	// ErrInvalidUsage marks errors caused by bad arguments or flags.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig marks configuration and translation data errors.
	ErrConfig = errors.New("configuration error")
)

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result != nil && result.HasFailures() {
		return ExitPatchFailures
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrPatchFailed):
		return ExitPatchFailures
	case errors.Is(err, ErrInvalidUsage), errors.Is(err, runner.ErrOutputCollision):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr), errors.Is(err, cst.ErrFormat):
		return ExitConfigError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission),
		errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fsutil.ErrPermissionDenied):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
