package runner

import (
	"github.com/yaklabco/cstpatch/pkg/patch"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

// FileOutcome wraps a patch.FileResult with its paths.
type FileOutcome struct {
	// Path is the script that was processed.
	Path string

	// Output is where the result was (or would be) written.
	Output string

	// Result is nil if the script failed.
	Result *patch.FileResult

	// Error is set if the script could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	ScriptsDiscovered int `json:"scripts_discovered"`
	ScriptsPatched    int `json:"scripts_patched"`
	ScriptsCopied     int `json:"scripts_copied"`
	ScriptsSkipped    int `json:"scripts_skipped"`
	ScriptsErrored    int `json:"scripts_errored"`

	// ScriptsWritten counts outputs actually written; zero in dry-run mode.
	ScriptsWritten int `json:"scripts_written"`

	BackupsCreated int `json:"backups_created"`

	// Line counters summed over patched scripts.
	LinesMerged        int `json:"lines_merged"`
	MessagesTranslated int `json:"messages_translated"`
	NamesTranslated    int `json:"names_translated"`
	EntriesUnused      int `json:"entries_unused"`

	// Warnings is the number of translation data warnings.
	Warnings int `json:"warnings"`
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per processed script, ordered by path.
	// Scripts not reached after a fail-fast stop are absent.
	Files []FileOutcome

	// Warnings from the translation source.
	Warnings []translation.Warning

	Stats Stats
}

// HasFailures reports whether any script failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	if r.Stats.ScriptsErrored > 0 {
		return true
	}
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			return true
		}
	}
	return false
}

// Errors returns the per-script errors in path order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			errs = append(errs, outcome.Error)
		}
	}
	return errs
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.ScriptsErrored++
		return
	}
	res := outcome.Result
	if res == nil {
		return
	}

	switch res.Action {
	case patch.ActionPatched:
		r.Stats.ScriptsPatched++
		r.Stats.LinesMerged += res.Merged
		r.Stats.MessagesTranslated += res.Messages
		r.Stats.NamesTranslated += res.Names
		r.Stats.EntriesUnused += res.Unused
	case patch.ActionCopied:
		r.Stats.ScriptsCopied++
	case patch.ActionSkipped:
		r.Stats.ScriptsSkipped++
	}

	if res.Written {
		r.Stats.ScriptsWritten++
	}
	if res.BackupCreated {
		r.Stats.BackupsCreated++
	}
}
