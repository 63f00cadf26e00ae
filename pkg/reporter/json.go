package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/cstpatch/pkg/runner"
)

// jsonSchemaVersion is bumped when the output shape changes.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version  string           `json:"version"`
	Files    []JSONFileResult `json:"files"`
	Warnings []JSONWarning    `json:"warnings"`
	Summary  runner.Stats     `json:"summary"`
}

// JSONFileResult represents a single script's outcome.
type JSONFileResult struct {
	Path          string `json:"path"`
	Output        string `json:"output,omitempty"`
	Label         string `json:"label,omitempty"`
	Action        string `json:"action,omitempty"`
	SkipReason    string `json:"skipReason,omitempty"`
	Merged        int    `json:"merged"`
	Messages      int    `json:"messages"`
	Names         int    `json:"names"`
	Unused        int    `json:"unused"`
	Lines         int    `json:"lines"`
	Size          int    `json:"size"`
	Written       bool   `json:"written"`
	BackupCreated bool   `json:"backupCreated,omitempty"`
	Error         string `json:"error,omitempty"`
}

// JSONWarning is a translation data warning.
type JSONWarning struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.ScriptsErrored, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version:  jsonSchemaVersion,
		Files:    make([]JSONFileResult, 0),
		Warnings: make([]JSONWarning, 0),
	}
	if result == nil {
		return output
	}

	output.Summary = result.Stats
	for _, warning := range result.Warnings {
		output.Warnings = append(output.Warnings, JSONWarning{Location: warning.Location, Message: warning.Message})
	}

	for _, file := range result.Files {
		entry := JSONFileResult{
			Path:   r.opts.displayPath(file.Path),
			Output: r.opts.displayPath(file.Output),
		}
		if file.Error != nil {
			entry.Error = file.Error.Error()
		}
		if res := file.Result; res != nil {
			entry.Label = res.Label
			entry.Action = string(res.Action)
			entry.SkipReason = res.SkipReason
			entry.Merged = res.Merged
			entry.Messages = res.Messages
			entry.Names = res.Names
			entry.Unused = res.Unused
			entry.Lines = res.Lines
			entry.Size = res.Size
			entry.Written = res.Written
			entry.BackupCreated = res.BackupCreated
		}
		output.Files = append(output.Files, entry)
	}

	return output
}
