package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/cstpatch/internal/ui/pretty"
	"github.com/yaklabco/cstpatch/pkg/patch"
	"github.com/yaklabco/cstpatch/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	for _, warning := range result.Warnings {
		fmt.Fprint(r.bw, r.styles.FormatWarning(warning))
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(r.bw)
	}

	for _, file := range result.Files {
		if !r.opts.Verbose && cleanPatch(file) {
			continue
		}
		fmt.Fprint(r.bw, r.styles.FormatOutcome(file, r.opts.displayPath(file.Path)))
	}

	if r.opts.ShowSummary {
		if r.opts.Verbose {
			fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
		} else {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
		}
	}

	return result.Stats.ScriptsErrored, nil
}

// cleanPatch reports whether an outcome is an unremarkable success.
func cleanPatch(file runner.FileOutcome) bool {
	if file.Error != nil || file.Result == nil {
		return false
	}
	switch file.Result.Action {
	case patch.ActionPatched:
		return file.Result.Unused == 0
	case patch.ActionCopied:
		return true
	default:
		return false
	}
}
