// Package reporter writes the results of a patch run.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/cstpatch/pkg/runner"
)

// ErrUnknownFormat is returned for report formats with no reporter.
var ErrUnknownFormat = errors.New("unknown report format")

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes result and returns the number of failed scripts.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Format names a report layout.
type Format string

// Report formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var constructors = map[Format]func(Options) Reporter{
	FormatText: func(opts Options) Reporter { return NewTextReporter(opts) },
	FormatJSON: func(opts Options) Reporter { return NewJSONReporter(opts) },
}

// Formats lists the known formats in sorted order.
func Formats() []Format {
	formats := make([]Format, 0, len(constructors))
	for format := range constructors {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

// ParseFormat maps a case-insensitive name to a Format. Empty means text.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	if format == "" {
		return FormatText, nil
	}
	if !format.IsValid() {
		return "", fmt.Errorf("%w %q; valid formats: %s", ErrUnknownFormat, name, joinFormats())
	}
	return format, nil
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// IsValid reports whether a reporter exists for f.
func (f Format) IsValid() bool {
	_, ok := constructors[f]
	return ok
}

// New returns the reporter for opts.Format, text when unset.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	construct, ok := constructors[opts.Format]
	if !ok {
		return nil, fmt.Errorf("%w %q; valid formats: %s", ErrUnknownFormat, opts.Format, joinFormats())
	}
	return construct(opts), nil
}

func joinFormats() string {
	names := make([]string, 0, len(constructors))
	for _, format := range Formats() {
		names = append(names, string(format))
	}
	return strings.Join(names, ", ")
}
