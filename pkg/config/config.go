// Package config defines core configuration types for cstpatch.
// These types are pure data structures with no dependency on the loader.
package config

import "runtime"

// OutputFormat specifies how run results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// Defaults shared by NewConfig and the loader.
const (
	DefaultEncoding           = "shift_jis"
	DefaultSheet              = "Translation"
	DefaultContinuationMarker = `\n`
	DefaultLogLevel           = "info"
)

// DefaultIgnoredScripts are test and bootstrap scripts that ship untranslated.
func DefaultIgnoredScripts() []string {
	return []string{"character_test", "test", "start"}
}

// BackupsConfig controls backups when patching files in place.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar" or "none"
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// File, when set, receives a rotated copy of the log.
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// Config is the root configuration structure for cstpatch.
type Config struct {
	// Encoding names the text encoding of script lines.
	Encoding string `mapstructure:"encoding" yaml:"encoding"`

	// Translations is the path of the workbook or database with translations.
	Translations string `mapstructure:"translations" yaml:"translations"`

	// Sheet is the worksheet read from a workbook.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`

	// OutputDir receives patched scripts. Empty means patch in place.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Ignore contains glob patterns for files to skip during discovery.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// IgnoredScripts are script labels copied to the output unchanged.
	IgnoredScripts []string `mapstructure:"ignored_scripts" yaml:"ignored_scripts"`

	// ContinuationMarker prefixes message lines merged into their predecessor.
	ContinuationMarker string `mapstructure:"continuation_marker" yaml:"continuation_marker"`

	// Compress writes zlib-compressed scripts. Nil means true.
	Compress *bool `mapstructure:"compress" yaml:"compress,omitempty"`

	// WordGuard wraps translated words in the engine's no-break brackets.
	// Nil means true.
	WordGuard *bool `mapstructure:"word_guard" yaml:"word_guard,omitempty"`

	// Backups configures backups for in-place patching.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// Log configures logging.
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// CLI-level options (not persisted to config files).

	// DryRun patches in memory without writing.
	DryRun bool `mapstructure:"-" yaml:"-"`

	// Jobs is the number of parallel workers. 0 means NumCPU.
	Jobs int `mapstructure:"-" yaml:"-"`

	// FailFast stops the run at the first failing file.
	FailFast bool `mapstructure:"-" yaml:"-"`

	// Format is the report format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// NoBackups disables backups regardless of Backups.Enabled.
	NoBackups bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Encoding:           DefaultEncoding,
		Sheet:              DefaultSheet,
		IgnoredScripts:     DefaultIgnoredScripts(),
		ContinuationMarker: DefaultContinuationMarker,
		Compress:           boolPtr(true),
		WordGuard:          boolPtr(true),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Format: FormatText,
	}
}

// CompressEnabled reports whether output is compressed.
func (c *Config) CompressEnabled() bool {
	return c.Compress == nil || *c.Compress
}

// WordGuardEnabled reports whether word guarding is on.
func (c *Config) WordGuardEnabled() bool {
	return c.WordGuard == nil || *c.WordGuard
}

// Workers resolves Jobs to a positive worker count.
func (c *Config) Workers() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.NumCPU()
}

// InPlace reports whether scripts are overwritten rather than written to OutputDir.
func (c *Config) InPlace() bool {
	return c.OutputDir == ""
}

func boolPtr(b bool) *bool {
	return &b
}
