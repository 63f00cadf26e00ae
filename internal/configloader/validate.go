package configloader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/cstpatch/internal/logging"
	"github.com/yaklabco/cstpatch/pkg/config"
	"github.com/yaklabco/cstpatch/pkg/fsutil"
	"github.com/yaklabco/cstpatch/pkg/textenc"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins all errors, or returns nil when the configuration is valid.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for i := range r.Errors {
		errs = append(errs, &r.Errors[i])
	}
	return errors.Join(errs...)
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// translationExtensions lists the file kinds the translation loader reads.
//
//nolint:gochecknoglobals // Read-only lookup table.
var translationExtensions = map[string]bool{
	".xlsx":    true,
	".xlsm":    true,
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if _, err := textenc.Lookup(cfg.Encoding); err != nil {
		result.addError("encoding", cfg.Encoding,
			fmt.Sprintf("unsupported encoding %q; must be one of: shift_jis, euc-jp, utf-8", cfg.Encoding))
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format,
			fmt.Sprintf("invalid format %q; must be one of: text, json", cfg.Format))
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if !fsutil.BackupMode(cfg.Backups.Mode).IsValid() {
		result.addError("backups.mode", cfg.Backups.Mode,
			fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode))
	}

	if cfg.Log.Level != "" && !logging.ValidLevel(cfg.Log.Level) {
		result.addError("log.level", cfg.Log.Level,
			fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.Log.Level))
	}

	validateIgnorePatterns(cfg, result)
	validateTranslations(cfg, result)

	if cfg.ContinuationMarker == "" {
		result.addWarning("continuation_marker", "",
			"continuation marker is empty; message lines will not be merged")
	}

	for i, name := range cfg.IgnoredScripts {
		if strings.TrimSpace(name) == "" {
			result.addWarning(fmt.Sprintf("ignored_scripts[%d]", i), name, "empty script name has no effect")
		}
	}

	return result
}

func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(filepath.ToSlash(pattern), '/'); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, fmt.Sprintf("invalid glob pattern: %v", err))
		}
	}
}

func validateTranslations(cfg *config.Config, result *ValidationResult) {
	if cfg.Translations == "" {
		return
	}

	ext := strings.ToLower(filepath.Ext(cfg.Translations))
	if !translationExtensions[ext] {
		result.addError("translations", cfg.Translations,
			fmt.Sprintf("unsupported translation source %q; expected .xlsx, .xlsm, .db, .sqlite or .sqlite3", ext))
		return
	}

	if _, err := os.Stat(cfg.Translations); err != nil {
		result.addWarning("translations", cfg.Translations, "translation file not found")
	}
	if (ext == ".xlsx" || ext == ".xlsm") && cfg.Sheet == "" {
		result.addWarning("sheet", "", "no sheet set; reading \""+config.DefaultSheet+"\"")
	}
}

func (r *ValidationResult) addError(field string, value any, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
}

func (r *ValidationResult) addWarning(field string, value any, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: message})
}
