package configloader

import "github.com/yaklabco/cstpatch/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// It is used for flag-derived configuration, where only set values count:
//   - Strings and ints: override wins if non-zero
//   - Pointer booleans: override wins if non-nil
//   - Plain booleans: override wins only when true
//   - Slices: override replaces base entirely if non-nil
//
// Config files are applied with overlay instead, which can also unset values.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Encoding != "" {
		result.Encoding = override.Encoding
	}
	if override.Translations != "" {
		result.Translations = override.Translations
	}
	if override.Sheet != "" {
		result.Sheet = override.Sheet
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.ContinuationMarker != "" {
		result.ContinuationMarker = override.ContinuationMarker
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.Compress != nil {
		v := *override.Compress
		result.Compress = &v
	}
	if override.WordGuard != nil {
		v := *override.WordGuard
		result.WordGuard = &v
	}

	if override.DryRun {
		result.DryRun = true
	}
	if override.FailFast {
		result.FailFast = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		result.Log.File = override.Log.File
	}

	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}
	if override.IgnoredScripts != nil {
		result.IgnoredScripts = append([]string(nil), override.IgnoredScripts...)
	}

	return result
}
