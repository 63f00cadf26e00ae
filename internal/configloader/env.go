package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/cstpatch/pkg/config"
)

// envVarPrefix is the prefix for all cstpatch environment variables.
const envVarPrefix = "CSTPATCH_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"ENCODING":            {"encoding", envTypeString, "Script text encoding: shift_jis, euc-jp or utf-8"},
	"TRANSLATIONS":        {"translations", envTypeString, "Path of the translation workbook or database"},
	"SHEET":               {"sheet", envTypeString, "Worksheet read from a workbook"},
	"OUTPUT_DIR":          {"output_dir", envTypeString, "Directory receiving patched scripts (empty = in place)"},
	"IGNORE":              {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"IGNORED_SCRIPTS":     {"ignored_scripts", envTypeSlice, "Comma-separated list of scripts copied unchanged"},
	"CONTINUATION_MARKER": {"continuation_marker", envTypeString, "Prefix of message lines merged into the previous one"},
	"COMPRESS":            {"compress", envTypeBool, "Write zlib-compressed scripts: true or false"},
	"WORD_GUARD":          {"word_guard", envTypeBool, "Wrap translated words in no-break brackets: true or false"},
	"BACKUPS_ENABLED":     {"backups.enabled", envTypeBool, "Back up scripts patched in place: true or false"},
	"BACKUPS_MODE":        {"backups.mode", envTypeString, "Backup mode: sidecar or none"},
	"NO_BACKUPS":          {"no_backups", envTypeBool, "Disable backups: true or false"},
	"LOG_LEVEL":           {"log.level", envTypeString, "Log level: debug, info, warn or error"},
	"LOG_FILE":            {"log.file", envTypeString, "File receiving a rotated copy of the log"},
	"DRY_RUN":             {"dry_run", envTypeBool, "Dry-run mode: true or false"},
	"JOBS":                {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"FAIL_FAST":           {"fail_fast", envTypeBool, "Stop at the first failing script: true or false"},
	"FORMAT":              {"format", envTypeString, "Report format: text or json"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with CSTPATCH_ (e.g., CSTPATCH_ENCODING).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range sortedEnvSuffixes() {
		envVar := envVarPrefix + envSuffix
		value, ok := os.LookupEnv(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[envSuffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a comma-separated value, trimming each element.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "encoding":
		cfg.Encoding = value
	case "translations":
		cfg.Translations = value
	case "sheet":
		cfg.Sheet = value
	case "output_dir":
		cfg.OutputDir = value
	case "continuation_marker":
		cfg.ContinuationMarker = value
	case "backups.mode":
		cfg.Backups.Mode = value
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "compress":
		cfg.Compress = &value
	case "word_guard":
		cfg.WordGuard = &value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	case "dry_run":
		cfg.DryRun = value
	case "fail_fast":
		cfg.FailFast = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "ignored_scripts":
		cfg.IgnoredScripts = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

func sortedEnvSuffixes() []string {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
