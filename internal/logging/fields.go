package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldOutput     = "output"
	FieldScript     = "script"
	FieldSource     = "source"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldEncoding = "encoding"
	FieldCompress = "compress"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"

	// Per-script fields.
	FieldLines    = "lines"
	FieldMerged   = "merged"
	FieldMessages = "messages"
	FieldNames    = "names"
	FieldUnused   = "unused"
	FieldReason   = "reason"

	// Run statistics fields.
	FieldScriptsDiscovered = "scripts_discovered"
	FieldScriptsPatched    = "scripts_patched"
	FieldScriptsCopied     = "scripts_copied"
	FieldScriptsSkipped    = "scripts_skipped"
	FieldScriptsFailed     = "scripts_failed"
	FieldEntries           = "entries"
	FieldWarnings          = "warnings"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
