package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cstpatch/internal/logging"
	"github.com/yaklabco/cstpatch/pkg/config"
	"github.com/yaklabco/cstpatch/pkg/cst"
	"github.com/yaklabco/cstpatch/pkg/patch"
	"github.com/yaklabco/cstpatch/pkg/reporter"
	"github.com/yaklabco/cstpatch/pkg/runner"
	"github.com/yaklabco/cstpatch/pkg/textenc"
	"github.com/yaklabco/cstpatch/pkg/translation"
)

// ErrNoTranslations is returned when no translation source is configured.
var ErrNoTranslations = errors.New("no translation file; set --translations or 'translations' in the config")

type patchFlags struct {
	output       string
	translations string
	sheet        string
	encoding     string
	format       string
	ignore       []string
	noCompress   bool
	noWordGuard  bool
	verbose      bool
	compact      bool
}

func newPatchCommand(s *session) *cobra.Command {
	var cfg config.Config
	flags := &patchFlags{}

	cmd := &cobra.Command{
		Use:   "patch [paths...]",
		Short: "Apply translations to scene scripts",
		Long:  patchLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd, s, args, &cfg, flags)
		},
	}

	addPatchFlags(cmd, &cfg, flags)

	return cmd
}

const patchLongDescription = `Apply translations to CatScene scene scripts.

By default, patches every .cst file under the current directory. Scripts are
written into the configured output directory, or patched in place with a
backup next to each file when no output directory is set.

Examples:
  cstpatch patch --translations tl.xlsx --output patched scene/
  cstpatch patch --translations tl.db scene/op01.cst
  cstpatch patch --dry-run                 # Translate without writing
  cstpatch patch --format json             # Output as JSON for CI
  cstpatch patch --ignore 'drafts/**'      # Skip some scripts`

func runPatch(cmd *cobra.Command, s *session, args []string, cfg *config.Config, flags *patchFlags) error {
	ctx := commandContext(cmd)

	applyPatchFlags(cmd, cfg, flags)

	finalCfg, workDir, err := s.loadConfig(ctx, cfg)
	if err != nil {
		return err
	}
	logger := logging.Default()

	if finalCfg.Translations == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, ErrNoTranslations)
	}

	data, warnings, err := translation.Load(ctx, finalCfg.Translations, finalCfg.Sheet)
	if err != nil {
		return fmt.Errorf("%w: load translations: %w", ErrConfig, err)
	}
	for _, warning := range warnings {
		logger.Warn(warning.Message, logging.FieldScript, warning.Location)
	}
	logger.Info("translations loaded",
		logging.FieldSource, finalCfg.Translations,
		logging.FieldLines, data.Len(),
		logging.FieldNames, data.NameCount(),
		logging.FieldWarnings, len(warnings),
	)

	enc, err := textenc.Lookup(finalCfg.Encoding)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	patchRunner := runner.New(patch.NewPipeline(cst.NewCodec(enc), data))

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		ExcludeGlobs: finalCfg.Ignore,
		OutputDir:    finalCfg.OutputDir,
		Jobs:         finalCfg.Jobs,
		FailFast:     finalCfg.FailFast,
		Warnings:     warnings,
		Config:       finalCfg,
	}

	logger.Debug("starting patch run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, workDir,
		logging.FieldOutput, runOpts.OutputDir,
		logging.FieldEncoding, enc.Name(),
		logging.FieldCompress, finalCfg.CompressEnabled(),
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Workers(),
	)

	result, err := patchRunner.Run(logging.WithLogger(ctx, logger), runOpts)
	if err != nil {
		return fmt.Errorf("patch run: %w", err)
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       s.color,
		Verbose:     flags.verbose,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("patch run finished",
		logging.FieldScriptsDiscovered, result.Stats.ScriptsDiscovered,
		logging.FieldScriptsPatched, result.Stats.ScriptsPatched,
		logging.FieldScriptsCopied, result.Stats.ScriptsCopied,
		logging.FieldScriptsSkipped, result.Stats.ScriptsSkipped,
		logging.FieldScriptsFailed, result.Stats.ScriptsErrored,
	)

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrPatchFailed
	}
	return nil
}

// applyPatchFlags copies explicitly set flags into cfg so that only they
// override the loaded configuration.
func applyPatchFlags(cmd *cobra.Command, cfg *config.Config, flags *patchFlags) {
	changed := cmd.Flags().Changed

	if changed("output") {
		cfg.OutputDir = flags.output
	}
	if changed("translations") {
		cfg.Translations = flags.translations
	}
	if changed("sheet") {
		cfg.Sheet = flags.sheet
	}
	if changed("encoding") {
		cfg.Encoding = flags.encoding
	}
	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if flags.noCompress {
		compress := false
		cfg.Compress = &compress
	}
	if flags.noWordGuard {
		guard := false
		cfg.WordGuard = &guard
	}
}

func addPatchFlags(cmd *cobra.Command, cfg *config.Config, flags *patchFlags) {
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "directory receiving patched scripts (default: in place)")
	cmd.Flags().StringVarP(&flags.translations, "translations", "t", "", "translation workbook (.xlsx) or database (.db)")
	cmd.Flags().StringVar(&flags.sheet, "sheet", config.DefaultSheet, "worksheet read from a workbook")
	cmd.Flags().StringVar(&flags.encoding, "encoding", config.DefaultEncoding, "script text encoding: shift_jis, euc-jp, utf-8")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.noCompress, "no-compress", false, "write uncompressed scripts")
	cmd.Flags().BoolVar(&flags.noWordGuard, "no-word-guard", false, "do not wrap translated words in brackets")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "translate and encode without writing")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&cfg.FailFast, "fail-fast", false, "stop at the first failing script")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backups when patching in place")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every script and the full summary")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minified JSON output")
}
