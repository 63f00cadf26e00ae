// Package cli provides the Cobra command structure for cstpatch.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cstpatch/internal/configloader"
	"github.com/yaklabco/cstpatch/internal/logging"
	"github.com/yaklabco/cstpatch/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// session carries the global flags and the open log file of one invocation.
type session struct {
	debug      bool
	configPath string
	color      string
	logFile    string
	dir        string

	logCloser io.Closer
}

// NewRootCommand creates the root cstpatch command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "cstpatch",
		Short: "Patch CatScene scene scripts with translations",
		Long: `cstpatch applies translations to CatScene (.cst) scene scripts.

It decodes each script, merges continuation lines, replaces message and
speaker-name lines with the translated text from a spreadsheet or SQLite
database, and writes the script back in the engine's format. Scripts can
be patched into an output directory or in place with backups.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return s.setupLogging()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return s.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&s.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&s.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&s.color, "color", "auto", "colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&s.logFile, "log-file", "", "also write logs to this file (rotated)")
	rootCmd.PersistentFlags().StringVarP(&s.dir, "dir", "C", "", "run as if started in this directory")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	rootCmd.AddCommand(newPatchCommand(s))
	rootCmd.AddCommand(newInspectCommand(s))
	rootCmd.AddCommand(newRestoreCommand(s))
	rootCmd.AddCommand(newInitCommand(s))
	rootCmd.AddCommand(newVersionCommand(info))

	newHelpFormatter(s.color, os.Stdout).apply(rootCmd)

	return rootCmd
}

// setupLogging replaces the default logger only when a flag asks for it, so
// plain invocations leave the package logger untouched.
func (s *session) setupLogging() error {
	if s.debug && s.logFile == "" {
		logging.SetLevel("debug")
		return nil
	}
	if s.logFile != "" {
		return s.openLog(s.level(config.DefaultLogLevel), s.logFile)
	}
	return nil
}

func (s *session) level(configured string) string {
	if s.debug {
		return "debug"
	}
	return configured
}

func (s *session) openLog(level, file string) error {
	if err := s.close(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logger, closer := logging.Setup(level, file)
	logging.SetDefault(logger)
	s.logCloser = closer
	return nil
}

func (s *session) close() error {
	if s.logCloser == nil {
		return nil
	}
	err := s.logCloser.Close()
	s.logCloser = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// workDir returns the --dir flag as an absolute path, or the process
// working directory.
func (s *session) workDir() (string, error) {
	if s.dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	return abs, nil
}

// loadConfig resolves the layered configuration with cliCfg on top and
// applies its log settings.
func (s *session) loadConfig(ctx context.Context, cliCfg *config.Config) (*config.Config, string, error) {
	workDir, err := s.workDir()
	if err != nil {
		return nil, "", err
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: s.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	cfg := loadResult.Config
	if err := s.applyLogConfig(cfg); err != nil {
		return nil, "", err
	}

	logger := logging.Default()
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, loadResult.LoadedFrom)
	}

	return cfg, workDir, nil
}

func (s *session) applyLogConfig(cfg *config.Config) error {
	if s.logFile == "" && cfg.Log.File != "" {
		return s.openLog(s.level(cfg.Log.Level), cfg.Log.File)
	}
	if !s.debug && cfg.Log.Level != "" && !strings.EqualFold(cfg.Log.Level, config.DefaultLogLevel) {
		logging.SetLevel(cfg.Log.Level)
	}
	return nil
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		return nil
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
