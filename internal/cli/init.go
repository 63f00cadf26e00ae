package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/cstpatch/internal/logging"
	"github.com/yaklabco/cstpatch/pkg/config"
	"github.com/yaklabco/cstpatch/pkg/fsutil"
)

// defaultConfigFile is the file written by init.
const defaultConfigFile = ".cstpatch.yml"

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

type initFlags struct {
	force        bool
	full         bool
	output       string
	translations string
	outputDir    string
}

func newInitCommand(s *session) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new cstpatch configuration file",
		Long: `Create a new .cstpatch.yml configuration file in the current directory.

In a terminal you are asked before an existing file is overwritten;
elsewhere --force is required.

Examples:
  cstpatch init                                Create minimal .cstpatch.yml
  cstpatch init --full                         Document every setting
  cstpatch init --translations tl.xlsx --output-dir patched
  cstpatch init --file conf/release.yml        Write to a custom file path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, s, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every setting with its default")
	cmd.Flags().StringVar(&flags.output, "file", defaultConfigFile, "configuration file to write")
	cmd.Flags().StringVar(&flags.translations, "translations", "", "pre-fill the translation file path")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "pre-fill the output directory")

	return cmd
}

func runInit(cmd *cobra.Command, s *session, flags *initFlags) error {
	ctx := commandContext(cmd)
	logger := logging.NewInteractive()

	workDir, err := s.workDir()
	if err != nil {
		return err
	}
	path := flags.output
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	if _, err := os.Stat(path); err == nil && !flags.force {
		if !isInteractive() {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, flags.output)
		}
		overwrite, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Overwrite %s? [y/N] ", flags.output))
		if err != nil {
			return err
		}
		if !overwrite {
			logger.Info("left existing configuration unchanged", logging.FieldPath, flags.output)
			return nil
		}
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:         flags.full,
		Translations: flags.translations,
		OutputDir:    flags.outputDir,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	if flags.translations == "" {
		logger.Info("set 'translations' to your workbook or database before running 'cstpatch patch'")
	}

	return nil
}

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := io.WriteString(out, prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
