package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cstpatch/internal/logging"
	"github.com/yaklabco/cstpatch/internal/ui/pretty"
	"github.com/yaklabco/cstpatch/pkg/config"
	"github.com/yaklabco/cstpatch/pkg/fsutil"
	"github.com/yaklabco/cstpatch/pkg/runner"
)

type restoreFlags struct {
	keep   bool
	dryRun bool
}

func newRestoreCommand(s *session) *cobra.Command {
	flags := &restoreFlags{}

	cmd := &cobra.Command{
		Use:   "restore [paths...]",
		Short: "Restore scripts patched in place from their backups",
		Long: `Restore scene scripts from the backups written when patching in place.

Every .cst file under the paths that has a backup is overwritten with it,
and the backup is removed unless --keep is given.

Examples:
  cstpatch restore                 # Restore everything under the current directory
  cstpatch restore scene/op01.cst  # Restore a single script
  cstpatch restore --dry-run       # List what would be restored`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, s, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.keep, "keep", false, "keep backups after restoring")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "list scripts with backups without restoring")

	return cmd
}

func runRestore(cmd *cobra.Command, s *session, args []string, flags *restoreFlags) error {
	ctx := commandContext(cmd)

	cfg, workDir, err := s.loadConfig(ctx, &config.Config{})
	if err != nil {
		return err
	}
	logger := logging.Default()
	mode := fsutil.BackupMode(cfg.Backups.Mode)

	files, err := runner.Discover(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		ExcludeGlobs: cfg.Ignore,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(s.color, out))

	restored := 0
	var errs []error
	for _, path := range files {
		if !fsutil.BackupExists(path, mode) {
			continue
		}
		if flags.dryRun {
			restored++
			fmt.Fprintf(out, "%s  %s\n", styles.FilePath.Render(path), styles.Dim.Render("would restore"))
			continue
		}

		ok, err := fsutil.RestoreBackup(ctx, path, mode)
		if err != nil {
			errs = append(errs, err)
			logger.Error("restore failed", logging.FieldPath, path, logging.FieldError, err)
			continue
		}
		if !ok {
			continue
		}
		restored++
		fmt.Fprintf(out, "%s  %s\n", styles.FilePath.Render(path), styles.Patched.Render("restored"))

		if !flags.keep {
			if _, err := fsutil.RemoveBackup(path, mode); err != nil {
				logger.Warn("could not remove backup", logging.FieldPath, path, logging.FieldError, err)
			}
		}
	}

	verb := "Restored"
	if flags.dryRun {
		verb = "Would restore"
	}
	fmt.Fprintf(out, "%s %d of %d scripts\n", verb, restored, len(files))

	return errors.Join(errs...)
}
