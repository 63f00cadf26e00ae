package fsutil

import (
	"context"
	"fmt"
	"os"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores the backup next to the script with BackupSuffix.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to a script's path to name its sidecar backup.
const BackupSuffix = ".cstpatch.bak"

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns the backup defaults: sidecar backups on.
// They only matter for in-place runs.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{
		Enabled: true,
		Mode:    BackupModeSidecar,
	}
}

// IsValid reports whether m is a known mode. The empty mode counts as sidecar.
func (m BackupMode) IsValid() bool {
	switch m {
	case "", BackupModeSidecar, BackupModeNone:
		return true
	default:
		return false
	}
}

// BackupPath returns where the backup of path lives, or "" for BackupModeNone.
// Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup copies path to its backup location unless a backup already
// exists, so the first backup always holds the unpatched script. It reports
// whether a backup was written. A missing original is not an error.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	backupPath := BackupPath(path, cfg.Mode)
	if backupPath == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	if _, err := os.Stat(backupPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	return copyFile(ctx, path, backupPath)
}

// RestoreBackup copies the backup of path back over it. It reports whether a
// backup existed.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}

	restored, err := copyFile(ctx, backupPath, path)
	if err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	return restored, nil
}

// RemoveBackup deletes the backup of path. It reports whether one existed.
func RemoveBackup(path string, mode BackupMode) (bool, error) {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false, nil
	}

	if err := os.Remove(backupPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}

// BackupExists reports whether path has a backup.
func BackupExists(path string, mode BackupMode) bool {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false
	}
	_, err := os.Stat(backupPath)
	return err == nil
}

// copyFile copies src to dst atomically, keeping src's mode. A missing src
// yields false and no error.
func copyFile(ctx context.Context, src, dst string) (bool, error) {
	stat, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", src, err)
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", src, err)
	}

	if err := WriteAtomic(ctx, dst, content, stat.Mode()); err != nil {
		return false, fmt.Errorf("write %s: %w", dst, err)
	}
	return true, nil
}
