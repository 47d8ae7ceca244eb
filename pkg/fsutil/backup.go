package fsutil

import (
	"context"
	"fmt"
	"io"
	"os"
)

// BackupSuffix is the suffix used for sidecar backup files.
const BackupSuffix = ".goerbfmt.bak"

// BackupPath returns the sidecar backup path for the given file.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies the file at path to its sidecar backup path if
// no backup exists yet. Returns true when a backup was created.
//
// Creation is idempotent: an existing backup is never overwritten, so
// repeated runs keep the original content.
func CreateBackup(ctx context.Context, path string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("create backup: %w", ctx.Err())
	default:
	}

	backupPath := BackupPath(path)

	if _, err := os.Stat(backupPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return false, fmt.Errorf("stat source: %w", err)
	}

	dst, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("create backup file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(backupPath)
		return false, fmt.Errorf("copy to backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return false, fmt.Errorf("close backup: %w", err)
	}

	return true, nil
}

// RemoveBackup deletes the sidecar backup for path if present.
func RemoveBackup(path string) error {
	err := os.Remove(BackupPath(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove backup: %w", err)
	}
	return nil
}
