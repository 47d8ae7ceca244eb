// Package fsutil provides file system safety primitives for goerbfmt:
// atomic writes, write-if-changed, and sidecar backups.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Sentinel errors for common file failures.
var (
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
)

// ReadFile reads a file's content and mode. The mode is carried so a
// later atomic rewrite can preserve it.
func ReadFile(ctx context.Context, path string) ([]byte, os.FileMode, error) {
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, path)
		case os.IsPermission(err):
			return nil, 0, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		default:
			return nil, 0, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if stat.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	return content, stat.Mode().Perm(), nil
}
