package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goerbfmt/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.erb")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0600))

	content, mode, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("<p>hi</p>"), content)
	assert.Equal(t, os.FileMode(0600), mode)
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(dir, "missing.erb"))
	assert.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(context.Background(), dir)
	assert.ErrorIs(t, err, fsutil.ErrIsDirectory)
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.erb")

	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("one"), 0644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one", string(content))

	// Overwrite keeps the new content and leaves no temp files behind.
	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("two"), 0644))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomicIfChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.erb")

	written, err := fsutil.WriteAtomicIfChanged(context.Background(), path, []byte("x"), 0644)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = fsutil.WriteAtomicIfChanged(context.Background(), path, []byte("x"), 0644)
	require.NoError(t, err)
	assert.False(t, written)

	written, err = fsutil.WriteAtomicIfChanged(context.Background(), path, []byte("y"), 0644)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestCreateBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tpl.erb")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	created, err := fsutil.CreateBackup(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, created)

	backup, err := os.ReadFile(fsutil.BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "original", string(backup))

	// A second call must not clobber the existing backup.
	require.NoError(t, os.WriteFile(path, []byte("modified"), 0644))
	created, err = fsutil.CreateBackup(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, created)

	backup, err = os.ReadFile(fsutil.BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "original", string(backup))

	require.NoError(t, fsutil.RemoveBackup(path))
	_, err = os.Stat(fsutil.BackupPath(path))
	assert.True(t, os.IsNotExist(err))
}
