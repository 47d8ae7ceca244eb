package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goerbfmt/pkg/format"
	"github.com/yaklabco/goerbfmt/pkg/fsutil"
	"github.com/yaklabco/goerbfmt/pkg/runner"
)

const unformatted = "<% if x %>\n<p>hi</p>\n<% end %>"

const formatted = "<% if x %>\n  <p>hi</p>\n<% end %>\n"

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunCheckMode(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "a.erb", unformatted)
	writeTemplate(t, dir, "b.html.erb", formatted)
	writeTemplate(t, dir, "ignored.txt", unformatted)

	r := runner.New(format.New(nil))
	result, err := r.Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Mode:       runner.WriteCheck,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.FilesChanged)
	assert.Equal(t, 0, result.Stats.FilesWritten)
	assert.True(t, result.HasChanges())

	// Check mode never touches files.
	content, err := os.ReadFile(filepath.Join(dir, "a.erb"))
	require.NoError(t, err)
	assert.Equal(t, unformatted, string(content))
}

func TestRunWriteMode(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "views/a.erb", unformatted)

	r := runner.New(format.New(nil))
	result, err := r.Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Mode:       runner.WriteInPlace,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesWritten)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, formatted, string(content))
}

func TestRunWriteModeWithBackups(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "a.erb", unformatted)

	r := runner.New(format.New(nil))
	_, err := r.Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Mode:       runner.WriteInPlace,
		Backups:    true,
	})
	require.NoError(t, err)

	backup, err := os.ReadFile(fsutil.BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, unformatted, string(backup))
}

func TestRunWriteModeSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "a.erb", formatted)

	before, err := os.Stat(path)
	require.NoError(t, err)

	r := runner.New(format.New(nil))
	result, err := r.Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Mode:       runner.WriteInPlace,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stats.FilesWritten)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestRunDeterministicOrdering(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "c.erb", formatted)
	writeTemplate(t, dir, "a.erb", formatted)
	writeTemplate(t, dir, "b.erb", formatted)

	r := runner.New(format.New(nil))
	result, err := r.Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Jobs:       4,
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, filepath.Join(dir, "a.erb"), result.Files[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.erb"), result.Files[1].Path)
	assert.Equal(t, filepath.Join(dir, "c.erb"), result.Files[2].Path)
}

func TestDiscoverExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "app/a.erb", formatted)
	writeTemplate(t, dir, "vendor/b.erb", formatted)
	writeTemplate(t, dir, ".hidden/c.erb", formatted)

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"vendor/**"},
	})
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "app/a.erb"), files[0])
}

func TestDiscoverSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "one.erb", formatted)

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"one.erb"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}
