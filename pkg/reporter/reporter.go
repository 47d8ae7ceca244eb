// Package reporter formats runner results for terminals and machines.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/goerbfmt/pkg/runner"
)

// Reporter formats and writes format results.
type Reporter interface {
	// Report writes formatted output for the given result. It returns
	// the number of files it reported and any write error. The text and
	// JSON reporters count files with changes, diagnostics or an error;
	// the diff reporter counts files with changes.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}

// displayPath makes a path relative to the working directory when that
// produces a shorter, saner path.
func displayPath(path, workingDir string) string {
	if workingDir == "" {
		return path
	}
	rel, err := filepath.Rel(workingDir, path)
	if err != nil || len(rel) >= len(path) {
		return path
	}
	return rel
}
