package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/goerbfmt/internal/ui/pretty"
	"github.com/yaklabco/goerbfmt/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No template files to format."))
		}
		return 0, nil
	}

	var reported int
	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			reported++
			continue
		}
		if file.Result == nil {
			continue
		}

		hasDiags := len(file.Result.Diagnostics) > 0
		if !file.Changed && !hasDiags && !r.opts.ShowUnchanged {
			continue
		}

		fmt.Fprint(r.bw, r.styles.FormatFileStatus(path, file.Changed, file.Written))
		for _, diag := range file.Result.Diagnostics {
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(diag))
		}
		if file.Changed || hasDiags {
			reported++
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.formatSummary(result.Stats))
	}

	return reported, nil
}

func (r *TextReporter) formatSummary(stats runner.Stats) string {
	line := fmt.Sprintf("%d files checked, %d changed, %d written, %d errors",
		stats.FilesDiscovered, stats.FilesChanged, stats.FilesWritten, stats.FilesErrored)
	if stats.FilesErrored > 0 || stats.DiagnosticsBySeverity["error"] > 0 {
		return r.styles.Failure.Render(line) + "\n"
	}
	return r.styles.Dim.Render(line) + "\n"
}
