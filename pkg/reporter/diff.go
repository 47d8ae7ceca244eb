package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/yaklabco/goerbfmt/internal/ui/pretty"
	"github.com/yaklabco/goerbfmt/pkg/runner"
)

// DiffReporter renders per-file unified-style diffs between a file's
// content and its formatted output.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var filesWithDiffs int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.out, "%s: %s\n",
				r.styles.FilePath.Render(displayPath(file.Path, r.opts.WorkingDir)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if file.Result == nil || !file.Changed {
			continue
		}

		filesWithDiffs++
		r.writeDiff(displayPath(file.Path, r.opts.WorkingDir), string(file.Original), file.Result.Output)
	}

	return filesWithDiffs, nil
}

// writeDiff renders a line-based diff for one file.
func (r *DiffReporter) writeDiff(path, before, after string) {
	header := fmt.Sprintf("diff --git a/%s b/%s", path, path)
	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(header))
	fmt.Fprintln(r.out, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+++ b/"+path))

	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(beforeChars, afterChars, false), lines)

	for _, diff := range diffs {
		prefix, style := " ", r.styles.Dim
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix, style = "+", r.styles.DiffAdd
		case diffmatchpatch.DiffDelete:
			prefix, style = "-", r.styles.DiffRemove
		}
		for _, line := range splitDiffLines(diff.Text) {
			fmt.Fprintln(r.out, style.Render(prefix+line))
		}
	}
	fmt.Fprintln(r.out)
}

// splitDiffLines splits diff text into lines, dropping the trailing
// empty entry a final newline produces.
func splitDiffLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
