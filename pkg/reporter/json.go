package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/goerbfmt/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Changed     bool             `json:"changed"`
	Written     bool             `json:"written,omitempty"`
	Diagnostics []JSONDiagnostic `json:"diagnostics,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	RegionIndex int    `json:"regionIndex"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int            `json:"filesChecked"`
	FilesChanged int            `json:"filesChanged"`
	FilesWritten int            `json:"filesWritten"`
	FilesErrored int            `json:"filesErrored"`
	TotalIssues  int            `json:"totalIssues"`
	BySeverity   map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	out := JSONOutput{
		Version: "1",
		Files:   []JSONFileResult{},
	}

	var reported int
	if result != nil {
		for _, file := range result.Files {
			fr := JSONFileResult{
				Path:    displayPath(file.Path, r.opts.WorkingDir),
				Changed: file.Changed,
				Written: file.Written,
			}
			if file.Error != nil {
				fr.Error = file.Error.Error()
			}
			if file.Result != nil {
				for _, d := range file.Result.Diagnostics {
					fr.Diagnostics = append(fr.Diagnostics, JSONDiagnostic{
						RegionIndex: d.RegionIndex,
						Severity:    string(d.Severity),
						Message:     d.Message,
					})
				}
			}
			if fr.Changed || fr.Error != "" || len(fr.Diagnostics) > 0 {
				reported++
			}
			out.Files = append(out.Files, fr)
		}

		out.Summary = JSONSummary{
			FilesChecked: result.Stats.FilesDiscovered,
			FilesChanged: result.Stats.FilesChanged,
			FilesWritten: result.Stats.FilesWritten,
			FilesErrored: result.Stats.FilesErrored,
			TotalIssues:  result.Stats.DiagnosticsTotal,
			BySeverity:   result.Stats.DiagnosticsBySeverity,
		}
	}

	enc := json.NewEncoder(r.bw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return reported, nil
}
