package runner

import (
	"github.com/yaklabco/goerbfmt/pkg/config"
	"github.com/yaklabco/goerbfmt/pkg/format"
)

// FileOutcome is the per-file result of a run.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is the formatter result; nil when the file could not be
	// read or formatted at all.
	Result *format.Result

	// Original is the file content that was formatted, kept for diff
	// reporting.
	Original []byte

	// Changed reports whether the formatted output differs from the
	// file's current content.
	Changed bool

	// Written reports whether the file was rewritten.
	Written bool

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully formatted.
	FilesProcessed int

	// FilesChanged is the number of files whose output differs from
	// their content.
	FilesChanged int

	// FilesWritten is the number of files rewritten in place.
	FilesWritten int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// DiagnosticsTotal is the total number of diagnostics across files.
	DiagnosticsTotal int

	// DiagnosticsBySeverity maps severity levels to counts.
	DiagnosticsBySeverity map[string]int
}

// Result is the overall runner result. Files are ordered
// deterministically by path.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file errored or produced an
// error-severity diagnostic.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 ||
		r.Stats.DiagnosticsBySeverity[string(config.SeverityError)] > 0
}

// HasChanges reports whether any file's formatting differs from its
// current content.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

func newStats() Stats {
	return Stats{DiagnosticsBySeverity: make(map[string]int)}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Changed {
		r.Stats.FilesChanged++
	}
	if outcome.Written {
		r.Stats.FilesWritten++
	}

	r.Stats.DiagnosticsTotal += len(outcome.Result.Diagnostics)
	for _, d := range outcome.Result.Diagnostics {
		severity := string(d.Severity)
		if severity == "" {
			severity = string(config.SeverityWarning)
		}
		r.Stats.DiagnosticsBySeverity[severity]++
	}
}
