package cli

import "github.com/yaklabco/goerbfmt/pkg/runner"

// Exit codes for goerbfmt.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitIssuesFound indicates formatting errors were found, or in
	// check mode that files would change.
	ExitIssuesFound = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code from a run result.
// In check mode, files that would change are failures.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasFailures() {
		return ExitIssuesFound
	}
	if check && result.HasChanges() {
		return ExitIssuesFound
	}
	return ExitSuccess
}
