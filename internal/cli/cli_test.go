package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/goerbfmt/pkg/runner"
)

func TestExitCodeFromResult(t *testing.T) {
	t.Run("nil result succeeds", func(t *testing.T) {
		assert.Equal(t, ExitSuccess, ExitCodeFromResult(nil, false))
	})

	t.Run("clean run succeeds", func(t *testing.T) {
		result := &runner.Result{
			Stats: runner.Stats{DiagnosticsBySeverity: map[string]int{}},
		}
		assert.Equal(t, ExitSuccess, ExitCodeFromResult(result, false))
		assert.Equal(t, ExitSuccess, ExitCodeFromResult(result, true))
	})

	t.Run("error diagnostics fail", func(t *testing.T) {
		result := &runner.Result{
			Stats: runner.Stats{DiagnosticsBySeverity: map[string]int{"error": 1}},
		}
		assert.Equal(t, ExitIssuesFound, ExitCodeFromResult(result, false))
	})

	t.Run("errored files fail", func(t *testing.T) {
		result := &runner.Result{
			Stats: runner.Stats{
				FilesErrored:          2,
				DiagnosticsBySeverity: map[string]int{},
			},
		}
		assert.Equal(t, ExitIssuesFound, ExitCodeFromResult(result, false))
	})

	t.Run("changes fail only in check mode", func(t *testing.T) {
		result := &runner.Result{
			Stats: runner.Stats{
				FilesChanged:          1,
				DiagnosticsBySeverity: map[string]int{},
			},
		}
		assert.Equal(t, ExitSuccess, ExitCodeFromResult(result, false))
		assert.Equal(t, ExitIssuesFound, ExitCodeFromResult(result, true))
	})
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{Version: "test"})

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "format")
	assert.Contains(t, names, "watch")
	assert.Contains(t, names, "init")
	assert.Contains(t, names, "version")
}
