package format

import "github.com/yaklabco/goerbfmt/pkg/config"

// DebugInfo carries the intermediate placeholder document for
// inspection when debug output is requested.
type DebugInfo struct {
	PlaceholderHTML  string `json:"placeholder_html"`
	PlaceholderCount int    `json:"placeholder_count"`
}

// Result is the outcome of one Format call. Output is always present
// and safe to display; callers decide whether to write it when error
// diagnostics exist.
type Result struct {
	// Output is the formatted text.
	Output string `json:"output"`

	// Segments describe the output piecewise, in emission order.
	Segments []Segment `json:"segments"`

	// Diagnostics lists input-driven problems; none of them abort
	// formatting.
	Diagnostics []Diagnostic `json:"diagnostics"`

	// Config is the fully-resolved configuration the call used.
	Config *config.Config `json:"config"`

	// Debug is present only when debug output was requested.
	Debug *DebugInfo `json:"debug,omitempty"`
}

// HasErrors reports whether any diagnostic carries error severity.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, d := range r.Diagnostics {
		if d.Severity == config.SeverityError {
			return true
		}
	}
	return false
}

// Changed reports whether the output differs from the given source.
func (r *Result) Changed(src []byte) bool {
	return r != nil && r.Output != string(src)
}
