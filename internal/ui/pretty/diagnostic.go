package pretty

import (
	"fmt"

	"github.com/yaklabco/goerbfmt/pkg/config"
	"github.com/yaklabco/goerbfmt/pkg/format"
)

// FormatDiagnostic renders one diagnostic as a single indented line.
func (s *Styles) FormatDiagnostic(d format.Diagnostic) string {
	var label string
	switch d.Severity {
	case config.SeverityError:
		label = s.Error.Render("error")
	case config.SeverityInfo:
		label = s.Info.Render("info")
	default:
		label = s.Warning.Render("warning")
	}

	location := ""
	if d.RegionIndex >= 0 {
		location = s.Location.Render(fmt.Sprintf("[region %d] ", d.RegionIndex))
	}

	return fmt.Sprintf("  %s: %s%s\n", label, location, s.Message.Render(d.Message))
}

// FormatFileStatus renders a file header with its change status.
func (s *Styles) FormatFileStatus(path string, changed bool, written bool) string {
	switch {
	case written:
		return fmt.Sprintf("%s %s\n", s.FilePath.Render(path), s.Success.Render("formatted"))
	case changed:
		return fmt.Sprintf("%s %s\n", s.FilePath.Render(path), s.Warning.Render("needs formatting"))
	default:
		return fmt.Sprintf("%s %s\n", s.FilePath.Render(path), s.Dim.Render("unchanged"))
	}
}
