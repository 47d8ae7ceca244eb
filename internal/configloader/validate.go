package configloader

import (
	"fmt"

	"github.com/yaklabco/goerbfmt/pkg/config"
)

// Validate checks the resolved configuration's enumerated fields and
// integer domains. Out-of-domain values are not fatal (the formatter
// clamps them), so validation produces warnings only.
func Validate(cfg *config.Config) []string {
	var warnings []string

	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	switch cfg.Indentation.Style {
	case config.IndentSpace, config.IndentTab:
	default:
		warn("unknown indentation.style %q; using %q", cfg.Indentation.Style, config.IndentSpace)
	}
	if cfg.Indentation.Size < 1 {
		warn("indentation.size %d is below 1; clamping to 1", cfg.Indentation.Size)
	}
	if cfg.Indentation.Continuation < 0 {
		warn("indentation.continuation %d is negative; clamping to 0", cfg.Indentation.Continuation)
	}

	switch cfg.Newline {
	case config.NewlineLF, config.NewlineCRLF, config.NewlinePreserve:
	default:
		warn("unknown newline %q; using %q", cfg.Newline, config.NewlineLF)
	}

	switch cfg.HTML.CollapseWhitespace {
	case config.CollapsePreserve, config.CollapseConservative, config.CollapseAggressive:
	default:
		warn("unknown html.collapse_whitespace %q; using %q",
			cfg.HTML.CollapseWhitespace, config.CollapseConservative)
	}
	switch cfg.HTML.AttributeWrapping {
	case config.WrapPreserve, config.WrapAuto, config.WrapForceMultiLine:
	default:
		warn("unknown html.attribute_wrapping %q; using %q",
			cfg.HTML.AttributeWrapping, config.WrapPreserve)
	}
	if cfg.HTML.LineWidth < 0 {
		warn("html.line_width %d is negative; width checks disabled", cfg.HTML.LineWidth)
	}

	switch cfg.Ruby.Format {
	case config.RubyFormatHeuristic, config.RubyFormatNone:
	default:
		warn("unknown ruby.format %q; using %q", cfg.Ruby.Format, config.RubyFormatHeuristic)
	}
	if cfg.Ruby.LineWidth < 0 {
		warn("ruby.line_width %d is negative; width checks disabled", cfg.Ruby.LineWidth)
	}

	return warnings
}
