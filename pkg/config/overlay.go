package config

// Overlay mirrors Config with pointer-typed leaves so partial user
// overrides can be distinguished from absent values. Config files,
// environment variables, and CLI flags all decode into an Overlay and
// fold into a Config via Apply.
type Overlay struct {
	Indentation IndentationOverlay `yaml:"indentation"`
	Newline     *string            `yaml:"newline"`
	Whitespace  WhitespaceOverlay  `yaml:"whitespace"`
	HTML        HTMLOverlay        `yaml:"html"`
	Ruby        RubyOverlay        `yaml:"ruby"`
}

// IndentationOverlay carries partial indentation overrides.
type IndentationOverlay struct {
	Size         *int    `yaml:"size"`
	Style        *string `yaml:"style"`
	Continuation *int    `yaml:"continuation"`
}

// WhitespaceOverlay carries partial whitespace overrides.
type WhitespaceOverlay struct {
	TrimTrailing       *bool `yaml:"trim_trailing"`
	EnsureFinalNewline *bool `yaml:"ensure_final_newline"`
}

// HTMLOverlay carries partial HTML overrides.
type HTMLOverlay struct {
	CollapseWhitespace *string `yaml:"collapse_whitespace"`
	LineWidth          *int    `yaml:"line_width"`
	AttributeWrapping  *string `yaml:"attribute_wrapping"`
}

// RubyOverlay carries partial Ruby overrides.
type RubyOverlay struct {
	Format    *string `yaml:"format"`
	LineWidth *int    `yaml:"line_width"`
}

// Apply folds the overlay into a clone of base. Leaves absent from the
// overlay inherit base's values; base itself is never mutated.
func Apply(base *Config, o *Overlay) *Config {
	result := base.Clone()
	if result == nil {
		result = NewConfig()
	}
	if o == nil {
		return result
	}

	if o.Indentation.Size != nil {
		result.Indentation.Size = *o.Indentation.Size
	}
	if o.Indentation.Style != nil {
		result.Indentation.Style = IndentStyle(*o.Indentation.Style)
	}
	if o.Indentation.Continuation != nil {
		result.Indentation.Continuation = *o.Indentation.Continuation
	}

	if o.Newline != nil {
		result.Newline = NewlineMode(*o.Newline)
	}

	if o.Whitespace.TrimTrailing != nil {
		result.Whitespace.TrimTrailing = *o.Whitespace.TrimTrailing
	}
	if o.Whitespace.EnsureFinalNewline != nil {
		result.Whitespace.EnsureFinalNewline = *o.Whitespace.EnsureFinalNewline
	}

	if o.HTML.CollapseWhitespace != nil {
		result.HTML.CollapseWhitespace = CollapseMode(*o.HTML.CollapseWhitespace)
	}
	if o.HTML.LineWidth != nil {
		result.HTML.LineWidth = *o.HTML.LineWidth
	}
	if o.HTML.AttributeWrapping != nil {
		result.HTML.AttributeWrapping = WrapMode(*o.HTML.AttributeWrapping)
	}

	if o.Ruby.Format != nil {
		result.Ruby.Format = RubyFormatMode(*o.Ruby.Format)
	}
	if o.Ruby.LineWidth != nil {
		result.Ruby.LineWidth = *o.Ruby.LineWidth
	}

	return result
}

// MergeOverlays folds later overlays over earlier ones, returning a
// combined overlay. Nil entries are skipped.
func MergeOverlays(overlays ...*Overlay) *Overlay {
	result := &Overlay{}
	for _, o := range overlays {
		if o == nil {
			continue
		}
		if o.Indentation.Size != nil {
			result.Indentation.Size = o.Indentation.Size
		}
		if o.Indentation.Style != nil {
			result.Indentation.Style = o.Indentation.Style
		}
		if o.Indentation.Continuation != nil {
			result.Indentation.Continuation = o.Indentation.Continuation
		}
		if o.Newline != nil {
			result.Newline = o.Newline
		}
		if o.Whitespace.TrimTrailing != nil {
			result.Whitespace.TrimTrailing = o.Whitespace.TrimTrailing
		}
		if o.Whitespace.EnsureFinalNewline != nil {
			result.Whitespace.EnsureFinalNewline = o.Whitespace.EnsureFinalNewline
		}
		if o.HTML.CollapseWhitespace != nil {
			result.HTML.CollapseWhitespace = o.HTML.CollapseWhitespace
		}
		if o.HTML.LineWidth != nil {
			result.HTML.LineWidth = o.HTML.LineWidth
		}
		if o.HTML.AttributeWrapping != nil {
			result.HTML.AttributeWrapping = o.HTML.AttributeWrapping
		}
		if o.Ruby.Format != nil {
			result.Ruby.Format = o.Ruby.Format
		}
		if o.Ruby.LineWidth != nil {
			result.Ruby.LineWidth = o.Ruby.LineWidth
		}
	}
	return result
}
