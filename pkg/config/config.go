// Package config defines the formatter configuration model.
// These types are pure data structures; loading and merging from files,
// environment, and flags live in internal/configloader.
package config

import "strings"

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IndentStyle selects the indentation character.
type IndentStyle string

const (
	IndentSpace IndentStyle = "space"
	IndentTab   IndentStyle = "tab"
)

// NewlineMode selects the output line terminator.
type NewlineMode string

const (
	NewlineLF       NewlineMode = "lf"
	NewlineCRLF     NewlineMode = "crlf"
	NewlinePreserve NewlineMode = "preserve"
)

// CollapseMode controls whitespace collapsing in HTML text nodes.
type CollapseMode string

const (
	CollapsePreserve     CollapseMode = "preserve"
	CollapseConservative CollapseMode = "conservative"
	CollapseAggressive   CollapseMode = "aggressive"
)

// WrapMode controls attribute wrapping in start tags.
type WrapMode string

const (
	WrapPreserve       WrapMode = "preserve"
	WrapAuto           WrapMode = "auto"
	WrapForceMultiLine WrapMode = "force-multi-line"
)

// RubyFormatMode controls re-indentation of embedded Ruby.
type RubyFormatMode string

const (
	RubyFormatHeuristic RubyFormatMode = "heuristic"
	RubyFormatNone      RubyFormatMode = "none"
)

// IndentationConfig controls indentation of emitted markup.
type IndentationConfig struct {
	// Size is the number of indentation characters per level (>= 1).
	Size int `yaml:"size"`

	// Style selects spaces or tabs.
	Style IndentStyle `yaml:"style"`

	// Continuation is the extra column offset for continuation lines
	// of multi-line directives whose interior carries no indentation.
	Continuation int `yaml:"continuation"`
}

// WhitespaceConfig controls trailing-whitespace and final-newline policy.
type WhitespaceConfig struct {
	TrimTrailing       bool `yaml:"trim_trailing"`
	EnsureFinalNewline bool `yaml:"ensure_final_newline"`
}

// HTMLConfig controls the HTML side of formatting.
type HTMLConfig struct {
	CollapseWhitespace CollapseMode `yaml:"collapse_whitespace"`

	// LineWidth is the target line width; 0 disables width checks.
	LineWidth int `yaml:"line_width"`

	AttributeWrapping WrapMode `yaml:"attribute_wrapping"`
}

// RubyConfig controls the embedded-Ruby side of formatting.
type RubyConfig struct {
	Format RubyFormatMode `yaml:"format"`

	// LineWidth is loaded and validated like the other settings, but no
	// formatting step reads it; Ruby lines are not wrapped to any width.
	LineWidth int `yaml:"line_width"`
}

// Config is the root configuration for goerbfmt. Values outside a
// field's domain are clamped silently by consumers.
type Config struct {
	Indentation IndentationConfig `yaml:"indentation"`
	Newline     NewlineMode       `yaml:"newline"`
	Whitespace  WhitespaceConfig  `yaml:"whitespace"`
	HTML        HTMLConfig        `yaml:"html"`
	Ruby        RubyConfig        `yaml:"ruby"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Indentation: IndentationConfig{
			Size:         2,
			Style:        IndentSpace,
			Continuation: 2,
		},
		Newline: NewlineLF,
		Whitespace: WhitespaceConfig{
			TrimTrailing:       true,
			EnsureFinalNewline: true,
		},
		HTML: HTMLConfig{
			CollapseWhitespace: CollapseConservative,
			LineWidth:          100,
			AttributeWrapping:  WrapPreserve,
		},
		Ruby: RubyConfig{
			Format:    RubyFormatHeuristic,
			LineWidth: 100,
		},
	}
}

// Clone returns a deep copy. Config holds no reference types, so a
// value copy suffices; the method exists so callers never share the
// default record.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// IndentUnit returns one level of indentation, clamping Size to >= 1.
func (c *Config) IndentUnit() string {
	size := c.Indentation.Size
	if size < 1 {
		size = 1
	}
	if c.Indentation.Style == IndentTab {
		return strings.Repeat("\t", size)
	}
	return strings.Repeat(" ", size)
}

// Indent returns level repetitions of the indent unit; negative levels
// clamp to zero.
func (c *Config) Indent(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(c.IndentUnit(), level)
}

// ContinuationOffset returns the continuation column offset clamped to
// a non-negative value.
func (c *Config) ContinuationOffset() int {
	if c.Indentation.Continuation < 0 {
		return 0
	}
	return c.Indentation.Continuation
}
