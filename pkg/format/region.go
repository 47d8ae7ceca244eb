package format

import (
	"github.com/yaklabco/goerbfmt/pkg/ast"
	"github.com/yaklabco/goerbfmt/pkg/config"
)

// Position is a location in the source: byte offset plus zero-based
// row and column.
type Position struct {
	Offset int `json:"offset"`
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Range is a half-open source span (inclusive start, exclusive end).
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func rangeOf(n ast.Node) Range {
	sp, ep := n.StartPoint(), n.EndPoint()
	return Range{
		Start: Position{Offset: int(n.StartByte()), Row: int(sp.Row), Column: int(sp.Column)},
		End:   Position{Offset: int(n.EndByte()), Row: int(ep.Row), Column: int(ep.Column)},
	}
}

// RegionKind discriminates the region variants.
type RegionKind string

const (
	RegionHTML    RegionKind = "html"
	RegionRuby    RegionKind = "ruby"
	RegionUnknown RegionKind = "unknown"
)

// DirectiveFlavor classifies a Ruby directive.
type DirectiveFlavor string

const (
	FlavorLogic   DirectiveFlavor = "logic"
	FlavorOutput  DirectiveFlavor = "output"
	FlavorComment DirectiveFlavor = "comment"
	FlavorNone    DirectiveFlavor = ""
)

// Region is one tile of the source: raw HTML, a Ruby directive, or an
// unrecognized template node. Regions are immutable once built and
// tile the source exactly.
type Region struct {
	Kind  RegionKind
	Range Range

	// Text is the full source slice, delimiters included.
	Text string

	// Ruby directive fields.
	Flavor     DirectiveFlavor
	OpenDelim  string
	CloseDelim string

	// Code is the trimmed inner code text; empty for empty directives.
	Code string

	// CodeRange covers the untrimmed inner code, when present.
	CodeRange *Range

	// Subtree is the root of the Ruby parse of Code, or nil when Code
	// is empty or was not parsed.
	Subtree ast.Node

	// NodeKind preserves the grammar's label for unknown regions.
	NodeKind string
}

// Diagnostic reports an input-driven problem found while formatting.
type Diagnostic struct {
	// RegionIndex points into the region list, or -1 when the
	// diagnostic is not attached to a region.
	RegionIndex int `json:"region_index"`

	Severity config.Severity `json:"severity"`
	Message  string          `json:"message"`
}

// SegmentKind identifies what a format segment was produced from.
type SegmentKind string

const (
	SegmentHTML    SegmentKind = "html"
	SegmentRuby    SegmentKind = "ruby"
	SegmentUnknown SegmentKind = "unknown"
)

// SegmentMode records which normalisation produced a segment.
type SegmentMode string

const (
	ModeHTMLNormalized SegmentMode = "html-normalized"
	ModeRubyNormalized SegmentMode = "ruby-normalized"
	ModePassthrough    SegmentMode = "passthrough"
	ModeUnknown        SegmentMode = "unknown"
)

// Segment is one contiguous piece of the formatted output, in emission
// order.
type Segment struct {
	Index       int         `json:"index"`
	Kind        SegmentKind `json:"kind"`
	Region      *Region     `json:"-"`
	RegionIndex int         `json:"region_index"`
	Formatted   string      `json:"formatted"`
	IndentLevel int         `json:"indentation_level"`
	Mode        SegmentMode `json:"mode"`
}
