// Package format implements the ERB formatting pipeline: region
// segmentation, placeholder substitution, structural HTML emission,
// and composition of the original Ruby back into the printed markup.
package format

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/goerbfmt/pkg/ast"
	"github.com/yaklabco/goerbfmt/pkg/config"
	"github.com/yaklabco/goerbfmt/pkg/parser/treesitter"
)

// Grammars supplies the three parsers the pipeline consumes. The
// default binding is treesitter.Grammars; tests may substitute their
// own.
type Grammars interface {
	ParseTemplate(src []byte) ast.Tree
	ParseHTML(ctx context.Context, src []byte) (ast.Tree, error)
	ParseRuby(ctx context.Context, src []byte) (ast.Tree, error)
}

// Formatter formats ERB templates. A Formatter is immutable and safe
// for concurrent use: every Format call allocates its own parsers and
// scratch state.
type Formatter struct {
	cfg      *config.Config
	grammars Grammars
	debug    bool
}

// Option customises a Formatter.
type Option func(*Formatter)

// WithGrammars overrides the grammar facade.
func WithGrammars(g Grammars) Option {
	return func(f *Formatter) { f.grammars = g }
}

// WithDebug attaches the placeholder document to results.
func WithDebug(debug bool) Option {
	return func(f *Formatter) { f.debug = debug }
}

// New creates a Formatter. A nil config means defaults; the given
// config is cloned, so later caller mutations have no effect.
func New(cfg *config.Config, opts ...Option) *Formatter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	f := &Formatter{
		cfg:      cfg.Clone(),
		grammars: treesitter.NewGrammars(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Config returns the formatter's resolved configuration.
func (f *Formatter) Config() *config.Config {
	return f.cfg.Clone()
}

// Format formats one template. The returned error is non-nil only for
// context cancellation; every input-driven failure is reported as a
// diagnostic on the result, and Output is always safe to display.
func (f *Formatter) Format(ctx context.Context, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("format cancelled: %w", err)
	}

	cfg := f.cfg
	terminator := resolveTerminator(cfg, src)
	normalized := normalizeNewlines(src)

	var diags []Diagnostic

	tmpl := f.grammars.ParseTemplate(normalized)
	defer tmpl.Close()
	if tmpl.Root().HasError() {
		diags = append(diags, Diagnostic{
			RegionIndex: -1,
			Severity:    config.SeverityError,
			Message:     "template parse error: unterminated directive",
		})
	}

	parseRuby := cfg.Ruby.Format != config.RubyFormatNone
	regions, trees, err := segmentRegions(ctx, f.grammars, normalized, tmpl, parseRuby)
	defer func() {
		for _, t := range trees {
			t.Close()
		}
	}()
	if err != nil {
		return nil, err
	}

	doc := buildPlaceholders(regions)

	// A template whose literal text collides with a sentinel token
	// would make substitution ambiguous; degrade to passthrough.
	for _, entry := range doc.Placeholders {
		if strings.Count(doc.HTML, entry.Token) != 1 {
			diags = append(diags, Diagnostic{
				RegionIndex: entry.RegionIndex,
				Severity:    config.SeverityError,
				Message:     fmt.Sprintf("placeholder token %s is not unique in the document", entry.Token),
			})
			result := f.passthrough(normalized, terminator, diags)
			if f.debug {
				result.Debug = &DebugInfo{PlaceholderHTML: doc.HTML, PlaceholderCount: len(doc.Placeholders)}
			}
			return result, nil
		}
	}

	an, err := analyzePlaceholders(ctx, f.grammars, doc)
	if err != nil {
		return nil, err
	}
	defer an.Tree.Close()
	diags = append(diags, an.Diagnostics...)

	var result *Result
	if an.ParseFailed {
		result = f.passthrough(normalized, terminator, diags)
	} else {
		em := emitDocument(cfg, doc, an.Tree)

		contexts := make(map[int]placeholderContext, len(an.Contexts))
		for _, pc := range an.Contexts {
			contexts[pc.Entry.ID] = pc
		}

		output, segments, composeDiags := compose(cfg, regions, doc, em, contexts)
		diags = append(diags, composeDiags...)

		output = finalizeOutput(cfg, output)
		output = encodeNewlines(output, terminator)

		result = &Result{
			Output:      output,
			Segments:    segments,
			Diagnostics: diags,
			Config:      cfg.Clone(),
		}
	}

	if f.debug {
		result.Debug = &DebugInfo{
			PlaceholderHTML:  doc.HTML,
			PlaceholderCount: len(doc.Placeholders),
		}
	}
	return result, nil
}

// passthrough returns the source unchanged, modulo final-newline
// policy, when structural analysis is unsafe.
func (f *Formatter) passthrough(src []byte, terminator string, diags []Diagnostic) *Result {
	output := encodeNewlines(finalizeOutput(f.cfg, string(src)), terminator)
	return &Result{
		Output: output,
		Segments: []Segment{{
			Index:       0,
			Kind:        SegmentHTML,
			RegionIndex: -1,
			Formatted:   output,
			Mode:        ModePassthrough,
		}},
		Diagnostics: diags,
		Config:      f.cfg.Clone(),
	}
}

// resolveTerminator picks the output line terminator: the configured
// one, or in preserve mode whatever the source uses first.
func resolveTerminator(cfg *config.Config, src []byte) string {
	switch cfg.Newline {
	case config.NewlineCRLF:
		return "\r\n"
	case config.NewlinePreserve:
		if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
			return "\r\n"
		}
		return "\n"
	default:
		return "\n"
	}
}

// normalizeNewlines folds CRLF to LF; the pipeline works in LF and
// re-encodes on the way out.
func normalizeNewlines(src []byte) []byte {
	return bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
}

func encodeNewlines(s, terminator string) string {
	if terminator == "\n" {
		return s
	}
	return strings.ReplaceAll(s, "\n", terminator)
}

// finalizeOutput applies the trailing-whitespace and final-newline
// policy to composed output.
func finalizeOutput(cfg *config.Config, out string) string {
	if !cfg.Whitespace.EnsureFinalNewline {
		return out
	}
	out = strings.TrimRight(out, "\n")
	if cfg.Whitespace.TrimTrailing {
		out = strings.TrimRight(out, " \t")
	}
	return out + "\n"
}
