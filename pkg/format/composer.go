package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/goerbfmt/pkg/config"
)

// composer splices original Ruby text back into the emitter's HTML at
// placeholder sites. It maintains a single rubyIndent counter that
// block-opening directives advance, propagating logical Ruby nesting
// into the surrounding markup.
type composer struct {
	cfg      *config.Config
	regions  []Region
	infos    map[int]printInfo
	contexts map[int]placeholderContext

	out         strings.Builder
	segments    []Segment
	diags       []Diagnostic
	rubyIndent  int
	atLineStart bool
}

// compose produces the final text (before newline/final-newline
// policy) together with segment records and diagnostics.
func compose(
	cfg *config.Config,
	regions []Region,
	doc *PlaceholderDocument,
	em *emitted,
	contexts map[int]placeholderContext,
) (string, []Segment, []Diagnostic) {
	c := &composer{
		cfg:         cfg,
		regions:     regions,
		infos:       em.ByID,
		contexts:    contexts,
		atLineStart: true,
	}

	html := em.HTML
	matched := make(map[int]bool, len(doc.Placeholders))
	pos := 0

	for _, m := range tokenPattern.FindAllStringSubmatchIndex(html, -1) {
		start, end := m[0], m[1]
		id, err := strconv.Atoi(html[m[2]:m[3]])
		if err != nil || id < 0 || id >= len(doc.Placeholders) || matched[id] {
			// Text that merely resembles a token flows as HTML.
			continue
		}
		matched[id] = true

		entry := doc.Placeholders[id]
		region := &regions[entry.RegionIndex]
		info := c.infoFor(id)
		inlineToken := info.Inline || info.InAttribute

		c.writeHTMLFragment(html[pos:start], !inlineToken)
		c.writeRuby(region, entry, info, inlineToken)
		pos = end
	}

	c.writeHTMLFragment(html[pos:], false)

	for _, entry := range doc.Placeholders {
		if !matched[entry.ID] {
			c.diags = append(c.diags, Diagnostic{
				RegionIndex: entry.RegionIndex,
				Severity:    config.SeverityError,
				Message:     fmt.Sprintf("placeholder %d missing from emitted output", entry.ID),
			})
		}
	}

	return c.out.String(), c.segments, c.diags
}

// infoFor resolves a token's print record, falling back to the
// analyzer's structural context when the emitter never recorded it.
func (c *composer) infoFor(id int) printInfo {
	if info, ok := c.infos[id]; ok {
		return info
	}
	if pc, ok := c.contexts[id]; ok {
		return printInfo{
			Entry:       pc.Entry,
			IndentLevel: pc.ElementDepth,
			Inline:      true,
			InAttribute: pc.InsideAttribute,
			Sensitive:   pc.InsideSensitive,
		}
	}
	return printInfo{Inline: true}
}

// writeHTMLFragment copies emitter HTML between tokens. Lines are
// pushed right by the current rubyIndent; indentation immediately
// preceding a block token is dropped so the token's line is indented
// exactly once, by writeRuby.
func (c *composer) writeHTMLFragment(frag string, endsAtBlockToken bool) {
	if endsAtBlockToken {
		trimmed := strings.TrimRight(frag, " \t")
		if trimmed == "" && c.atLineStart {
			frag = trimmed
		} else if len(trimmed) > 0 && trimmed[len(trimmed)-1] == '\n' {
			frag = trimmed
		}
	}
	if frag == "" {
		return
	}

	if c.rubyIndent > 0 {
		extra := c.cfg.Indent(c.rubyIndent)
		parts := strings.Split(frag, "\n")
		for i := range parts {
			freshLine := i > 0 || c.atLineStart
			if freshLine && strings.TrimSpace(parts[i]) != "" {
				parts[i] = extra + parts[i]
			}
		}
		frag = strings.Join(parts, "\n")
	}

	c.append(frag)
	c.segments = append(c.segments, Segment{
		Index:       len(c.segments),
		Kind:        SegmentHTML,
		RegionIndex: -1,
		Formatted:   frag,
		IndentLevel: c.rubyIndent,
		Mode:        ModeHTMLNormalized,
	})
}

func (c *composer) writeRuby(region *Region, entry PlaceholderEntry, info printInfo, inlineToken bool) {
	mode := ModeRubyNormalized
	if c.cfg.Ruby.Format == config.RubyFormatNone {
		mode = ModePassthrough
	}

	if inlineToken {
		formatted := strings.TrimSpace(region.Text)
		c.append(formatted)
		c.segments = append(c.segments, Segment{
			Index:       len(c.segments),
			Kind:        SegmentRuby,
			Region:      region,
			RegionIndex: entry.RegionIndex,
			Formatted:   formatted,
			IndentLevel: info.IndentLevel,
			Mode:        mode,
		})
		return
	}

	delta := zeroDelta
	if c.cfg.Ruby.Format != config.RubyFormatNone {
		delta = rubyIndentDeltas(region)
	}

	effective := c.rubyIndent + delta.Before
	if effective < 0 {
		effective = 0
	}
	total := info.IndentLevel + effective

	formatted := c.reindentRuby(region.Text, total)
	c.append(formatted)
	c.segments = append(c.segments, Segment{
		Index:       len(c.segments),
		Kind:        SegmentRuby,
		Region:      region,
		RegionIndex: entry.RegionIndex,
		Formatted:   formatted,
		IndentLevel: total,
		Mode:        mode,
	})

	c.rubyIndent = effective + delta.After
	if c.rubyIndent < 0 {
		c.rubyIndent = 0
	}
}

// reindentRuby places a directive at the given indentation level.
// Interior lines of a multi-line directive keep their shape relative
// to the least-indented interior line; directives whose interior
// carries no indentation of its own fall back to the continuation
// offset.
func (c *composer) reindentRuby(text string, level int) string {
	base := c.cfg.Indent(level)
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return base + strings.TrimSpace(text)
	}

	minLead, maxLead := -1, 0
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lead := leadingWhitespaceWidth(l)
		if minLead < 0 || lead < minLead {
			minLead = lead
		}
		if lead > maxLead {
			maxLead = lead
		}
	}
	if minLead < 0 {
		minLead = 0
	}

	out := make([]string, len(lines))
	out[0] = base + strings.TrimSpace(lines[0])
	for i, l := range lines[1:] {
		trimmed := strings.TrimLeft(l, " \t")
		if strings.TrimSpace(trimmed) == "" {
			out[i+1] = ""
			continue
		}
		rel := leadingWhitespaceWidth(l) - minLead
		if maxLead == 0 {
			rel = c.cfg.ContinuationOffset()
		}
		out[i+1] = base + strings.Repeat(" ", rel) + trimmed
	}
	return strings.Join(out, "\n")
}

func (c *composer) append(s string) {
	if s == "" {
		return
	}
	c.out.WriteString(s)
	c.atLineStart = s[len(s)-1] == '\n'
}
