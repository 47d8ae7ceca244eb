package format

import (
	"strconv"
	"strings"

	"github.com/yaklabco/goerbfmt/pkg/ast"
	"github.com/yaklabco/goerbfmt/pkg/config"
)

// printInfo records where the emitter printed one placeholder token.
type printInfo struct {
	Entry PlaceholderEntry

	// IndentLevel is the indentation level the token was printed at.
	IndentLevel int

	// Inline is set when the token shares its line with other content.
	Inline bool

	// InAttribute is set for tokens inside a start tag's attributes.
	InAttribute bool

	// Sensitive is set for tokens inside whitespace-sensitive content.
	Sensitive bool
}

// emitted is the structural emitter's output: re-indented HTML still
// carrying placeholder tokens, plus one print record per token in
// print order.
type emitted struct {
	HTML  string
	Infos []printInfo
	ByID  map[int]printInfo
}

type emitter struct {
	cfg   *config.Config
	doc   []byte
	out   strings.Builder
	infos []printInfo
}

// emitDocument prints the placeholder document's HTML tree as
// formatted text. The output always ends with a newline when any node
// was printed.
func emitDocument(cfg *config.Config, doc *PlaceholderDocument, tree ast.Tree) *emitted {
	e := &emitter{cfg: cfg, doc: []byte(doc.HTML)}

	for _, child := range ast.NamedChildren(tree.Root()) {
		e.emitNode(child, 0)
	}

	// Speculative inline rendering can record a token twice when it
	// falls back to block layout; the final (block) record wins.
	byID := make(map[int]printInfo, len(e.infos))
	for _, info := range e.infos {
		byID[info.Entry.ID] = info
	}
	infos := make([]printInfo, 0, len(byID))
	seen := make(map[int]bool, len(byID))
	for i := len(e.infos) - 1; i >= 0; i-- {
		id := e.infos[i].Entry.ID
		if seen[id] {
			continue
		}
		seen[id] = true
		infos = append(infos, byID[id])
	}
	for i, j := 0, len(infos)-1; i < j; i, j = i+1, j-1 {
		infos[i], infos[j] = infos[j], infos[i]
	}

	return &emitted{HTML: e.out.String(), Infos: infos, ByID: byID}
}

func (e *emitter) emitNode(n ast.Node, depth int) {
	switch n.Kind() {
	case "text":
		e.emitText(n, depth)
	case "element":
		e.emitElement(n, depth)
	case "script_element", "style_element":
		e.emitSensitiveElement(n, depth)
	case "doctype", "comment", "erroneous_end_tag":
		text := strings.TrimSpace(n.Text(e.doc))
		e.recordInline(text, depth)
		e.line(depth, text)
	default:
		text := strings.TrimSpace(n.Text(e.doc))
		if text == "" {
			return
		}
		e.recordInline(text, depth)
		e.line(depth, text)
	}
}

// emitText prints a text node in block flow, applying the configured
// collapse mode and dropping whitespace-only nodes.
func (e *emitter) emitText(n ast.Node, depth int) {
	raw := n.Text(e.doc)

	var collapsed string
	switch e.cfg.HTML.CollapseWhitespace {
	case config.CollapsePreserve:
		collapsed = strings.Trim(raw, " \t\n\r")
	case config.CollapseAggressive:
		collapsed = strings.TrimSpace(collapseInlineWhitespace(raw))
	default:
		collapsed = collapseTextBlock(raw)
	}
	if collapsed == "" {
		return
	}

	for _, textLine := range strings.Split(collapsed, "\n") {
		e.recordTextLine(textLine, depth)
		e.line(depth, textLine)
	}
}

func (e *emitter) emitElement(n ast.Node, depth int) {
	startTag := namedChildOfKind(n, "start_tag", "self_closing_tag")
	endTag := namedChildOfKind(n, "end_tag")
	if startTag == nil {
		for _, c := range contentChildren(n) {
			e.emitNode(c, depth)
		}
		return
	}

	tag := elementTagName(n, e.doc)
	selfClosing := startTag.Kind() == "self_closing_tag"
	open := e.renderStartTag(startTag, depth, selfClosing)

	if isVoidElement(tag) || selfClosing {
		e.writeOpenTag(open, depth)
		return
	}

	if isSensitiveElement(tag) {
		e.emitSensitiveRange(n, startTag, endTag, depth)
		return
	}

	closeTag := "</" + rawTagName(startTag, e.doc) + ">"
	children := e.dropBlankText(contentChildren(n))

	if len(children) == 0 || isInlineElement(tag) || allText(children) {
		if inner, ok := e.renderInlineChildren(children, depth+1); ok {
			if open.multiline {
				e.out.WriteString(open.block)
				e.line(depth, inner+closeTag)
			} else {
				e.line(depth, open.inline+inner+closeTag)
			}
			return
		}
	}

	e.writeOpenTag(open, depth)
	for _, c := range children {
		e.emitNode(c, depth+1)
	}
	e.line(depth, closeTag)
}

// emitSensitiveElement handles script_element and style_element nodes,
// whose grammar kinds differ from plain elements but share the same
// start/content/end shape.
func (e *emitter) emitSensitiveElement(n ast.Node, depth int) {
	startTag := namedChildOfKind(n, "start_tag")
	if startTag == nil {
		text := n.Text(e.doc)
		e.record(text, depth, true, false, true)
		e.line(depth, strings.TrimRight(text, "\n"))
		return
	}
	e.emitSensitiveRange(n, startTag, namedChildOfKind(n, "end_tag"), depth)
}

// emitSensitiveRange copies the element's inner byte range verbatim.
// No indent is inserted before the end tag: anything between the tags
// belongs to the sensitive content and must survive byte-for-byte.
func (e *emitter) emitSensitiveRange(n, startTag, endTag ast.Node, depth int) {
	open := e.renderStartTagInline(startTag, false)

	innerStart := startTag.EndByte()
	innerEnd := n.EndByte()
	closeText := ""
	if endTag != nil {
		innerEnd = endTag.StartByte()
		closeText = endTag.Text(e.doc)
	}
	inner := string(e.doc[innerStart:innerEnd])
	e.record(inner, depth+1, true, false, true)

	e.out.WriteString(e.cfg.Indent(depth))
	e.out.WriteString(open)
	e.out.WriteString(inner)
	e.out.WriteString(closeText)
	e.out.WriteByte('\n')
}

// renderInlineChildren renders children as a single line of inline
// content. It fails when any child cannot flow inline (block element,
// sensitive element, comment).
func (e *emitter) renderInlineChildren(children []ast.Node, depth int) (string, bool) {
	var b strings.Builder
	for _, c := range children {
		switch c.Kind() {
		case "text":
			chunk := collapseInlineWhitespace(c.Text(e.doc))
			e.recordInline(chunk, depth)
			b.WriteString(chunk)
		case "element":
			tag := elementTagName(c, e.doc)
			if !isInlineElement(tag) || isSensitiveElement(tag) {
				return "", false
			}
			startTag := namedChildOfKind(c, "start_tag", "self_closing_tag")
			if startTag == nil {
				return "", false
			}
			open := e.renderStartTagInline(startTag, startTag.Kind() == "self_closing_tag")
			b.WriteString(open)
			if isVoidElement(tag) || startTag.Kind() == "self_closing_tag" {
				continue
			}
			inner, ok := e.renderInlineChildren(e.dropBlankText(contentChildren(c)), depth)
			if !ok {
				return "", false
			}
			b.WriteString(inner)
			b.WriteString("</" + rawTagName(startTag, e.doc) + ">")
		default:
			return "", false
		}
	}
	return strings.TrimSpace(b.String()), true
}

// openTag is a rendered start tag in both layouts.
type openTag struct {
	inline    string
	block     string
	multiline bool
}

func (e *emitter) writeOpenTag(open openTag, depth int) {
	if open.multiline {
		e.out.WriteString(open.block)
		return
	}
	e.line(depth, open.inline)
}

// renderStartTag renders a start tag and decides between inline and
// multi-line attribute layout per the configured wrapping policy.
func (e *emitter) renderStartTag(startTag ast.Node, depth int, selfClosing bool) openTag {
	name := rawTagName(startTag, e.doc)
	attrNodes := attributeChildren(startTag)

	attrs := make([]string, 0, len(attrNodes))
	for _, a := range attrNodes {
		normalized := normalizeAttribute(a.Text(e.doc))
		e.record(normalized, 0, true, true, false)
		attrs = append(attrs, normalized)
	}

	closer := ">"
	if selfClosing {
		closer = " />"
	}

	inline := "<" + name
	if len(attrs) > 0 {
		inline += " " + strings.Join(attrs, " ")
	}
	inline += closer

	multiline := false
	if len(attrs) > 0 {
		switch e.cfg.HTML.AttributeWrapping {
		case config.WrapForceMultiLine:
			multiline = true
		case config.WrapAuto:
			multiline = e.attrSliceHasNewline(attrNodes) || e.exceedsWidth(inline, depth)
		default: // preserve
			multiline = e.attrSliceHasNewline(attrNodes)
		}
	}

	var block string
	if multiline {
		var b strings.Builder
		b.WriteString(e.cfg.Indent(depth) + "<" + name + "\n")
		for _, a := range attrs {
			b.WriteString(e.cfg.Indent(depth+1) + a + "\n")
		}
		b.WriteString(e.cfg.Indent(depth) + strings.TrimSpace(closer) + "\n")
		block = b.String()
	}

	return openTag{inline: inline, block: block, multiline: multiline}
}

// renderStartTagInline renders a start tag in inline layout only, for
// inline flow and sensitive elements.
func (e *emitter) renderStartTagInline(startTag ast.Node, selfClosing bool) string {
	name := rawTagName(startTag, e.doc)
	attrNodes := attributeChildren(startTag)

	var b strings.Builder
	b.WriteString("<" + name)
	for _, a := range attrNodes {
		normalized := normalizeAttribute(a.Text(e.doc))
		e.record(normalized, 0, true, true, false)
		b.WriteString(" " + normalized)
	}
	if selfClosing {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
	}
	return b.String()
}

// attrSliceHasNewline inspects the raw placeholder-document slice
// between the first and last attribute, before any collapsing.
func (e *emitter) attrSliceHasNewline(attrs []ast.Node) bool {
	if len(attrs) == 0 {
		return false
	}
	start := attrs[0].StartByte()
	end := attrs[len(attrs)-1].EndByte()
	return strings.ContainsRune(string(e.doc[start:end]), '\n')
}

func (e *emitter) exceedsWidth(inline string, depth int) bool {
	width := e.cfg.HTML.LineWidth
	if width <= 0 {
		return false
	}
	return depth*len(e.cfg.IndentUnit())+len(inline) > width
}

func (e *emitter) line(depth int, content string) {
	e.out.WriteString(e.cfg.Indent(depth))
	e.out.WriteString(content)
	e.out.WriteByte('\n')
}

// record registers print info for every token occurring in text.
func (e *emitter) record(text string, level int, inline, inAttr, sensitive bool) {
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		e.infos = append(e.infos, printInfo{
			Entry:       PlaceholderEntry{ID: id, Token: m[0]},
			IndentLevel: level,
			Inline:      inline,
			InAttribute: inAttr,
			Sensitive:   sensitive,
		})
	}
}

func (e *emitter) recordInline(text string, level int) {
	e.record(text, level, true, false, false)
}

// recordTextLine registers tokens on one block-flow text line. A token
// standing alone on its line is a block token; anything sharing the
// line is inline.
func (e *emitter) recordTextLine(textLine string, depth int) {
	trimmed := strings.TrimSpace(textLine)
	if loc := tokenPattern.FindString(trimmed); loc == trimmed && trimmed != "" {
		e.record(trimmed, depth, false, false, false)
		return
	}
	e.record(textLine, depth, true, false, false)
}

// Tree helpers.

func namedChildOfKind(n ast.Node, kinds ...string) ast.Node {
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		for _, k := range kinds {
			if c.Kind() == k {
				return c
			}
		}
	}
	return nil
}

// contentChildren returns an element's named children excluding its
// own tags.
func contentChildren(n ast.Node) []ast.Node {
	var out []ast.Node
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "start_tag", "end_tag", "self_closing_tag":
			continue
		}
		out = append(out, c)
	}
	return out
}

func attributeChildren(startTag ast.Node) []ast.Node {
	var out []ast.Node
	for i := 0; i < startTag.NamedChildCount(); i++ {
		c := startTag.NamedChild(i)
		if c.Kind() == "attribute" {
			out = append(out, c)
		}
	}
	return out
}

func rawTagName(startTag ast.Node, src []byte) string {
	for i := 0; i < startTag.NamedChildCount(); i++ {
		if c := startTag.NamedChild(i); c.Kind() == "tag_name" {
			return c.Text(src)
		}
	}
	return ""
}

// dropBlankText filters out whitespace-only text nodes.
func (e *emitter) dropBlankText(children []ast.Node) []ast.Node {
	var out []ast.Node
	for _, c := range children {
		if c.Kind() == "text" && strings.TrimSpace(c.Text(e.doc)) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func allText(children []ast.Node) bool {
	for _, c := range children {
		if c.Kind() != "text" {
			return false
		}
	}
	return true
}
