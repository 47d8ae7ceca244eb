package format

import "strings"

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// collapseInlineWhitespace folds every whitespace run, newlines
// included, into a single space.
func collapseInlineWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if isSpace(s[i]) {
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// collapseTextBlock applies block-flow text rules: horizontal
// whitespace runs fold to one space, runs containing a newline fold to
// one newline, and the edges are trimmed. The empty string marks a
// whitespace-only node.
func collapseTextBlock(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if isSpace(s[i]) {
			hasNewline := false
			for i < len(s) && isSpace(s[i]) {
				if s[i] == '\n' {
					hasNewline = true
				}
				i++
			}
			if hasNewline {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return strings.Trim(b.String(), " \n")
}

// normalizeAttribute trims an attribute, tightens the first `=`
// assignment, and collapses whitespace outside the value's quotes.
// Quoted content is never touched.
func normalizeAttribute(raw string) string {
	raw = strings.TrimSpace(raw)
	eq := strings.IndexByte(raw, '=')
	if eq < 0 {
		return collapseOutsideQuotes(raw)
	}
	name := strings.TrimSpace(raw[:eq])
	value := strings.TrimSpace(raw[eq+1:])
	return name + "=" + collapseOutsideQuotes(value)
}

// collapseOutsideQuotes folds whitespace runs to single spaces while
// leaving single- and double-quoted stretches byte-identical.
func collapseOutsideQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSingle, inDouble := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteByte(c)
		case c == '"' && !inSingle:
			inDouble = !inDouble
			b.WriteByte(c)
		case !inSingle && !inDouble && isSpace(c):
			for i+1 < len(s) && isSpace(s[i+1]) {
				i++
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// leadingWhitespaceWidth counts leading spaces and tabs, tabs counting
// as one column each.
func leadingWhitespaceWidth(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}
