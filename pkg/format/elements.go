package format

// HTML element classifications driving the structural emitter.

// voidElements have no closing tag and no body.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// inlineElements flow with surrounding text rather than opening a new
// line.
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "acronym": true, "b": true, "bdo": true,
	"big": true, "br": true, "button": true, "cite": true, "code": true,
	"dfn": true, "em": true, "i": true, "img": true, "input": true,
	"kbd": true, "label": true, "mark": true, "q": true, "samp": true,
	"small": true, "span": true, "strong": true, "sub": true, "sup": true,
	"textarea": true, "time": true, "var": true,
}

// sensitiveElements carry whitespace-significant content that must be
// copied verbatim.
var sensitiveElements = map[string]bool{
	"pre": true, "code": true, "textarea": true, "script": true, "style": true,
}

func isVoidElement(tag string) bool      { return voidElements[tag] }
func isInlineElement(tag string) bool    { return inlineElements[tag] }
func isSensitiveElement(tag string) bool { return sensitiveElements[tag] }
