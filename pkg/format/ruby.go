package format

import (
	"regexp"
	"strings"

	"github.com/yaklabco/goerbfmt/pkg/ast"
)

// indentDelta describes how a logic directive shifts indentation:
// Before adjusts the directive's own line, After adjusts everything
// that follows.
type indentDelta struct {
	Before int
	After  int
}

var zeroDelta = indentDelta{}

// Container node kinds traversed through when locating the first
// significant node of a Ruby parse.
var rubyContainers = map[string]bool{
	"program":        true,
	"body_statement": true,
}

// Block-opening statement kinds: the directive keeps its line and
// pushes subsequent content one level deeper.
var rubyBlockOpeners = map[string]bool{
	"if":               true,
	"unless":           true,
	"while":            true,
	"until":            true,
	"for":              true,
	"case":             true,
	"begin":            true,
	"class":            true,
	"module":           true,
	"method":           true,
	"singleton_method": true,
	"singleton_class":  true,
	"do_block":         true,
	"block":            true,
}

// Modifier forms carry no body and shift nothing.
var rubyModifiers = map[string]bool{
	"if_modifier":     true,
	"unless_modifier": true,
	"while_modifier":  true,
	"until_modifier":  true,
	"rescue_modifier": true,
}

// Branch continuations dedent their own line and re-indent what
// follows.
var rubyContinuations = map[string]bool{
	"else":   true,
	"elsif":  true,
	"when":   true,
	"rescue": true,
	"ensure": true,
	"in":     true,
}

var (
	continuationKeywords = map[string]bool{
		"else": true, "elsif": true, "when": true, "rescue": true, "ensure": true, "in": true,
	}
	openerKeywords = map[string]bool{
		"if": true, "unless": true, "while": true, "until": true, "for": true,
		"case": true, "class": true, "module": true, "begin": true, "def": true,
	}
	trailingDoPattern = regexp.MustCompile(`\bdo(\s*\|[^|]*\|)?\s*$`)
)

// rubyIndentDeltas classifies a region's indent effect. Only logic
// directives shift indentation; output and comment directives never
// do. The parse subtree drives classification when it parsed cleanly;
// otherwise the leading-keyword fallback decides. Both paths agree on
// the canonical opener and closer keywords.
func rubyIndentDeltas(region *Region) indentDelta {
	if region.Flavor != FlavorLogic || region.Code == "" {
		return zeroDelta
	}

	if region.Subtree != nil && !region.Subtree.HasError() {
		if d, ok := classifyFromTree(region.Subtree); ok {
			return d
		}
	}
	return classifyFromKeywords(region.Code)
}

// classifyFromTree inspects the first significant node of the Ruby
// parse, descending through container kinds.
func classifyFromTree(root ast.Node) (indentDelta, bool) {
	node := root
	for node != nil && rubyContainers[node.Kind()] {
		next := firstNonComment(node)
		if next == nil {
			return zeroDelta, false
		}
		node = next
	}
	if node == nil {
		return zeroDelta, false
	}

	kind := node.Kind()
	switch {
	case rubyModifiers[kind]:
		return zeroDelta, true
	case rubyContinuations[kind]:
		return indentDelta{Before: -1, After: 1}, true
	case rubyBlockOpeners[kind]:
		return indentDelta{After: 1}, true
	case kind == "call":
		if block := node.ChildByField("block"); block != nil && block.Kind() == "do_block" {
			return indentDelta{After: 1}, true
		}
		return zeroDelta, true
	}
	return zeroDelta, true
}

func firstNonComment(n ast.Node) ast.Node {
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() != "comment" {
			return c
		}
	}
	return nil
}

// classifyFromKeywords is the fallback for code the Ruby grammar could
// not parse cleanly, typically directive fragments like `end` or
// `else` whose counterparts live in other directives.
func classifyFromKeywords(code string) indentDelta {
	fields := strings.Fields(code)
	if len(fields) == 0 {
		return zeroDelta
	}
	first := fields[0]

	switch {
	case first == "end":
		return indentDelta{Before: -1}
	case continuationKeywords[first]:
		return indentDelta{Before: -1, After: 1}
	case openerKeywords[first]:
		return indentDelta{After: 1}
	case trailingDoPattern.MatchString(code):
		return indentDelta{After: 1}
	}
	return zeroDelta
}
