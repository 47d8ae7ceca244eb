package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/goerbfmt/pkg/ast"
	"github.com/yaklabco/goerbfmt/pkg/config"
)

// placeholderContext locates one placeholder within the HTML tree of
// the placeholder document.
type placeholderContext struct {
	Entry PlaceholderEntry

	// Node is the smallest named node enclosing the token.
	Node ast.Node

	// ElementDepth counts enclosing elements.
	ElementDepth int

	// InsideAttribute is set when the token sits inside a start tag's
	// attribute.
	InsideAttribute bool

	// InsideSensitive is set when any enclosing element is
	// whitespace-sensitive.
	InsideSensitive bool

	// ParentElement is the nearest enclosing element's tag name,
	// possibly empty at document level.
	ParentElement string
}

// analysis is the placeholder analyzer's output: the HTML tree, one
// context per locatable placeholder, and diagnostics.
type analysis struct {
	Tree        ast.Tree
	Contexts    []placeholderContext
	Diagnostics []Diagnostic

	// ParseFailed is set when the HTML grammar reported a tree error;
	// the composer degrades to passthrough in that case.
	ParseFailed bool
}

// analyzePlaceholders parses the placeholder document as HTML and
// resolves every placeholder's structural context. Tokens are matched
// left to right with a scanning cursor, so a missing or out-of-order
// token surfaces as a diagnostic rather than silent misattribution.
func analyzePlaceholders(ctx context.Context, grammars Grammars, doc *PlaceholderDocument) (*analysis, error) {
	tree, err := grammars.ParseHTML(ctx, []byte(doc.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse placeholder document: %w", err)
	}

	a := &analysis{Tree: tree}
	root := tree.Root()

	if root.HasError() {
		a.ParseFailed = true
		a.Diagnostics = append(a.Diagnostics, Diagnostic{
			RegionIndex: -1,
			Severity:    config.SeverityError,
			Message:     "HTML parse error in placeholder document; emitting source unchanged",
		})
		return a, nil
	}

	cursor := 0
	for _, entry := range doc.Placeholders {
		at := strings.Index(doc.HTML[cursor:], entry.Token)
		if at < 0 {
			a.Diagnostics = append(a.Diagnostics, Diagnostic{
				RegionIndex: entry.RegionIndex,
				Severity:    config.SeverityError,
				Message:     fmt.Sprintf("placeholder %d not found in placeholder document", entry.ID),
			})
			continue
		}
		start := uint32(cursor + at)
		end := start + uint32(len(entry.Token))
		cursor = int(end)

		node := root.NamedDescendantForByteRange(start, end)
		if node == nil {
			node = root
		}
		a.Contexts = append(a.Contexts, contextFor(entry, node, []byte(doc.HTML)))
	}

	return a, nil
}

func contextFor(entry PlaceholderEntry, node ast.Node, src []byte) placeholderContext {
	pc := placeholderContext{Entry: entry, Node: node}

	for n := node; n != nil; n = n.Parent() {
		switch n.Kind() {
		case "element":
			pc.ElementDepth++
			name := elementTagName(n, src)
			if pc.ParentElement == "" {
				pc.ParentElement = name
			}
			if isSensitiveElement(name) {
				pc.InsideSensitive = true
			}
		case "script_element", "style_element":
			pc.ElementDepth++
			if pc.ParentElement == "" {
				pc.ParentElement = elementTagName(n, src)
			}
			pc.InsideSensitive = true
		case "attribute", "attribute_value", "quoted_attribute_value":
			pc.InsideAttribute = true
		}
	}

	return pc
}

// elementTagName returns the lowercase tag name of an element-like
// node via its start tag, or "" when absent.
func elementTagName(element ast.Node, src []byte) string {
	for i := 0; i < element.NamedChildCount(); i++ {
		child := element.NamedChild(i)
		switch child.Kind() {
		case "start_tag", "self_closing_tag", "end_tag":
			if name := child.ChildByField("name"); name != nil {
				return strings.ToLower(name.Text(src))
			}
			for j := 0; j < child.NamedChildCount(); j++ {
				if gc := child.NamedChild(j); gc.Kind() == "tag_name" {
					return strings.ToLower(gc.Text(src))
				}
			}
		}
	}
	return ""
}
