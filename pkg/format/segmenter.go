package format

import (
	"context"
	"strings"

	"github.com/yaklabco/goerbfmt/pkg/ast"
	"github.com/yaklabco/goerbfmt/pkg/parser/erb"
)

// segmentRegions walks the template tree's top-level named children in
// source order and maps each to a region. The returned regions tile
// src exactly; gaps between children (anonymous tokens, skipped
// nodes) are preserved as HTML regions.
//
// Ruby code inside logic and output directives is parsed with the Ruby
// grammar when parseRuby is set; comment directives are never parsed.
// The returned trees must stay alive as long as the regions' Subtree
// fields are in use; the caller closes them.
func segmentRegions(
	ctx context.Context,
	grammars Grammars,
	src []byte,
	tmpl ast.Tree,
	parseRuby bool,
) ([]Region, []ast.Tree, error) {
	root := tmpl.Root()
	var regions []Region
	var trees []ast.Tree

	cursor := uint32(0)
	for _, child := range ast.NamedChildren(root) {
		if child.StartByte() > cursor {
			regions = append(regions, gapRegion(src, cursor, child.StartByte()))
		}

		switch child.Kind() {
		case erb.KindContent:
			regions = append(regions, Region{
				Kind:  RegionHTML,
				Range: rangeOf(child),
				Text:  child.Text(src),
			})
		case erb.KindDirective, erb.KindOutputDirective, erb.KindCommentDirective:
			region, tree, err := rubyRegion(ctx, grammars, src, child, parseRuby)
			if err != nil {
				return nil, trees, err
			}
			if tree != nil {
				trees = append(trees, tree)
			}
			regions = append(regions, region)
		default:
			regions = append(regions, Region{
				Kind:     RegionUnknown,
				Range:    rangeOf(child),
				Text:     child.Text(src),
				NodeKind: child.Kind(),
			})
		}
		cursor = child.EndByte()
	}

	if cursor < uint32(len(src)) {
		regions = append(regions, gapRegion(src, cursor, uint32(len(src))))
	}

	return regions, trees, nil
}

func gapRegion(src []byte, start, end uint32) Region {
	return Region{
		Kind: RegionHTML,
		Range: Range{
			Start: Position{Offset: int(start)},
			End:   Position{Offset: int(end)},
		},
		Text: string(src[start:end]),
	}
}

func rubyRegion(
	ctx context.Context,
	grammars Grammars,
	src []byte,
	node ast.Node,
	parseRuby bool,
) (Region, ast.Tree, error) {
	text := node.Text(src)

	region := Region{
		Kind:       RegionRuby,
		Range:      rangeOf(node),
		Text:       text,
		Flavor:     flavorOf(node.Kind()),
		OpenDelim:  openDelimOf(text),
		CloseDelim: closeDelimOf(text),
	}

	codeNode := node.ChildByField("code")
	if codeNode == nil {
		return region, nil, nil
	}

	codeRange := rangeOf(codeNode)
	region.CodeRange = &codeRange
	region.Code = strings.TrimSpace(codeNode.Text(src))
	if region.Code == "" {
		return region, nil, nil
	}

	if !parseRuby || region.Flavor == FlavorComment {
		return region, nil, nil
	}

	// A trailing newline satisfies grammars that require statement
	// terminators.
	tree, err := grammars.ParseRuby(ctx, []byte(region.Code+"\n"))
	if err != nil {
		return region, nil, err
	}
	region.Subtree = tree.Root()
	return region, tree, nil
}

func flavorOf(kind string) DirectiveFlavor {
	switch kind {
	case erb.KindDirective:
		return FlavorLogic
	case erb.KindOutputDirective:
		return FlavorOutput
	case erb.KindCommentDirective:
		return FlavorComment
	default:
		return FlavorNone
	}
}

func openDelimOf(text string) string {
	for _, d := range []string{"<%=", "<%#", "<%-", "<%"} {
		if strings.HasPrefix(text, d) {
			return d
		}
	}
	return ""
}

func closeDelimOf(text string) string {
	if strings.HasSuffix(text, "-%>") {
		return "-%>"
	}
	if strings.HasSuffix(text, "%>") {
		return "%>"
	}
	return ""
}
