// Package treesitter binds the HTML and Ruby grammars through
// go-tree-sitter and exposes them, together with the embedded-template
// scanner, behind the ast.Node contract.
package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/yaklabco/goerbfmt/pkg/ast"
	"github.com/yaklabco/goerbfmt/pkg/parser/erb"
)

// Grammars provides the three parsers the format pipeline consumes.
// The zero value is ready to use. Parsers are created per call, so a
// single Grammars value is safe for concurrent use.
type Grammars struct{}

// NewGrammars returns a ready Grammars facade.
func NewGrammars() *Grammars {
	return &Grammars{}
}

// ParseTemplate splits an ERB document into content and directive nodes.
// The scan never fails; malformed input flags the root with an error.
func (g *Grammars) ParseTemplate(src []byte) ast.Tree {
	return erb.Parse(src)
}

// ParseHTML parses src with the tree-sitter HTML grammar.
func (g *Grammars) ParseHTML(ctx context.Context, src []byte) (ast.Tree, error) {
	return parseWith(ctx, html.GetLanguage(), src)
}

// ParseRuby parses src with the tree-sitter Ruby grammar.
func (g *Grammars) ParseRuby(ctx context.Context, src []byte) (ast.Tree, error) {
	return parseWith(ctx, ruby.GetLanguage(), src)
}

func parseWith(ctx context.Context, lang *sitter.Language, src []byte) (ast.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	t, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	return &tree{t: t}, nil
}

type tree struct {
	t *sitter.Tree
}

func (t *tree) Root() ast.Node {
	return wrap(t.t.RootNode())
}

func (t *tree) Close() {
	t.t.Close()
}

// node adapts *sitter.Node to ast.Node.
type node struct {
	n *sitter.Node
}

var _ ast.Node = node{}

func wrap(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	return node{n: n}
}

func (a node) Kind() string      { return a.n.Type() }
func (a node) StartByte() uint32 { return a.n.StartByte() }
func (a node) EndByte() uint32   { return a.n.EndByte() }

func (a node) StartPoint() ast.Point {
	p := a.n.StartPoint()
	return ast.Point{Row: p.Row, Column: p.Column}
}

func (a node) EndPoint() ast.Point {
	p := a.n.EndPoint()
	return ast.Point{Row: p.Row, Column: p.Column}
}

func (a node) NamedChildCount() int { return int(a.n.NamedChildCount()) }
func (a node) ChildCount() int      { return int(a.n.ChildCount()) }

func (a node) NamedChild(i int) ast.Node {
	if i < 0 || i >= int(a.n.NamedChildCount()) {
		return nil
	}
	return wrap(a.n.NamedChild(i))
}

func (a node) Child(i int) ast.Node {
	if i < 0 || i >= int(a.n.ChildCount()) {
		return nil
	}
	return wrap(a.n.Child(i))
}

func (a node) ChildByField(name string) ast.Node {
	return wrap(a.n.ChildByFieldName(name))
}

func (a node) Parent() ast.Node {
	return wrap(a.n.Parent())
}

func (a node) NamedDescendantForByteRange(start, end uint32) ast.Node {
	if start < a.n.StartByte() || end > a.n.EndByte() {
		return nil
	}
	cur := a.n
	for descended := true; descended; {
		descended = false
		for i := 0; i < int(cur.NamedChildCount()); i++ {
			if c := cur.NamedChild(i); c.StartByte() <= start && end <= c.EndByte() {
				cur, descended = c, true
				break
			}
		}
	}
	return wrap(cur)
}

func (a node) HasError() bool { return a.n.HasError() }

func (a node) Text(src []byte) string { return a.n.Content(src) }
