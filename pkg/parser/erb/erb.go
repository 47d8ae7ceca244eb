// Package erb provides the embedded-template grammar: it splits an ERB
// document into content and directive nodes behind the ast.Node contract.
//
// Node kinds mirror the usual embedded-template grammar:
//
//	template            root
//	content             raw HTML between directives
//	directive           <% ... %>
//	output_directive    <%= ... %>
//	comment_directive   <%# ... %>
//	code                inner code of a directive (field "code")
package erb

import (
	"bytes"
	"sort"

	"github.com/yaklabco/goerbfmt/pkg/ast"
)

// Grammar node kinds produced by Parse.
const (
	KindTemplate         = "template"
	KindContent          = "content"
	KindDirective        = "directive"
	KindOutputDirective  = "output_directive"
	KindCommentDirective = "comment_directive"
	KindCode             = "code"
)

var (
	openDelim  = []byte("<%")
	closeDelim = []byte("%>")
)

// Parse scans src into a template tree. The scan never fails: an
// unterminated directive extends to the end of input and flags the root
// with an error.
func Parse(src []byte) ast.Tree {
	s := &scanner{src: src, lines: lineOffsets(src)}
	root := s.scan()
	return &tree{root: root}
}

type scanner struct {
	src   []byte
	lines []uint32
}

func (s *scanner) scan() *node {
	root := &node{kind: KindTemplate, start: 0, end: uint32(len(s.src)), sc: s}

	pos := 0
	for pos < len(s.src) {
		open := bytes.Index(s.src[pos:], openDelim)
		if open < 0 {
			root.addChild(s.contentNode(pos, len(s.src)))
			break
		}
		open += pos
		if open > pos {
			root.addChild(s.contentNode(pos, open))
		}

		kind := KindDirective
		codeStart := open + len(openDelim)
		if codeStart < len(s.src) {
			switch s.src[codeStart] {
			case '=':
				kind = KindOutputDirective
				codeStart++
			case '#':
				kind = KindCommentDirective
				codeStart++
			case '-':
				// Left-trim marker belongs to the open delimiter.
				codeStart++
			}
		}

		closeAt := bytes.Index(s.src[codeStart:], closeDelim)
		if closeAt < 0 {
			// Unterminated directive: consume the rest of the input.
			root.err = true
			d := s.directiveNode(kind, open, len(s.src), codeStart, len(s.src))
			d.err = true
			root.addChild(d)
			break
		}
		closeAt += codeStart
		codeEnd := closeAt
		if codeEnd > codeStart && s.src[codeEnd-1] == '-' {
			// Right-trim marker belongs to the close delimiter.
			codeEnd--
		}
		end := closeAt + len(closeDelim)
		root.addChild(s.directiveNode(kind, open, end, codeStart, codeEnd))
		pos = end
	}

	return root
}

func (s *scanner) contentNode(start, end int) *node {
	return &node{kind: KindContent, start: uint32(start), end: uint32(end), sc: s}
}

func (s *scanner) directiveNode(kind string, start, end, codeStart, codeEnd int) *node {
	d := &node{kind: kind, start: uint32(start), end: uint32(end), sc: s}
	if codeEnd > codeStart {
		code := &node{kind: KindCode, start: uint32(codeStart), end: uint32(codeEnd), sc: s}
		d.addChild(code)
	}
	return d
}

// lineOffsets returns the byte offset of each line start, for offset to
// row/column conversion.
func lineOffsets(src []byte) []uint32 {
	offsets := []uint32{0}
	for i, b := range src {
		if b == '\n' {
			offsets = append(offsets, uint32(i+1))
		}
	}
	return offsets
}

func (s *scanner) pointAt(offset uint32) ast.Point {
	row := sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i] > offset
	}) - 1
	return ast.Point{Row: uint32(row), Column: offset - s.lines[row]}
}

type tree struct {
	root *node
}

func (t *tree) Root() ast.Node { return t.root }

// Close is a no-op: the scanner allocates nothing outside the Go heap.
func (t *tree) Close() {}

type node struct {
	kind     string
	start    uint32
	end      uint32
	children []*node
	parent   *node
	err      bool
	sc       *scanner
}

var _ ast.Node = (*node)(nil)

func (n *node) addChild(c *node) {
	c.parent = n
	n.children = append(n.children, c)
}

func (n *node) Kind() string          { return n.kind }
func (n *node) StartByte() uint32     { return n.start }
func (n *node) EndByte() uint32       { return n.end }
func (n *node) StartPoint() ast.Point { return n.sc.pointAt(n.start) }
func (n *node) EndPoint() ast.Point   { return n.sc.pointAt(n.end) }

// Every node the scanner produces is named.
func (n *node) NamedChildCount() int { return len(n.children) }
func (n *node) ChildCount() int      { return len(n.children) }

func (n *node) NamedChild(i int) ast.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *node) Child(i int) ast.Node { return n.NamedChild(i) }

func (n *node) ChildByField(name string) ast.Node {
	if name != "code" {
		return nil
	}
	for _, c := range n.children {
		if c.kind == KindCode {
			return c
		}
	}
	return nil
}

func (n *node) Parent() ast.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) NamedDescendantForByteRange(start, end uint32) ast.Node {
	for _, c := range n.children {
		if c.start <= start && end <= c.end {
			return c.NamedDescendantForByteRange(start, end)
		}
	}
	if n.start <= start && end <= n.end {
		return n
	}
	return nil
}

func (n *node) HasError() bool {
	if n.err {
		return true
	}
	for _, c := range n.children {
		if c.HasError() {
			return true
		}
	}
	return false
}

func (n *node) Text(src []byte) string {
	return string(src[n.start:n.end])
}
