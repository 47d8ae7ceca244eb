package erb_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goerbfmt/pkg/ast"
	"github.com/yaklabco/goerbfmt/pkg/parser/erb"
)

func TestParseKinds(t *testing.T) {
	src := []byte(`<h1>Title</h1><% if x %><p><%= y %></p><%# note %><% end %>`)
	tree := erb.Parse(src)
	defer tree.Close()

	root := tree.Root()
	require.Equal(t, erb.KindTemplate, root.Kind())
	require.False(t, root.HasError())

	var kinds []string
	for _, c := range ast.NamedChildren(root) {
		kinds = append(kinds, c.Kind())
	}
	assert.Equal(t, []string{
		erb.KindContent,
		erb.KindDirective,
		erb.KindContent,
		erb.KindOutputDirective,
		erb.KindContent,
		erb.KindCommentDirective,
		erb.KindDirective,
	}, kinds)
}

func TestParseTilesSource(t *testing.T) {
	cases := []string{
		"",
		"plain html only",
		"<% x %>",
		"<div><%= v %></div>",
		"a<% b %>c<%# d %>e<%= f %>",
		"<% unterminated",
		"trailing<%",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			tree := erb.Parse([]byte(src))
			defer tree.Close()

			var b strings.Builder
			for _, c := range ast.NamedChildren(tree.Root()) {
				b.WriteString(c.Text([]byte(src)))
			}
			assert.Equal(t, src, b.String())
		})
	}
}

func TestParseCodeField(t *testing.T) {
	src := []byte(`<%=  user.name  %>`)
	tree := erb.Parse(src)
	defer tree.Close()

	directive := tree.Root().NamedChild(0)
	require.NotNil(t, directive)
	require.Equal(t, erb.KindOutputDirective, directive.Kind())

	code := directive.ChildByField("code")
	require.NotNil(t, code)
	assert.Equal(t, erb.KindCode, code.Kind())
	assert.Equal(t, "  user.name  ", code.Text(src))
}

func TestParseTrimMarkers(t *testing.T) {
	src := []byte(`<%- value -%>`)
	tree := erb.Parse(src)
	defer tree.Close()

	directive := tree.Root().NamedChild(0)
	require.NotNil(t, directive)
	code := directive.ChildByField("code")
	require.NotNil(t, code)
	// The trim markers belong to the delimiters, not the code.
	assert.Equal(t, " value ", code.Text(src))
}

func TestParseEmptyDirective(t *testing.T) {
	src := []byte(`<%%>`)
	tree := erb.Parse(src)
	defer tree.Close()

	directive := tree.Root().NamedChild(0)
	require.NotNil(t, directive)
	assert.Nil(t, directive.ChildByField("code"))
}

func TestParseUnterminatedDirective(t *testing.T) {
	src := []byte("before<% if x")
	tree := erb.Parse(src)
	defer tree.Close()

	root := tree.Root()
	assert.True(t, root.HasError())

	last := root.NamedChild(root.NamedChildCount() - 1)
	require.NotNil(t, last)
	assert.Equal(t, erb.KindDirective, last.Kind())
	assert.Equal(t, uint32(len(src)), last.EndByte())
}

func TestParsePositions(t *testing.T) {
	src := []byte("line one\n<% two %>")
	tree := erb.Parse(src)
	defer tree.Close()

	directive := tree.Root().NamedChild(1)
	require.NotNil(t, directive)
	assert.Equal(t, uint32(9), directive.StartByte())
	assert.Equal(t, ast.Point{Row: 1, Column: 0}, directive.StartPoint())
	assert.Equal(t, ast.Point{Row: 1, Column: 9}, directive.EndPoint())
}

func TestDescendantForByteRange(t *testing.T) {
	src := []byte(`<p><% code %></p>`)
	tree := erb.Parse(src)
	defer tree.Close()

	node := tree.Root().NamedDescendantForByteRange(6, 10)
	require.NotNil(t, node)
	assert.Equal(t, erb.KindCode, node.Kind())
}
