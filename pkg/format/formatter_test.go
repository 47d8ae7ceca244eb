package format_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goerbfmt/pkg/config"
	"github.com/yaklabco/goerbfmt/pkg/format"
)

func formatString(t *testing.T, src string, cfg *config.Config, opts ...format.Option) *format.Result {
	t.Helper()
	f := format.New(cfg, opts...)
	result, err := f.Format(context.Background(), []byte(src))
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestFormatSimpleConditional(t *testing.T) {
	input := "<% if @user %>\n<h1>Welcome, <%= @user.name %>!</h1>\n<% else %>\n<p>Please log in.</p>\n<% end %>"
	want := "<% if @user %>\n  <h1>Welcome, <%= @user.name %>!</h1>\n<% else %>\n  <p>Please log in.</p>\n<% end %>\n"

	result := formatString(t, input, nil)
	assert.Equal(t, want, result.Output)
	assert.False(t, result.HasErrors())
}

func TestFormatNestedConditionals(t *testing.T) {
	input := "<% if outer %>\n<% if inner %>\n<span>Hi</span>\n<% else %>\n<span>Bye</span>\n<% end %>\n<% end %>"
	want := "<% if outer %>\n  <% if inner %>\n    <span>Hi</span>\n  <% else %>\n    <span>Bye</span>\n  <% end %>\n<% end %>\n"

	result := formatString(t, input, nil)
	assert.Equal(t, want, result.Output)
}

func TestFormatAttributeWrappingAuto(t *testing.T) {
	cfg := config.NewConfig()
	cfg.HTML.AttributeWrapping = config.WrapAuto
	cfg.HTML.LineWidth = 40

	input := `<div id="foo" class="alpha beta gamma delta epsilon zeta eta theta iota">Content</div>`
	want := "<div\n" +
		"  id=\"foo\"\n" +
		"  class=\"alpha beta gamma delta epsilon zeta eta theta iota\"\n" +
		">\n" +
		"Content</div>\n"

	result := formatString(t, input, cfg)
	assert.Equal(t, want, result.Output)
}

func TestFormatAttributeWrappingPreserve(t *testing.T) {
	// Short inline tags stay inline under the default preserve policy.
	result := formatString(t, `<div id="a"   class="b">x</div>`, nil)
	assert.Equal(t, "<div id=\"a\" class=\"b\">x</div>\n", result.Output)

	// A newline in the original attribute slice forces multi-line.
	result = formatString(t, "<div id=\"a\"\n  class=\"b\">x</div>", nil)
	assert.Equal(t, "<div\n  id=\"a\"\n  class=\"b\"\n>\nx</div>\n", result.Output)
}

func TestFormatWhitespaceSensitivePre(t *testing.T) {
	input := "<pre>\n  line 1\n  <% if c %>\n    yield\n  <% end %>\n</pre>"

	result := formatString(t, input, nil)
	assert.Equal(t, input+"\n", result.Output)
}

func TestFormatInlineCollapse(t *testing.T) {
	input := "<div>\n  <span>   Hello   <%= name %>   </span>\n</div>"
	want := "<div>\n  <span>Hello <%= name %></span>\n</div>\n"

	result := formatString(t, input, nil)
	assert.Equal(t, want, result.Output)
}

func TestFormatPassthroughOnHTMLParseError(t *testing.T) {
	input := "<div class=\"oops>\n<% if x %>\n<p>hi</p>\n<% end %>\n"

	result := formatString(t, input, nil)
	assert.Equal(t, input, result.Output)
	require.True(t, result.HasErrors())

	var found bool
	for _, d := range result.Diagnostics {
		if d.Severity == config.SeverityError && strings.Contains(d.Message, "HTML parse error") {
			found = true
		}
	}
	assert.True(t, found, "expected an HTML parse error diagnostic, got %v", result.Diagnostics)
}

func TestFormatTokenCollisionFallsBack(t *testing.T) {
	// Literal text that collides with a sentinel token makes
	// substitution ambiguous; the source must come back unchanged.
	input := "<p>__ERB0__</p><%= x %>\n"

	result := formatString(t, input, nil)
	assert.Equal(t, input, result.Output)
	assert.True(t, result.HasErrors())
}

func TestFormatOutputDirectiveInAttribute(t *testing.T) {
	input := `<a href="<%= user_path(@user) %>">Profile</a>`

	result := formatString(t, input, nil)
	assert.Equal(t, "<a href=\"<%= user_path(@user) %>\">Profile</a>\n", result.Output)
}

func TestFormatMultiLineOutputDirective(t *testing.T) {
	input := "<div>\n<p>a</p>\n<%= link_to 'x',\n      some_path %>\n</div>"
	want := "<div>\n  <p>a</p>\n  <%= link_to 'x',\n  some_path %>\n</div>\n"

	result := formatString(t, input, nil)
	assert.Equal(t, want, result.Output)
}

func TestFormatLoopWithDoBlock(t *testing.T) {
	input := "<ul>\n<% @items.each do |item| %>\n<li><%= item.name %></li>\n<% end %>\n</ul>"
	want := "<ul>\n  <% @items.each do |item| %>\n    <li><%= item.name %></li>\n  <% end %>\n</ul>\n"

	result := formatString(t, input, nil)
	assert.Equal(t, want, result.Output)
}

func TestFormatVoidElements(t *testing.T) {
	input := "<div>\n<br>\n<img src=\"a.png\">\n</div>"
	want := "<div>\n  <br>\n  <img src=\"a.png\">\n</div>\n"

	result := formatString(t, input, nil)
	assert.Equal(t, want, result.Output)
}

func TestFormatTabIndentation(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Indentation.Style = config.IndentTab
	cfg.Indentation.Size = 1

	input := "<% if x %>\n<p>hi</p>\n<% end %>"
	want := "<% if x %>\n\t<p>hi</p>\n<% end %>\n"

	result := formatString(t, input, cfg)
	assert.Equal(t, want, result.Output)
}

func TestFormatRubyFormatNone(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Ruby.Format = config.RubyFormatNone

	input := "<% if x %>\n<p>hi</p>\n<% end %>"
	want := "<% if x %>\n<p>hi</p>\n<% end %>\n"

	result := formatString(t, input, cfg)
	assert.Equal(t, want, result.Output)
}

func TestFormatDebugPayload(t *testing.T) {
	input := "<p><%= a %><%= b %></p>"

	result := formatString(t, input, nil, format.WithDebug(true))
	require.NotNil(t, result.Debug)
	assert.Equal(t, 2, result.Debug.PlaceholderCount)
	assert.Contains(t, result.Debug.PlaceholderHTML, "__ERB0__")
	assert.Contains(t, result.Debug.PlaceholderHTML, "__ERB1__")

	result = formatString(t, input, nil)
	assert.Nil(t, result.Debug)
}

func TestFormatCRLFNewlines(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Newline = config.NewlineCRLF

	result := formatString(t, "<p>hi</p>\r\n", cfg)
	assert.Equal(t, "<p>hi</p>\r\n", result.Output)
}

func TestFormatPreserveNewlines(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Newline = config.NewlinePreserve

	result := formatString(t, "<p>a</p>\r\n<p>b</p>\r\n", cfg)
	assert.Equal(t, "<p>a</p>\r\n<p>b</p>\r\n", result.Output)

	result = formatString(t, "<p>a</p>\n<p>b</p>\n", cfg)
	assert.Equal(t, "<p>a</p>\n<p>b</p>\n", result.Output)
}

func TestFormatSegments(t *testing.T) {
	input := "<p>x</p>\n<% if y %>\n<p>z</p>\n<% end %>"

	result := formatString(t, input, nil)

	var rubySegments int
	for i, seg := range result.Segments {
		assert.Equal(t, i, seg.Index)
		if seg.Kind == format.SegmentRuby {
			rubySegments++
			assert.GreaterOrEqual(t, seg.RegionIndex, 0)
			assert.Equal(t, format.ModeRubyNormalized, seg.Mode)
		}
	}
	assert.Equal(t, 2, rubySegments)
}

var invariantFixtures = []string{
	"<% if @user %>\n<h1>Welcome, <%= @user.name %>!</h1>\n<% else %>\n<p>Please log in.</p>\n<% end %>",
	"<% if outer %>\n<% if inner %>\n<span>Hi</span>\n<% else %>\n<span>Bye</span>\n<% end %>\n<% end %>",
	"<div>\n  <span>   Hello   <%= name %>   </span>\n</div>",
	"<pre>\n  keep   this\n  <% if c %>\n</pre>",
	"<ul>\n<% @items.each do |item| %>\n<li><%= item.name %></li>\n<% end %>\n</ul>",
	"<a href=\"<%= user_path(@user) %>\">Profile</a>",
	"plain text, no markup",
	"",
}

func TestFormatIdempotent(t *testing.T) {
	for _, src := range invariantFixtures {
		t.Run(src, func(t *testing.T) {
			first := formatString(t, src, nil)
			second := formatString(t, first.Output, nil)
			assert.Equal(t, first.Output, second.Output)
		})
	}
}

func TestFormatPreservesRubyText(t *testing.T) {
	directives := []string{
		"<% if @user %>", "<%= @user.name %>", "<% else %>", "<% end %>",
		"<% @items.each do |item| %>", "<%= item.name %>",
	}

	for _, src := range invariantFixtures {
		result := formatString(t, src, nil)
		for _, directive := range directives {
			if strings.Contains(src, directive) {
				assert.Contains(t, result.Output, directive,
					"directive %q must survive formatting of %q", directive, src)
			}
		}
	}
}

func TestFormatFinalNewlinePolicy(t *testing.T) {
	for _, src := range invariantFixtures {
		result := formatString(t, src, nil)
		assert.True(t, strings.HasSuffix(result.Output, "\n"), "output of %q must end with a newline", src)
		assert.False(t, strings.HasSuffix(result.Output, "\n\n"), "output of %q must end with exactly one newline", src)
	}
}

func TestFormatNoTrailingWhitespace(t *testing.T) {
	for _, src := range invariantFixtures {
		if strings.Contains(src, "<pre>") {
			// Sensitive content is preserved verbatim and exempt.
			continue
		}
		result := formatString(t, src, nil)
		for _, line := range strings.Split(result.Output, "\n") {
			assert.Equal(t, strings.TrimRight(line, " \t"), line,
				"line %q of %q has trailing whitespace", line, src)
		}
	}
}

func TestFormatConcurrentUse(t *testing.T) {
	f := format.New(nil)
	src := []byte("<% if x %>\n<p>hi</p>\n<% end %>")

	done := make(chan string, 8)
	for range 8 {
		go func() {
			result, err := f.Format(context.Background(), src)
			if err != nil {
				done <- err.Error()
				return
			}
			done <- result.Output
		}()
	}

	want := "<% if x %>\n  <p>hi</p>\n<% end %>\n"
	for range 8 {
		assert.Equal(t, want, <-done)
	}
}

func TestFormatCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := format.New(nil)
	_, err := f.Format(ctx, []byte("<p>x</p>"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
