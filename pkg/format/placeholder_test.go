package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rubyTestRegion(text string) Region {
	return Region{Kind: RegionRuby, Text: text, Flavor: FlavorLogic}
}

func htmlTestRegion(text string) Region {
	return Region{Kind: RegionHTML, Text: text}
}

func TestBuildPlaceholders(t *testing.T) {
	regions := []Region{
		htmlTestRegion("<div>"),
		rubyTestRegion("<% if a %>"),
		htmlTestRegion("x"),
		rubyTestRegion("<% end %>"),
		htmlTestRegion("</div>"),
	}

	doc := buildPlaceholders(regions)

	require.Len(t, doc.Placeholders, 2)
	assert.Equal(t, "<div>__ERB0__x__ERB1__</div>", doc.HTML)

	for i, entry := range doc.Placeholders {
		assert.Equal(t, i, entry.ID)
		assert.Equal(t, placeholderToken(i), entry.Token)
		assert.Equal(t, RegionRuby, regions[entry.RegionIndex].Kind)
	}

	// Entries are ordered by ascending region index.
	assert.Equal(t, 1, doc.Placeholders[0].RegionIndex)
	assert.Equal(t, 3, doc.Placeholders[1].RegionIndex)
}

func TestTokenShape(t *testing.T) {
	token := placeholderToken(7)

	assert.NotContains(t, token, "<")
	assert.NotContains(t, token, ">")
	assert.NotContains(t, token, `"`)
	assert.NotContains(t, token, "'")

	// Decimal ids terminate before the suffix, so one token never
	// occurs inside another.
	assert.NotContains(t, placeholderToken(10), placeholderToken(1))
}

func TestTokenUniqueness(t *testing.T) {
	regions := make([]Region, 0, 40)
	for range 20 {
		regions = append(regions, rubyTestRegion("<% x %>"), htmlTestRegion("y"))
	}

	doc := buildPlaceholders(regions)
	require.Len(t, doc.Placeholders, 20)

	for _, entry := range doc.Placeholders {
		assert.Equal(t, 1, strings.Count(doc.HTML, entry.Token),
			"token %s must occur exactly once", entry.Token)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	cases := [][]Region{
		{},
		{htmlTestRegion("no directives at all")},
		{rubyTestRegion("<% only %>")},
		{
			htmlTestRegion("<ul>\n"),
			rubyTestRegion("<% items.each do |i| %>"),
			htmlTestRegion("<li>"),
			rubyTestRegion("<%= i %>"),
			htmlTestRegion("</li>"),
			rubyTestRegion("<% end %>"),
			htmlTestRegion("\n</ul>"),
		},
	}

	for _, regions := range cases {
		var want strings.Builder
		for _, r := range regions {
			want.WriteString(r.Text)
		}

		doc := buildPlaceholders(regions)
		got := restorePlaceholders(doc.HTML, regions, doc.Placeholders)
		assert.Equal(t, want.String(), got)
	}
}
