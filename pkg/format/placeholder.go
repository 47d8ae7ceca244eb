package format

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder tokens stand in for Ruby directives so the remaining
// document is lexically pure HTML. The shape uses only word
// characters, so a token is valid HTML text and valid inside a quoted
// attribute value; the trailing underscores terminate the decimal id,
// so no token occurs inside another's text.
const (
	tokenPrefix = "__ERB"
	tokenSuffix = "__"
)

// tokenPattern matches any placeholder token and captures its id.
var tokenPattern = regexp.MustCompile(`__ERB([0-9]+)__`)

// PlaceholderEntry records one substituted directive.
type PlaceholderEntry struct {
	// ID is sequential per document, starting at 0.
	ID int

	// RegionIndex points at the Ruby region this token replaced.
	RegionIndex int

	// Token is the sentinel text present in the placeholder document.
	Token string
}

// PlaceholderDocument is the source with every Ruby directive replaced
// by a unique token.
type PlaceholderDocument struct {
	HTML         string
	Placeholders []PlaceholderEntry
}

func placeholderToken(id int) string {
	return fmt.Sprintf("%s%d%s", tokenPrefix, id, tokenSuffix)
}

// buildPlaceholders assembles the placeholder document from a region
// list: HTML and unknown regions verbatim, Ruby regions as tokens.
func buildPlaceholders(regions []Region) *PlaceholderDocument {
	var html strings.Builder
	var entries []PlaceholderEntry

	for i, region := range regions {
		if region.Kind != RegionRuby {
			html.WriteString(region.Text)
			continue
		}
		entry := PlaceholderEntry{
			ID:          len(entries),
			RegionIndex: i,
			Token:       placeholderToken(len(entries)),
		}
		entries = append(entries, entry)
		html.WriteString(entry.Token)
	}

	return &PlaceholderDocument{HTML: html.String(), Placeholders: entries}
}

// restorePlaceholders substitutes each entry's token back with its
// region's original text, one occurrence per token in entry order.
// Applied to an unmodified placeholder document this reconstructs the
// source exactly.
func restorePlaceholders(html string, regions []Region, entries []PlaceholderEntry) string {
	for _, e := range entries {
		html = strings.Replace(html, e.Token, regions[e.RegionIndex].Text, 1)
	}
	return html
}
