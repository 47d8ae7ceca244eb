package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRubyIndentDeltasFallback(t *testing.T) {
	cases := []struct {
		code   string
		before int
		after  int
	}{
		{"if @user", 0, 1},
		{"unless logged_in?", 0, 1},
		{"while running", 0, 1},
		{"until done", 0, 1},
		{"for x in xs", 0, 1},
		{"case value", 0, 1},
		{"class Foo", 0, 1},
		{"module Bar", 0, 1},
		{"begin", 0, 1},
		{"def render", 0, 1},
		{"else", -1, 1},
		{"elsif other", -1, 1},
		{"when :a", -1, 1},
		{"rescue StandardError => e", -1, 1},
		{"ensure", -1, 1},
		{"end", -1, 0},
		{"items.each do", 0, 1},
		{"items.each do |item|", 0, 1},
		{"form_for @user do |f|", 0, 1},
		{"x = 1", 0, 0},
		{"render partial: 'row'", 0, 0},
		{"ending = true", 0, 0},
		{"endpoint.call", 0, 0},
		{"puts 'do'", 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			region := &Region{Kind: RegionRuby, Flavor: FlavorLogic, Code: tc.code, Text: "<% " + tc.code + " %>"}
			delta := rubyIndentDeltas(region)
			assert.Equal(t, tc.before, delta.Before, "before")
			assert.Equal(t, tc.after, delta.After, "after")
		})
	}
}

func TestRubyIndentDeltasNonLogicFlavors(t *testing.T) {
	for _, flavor := range []DirectiveFlavor{FlavorOutput, FlavorComment} {
		region := &Region{Kind: RegionRuby, Flavor: flavor, Code: "if x"}
		assert.Equal(t, zeroDelta, rubyIndentDeltas(region), "flavor %s", flavor)
	}
}

func TestRubyIndentDeltasEmptyCode(t *testing.T) {
	region := &Region{Kind: RegionRuby, Flavor: FlavorLogic, Code: ""}
	assert.Equal(t, zeroDelta, rubyIndentDeltas(region))
}

func TestClassifyFromKeywordsWordBoundaries(t *testing.T) {
	// Keywords only match as whole leading words.
	assert.Equal(t, zeroDelta, classifyFromKeywords("iffy = 1"))
	assert.Equal(t, zeroDelta, classifyFromKeywords("cases.count"))
	assert.Equal(t, indentDelta{Before: -1}, classifyFromKeywords("end"))
}
