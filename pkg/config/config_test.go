package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goerbfmt/pkg/config"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, 2, cfg.Indentation.Size)
	assert.Equal(t, config.IndentSpace, cfg.Indentation.Style)
	assert.Equal(t, 2, cfg.Indentation.Continuation)
	assert.Equal(t, config.NewlineLF, cfg.Newline)
	assert.True(t, cfg.Whitespace.TrimTrailing)
	assert.True(t, cfg.Whitespace.EnsureFinalNewline)
	assert.Equal(t, config.CollapseConservative, cfg.HTML.CollapseWhitespace)
	assert.Equal(t, 100, cfg.HTML.LineWidth)
	assert.Equal(t, config.WrapPreserve, cfg.HTML.AttributeWrapping)
	assert.Equal(t, config.RubyFormatHeuristic, cfg.Ruby.Format)
	assert.Equal(t, 100, cfg.Ruby.LineWidth)
}

func TestClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("mutating the clone leaves the original intact", func(t *testing.T) {
		original := config.NewConfig()
		clone := original.Clone()
		require.NotNil(t, clone)

		clone.Indentation.Size = 8
		clone.Newline = config.NewlineCRLF

		assert.Equal(t, 2, original.Indentation.Size)
		assert.Equal(t, config.NewlineLF, original.Newline)
	})
}

func TestApply(t *testing.T) {
	t.Run("nil overlay yields defaults", func(t *testing.T) {
		base := config.NewConfig()
		result := config.Apply(base, nil)
		assert.Equal(t, base, result)
		assert.NotSame(t, base, result)
	})

	t.Run("present leaves override, absent leaves inherit", func(t *testing.T) {
		size := 4
		style := "tab"
		trim := false

		result := config.Apply(config.NewConfig(), &config.Overlay{
			Indentation: config.IndentationOverlay{Size: &size, Style: &style},
			Whitespace:  config.WhitespaceOverlay{TrimTrailing: &trim},
		})

		assert.Equal(t, 4, result.Indentation.Size)
		assert.Equal(t, config.IndentTab, result.Indentation.Style)
		assert.False(t, result.Whitespace.TrimTrailing)
		// Untouched leaves keep their defaults.
		assert.Equal(t, config.NewlineLF, result.Newline)
		assert.Equal(t, 100, result.HTML.LineWidth)
	})

	t.Run("never mutates the base", func(t *testing.T) {
		base := config.NewConfig()
		size := 7
		config.Apply(base, &config.Overlay{
			Indentation: config.IndentationOverlay{Size: &size},
		})
		assert.Equal(t, 2, base.Indentation.Size)
	})
}

func TestMergeOverlays(t *testing.T) {
	four, eight := 4, 8
	lf := "lf"

	merged := config.MergeOverlays(
		&config.Overlay{
			Indentation: config.IndentationOverlay{Size: &four},
			Newline:     &lf,
		},
		nil,
		&config.Overlay{
			Indentation: config.IndentationOverlay{Size: &eight},
		},
	)

	require.NotNil(t, merged.Indentation.Size)
	assert.Equal(t, 8, *merged.Indentation.Size)
	require.NotNil(t, merged.Newline)
	assert.Equal(t, "lf", *merged.Newline)
}

func TestIndentClamps(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Indentation.Size = -3

	assert.Equal(t, " ", cfg.IndentUnit())
	assert.Equal(t, "", cfg.Indent(-1))
	assert.Equal(t, "  ", cfg.Indent(2))

	cfg.Indentation.Style = config.IndentTab
	cfg.Indentation.Size = 1
	assert.Equal(t, "\t\t", cfg.Indent(2))

	cfg.Indentation.Continuation = -5
	assert.Equal(t, 0, cfg.ContinuationOffset())
}
