package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/goerbfmt/pkg/config"
)

// envVarPrefix is the prefix for all goerbfmt environment variables.
const envVarPrefix = "GOERBFMT_"

// OverlayFromEnv builds a config overlay from GOERBFMT_* environment
// variables. Unset variables leave their leaves nil.
func OverlayFromEnv() (*config.Overlay, error) {
	o := &config.Overlay{}

	var err error
	if o.Indentation.Size, err = envInt("INDENT_SIZE"); err != nil {
		return nil, err
	}
	o.Indentation.Style = envString("INDENT_STYLE")
	if o.Indentation.Continuation, err = envInt("INDENT_CONTINUATION"); err != nil {
		return nil, err
	}

	o.Newline = envString("NEWLINE")

	if o.Whitespace.TrimTrailing, err = envBool("TRIM_TRAILING"); err != nil {
		return nil, err
	}
	if o.Whitespace.EnsureFinalNewline, err = envBool("FINAL_NEWLINE"); err != nil {
		return nil, err
	}

	o.HTML.CollapseWhitespace = envString("COLLAPSE_WHITESPACE")
	if o.HTML.LineWidth, err = envInt("LINE_WIDTH"); err != nil {
		return nil, err
	}
	o.HTML.AttributeWrapping = envString("ATTRIBUTE_WRAPPING")

	o.Ruby.Format = envString("RUBY_FORMAT")
	if o.Ruby.LineWidth, err = envInt("RUBY_LINE_WIDTH"); err != nil {
		return nil, err
	}

	return o, nil
}

func envString(suffix string) *string {
	value := os.Getenv(envVarPrefix + suffix)
	if value == "" {
		return nil
	}
	return &value
}

func envInt(suffix string) (*int, error) {
	value := os.Getenv(envVarPrefix + suffix)
	if value == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid integer for %s%s: %q", envVarPrefix, suffix, value)
	}
	return &i, nil
}

func envBool(suffix string) (*bool, error) {
	value := os.Getenv(envVarPrefix + suffix)
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean for %s%s: %q (expected true/false/1/0)", envVarPrefix, suffix, value)
	}
	return &b, nil
}
