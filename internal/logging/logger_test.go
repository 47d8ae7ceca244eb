package logging_test

import (
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goerbfmt/internal/logging"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tc := range cases {
		logger := logging.New(tc.level)
		require.NotNil(t, logger)
		assert.Equal(t, tc.want, logger.GetLevel(), "level %q", tc.level)
	}
}

func TestNewInteractive(t *testing.T) {
	logger := logging.NewInteractive()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, logging.Default(), logging.Default())
}

func TestContextRoundTrip(t *testing.T) {
	logger := logging.New("debug")
	ctx := logging.WithLogger(context.Background(), logger)
	assert.Same(t, logger, logging.FromContext(ctx))

	// Without an attached logger, the default is returned.
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
}
