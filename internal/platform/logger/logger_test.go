package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
		logger := Setup(level)
		require.NotNil(t, logger, "level %q", level)
	}
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger := Setup("verbose")
	require.NotNil(t, logger)

	// Info-level records pass, debug records do not.
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestFromContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil)).With("component", "test")

	ctx := WithLogger(context.Background(), logger)
	got := FromContext(ctx)
	require.Same(t, logger, got)

	got.Info("hello")
	assert.Contains(t, buf.String(), `"component":"test"`)
}

func TestFromContext_DefaultWhenAbsent(t *testing.T) {
	got := FromContext(context.Background())
	require.NotNil(t, got)
}
