package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToSlogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ToSlogLevel(DebugLevel))
	require.Equal(t, slog.LevelWarn, ToSlogLevel(WarnLevel))
	require.Equal(t, slog.LevelError, ToSlogLevel(FatalLevel))
	require.Equal(t, LevelTrace, ToSlogLevel(TraceLevel))
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WarnLevel, &buf)
	logger.Info("hidden")
	require.Equal(t, 0, buf.Len())
	logger.Warn("shown", slog.Int("row", 3))
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "row=3")
}

func TestNewRendersTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := New(TraceLevel, &buf)
	logger.Log(context.Background(), LevelTrace, "deep")
	require.Contains(t, buf.String(), "level=TRACE")
}
