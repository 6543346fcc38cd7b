package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContextFallback ensures FromContext returns the global logger for a bare context.
func TestFromContextFallback(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))
	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithName ensures a named logger is stored in and retrieved from the context.
func TestWithName(t *testing.T) {
	t.Parallel()

	ctx := WithName(context.Background(), "test")
	require.NotSame(t, Logger(), FromContext(ctx))
}
