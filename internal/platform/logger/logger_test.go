package logger

import (
	"context"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN", "bogus", ""} {
		l, err := Setup(LoggerConfig{Level: level})
		require.NoError(t, err, "level %q", level)
		require.NotNil(t, l)
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Equal(t, slog.Default(), FromContext(ctx))

	custom := slog.Default().With("component", "test")
	ctx = WithLogger(ctx, custom)
	assert.Equal(t, custom, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	fallback := slog.Default().With("component", "fallback")
	assert.Equal(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Equal(t, slog.Default(), FromContextOrDefault(context.Background(), nil))

	custom := slog.Default().With("component", "custom")
	ctx := WithLogger(context.Background(), custom)
	assert.Equal(t, custom, FromContextOrDefault(ctx, fallback))
}
