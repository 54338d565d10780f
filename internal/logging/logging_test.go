package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewHonoursLevel(t *testing.T) {
	for _, env := range []string{DevelopmentEnvironment, ProductionEnvironment} {
		l, err := New(env, "warn")
		require.NoError(t, err)
		require.False(t, l.Core().Enabled(zapcore.InfoLevel), env)
		require.True(t, l.Core().Enabled(zapcore.WarnLevel), env)
	}

	l, err := New(ProductionEnvironment, "bogus")
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.InfoLevel))
	require.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestContextRoundTrip(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))
	ctx = WithFields(ctx, zap.String("request_id", "abc"))
	FromContext(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "abc", entries[0].ContextMap()["request_id"])
}
