package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("creates console logger", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("creates json logger for production", func(t *testing.T) {
		logger, err := NewForEnvironment("production")
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
		assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
		assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("enriches entries with context identifiers", func(t *testing.T) {
		core, observed := observer.New(zapcore.InfoLevel)
		base := zap.New(core)

		ctx := context.Background()
		ctx, _ = WithRequestID(ctx, base, "req-123")
		ctx, _ = WithPharmacyID(ctx, base, "ph-456")

		WithLogger(ctx, base).Info("caisse ouverte")

		entries := observed.All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-123", fields["request_id"])
		assert.Equal(t, "ph-456", fields["pharmacy_id"])
	})

	t.Run("missing logger in context yields a no-op", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		// must not panic
		L(context.Background()).Info("ignored")
	})

	t.Run("accessors return empty strings when unset", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, GetRequestID(ctx))
		assert.Empty(t, GetPharmacyID(ctx))
		assert.Empty(t, GetUserID(ctx))
	})
}
