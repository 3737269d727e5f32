package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_FieldsAndService(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lg := FromZap(zap.New(core), "ordering")

	lg.Info("order_placed", map[string]any{"order_id": "abc", "items": 2})
	lg.Error("publish_failed", errors.New("boom"), nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "order_placed", entries[0].Message)
	assert.Equal(t, "ordering", first["service"])
	assert.Equal(t, "abc", first["order_id"])
	assert.EqualValues(t, 2, first["items"])

	second := entries[1].ContextMap()
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", second["error"])
}

func TestLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	lg := FromZap(zap.New(core), "auth").With(map[string]any{"session_id": "s1"})

	lg.Debug("ignored", nil)
	lg.Info("login", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "s1", logs.All()[0].ContextMap()["session_id"])
}

func TestConfigure_RejectsBadLevel(t *testing.T) {
	require.Error(t, Configure("loud"))
	require.NoError(t, Configure("debug"))
}
