package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_RejectsUnknownLevel(t *testing.T) {
	require.Error(t, Init("loud", "json"))
}

func TestPackageLevelHelpers(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))

	Info("hello", zap.String("k", "v"))
	Warn("careful")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
	assert.Equal(t, "v", logs.All()[0].ContextMap()["k"])
	assert.Equal(t, zap.WarnLevel, logs.All()[1].Level)
}
