package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldsCarryModuleAndError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Warn("Planner", "fallback used", map[string]interface{}{"error": errors.New("bad json")})
	l.Info("Planner", "no details", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "Planner", ctx["module"])
	assert.Equal(t, "bad json", ctx["error_ref"])
	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
}
