package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetLevels() {
	levels.mu.Lock()
	levels.defaultLvl = slog.LevelInfo
	levels.components = make(map[string]slog.Level)
	levels.mu.Unlock()
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("WARN")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, ok = ParseLevel("verbose")
	assert.False(t, ok)
}

func TestApplyLevelSpec(t *testing.T) {
	resetLevels()
	defer resetLevels()

	ApplyLevelSpec("core/observer=debug, host/wshost=error ,warn")

	assert.True(t, levels.enabled("core/observer", slog.LevelDebug))
	assert.False(t, levels.enabled("host/wshost", slog.LevelWarn))
	assert.False(t, levels.enabled("core/registry", slog.LevelInfo))
	assert.True(t, levels.enabled("core/registry", slog.LevelWarn))
}

func TestLazyLogger_UsesCurrentDefault(t *testing.T) {
	resetLevels()
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetOutput(&buf, false)

	l := Logger("test/lazy")
	l.Info("hello", "k", 1)
	l.Debug("filtered")

	assert.Contains(t, buf.String(), "component=test/lazy")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "filtered")
}
