package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "REDIS_URL", "SCENE_ID", "DATA_DIR",
		"VIEWER_ID", "VIEWER_IS_GM", "ONLY_COMBATANTS", "HUD_REMOVAL_DELAY",
		"HUD_EFFECT_DURATION", "HUD_FRAME_INTERVAL", "HUD_DEBOUNCE", "METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.False(t, cfg.ViewerIsGM)
	assert.False(t, cfg.OnlyCombatants)
	assert.Equal(t, 300*time.Millisecond, cfg.RemovalDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.EffectDuration)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCENE_ID", "grove")
	t.Setenv("VIEWER_IS_GM", "true")
	t.Setenv("ONLY_COMBATANTS", "1")
	t.Setenv("HUD_REMOVAL_DELAY", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "grove", cfg.SceneID)
	assert.True(t, cfg.ViewerIsGM)
	assert.True(t, cfg.OnlyCombatants)
	assert.Equal(t, time.Second, cfg.RemovalDelay)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"VIEWER_IS_GM", "maybe"},
		{"ONLY_COMBATANTS", "yes please"},
		{"HUD_EFFECT_DURATION", "soon"},
		{"HUD_DEBOUNCE", "-5ms"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("chatty"))
}
