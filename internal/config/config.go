package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	RedisURL string
	SceneID  string
	DataDir  string

	ViewerID   string
	ViewerIsGM bool

	// OnlyCombatants is the setting's value when storage has none.
	OnlyCombatants bool

	RemovalDelay   time.Duration
	EffectDuration time.Duration
	FrameInterval  time.Duration
	Debounce       time.Duration

	MetricsAddr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		SceneID:     getEnv("SCENE_ID", ""),
		DataDir:     getEnv("DATA_DIR", "./data"),
		ViewerID:    getEnv("VIEWER_ID", ""),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
	}

	var err error
	if cfg.ViewerIsGM, err = parseBool("VIEWER_IS_GM", false); err != nil {
		return nil, err
	}
	if cfg.OnlyCombatants, err = parseBool("ONLY_COMBATANTS", false); err != nil {
		return nil, err
	}
	if cfg.RemovalDelay, err = parseDuration("HUD_REMOVAL_DELAY", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.EffectDuration, err = parseDuration("HUD_EFFECT_DURATION", 1500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.FrameInterval, err = parseDuration("HUD_FRAME_INTERVAL", 16*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.Debounce, err = parseDuration("HUD_DEBOUNCE", 50*time.Millisecond); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
