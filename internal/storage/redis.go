package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/token-hud/pkg/scene"
	"github.com/jwebster45206/token-hud/pkg/storage"
)

const (
	sceneKeyPrefix    = "scene:"
	settingsKeyPrefix = "hud-settings:"
	onlyCombatants    = "onlyCombatants"
)

// RedisStorage implements the Storage interface using Redis for live scene
// state and settings, and the filesystem for scene templates.
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, dataDir string, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return NewRedisStorageWithClient(redis.NewClient(opt), dataDir, logger), nil
}

// NewRedisStorageWithClient wraps an existing client.
func NewRedisStorageWithClient(client *redis.Client, dataDir string, logger *slog.Logger) *RedisStorage {
	if dataDir == "" {
		dataDir = "./data"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStorage{
		client:  client,
		logger:  logger,
		dataDir: dataDir,
	}
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Scene state operations (Redis-backed)

func (r *RedisStorage) SaveScene(ctx context.Context, f *scene.File) error {
	if f == nil || f.ID == "" {
		return errors.New("scene id is required")
	}

	data, err := json.Marshal(f)
	if err != nil {
		r.logger.Error("Failed to marshal scene", "scene_id", f.ID, "error", err)
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	if err := r.client.Set(ctx, sceneKeyPrefix+f.ID, data, 0).Err(); err != nil {
		r.logger.Error("Failed to save scene", "scene_id", f.ID, "error", err)
		return fmt.Errorf("failed to save scene: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadScene(ctx context.Context, id string) (*scene.File, error) {
	data, err := r.client.Get(ctx, sceneKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Scene not found", "scene_id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load scene", "scene_id", id, "error", err)
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	var f scene.File
	if err := json.Unmarshal(data, &f); err != nil {
		r.logger.Error("Failed to unmarshal scene", "scene_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal scene: %w", err)
	}
	return &f, nil
}

func (r *RedisStorage) DeleteScene(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sceneKeyPrefix+id, settingsKeyPrefix+id).Err(); err != nil {
		r.logger.Error("Failed to delete scene", "scene_id", id, "error", err)
		return fmt.Errorf("failed to delete scene: %w", err)
	}
	return nil
}

// HUD settings (Redis hash per scene)

func (r *RedisStorage) GetOnlyCombatants(ctx context.Context, sceneID string) (bool, bool, error) {
	v, err := r.client.HGet(ctx, settingsKeyPrefix+sceneID, onlyCombatants).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to read setting: %w", err)
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false, fmt.Errorf("malformed %s setting %q: %w", onlyCombatants, v, err)
	}
	return b, true, nil
}

func (r *RedisStorage) SetOnlyCombatants(ctx context.Context, sceneID string, value bool) error {
	if err := r.client.HSet(ctx, settingsKeyPrefix+sceneID, onlyCombatants, strconv.FormatBool(value)).Err(); err != nil {
		return fmt.Errorf("failed to write setting: %w", err)
	}
	return nil
}
