// Package bus carries host events and surface patches over Redis pub/sub.
package bus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// EventsChannel is the pub/sub channel host events for a scene arrive on.
func EventsChannel(sceneID string) string {
	return fmt.Sprintf("hud-events:%s", sceneID)
}

// PatchesChannel is the pub/sub channel surface operations for a scene are published to.
func PatchesChannel(sceneID string) string {
	return fmt.Sprintf("hud-patches:%s", sceneID)
}

// Client wraps the Redis client for bus operations
type Client struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewClient creates a new bus client
func NewClient(redisURL string, logger *slog.Logger) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to Redis for event bus", "url", redisURL)

	return &Client{
		rdb:    rdb,
		logger: logger,
	}, nil
}

// Ping tests the Redis connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Redis returns the underlying Redis client for direct operations
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
