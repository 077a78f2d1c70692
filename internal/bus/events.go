package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/token-hud/pkg/hud"
)

// EventPublisher publishes host events for one scene.
type EventPublisher struct {
	rdb     *redis.Client
	sceneID string
	logger  *slog.Logger
}

// NewEventPublisher creates a publisher for sceneID.
func NewEventPublisher(c *Client, sceneID string, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{rdb: c.rdb, sceneID: sceneID, logger: logger}
}

// Publish sends ev to the scene's event channel. An event without an ID is
// assigned one.
func (p *EventPublisher) Publish(ctx context.Context, ev hud.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := EventsChannel(p.sceneID)
	if err := p.rdb.Publish(ctx, channel, data).Err(); err != nil {
		p.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published",
		"channel", channel,
		"event_id", ev.ID,
		"event_kind", ev.Kind,
	)
	return nil
}

// Handler processes one decoded host event.
type Handler func(ctx context.Context, ev hud.Event) error

// Subscriber delivers host events for one scene to a Handler.
type Subscriber struct {
	rdb     *redis.Client
	sceneID string
	logger  *slog.Logger
}

// NewSubscriber creates a subscriber for sceneID.
func NewSubscriber(c *Client, sceneID string, logger *slog.Logger) *Subscriber {
	return &Subscriber{rdb: c.rdb, sceneID: sceneID, logger: logger}
}

// Run subscribes and hands every event to h in arrival order until ctx is
// cancelled. ready, if not nil, is closed once the subscription is live.
// Undecodable messages and handler errors are logged and skipped.
func (s *Subscriber) Run(ctx context.Context, h Handler, ready chan<- struct{}) error {
	channel := EventsChannel(s.sceneID)
	sub := s.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	// Wait for the subscription confirmation so no event published after
	// Run reports ready is missed.
	if _, err := sub.Receive(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	if ready != nil {
		close(ready)
	}

	s.logger.Info("Subscribed to host events", "channel", channel)

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var ev hud.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				s.logger.Warn("Dropping malformed event", "error", err, "channel", channel)
				continue
			}
			if err := h(ctx, ev); err != nil {
				s.logger.Error("Failed to handle event",
					"error", err,
					"event_id", ev.ID,
					"event_kind", ev.Kind,
				)
			}
		}
	}
}
