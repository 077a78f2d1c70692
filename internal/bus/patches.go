package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/panel"
)

// Op names a surface operation on the patch channel.
type Op string

const (
	OpInsert      Op = "card.insert"
	OpRemove      Op = "card.remove"
	OpActive      Op = "card.active"
	OpApply       Op = "card.apply"
	OpRestore     Op = "card.restore_transition"
	OpPlayEffect  Op = "card.effect"
	OpClearEffect Op = "card.clear_effect"
	OpShowPanel   Op = "panel.show"
	OpHidePanel   Op = "panel.hide"
)

const publishTimeout = 2 * time.Second

// PatchMessage is one surface operation as seen by a remote overlay.
type PatchMessage struct {
	Op        Op            `json:"op"`
	Seq       uint64        `json:"seq"`
	ID        string        `json:"id,omitempty"`
	Container hud.Container `json:"container,omitempty"`
	Markup    string        `json:"markup,omitempty"`
	Active    *bool         `json:"active,omitempty"`
	Patch     *hud.Patch    `json:"patch,omitempty"`
	Bar       hud.Bar       `json:"bar,omitempty"`
	Effect    hud.Effect    `json:"effect,omitempty"`
}

// PatchPublisher is a surface that serialises every operation onto the
// scene's patch channel for a browser overlay to apply. Each call is a
// synchronous publish bounded by publishTimeout, made while the engine holds
// its lock.
// TODO: queue messages on a buffered channel drained by one goroutine so a
// slow Redis never blocks the engine lock for up to publishTimeout.
type PatchPublisher struct {
	rdb     *redis.Client
	sceneID string
	logger  *slog.Logger

	mu  sync.Mutex
	seq uint64
}

var (
	_ hud.Surface   = (*PatchPublisher)(nil)
	_ panel.Surface = (*PatchPublisher)(nil)
)

// NewPatchPublisher creates a patch publisher for sceneID.
func NewPatchPublisher(c *Client, sceneID string, logger *slog.Logger) *PatchPublisher {
	return &PatchPublisher{rdb: c.rdb, sceneID: sceneID, logger: logger}
}

func (p *PatchPublisher) Insert(container hud.Container, id string, markup string) error {
	return p.publish(PatchMessage{Op: OpInsert, ID: id, Container: container, Markup: markup})
}

func (p *PatchPublisher) Remove(id string) {
	p.send(PatchMessage{Op: OpRemove, ID: id})
}

func (p *PatchPublisher) SetActive(id string, active bool) {
	p.send(PatchMessage{Op: OpActive, ID: id, Active: &active})
}

func (p *PatchPublisher) Apply(id string, patch hud.Patch) {
	p.send(PatchMessage{Op: OpApply, ID: id, Patch: &patch})
}

func (p *PatchPublisher) RestoreTransition(id string, bar hud.Bar) {
	p.send(PatchMessage{Op: OpRestore, ID: id, Bar: bar})
}

func (p *PatchPublisher) PlayEffect(id string, e hud.Effect) {
	p.send(PatchMessage{Op: OpPlayEffect, ID: id, Effect: e})
}

func (p *PatchPublisher) ClearEffect(id string, e hud.Effect) {
	p.send(PatchMessage{Op: OpClearEffect, ID: id, Effect: e})
}

func (p *PatchPublisher) ShowPanel(actorID string, markup string) error {
	return p.publish(PatchMessage{Op: OpShowPanel, ID: actorID, Markup: markup})
}

func (p *PatchPublisher) HidePanel() {
	p.send(PatchMessage{Op: OpHidePanel})
}

// send publishes operations that have no error path on the surface.
func (p *PatchPublisher) send(msg PatchMessage) {
	if err := p.publish(msg); err != nil {
		p.logger.Error("Failed to publish patch", "error", err, "op", msg.Op, "token_id", msg.ID)
	}
}

// publish numbers msg and publishes it. The sequence is held for the whole
// publish so messages leave in sequence order.
func (p *PatchPublisher) publish(msg PatchMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	msg.Seq = p.seq

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal patch: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	channel := PatchesChannel(p.sceneID)
	if err := p.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish patch: %w", err)
	}
	return nil
}
