package hud

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/token-hud/pkg/actor"
)

// World is read access to the live scene.
type World interface {
	Token(id string) (*actor.Token, bool)
	Tokens() []*actor.Token
	Actor(id string) (*actor.Actor, bool)
	TokensForActor(actorID string) []*actor.Token
	InCombat(tokenID string) bool
}

// WorldSource returns the current scene. It is called once per event.
type WorldSource func(ctx context.Context) (World, error)

// Settings exposes the user-configurable HUD settings.
type Settings interface {
	OnlyCombatants(ctx context.Context) (bool, error)
}

// Viewer is the user looking at the overlay.
type Viewer struct {
	UserID string
	IsGM   bool
}

// Listener is notified of every event after the cards have been reconciled.
type Listener interface {
	Notify(ctx context.Context, ev Event)
}

// Router maps host events to engine calls.
type Router struct {
	engine    *Engine
	source    WorldSource
	settings  Settings
	viewer    Viewer
	logger    *slog.Logger
	listeners []Listener
}

// NewRouter creates a Router.
func NewRouter(engine *Engine, source WorldSource, settings Settings, viewer Viewer, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		engine:   engine,
		source:   source,
		settings: settings,
		viewer:   viewer,
		logger:   logger,
	}
}

// Subscribe adds a listener.
func (r *Router) Subscribe(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Viewer returns the viewer the router decides visibility for.
func (r *Router) Viewer() Viewer {
	return r.viewer
}

// Handle routes one event.
func (r *Router) Handle(ctx context.Context, ev Event) error {
	world, err := r.source(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}

	switch ev.Kind {
	case EventEntityUpdated:
		if ev.TouchesToken() {
			r.refreshByID(ctx, world, ev.EntityID)
		}
	case EventOwnerUpdated:
		if ev.TouchesResources() {
			only := r.onlyCombatants(ctx)
			for _, tok := range world.TokensForActor(ev.OwnerID) {
				r.refresh(ctx, world, tok, only)
			}
		}
	case EventEntityCreated, EventCombatantCreated, EventCombatantRemoved:
		r.refreshByID(ctx, world, ev.EntityID)
	case EventEntityRemoved:
		r.engine.RemoveOne(ev.EntityID)
	case EventCombatEnded:
		r.RefreshAll(ctx, world)
	case EventSettingChanged:
		if ev.Key == SettingOnlyCombatants {
			r.RefreshAll(ctx, world)
		}
	case EventSceneReady:
		r.engine.Reset()
		r.RefreshAll(ctx, world)
	}

	for _, l := range r.listeners {
		l.Notify(ctx, ev)
	}
	return nil
}

// RefreshAll reconciles every token in the scene and drops orphaned cards.
func (r *Router) RefreshAll(ctx context.Context, world World) BatchResult {
	only := r.onlyCombatants(ctx)
	tokens := world.Tokens()
	entries := make([]Entry, 0, len(tokens))
	for _, tok := range tokens {
		entries = append(entries, r.entry(world, tok, only))
	}
	res := r.engine.ReconcileBatch(ctx, entries)
	r.logger.Debug("Refreshed all cards",
		"tokens", len(tokens),
		"reconciled", res.Reconciled,
		"failed", res.Failed,
		"orphans", len(res.Orphans))
	return res
}

func (r *Router) refreshByID(ctx context.Context, world World, id string) {
	tok, ok := world.Token(id)
	if !ok {
		r.logger.Debug("Event for unknown token", "token_id", id)
		return
	}
	r.refresh(ctx, world, tok, r.onlyCombatants(ctx))
}

func (r *Router) refresh(ctx context.Context, world World, tok *actor.Token, only bool) {
	if _, ok := world.Actor(tok.ActorID); !ok {
		return
	}
	en := r.entry(world, tok, only)
	if _, err := r.engine.ReconcileOne(ctx, en.ID, en.Decision, en.Data); err != nil {
		r.logger.Warn("Reconciliation failed", "token_id", tok.ID, "error", err)
	}
}

func (r *Router) entry(world World, tok *actor.Token, only bool) Entry {
	d := Decide(VisibilityInput{
		Hidden:         tok.Hidden,
		Occluded:       tok.Occluded,
		InCombat:       world.InCombat(tok.ID),
		OnlyCombatants: only,
		Disposition:    tok.Disposition,
		ViewerIsGM:     r.viewer.IsGM,
	})
	en := Entry{ID: tok.ID, Decision: d}
	if a, ok := world.Actor(tok.ActorID); ok {
		en.Data, _ = EntityFromToken(tok, a)
	}
	return en
}

func (r *Router) onlyCombatants(ctx context.Context) bool {
	if r.settings == nil {
		return false
	}
	only, err := r.settings.OnlyCombatants(ctx)
	if err != nil {
		r.logger.Warn("Failed to read setting, using default", "key", SettingOnlyCombatants, "error", err)
		return false
	}
	return only
}
