package hud

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jwebster45206/token-hud/pkg/schedule"
)

const (
	DefaultRemovalDelay   = 300 * time.Millisecond
	DefaultEffectDuration = 1500 * time.Millisecond
)

// Action describes what a reconciliation did.
type Action string

const (
	ActionCreated Action = "created"
	ActionPatched Action = "patched"
	ActionRemoved Action = "removed"
	ActionSkipped Action = "skipped" // nothing renderable for the token
	ActionStale   Action = "stale"   // a newer reconciliation superseded this one
	ActionFailed  Action = "failed"
)

// Result reports the outcome of one reconciliation.
type Result struct {
	Action Action
	Effect Effect
	Delta  Delta
}

// Entry is one token in a batch reconciliation.
type Entry struct {
	ID       string
	Decision Decision
	Data     *EntityData
}

// BatchResult summarizes a batch reconciliation.
type BatchResult struct {
	Reconciled int
	Failed     int
	Orphans    []string
}

// Engine keeps one card per visible token in sync with token state.
// All state changes happen under a single lock; rendering runs outside it
// and is discarded if a newer reconciliation for the same token started.
type Engine struct {
	mu       sync.Mutex
	renderer Renderer
	surface  Surface
	sched    schedule.Scheduler
	store    SnapshotStore
	reg      *registry
	logger   *slog.Logger
	observer Observer

	removalDelay   time.Duration
	effectDuration time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore replaces the default in-memory snapshot store.
func WithStore(s SnapshotStore) Option {
	return func(e *Engine) { e.store = s }
}

// WithRemovalDelay sets how long an exiting card stays before removal.
func WithRemovalDelay(d time.Duration) Option {
	return func(e *Engine) { e.removalDelay = d }
}

// WithEffectDuration sets how long an effect class stays on a card.
func WithEffectDuration(d time.Duration) Option {
	return func(e *Engine) { e.effectDuration = d }
}

// WithObserver registers an observer for reconciliation outcomes.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New creates an Engine.
func New(renderer Renderer, surface Surface, sched schedule.Scheduler, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		renderer:       renderer,
		surface:        surface,
		sched:          sched,
		store:          NewMemoryStore(),
		reg:            newRegistry(),
		logger:         logger,
		removalDelay:   DefaultRemovalDelay,
		effectDuration: DefaultEffectDuration,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReconcileOne brings the card for id in line with the decision and data.
// A hidden decision removes the card. An existing card with the same category
// and bars is patched in place; otherwise a new card is rendered and replaces
// it once the render succeeds.
func (e *Engine) ReconcileOne(ctx context.Context, id string, d Decision, data *EntityData) (Result, error) {
	if !d.ShouldRender {
		e.mu.Lock()
		removed := e.removeLocked(id)
		e.mu.Unlock()
		if !removed {
			return e.done(Result{Action: ActionSkipped}), nil
		}
		return e.done(Result{Action: ActionRemoved}), nil
	}

	v, err := buildView(id, d, data)
	if err != nil {
		e.logger.Debug("Skipping token", "token_id", id, "reason", err)
		return e.done(Result{Action: ActionSkipped}), nil
	}

	gen, res, patched := e.prepare(id, v)
	if patched {
		return e.done(res), nil
	}
	return e.create(ctx, id, gen, v)
}

// prepare advances the generation for id and patches the existing card when
// one can be reused. It reports false when a new card has to be built; the
// old card stays on the surface until create commits its replacement.
func (e *Engine) prepare(id string, v view) (uint64, Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gen := e.reg.advance(id)
	c := e.reg.get(id)
	if c == nil || c.phase == phaseExiting || c.category != v.data.Category || c.channels != v.channels {
		return gen, Result{}, false
	}
	return gen, e.patchLocked(c, v), true
}

func (e *Engine) create(ctx context.Context, id string, gen uint64, v view) (Result, error) {
	markup, err := e.renderer.Render(ctx, CardTemplate, v.data)
	if err != nil {
		e.logger.Error("Failed to render card", "token_id", id, "error", err)
		return e.done(Result{Action: ActionFailed}), fmt.Errorf("failed to render card for %s: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.reg.current(id) != gen {
		e.logger.Debug("Discarding stale card render", "token_id", id, "generation", gen)
		return e.done(Result{Action: ActionStale}), nil
	}
	if old := e.reg.get(id); old != nil {
		e.destroyLocked(old)
	}

	if err := e.surface.Insert(ContainerFor(v.data.Category), id, markup); err != nil {
		e.logger.Error("Failed to insert card", "token_id", id, "error", err)
		return e.done(Result{Action: ActionFailed}), fmt.Errorf("failed to insert card for %s: %w", id, err)
	}

	c := &card{id: id, category: v.data.Category, channels: v.channels, phase: phaseEntering}
	e.reg.put(c)
	e.store.Set(id, v.snap)
	c.activation = e.sched.NextFrame(func() { e.activate(c) })

	e.logger.Debug("Card created", "token_id", id, "category", v.data.Category)
	return e.done(Result{Action: ActionCreated}), nil
}

func (e *Engine) activate(c *card) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.reg.get(c.id) != c || c.phase != phaseEntering {
		return
	}
	c.phase = phaseActive
	c.activation = nil
	e.surface.SetActive(c.id, true)
}

func (e *Engine) patchLocked(c *card, v view) Result {
	prev, ok := e.store.Get(c.id)
	if !ok {
		prev = v.snap
	}
	delta := Compare(prev, v.snap, v.channels)
	effect := SelectEffect(delta)

	p := v.patch(delta)
	e.surface.Apply(c.id, p)
	e.restoreTransitions(c, p)
	if effect != EffectNone {
		e.playLocked(c, effect)
	}
	e.store.Set(c.id, v.snap)

	return Result{Action: ActionPatched, Effect: effect, Delta: delta}
}

// restoreTransitions re-enables ghost transitions on the frame after a snap.
func (e *Engine) restoreTransitions(c *card, p Patch) {
	var bars []Bar
	if p.Primary.Ghost.Snap {
		bars = append(bars, BarPrimary)
	}
	if p.Secondary != nil && p.Secondary.Ghost.Snap {
		bars = append(bars, BarSecondary)
	}
	if len(bars) == 0 {
		return
	}
	e.sched.NextFrame(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.reg.get(c.id) != c {
			return
		}
		for _, b := range bars {
			e.surface.RestoreTransition(c.id, b)
		}
	})
}

func (e *Engine) playLocked(c *card, effect Effect) {
	if c.effectClear != nil {
		c.effectClear.Stop()
	}
	c.effectSeq++
	seq := c.effectSeq
	c.effect = effect
	e.surface.PlayEffect(c.id, effect)
	if e.observer != nil {
		e.observer.EffectPlayed(effect)
	}

	c.effectClear = e.sched.AfterFunc(e.effectDuration, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.reg.get(c.id) != c || c.effectSeq != seq {
			return
		}
		c.effect = EffectNone
		c.effectClear = nil
		e.surface.ClearEffect(c.id, effect)
	})
}

// RemoveOne forgets the snapshot for id at once, starts the card's exit
// transition and removes the node after the removal delay. Any render still
// in flight for id is invalidated.
func (e *Engine) RemoveOne(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(id)
}

func (e *Engine) removeLocked(id string) bool {
	e.reg.advance(id)
	e.store.Delete(id)

	c := e.reg.get(id)
	if c == nil || c.phase == phaseExiting {
		return false
	}
	c.stopTimers()
	c.phase = phaseExiting
	e.surface.SetActive(id, false)
	c.removal = e.sched.AfterFunc(e.removalDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.reg.get(id) != c {
			return
		}
		e.reg.drop(id)
		e.surface.Remove(id)
		e.logger.Debug("Card removed", "token_id", id)
	})
	return true
}

// destroyLocked removes a card immediately, without an exit transition.
func (e *Engine) destroyLocked(c *card) {
	c.stopTimers()
	e.reg.drop(c.id)
	e.store.Delete(c.id)
	e.surface.Remove(c.id)
}

// ReconcileBatch reconciles every entry and then removes cards whose tokens
// are no longer present. A failure for one entry never stops the others.
func (e *Engine) ReconcileBatch(ctx context.Context, entries []Entry) BatchResult {
	var out BatchResult
	present := make(map[string]struct{}, len(entries))

	for _, en := range entries {
		present[en.ID] = struct{}{}
		if _, err := e.reconcileIsolated(ctx, en); err != nil {
			out.Failed++
			continue
		}
		out.Reconciled++
	}

	for _, id := range e.orphans(present) {
		e.RemoveOne(id)
		out.Orphans = append(out.Orphans, id)
	}
	if len(out.Orphans) > 0 {
		e.logger.Debug("Removed orphaned cards", "count", len(out.Orphans))
	}
	return out
}

func (e *Engine) reconcileIsolated(ctx context.Context, en Entry) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Recovered from panic during reconciliation", "token_id", en.ID, "panic", r)
			res = e.done(Result{Action: ActionFailed})
			err = fmt.Errorf("reconcile %s: panic: %v", en.ID, r)
		}
	}()
	return e.ReconcileOne(ctx, en.ID, en.Decision, en.Data)
}

func (e *Engine) orphans(present map[string]struct{}) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ids []string
	for _, id := range e.reg.ids() {
		if _, ok := present[id]; ok {
			continue
		}
		if e.reg.get(id).phase == phaseExiting {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Reset drops every card and snapshot. Used when the scene is rebuilt.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := e.reg.ids()
	e.reg.reset()
	e.store.Reset()
	for _, id := range ids {
		e.surface.Remove(id)
	}
	e.logger.Debug("Engine reset", "cards", len(ids))
}

// Registration returns the card registered for id.
func (e *Engine) Registration(id string) (Registration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.reg.get(id)
	if c == nil {
		return Registration{}, false
	}
	return Registration{
		Category: c.category,
		Active:   c.phase == phaseActive,
		Exiting:  c.phase == phaseExiting,
	}, true
}

// Snapshot returns the last values recorded for id.
func (e *Engine) Snapshot(id string) (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(id)
}

// CardIDs returns the ids of all registered cards, sorted.
func (e *Engine) CardIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg.ids()
}

func (e *Engine) done(r Result) Result {
	if e.observer != nil {
		e.observer.Reconciled(r.Action)
	}
	return r
}
