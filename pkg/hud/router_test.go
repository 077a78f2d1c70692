package hud

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/schedule"
)

type fakeWorld struct {
	tokens     []*actor.Token
	actors     map[string]*actor.Actor
	combatants map[string]bool
}

func (w *fakeWorld) Token(id string) (*actor.Token, bool) {
	for _, t := range w.tokens {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func (w *fakeWorld) Tokens() []*actor.Token { return w.tokens }

func (w *fakeWorld) Actor(id string) (*actor.Actor, bool) {
	a, ok := w.actors[id]
	return a, ok
}

func (w *fakeWorld) TokensForActor(actorID string) []*actor.Token {
	var out []*actor.Token
	for _, t := range w.tokens {
		if t.ActorID == actorID {
			out = append(out, t)
		}
	}
	return out
}

func (w *fakeWorld) InCombat(tokenID string) bool { return w.combatants[tokenID] }

type fakeSettings struct {
	only bool
	err  error
}

func (s *fakeSettings) OnlyCombatants(ctx context.Context) (bool, error) { return s.only, s.err }

type recordingListener struct {
	events []Event
}

func (l *recordingListener) Notify(ctx context.Context, ev Event) { l.events = append(l.events, ev) }

func newTestWorld() *fakeWorld {
	return &fakeWorld{
		tokens: []*actor.Token{
			{ID: "t-hero", Name: "Lin Yue", ActorID: "hero", Disposition: actor.DispositionFriendly},
			{ID: "t-hero2", Name: "Lin Yue (mirror)", ActorID: "hero", Disposition: actor.DispositionFriendly},
			{ID: "t-bandit", Name: "Bandit", ActorID: "bandit", Disposition: actor.DispositionHostile},
			{ID: "t-merchant", Name: "Merchant", ActorID: "merchant", Disposition: actor.DispositionNeutral},
		},
		actors: map[string]*actor.Actor{
			"hero": {ID: "hero", Resources: actor.Resources{
				HP: &actor.Resource{Value: 100, Max: 100},
				MP: &actor.Resource{Value: 40, Max: 40},
			}},
			"bandit": {ID: "bandit", Resources: actor.Resources{
				HP: &actor.Resource{Value: 30, Max: 30},
			}},
			"merchant": {ID: "merchant", Resources: actor.Resources{
				HP: &actor.Resource{Value: 10, Max: 10},
			}},
		},
		combatants: map[string]bool{},
	}
}

func newTestRouter(t *testing.T, world *fakeWorld, settings *fakeSettings) (*Router, *Engine, *MockSurface, *schedule.Manual) {
	t.Helper()
	e, surface, _, sched := newTestEngine(t)
	source := func(ctx context.Context) (World, error) { return world, nil }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(e, source, settings, Viewer{UserID: "player-1"}, logger), e, surface, sched
}

func TestRouterSceneReadyBuildsAllCards(t *testing.T) {
	world := newTestWorld()
	r, e, surface, _ := newTestRouter(t, world, &fakeSettings{})

	if err := r.Handle(context.Background(), Event{Kind: EventSceneReady}); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	ids := e.CardIDs()
	want := []string{"t-bandit", "t-hero", "t-hero2"}
	if len(ids) != len(want) {
		t.Fatalf("cards = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("cards[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
	if surface.Cards["t-bandit"] != ContainerEnemies {
		t.Errorf("bandit container = %q", surface.Cards["t-bandit"])
	}
}

func TestRouterIgnoresIrrelevantTokenChanges(t *testing.T) {
	world := newTestWorld()
	r, e, _, _ := newTestRouter(t, world, &fakeSettings{})
	ctx := context.Background()

	r.Handle(ctx, Event{Kind: EventEntityUpdated, EntityID: "t-hero", Changed: []string{"x", "y"}})
	if len(e.CardIDs()) != 0 {
		t.Fatal("movement created a card")
	}

	r.Handle(ctx, Event{Kind: EventEntityUpdated, EntityID: "t-hero", Changed: []string{"name"}})
	if _, ok := e.Registration("t-hero"); !ok {
		t.Error("name change did not reconcile the token")
	}
}

func TestRouterOwnerUpdateRefreshesEveryToken(t *testing.T) {
	world := newTestWorld()
	r, e, _, _ := newTestRouter(t, world, &fakeSettings{})
	ctx := context.Background()
	r.Handle(ctx, Event{Kind: EventSceneReady})

	world.actors["hero"].TakeDamage(30)
	r.Handle(ctx, Event{Kind: EventOwnerUpdated, OwnerID: "hero", Changed: []string{"system.resources.hp.value"}})

	for _, id := range []string{"t-hero", "t-hero2"} {
		if snap, _ := e.Snapshot(id); snap.Primary != 70 {
			t.Errorf("%s primary = %v, want 70", id, snap.Primary)
		}
	}

	world.actors["hero"].Heal(30)
	r.Handle(ctx, Event{Kind: EventOwnerUpdated, OwnerID: "hero", Changed: []string{"name"}})
	if snap, _ := e.Snapshot("t-hero"); snap.Primary != 70 {
		t.Error("non-resource owner update reconciled the token")
	}
}

func TestRouterOnlyCombatantsSetting(t *testing.T) {
	world := newTestWorld()
	settings := &fakeSettings{}
	r, e, _, sched := newTestRouter(t, world, settings)
	ctx := context.Background()
	r.Handle(ctx, Event{Kind: EventSceneReady})

	world.combatants["t-bandit"] = true
	settings.only = true
	r.Handle(ctx, Event{Kind: EventSettingChanged, Key: SettingOnlyCombatants})
	sched.Advance(DefaultRemovalDelay)

	if ids := e.CardIDs(); len(ids) != 1 || ids[0] != "t-bandit" {
		t.Errorf("cards = %v, want [t-bandit]", ids)
	}

	world.combatants["t-hero"] = true
	r.Handle(ctx, Event{Kind: EventCombatantCreated, EntityID: "t-hero"})
	if _, ok := e.Registration("t-hero"); !ok {
		t.Error("new combatant has no card")
	}
}

func TestRouterEntityRemoved(t *testing.T) {
	world := newTestWorld()
	r, e, _, sched := newTestRouter(t, world, &fakeSettings{})
	ctx := context.Background()
	r.Handle(ctx, Event{Kind: EventSceneReady})

	r.Handle(ctx, Event{Kind: EventEntityRemoved, EntityID: "t-bandit"})
	if reg, _ := e.Registration("t-bandit"); !reg.Exiting {
		t.Error("removed token card not exiting")
	}
	sched.Advance(DefaultRemovalDelay)
	if _, ok := e.Registration("t-bandit"); ok {
		t.Error("removed token card still registered")
	}
}

func TestRouterSettingErrorFallsBackToShowingAll(t *testing.T) {
	world := newTestWorld()
	r, e, _, _ := newTestRouter(t, world, &fakeSettings{only: true, err: errors.New("redis down")})
	r.Handle(context.Background(), Event{Kind: EventSceneReady})
	if n := len(e.CardIDs()); n != 3 {
		t.Errorf("cards = %d, want 3", n)
	}
}

func TestRouterNotifiesListeners(t *testing.T) {
	world := newTestWorld()
	r, _, _, _ := newTestRouter(t, world, &fakeSettings{})
	l := &recordingListener{}
	r.Subscribe(l)

	r.Handle(context.Background(), Event{Kind: EventSelection, SelectedIDs: []string{"t-hero"}})
	if len(l.events) != 1 || l.events[0].Kind != EventSelection {
		t.Errorf("listener events = %+v", l.events)
	}
}

func TestRouterSourceError(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	r := NewRouter(e, func(ctx context.Context) (World, error) {
		return nil, errors.New("no scene")
	}, nil, Viewer{}, nil)
	if err := r.Handle(context.Background(), Event{Kind: EventSceneReady}); err == nil {
		t.Error("expected error from failing scene source")
	}
}

func TestEventFilters(t *testing.T) {
	if !(Event{Changed: []string{"actorData.system.resources.hp"}}).TouchesToken() {
		t.Error("actorData change not relevant")
	}
	if (Event{Changed: []string{"rotation"}}).TouchesToken() {
		t.Error("rotation change relevant")
	}
	if !(Event{Changed: []string{"system.resources"}}).TouchesResources() {
		t.Error("resources change not relevant")
	}
	if (Event{Changed: []string{"system.resourcesExtra"}}).TouchesResources() {
		t.Error("prefix match on unrelated key")
	}
}
