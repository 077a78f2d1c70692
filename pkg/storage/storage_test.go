package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/scene"
)

func testFile() *scene.File {
	return &scene.File{
		ID:   "grove",
		Name: "Bamboo Grove",
		Actors: []actor.Actor{
			{ID: "lin", Resources: actor.Resources{HP: &actor.Resource{Value: 10, Max: 10}}},
		},
		Tokens: []actor.Token{{ID: "t-lin", ActorID: "lin", Disposition: actor.DispositionFriendly}},
	}
}

func TestSettingsFor(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()

	settings := SettingsFor(store, "grove", true)
	only, err := settings.OnlyCombatants(ctx)
	if err != nil || !only {
		t.Fatalf("unset setting = (%v, %v), want fallback true", only, err)
	}

	if err := store.SetOnlyCombatants(ctx, "grove", false); err != nil {
		t.Fatal(err)
	}
	only, err = settings.OnlyCombatants(ctx)
	if err != nil || only {
		t.Errorf("stored setting = (%v, %v), want false", only, err)
	}
}

func TestSceneSource(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()
	source := SceneSource(store, "grove")

	if _, err := source(ctx); err == nil {
		t.Fatal("expected error for missing scene")
	}

	if err := store.SaveScene(ctx, testFile()); err != nil {
		t.Fatal(err)
	}
	world, err := source(ctx)
	if err != nil {
		t.Fatalf("source error: %v", err)
	}
	if _, ok := world.Token("t-lin"); !ok {
		t.Error("token missing from loaded world")
	}
	if got := world.TokensForActor("lin"); len(got) != 1 {
		t.Errorf("TokensForActor = %d tokens, want 1", len(got))
	}
}

func TestMockStorage_Ping(t *testing.T) {
	store := NewMockStorage()
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
	boom := errors.New("down")
	store.SetPingError(boom)
	if err := store.Ping(context.Background()); !errors.Is(err, boom) {
		t.Errorf("ping error = %v, want %v", err, boom)
	}
}
