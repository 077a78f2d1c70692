package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/scene"
)

func setupTestStorage(t *testing.T, dataDir string) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewRedisStorage("redis://"+mr.Addr(), dataDir, logger)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStorage_SceneRoundTrip(t *testing.T) {
	store, mr := setupTestStorage(t, t.TempDir())
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	f := &scene.File{
		ID:   "grove",
		Name: "Bamboo Grove",
		Actors: []actor.Actor{
			{ID: "lin", Resources: actor.Resources{HP: &actor.Resource{Value: 7, Max: 10}}},
		},
		Tokens: []actor.Token{{ID: "t-lin", ActorID: "lin", Disposition: actor.DispositionFriendly}},
	}
	if err := store.SaveScene(ctx, f); err != nil {
		t.Fatalf("SaveScene failed: %v", err)
	}
	if !mr.Exists("scene:grove") {
		t.Fatal("expected scene:grove key in redis")
	}

	loaded, err := store.LoadScene(ctx, "grove")
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if loaded == nil || len(loaded.Tokens) != 1 || loaded.Actors[0].Resources.HP.Value != 7 {
		t.Errorf("loaded scene = %+v", loaded)
	}

	if err := store.DeleteScene(ctx, "grove"); err != nil {
		t.Fatalf("DeleteScene failed: %v", err)
	}
	loaded, err = store.LoadScene(ctx, "grove")
	if err != nil || loaded != nil {
		t.Errorf("LoadScene after delete = (%v, %v), want nil, nil", loaded, err)
	}
}

func TestRedisStorage_SaveSceneRequiresID(t *testing.T) {
	store, _ := setupTestStorage(t, t.TempDir())
	if err := store.SaveScene(context.Background(), &scene.File{}); err == nil {
		t.Error("expected error for scene without id")
	}
}

func TestRedisStorage_Settings(t *testing.T) {
	store, mr := setupTestStorage(t, t.TempDir())
	ctx := context.Background()

	_, found, err := store.GetOnlyCombatants(ctx, "grove")
	if err != nil || found {
		t.Fatalf("unset setting = (found %v, %v)", found, err)
	}

	if err := store.SetOnlyCombatants(ctx, "grove", true); err != nil {
		t.Fatalf("SetOnlyCombatants failed: %v", err)
	}
	if got := mr.HGet("hud-settings:grove", "onlyCombatants"); got != "true" {
		t.Errorf("stored value = %q, want true", got)
	}
	v, found, err := store.GetOnlyCombatants(ctx, "grove")
	if err != nil || !found || !v {
		t.Errorf("GetOnlyCombatants = (%v, %v, %v), want true", v, found, err)
	}

	mr.HSet("hud-settings:grove", "onlyCombatants", "sometimes")
	if _, _, err := store.GetOnlyCombatants(ctx, "grove"); err == nil {
		t.Error("expected error for malformed setting")
	}
}

func TestRedisStorage_SceneFiles(t *testing.T) {
	dataDir := t.TempDir()
	scenesDir := filepath.Join(dataDir, "scenes")
	if err := os.MkdirAll(scenesDir, 0o755); err != nil {
		t.Fatal(err)
	}

	s := scene.New("grove", "Bamboo Grove")
	if err := s.Save(filepath.Join(scenesDir, "grove.yaml")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scenesDir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scenesDir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, _ := setupTestStorage(t, dataDir)
	ctx := context.Background()

	files, err := store.ListSceneFiles(ctx)
	if err != nil {
		t.Fatalf("ListSceneFiles failed: %v", err)
	}
	if len(files) != 1 || files["Bamboo Grove"] != "grove.yaml" {
		t.Errorf("ListSceneFiles = %v", files)
	}

	f, err := store.GetSceneFile(ctx, "grove.yaml")
	if err != nil {
		t.Fatalf("GetSceneFile failed: %v", err)
	}
	if f.ID != "grove" {
		t.Errorf("scene id = %q, want grove", f.ID)
	}

	if _, err := store.GetSceneFile(ctx, "missing.json"); err == nil {
		t.Error("expected error for missing scene file")
	}
}

func TestRedisStorage_ListSceneFilesWithoutDirectory(t *testing.T) {
	store, _ := setupTestStorage(t, t.TempDir())
	files, err := store.ListSceneFiles(context.Background())
	if err != nil {
		t.Fatalf("ListSceneFiles failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("ListSceneFiles = %v, want empty", files)
	}
}
