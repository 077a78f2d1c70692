package storage

import (
	"context"
	"fmt"

	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/scene"
)

// Storage defines a unified interface for all storage operations.
// Live scene state and HUD settings are Redis-backed; scene templates are
// loaded from the filesystem.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Scene state operations (Redis-backed)
	SaveScene(ctx context.Context, f *scene.File) error
	// LoadScene returns nil, nil when the scene does not exist.
	LoadScene(ctx context.Context, id string) (*scene.File, error)
	DeleteScene(ctx context.Context, id string) error

	// HUD settings (Redis-backed). found is false when the setting was never written.
	GetOnlyCombatants(ctx context.Context, sceneID string) (value bool, found bool, err error)
	SetOnlyCombatants(ctx context.Context, sceneID string, value bool) error

	// Scene templates (filesystem-backed)
	ListSceneFiles(ctx context.Context) (map[string]string, error)
	GetSceneFile(ctx context.Context, filename string) (*scene.File, error)
}

// sceneSettings adapts Storage to hud.Settings for one scene.
type sceneSettings struct {
	store    Storage
	sceneID  string
	fallback bool
}

// SettingsFor returns the HUD settings of a scene. fallback is used when
// the setting has never been written.
func SettingsFor(s Storage, sceneID string, fallback bool) hud.Settings {
	return &sceneSettings{store: s, sceneID: sceneID, fallback: fallback}
}

func (s *sceneSettings) OnlyCombatants(ctx context.Context) (bool, error) {
	v, found, err := s.store.GetOnlyCombatants(ctx, s.sceneID)
	if err != nil {
		return s.fallback, err
	}
	if !found {
		return s.fallback, nil
	}
	return v, nil
}

// SceneSource returns a hud.WorldSource that reads the live scene from storage
// on every call.
func SceneSource(s Storage, sceneID string) hud.WorldSource {
	return func(ctx context.Context) (hud.World, error) {
		f, err := s.LoadScene(ctx, sceneID)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, fmt.Errorf("scene not found: %s", sceneID)
		}
		return scene.FromFile(f)
	}
}
