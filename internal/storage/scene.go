package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jwebster45206/token-hud/pkg/scene"
)

// Scene template operations (filesystem-backed)

func (r *RedisStorage) scenesDir() string {
	return filepath.Join(r.dataDir, "scenes")
}

func (r *RedisStorage) ListSceneFiles(ctx context.Context) (map[string]string, error) {
	scenes := make(map[string]string)

	err := filepath.WalkDir(r.scenesDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if _, ferr := scene.FormatFor(path); ferr != nil {
			return nil
		}

		f, err := scene.ReadFile(path)
		if err != nil {
			r.logger.Warn("Failed to read scene file", "path", path, "error", err)
			return nil
		}

		rel, err := filepath.Rel(r.scenesDir(), path)
		if err != nil {
			rel = filepath.Base(path)
		}
		scenes[f.Name] = rel
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to walk scenes directory", "error", err)
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}

	return scenes, nil
}

func (r *RedisStorage) GetSceneFile(ctx context.Context, filename string) (*scene.File, error) {
	path := filepath.Join(r.scenesDir(), filepath.Clean("/" + filename))
	r.logger.Debug("Loading scene file", "filename", filename, "full_path", path)

	f, err := scene.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("scene file not found: %s", filename)
		}
		return nil, err
	}
	return f, nil
}
