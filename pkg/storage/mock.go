package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jwebster45206/token-hud/pkg/scene"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu         sync.RWMutex
	scenes     map[string]*scene.File
	settings   map[string]bool
	sceneFiles map[string]*scene.File
	pingError  error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		scenes:     make(map[string]*scene.File),
		settings:   make(map[string]bool),
		sceneFiles: make(map[string]*scene.File),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveScene(ctx context.Context, f *scene.File) error {
	if f == nil {
		return errors.New("scene cannot be nil")
	}
	if f.ID == "" {
		return errors.New("scene id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenes[f.ID] = f
	return nil
}

func (m *MockStorage) LoadScene(ctx context.Context, id string) (*scene.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scenes[id], nil
}

func (m *MockStorage) DeleteScene(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scenes, id)
	return nil
}

func (m *MockStorage) GetOnlyCombatants(ctx context.Context, sceneID string) (bool, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.settings[sceneID]
	return v, ok, nil
}

func (m *MockStorage) SetOnlyCombatants(ctx context.Context, sceneID string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[sceneID] = value
	return nil
}

// AddSceneFile adds a scene template to the mock
func (m *MockStorage) AddSceneFile(filename string, f *scene.File) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sceneFiles[filename] = f
}

func (m *MockStorage) ListSceneFiles(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.sceneFiles))
	for filename, f := range m.sceneFiles {
		out[f.Name] = filename
	}
	return out, nil
}

func (m *MockStorage) GetSceneFile(ctx context.Context, filename string) (*scene.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.sceneFiles[filename]
	if !ok {
		return nil, fmt.Errorf("scene file not found: %s", filename)
	}
	return f, nil
}
