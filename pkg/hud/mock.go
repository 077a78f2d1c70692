package hud

import (
	"context"
	"fmt"
	"sync"
)

// SurfaceCall records one call made on a MockSurface.
type SurfaceCall struct {
	Op        string
	ID        string
	Container Container
	Markup    string
	Active    bool
	Patch     Patch
	Bar       Bar
	Effect    Effect
}

// MockSurface is an in-memory Surface for tests. It keeps the cards it holds
// and every call made on it.
type MockSurface struct {
	mu        sync.Mutex
	Calls     []SurfaceCall
	Cards     map[string]Container
	Active    map[string]bool
	Effects   map[string]Effect
	InsertErr error
}

var _ Surface = (*MockSurface)(nil)

// NewMockSurface creates an empty mock surface.
func NewMockSurface() *MockSurface {
	return &MockSurface{
		Cards:   make(map[string]Container),
		Active:  make(map[string]bool),
		Effects: make(map[string]Effect),
	}
}

func (m *MockSurface) record(c SurfaceCall) {
	m.Calls = append(m.Calls, c)
}

func (m *MockSurface) Insert(container Container, id string, markup string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(SurfaceCall{Op: "insert", ID: id, Container: container, Markup: markup})
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Cards[id] = container
	return nil
}

func (m *MockSurface) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(SurfaceCall{Op: "remove", ID: id})
	delete(m.Cards, id)
	delete(m.Active, id)
	delete(m.Effects, id)
}

func (m *MockSurface) SetActive(id string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(SurfaceCall{Op: "active", ID: id, Active: active})
	m.Active[id] = active
}

func (m *MockSurface) Apply(id string, p Patch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(SurfaceCall{Op: "apply", ID: id, Patch: p})
}

func (m *MockSurface) RestoreTransition(id string, bar Bar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(SurfaceCall{Op: "restore", ID: id, Bar: bar})
}

func (m *MockSurface) PlayEffect(id string, e Effect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(SurfaceCall{Op: "effect", ID: id, Effect: e})
	m.Effects[id] = e
}

func (m *MockSurface) ClearEffect(id string, e Effect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(SurfaceCall{Op: "clear", ID: id, Effect: e})
	if m.Effects[id] == e {
		delete(m.Effects, id)
	}
}

// CallsFor returns the calls with the given op, in order.
func (m *MockSurface) CallsFor(op string) []SurfaceCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SurfaceCall
	for _, c := range m.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// LastPatch returns the most recent patch applied to id.
func (m *MockSurface) LastPatch(id string) (Patch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Calls) - 1; i >= 0; i-- {
		if m.Calls[i].Op == "apply" && m.Calls[i].ID == id {
			return m.Calls[i].Patch, true
		}
	}
	return Patch{}, false
}

// Has reports whether a card node exists for id.
func (m *MockSurface) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Cards[id]
	return ok
}

// MockRenderer renders card payloads to a fixed string and records them.
// RenderFunc, when set, replaces the default behaviour.
type MockRenderer struct {
	mu         sync.Mutex
	RenderFunc func(ctx context.Context, template string, data any) (string, error)
	Rendered   []any
}

var _ Renderer = (*MockRenderer)(nil)

func (m *MockRenderer) Render(ctx context.Context, template string, data any) (string, error) {
	m.mu.Lock()
	m.Rendered = append(m.Rendered, data)
	fn := m.RenderFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, template, data)
	}
	if template != CardTemplate {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, template)
	}
	card, _ := data.(CardData)
	return fmt.Sprintf(`<div class="hud-card" data-token-id="%s"></div>`, card.ID), nil
}

// LastCard returns the most recent card payload rendered.
func (m *MockRenderer) LastCard() (CardData, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Rendered) - 1; i >= 0; i-- {
		if c, ok := m.Rendered[i].(CardData); ok {
			return c, true
		}
	}
	return CardData{}, false
}
