// Package scene is an in-memory host world: the tokens on a scene, their
// owner records, combat membership and HUD settings. Every mutation returns
// the host event that describes it.
package scene

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/hud"
)

// Paths reported in event change lists.
const (
	PathHidden      = "hidden"
	PathName        = "name"
	PathTexture     = "texture"
	PathDisposition = "disposition"
	PathX           = "x"
	PathY           = "y"
	PathResources   = "system.resources"
	PathHP          = "system.resources.hp.value"
	PathMP          = "system.resources.mp.value"
	PathRage        = "system.resources.rage.value"
	PathHuti        = "system.resources.huti"
	PathStance      = "system.martial.stance"
)

// Scene holds the live state of one scene. It is safe for concurrent use;
// readers get copies.
type Scene struct {
	mu             sync.RWMutex
	id             string
	name           string
	order          []string
	tokens         map[string]*actor.Token
	actors         map[string]*actor.Actor
	combatants     map[string]bool
	round          int
	onlyCombatants bool
}

var (
	_ hud.World    = (*Scene)(nil)
	_ hud.Settings = (*Scene)(nil)
)

// New creates an empty scene.
func New(id, name string) *Scene {
	return &Scene{
		id:         id,
		name:       name,
		tokens:     make(map[string]*actor.Token),
		actors:     make(map[string]*actor.Actor),
		combatants: make(map[string]bool),
	}
}

// FromFile builds a scene from its serialised form.
func FromFile(f *File) (*Scene, error) {
	s := New(f.ID, f.Name)
	for i := range f.Actors {
		a := f.Actors[i]
		if a.ID == "" {
			return nil, fmt.Errorf("actor %d has no id", i)
		}
		s.actors[a.ID] = a.Clone()
	}
	for i := range f.Tokens {
		t := f.Tokens[i]
		if t.ID == "" {
			return nil, fmt.Errorf("token %d has no id", i)
		}
		if _, dup := s.tokens[t.ID]; dup {
			return nil, fmt.Errorf("duplicate token id %q", t.ID)
		}
		s.tokens[t.ID] = &t
		s.order = append(s.order, t.ID)
	}
	for _, id := range f.Combat.Combatants {
		s.combatants[id] = true
	}
	s.round = f.Combat.Round
	s.onlyCombatants = f.Settings.OnlyCombatants
	return s, nil
}

// File returns the serialisable form of the scene.
func (s *Scene) File() *File {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := &File{
		ID:       s.id,
		Name:     s.name,
		Settings: Settings{OnlyCombatants: s.onlyCombatants},
		Combat:   Combat{Round: s.round},
	}
	for _, id := range s.order {
		f.Tokens = append(f.Tokens, *s.tokens[id])
		if s.combatants[id] {
			f.Combat.Combatants = append(f.Combat.Combatants, id)
		}
	}
	for _, id := range s.actorIDs() {
		f.Actors = append(f.Actors, *s.actors[id].Clone())
	}
	return f
}

func (s *Scene) actorIDs() []string {
	ids := make([]string, 0, len(s.actors))
	for id := range s.actors {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ID returns the scene ID.
func (s *Scene) ID() string { return s.id }

// Name returns the scene name.
func (s *Scene) Name() string { return s.name }

func (s *Scene) Token(id string) (*actor.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[id]
	if !ok {
		return nil, false
	}
	c := *t
	return &c, true
}

// Tokens returns copies of all tokens in placement order.
func (s *Scene) Tokens() []*actor.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*actor.Token, 0, len(s.order))
	for _, id := range s.order {
		c := *s.tokens[id]
		out = append(out, &c)
	}
	return out
}

func (s *Scene) Actor(id string) (*actor.Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actors[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Actors returns copies of all owner records, sorted by ID.
func (s *Scene) Actors() []*actor.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*actor.Actor, 0, len(s.actors))
	for _, id := range s.actorIDs() {
		out = append(out, s.actors[id].Clone())
	}
	return out
}

func (s *Scene) TokensForActor(actorID string) []*actor.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*actor.Token
	for _, id := range s.order {
		if t := s.tokens[id]; t.ActorID == actorID {
			c := *t
			out = append(out, &c)
		}
	}
	return out
}

func (s *Scene) InCombat(tokenID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.combatants[tokenID]
}

// Combatants returns the tokens in combat, in placement order.
func (s *Scene) Combatants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, id := range s.order {
		if s.combatants[id] {
			out = append(out, id)
		}
	}
	return out
}

// Round returns the current combat round.
func (s *Scene) Round() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.round
}

// OnlyCombatants implements hud.Settings.
func (s *Scene) OnlyCombatants(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onlyCombatants, nil
}

// Source returns a hud.WorldSource that always yields this scene.
func (s *Scene) Source() hud.WorldSource {
	return func(ctx context.Context) (hud.World, error) { return s, nil }
}

func newEvent(kind hud.EventKind) hud.Event {
	return hud.Event{ID: uuid.NewString(), Kind: kind}
}
