package scene

import (
	"fmt"
	"slices"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/hud"
)

// UpdateToken applies fn to a token and reports the listed paths as changed.
func (s *Scene) UpdateToken(id string, fn func(*actor.Token), changed ...string) (hud.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[id]
	if !ok {
		return hud.Event{}, fmt.Errorf("token %q not found", id)
	}
	fn(t)
	t.ID = id

	ev := newEvent(hud.EventEntityUpdated)
	ev.EntityID = id
	ev.OwnerID = t.ActorID
	ev.Changed = changed
	return ev, nil
}

// MoveToken changes a token's position.
func (s *Scene) MoveToken(id string, x, y int) (hud.Event, error) {
	return s.UpdateToken(id, func(t *actor.Token) { t.MoveTo(x, y) }, PathX, PathY)
}

// SetHidden hides or reveals a token.
func (s *Scene) SetHidden(id string, hidden bool) (hud.Event, error) {
	return s.UpdateToken(id, func(t *actor.Token) { t.Hidden = hidden }, PathHidden)
}

// SetDisposition changes a token's faction stance.
func (s *Scene) SetDisposition(id string, d actor.Disposition) (hud.Event, error) {
	return s.UpdateToken(id, func(t *actor.Token) { t.Disposition = d }, PathDisposition)
}

// UpdateActor applies fn to an owner record and reports the listed paths as changed.
func (s *Scene) UpdateActor(id string, fn func(*actor.Actor), changed ...string) (hud.Event, error) {
	return s.tryUpdateActor(id, func(a *actor.Actor) ([]string, error) {
		fn(a)
		return changed, nil
	})
}

// tryUpdateActor applies fn to an owner record. fn reports the changed paths;
// when it fails, no event is produced and fn must have left a untouched.
func (s *Scene) tryUpdateActor(id string, fn func(*actor.Actor) ([]string, error)) (hud.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actors[id]
	if !ok {
		return hud.Event{}, fmt.Errorf("actor %q not found", id)
	}
	changed, err := fn(a)
	if err != nil {
		return hud.Event{}, err
	}
	a.ID = id

	ev := newEvent(hud.EventOwnerUpdated)
	ev.OwnerID = id
	ev.Changed = changed
	return ev, nil
}

// Damage removes HP from an owner record.
func (s *Scene) Damage(actorID string, n float64) (hud.Event, error) {
	return s.UpdateActor(actorID, func(a *actor.Actor) { a.TakeDamage(n) }, PathHP)
}

// Heal restores HP to an owner record.
func (s *Scene) Heal(actorID string, n float64) (hud.Event, error) {
	return s.UpdateActor(actorID, func(a *actor.Actor) { a.Heal(n) }, PathHP)
}

// SpendMP removes MP from an owner record.
func (s *Scene) SpendMP(actorID string, n float64) (hud.Event, error) {
	return s.UpdateActor(actorID, func(a *actor.Actor) { a.SpendMP(n) }, PathMP)
}

// RestoreMP restores MP to an owner record.
func (s *Scene) RestoreMP(actorID string, n float64) (hud.Event, error) {
	return s.UpdateActor(actorID, func(a *actor.Actor) { a.RestoreMP(n) }, PathMP)
}

// AddRage moves the rage counter of an owner record.
func (s *Scene) AddRage(actorID string, n int) (hud.Event, error) {
	return s.UpdateActor(actorID, func(a *actor.Actor) { a.AddRage(n) }, PathRage)
}

// UpdateItem applies fn to an item owned by an actor.
func (s *Scene) UpdateItem(actorID, itemID string, fn func(*actor.Item)) (hud.Event, error) {
	return s.tryUpdateItem(actorID, itemID, func(a *actor.Actor) error {
		item, ok := a.Item(itemID)
		if !ok {
			return fmt.Errorf("item %q not found on actor %q", itemID, actorID)
		}
		fn(item)
		item.ID = itemID
		return nil
	})
}

// tryUpdateItem runs an item action on an owner record and reports it as an
// update of itemID.
func (s *Scene) tryUpdateItem(actorID, itemID string, fn func(*actor.Actor) error) (hud.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actors[actorID]
	if !ok {
		return hud.Event{}, fmt.Errorf("actor %q not found", actorID)
	}
	if err := fn(a); err != nil {
		return hud.Event{}, err
	}

	ev := newEvent(hud.EventItemUpdated)
	ev.OwnerID = actorID
	ev.ItemID = itemID
	return ev, nil
}

// ToggleEquip equips or unequips an item. An unequipped qizhen needs one of
// the actor's free acupoints.
func (s *Scene) ToggleEquip(actorID, itemID, acupoint string) (hud.Event, error) {
	return s.tryUpdateItem(actorID, itemID, func(a *actor.Actor) error {
		_, err := a.ToggleEquip(itemID, acupoint)
		return err
	})
}

// UseItem consumes one unit of a consumable.
func (s *Scene) UseItem(actorID, itemID string) (hud.Event, error) {
	return s.tryUpdateItem(actorID, itemID, func(a *actor.Actor) error {
		return a.UseItem(itemID)
	})
}

// SetItemQuantity overwrites an item's quantity.
func (s *Scene) SetItemQuantity(actorID, itemID string, n int) (hud.Event, error) {
	return s.tryUpdateItem(actorID, itemID, func(a *actor.Actor) error {
		return a.SetQuantity(itemID, n)
	})
}

// UseMove pays for a move. The event lists the resources that were spent.
func (s *Scene) UseMove(actorID, itemID, moveID string) (hud.Event, error) {
	return s.tryUpdateActor(actorID, func(a *actor.Actor) ([]string, error) {
		move, err := a.UseMove(itemID, moveID)
		if err != nil {
			return nil, err
		}
		var changed []string
		if move.Cost.MP > 0 {
			changed = append(changed, PathMP)
		}
		if move.Cost.Rage > 0 {
			changed = append(changed, PathRage)
		}
		if move.Cost.HP > 0 {
			changed = append(changed, PathHP)
		}
		if move.Type == actor.MoveStance {
			changed = append(changed, PathStance)
		}
		return changed, nil
	})
}

// SetStance enters a stance move.
func (s *Scene) SetStance(actorID, itemID, moveID string) (hud.Event, error) {
	return s.tryUpdateActor(actorID, func(a *actor.Actor) ([]string, error) {
		if err := a.SetStance(itemID, moveID); err != nil {
			return nil, err
		}
		return []string{PathStance}, nil
	})
}

// StopStance leaves the actor's stance.
func (s *Scene) StopStance(actorID string) (hud.Event, error) {
	return s.UpdateActor(actorID, func(a *actor.Actor) { a.StopStance() }, PathStance)
}

// AddActor adds or replaces an owner record. Owner records are not visible
// on their own, so no event is produced.
func (s *Scene) AddActor(a *actor.Actor) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("actor has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[a.ID] = a.Clone()
	return nil
}

// AddToken places a new token.
func (s *Scene) AddToken(t actor.Token) (hud.Event, error) {
	if t.ID == "" {
		return hud.Event{}, fmt.Errorf("token has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[t.ID]; ok {
		return hud.Event{}, fmt.Errorf("token %q already exists", t.ID)
	}
	s.tokens[t.ID] = &t
	s.order = append(s.order, t.ID)

	ev := newEvent(hud.EventEntityCreated)
	ev.EntityID = t.ID
	ev.OwnerID = t.ActorID
	return ev, nil
}

// RemoveToken deletes a token and its combat membership.
func (s *Scene) RemoveToken(id string) (hud.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[id]
	if !ok {
		return hud.Event{}, fmt.Errorf("token %q not found", id)
	}
	delete(s.tokens, id)
	delete(s.combatants, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })

	ev := newEvent(hud.EventEntityRemoved)
	ev.EntityID = id
	ev.OwnerID = t.ActorID
	return ev, nil
}

// AddCombatant puts a token into combat.
func (s *Scene) AddCombatant(tokenID string) (hud.Event, error) {
	return s.setCombatant(tokenID, true, hud.EventCombatantCreated)
}

// RemoveCombatant takes a token out of combat.
func (s *Scene) RemoveCombatant(tokenID string) (hud.Event, error) {
	return s.setCombatant(tokenID, false, hud.EventCombatantRemoved)
}

func (s *Scene) setCombatant(tokenID string, in bool, kind hud.EventKind) (hud.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[tokenID]; !ok {
		return hud.Event{}, fmt.Errorf("token %q not found", tokenID)
	}
	if in {
		s.combatants[tokenID] = true
		if s.round == 0 {
			s.round = 1
		}
	} else {
		delete(s.combatants, tokenID)
	}

	ev := newEvent(kind)
	ev.EntityID = tokenID
	return ev, nil
}

// NextRound advances the combat round.
func (s *Scene) NextRound() hud.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.round++
	return newEvent(hud.EventCombatUpdated)
}

// EndCombat clears combat membership.
func (s *Scene) EndCombat() hud.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.combatants)
	s.round = 0
	return newEvent(hud.EventCombatEnded)
}

// SetOnlyCombatants changes the "only show combatants" setting.
func (s *Scene) SetOnlyCombatants(only bool) hud.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onlyCombatants = only
	ev := newEvent(hud.EventSettingChanged)
	ev.Key = hud.SettingOnlyCombatants
	return ev
}

// Select reports a viewer's controlled tokens. Selection belongs to the
// viewer, not the scene, so no state changes.
func (s *Scene) Select(ids ...string) hud.Event {
	ev := newEvent(hud.EventSelection)
	ev.SelectedIDs = slices.Clone(ids)
	return ev
}

// Ready is the event announcing that the scene was (re)built.
func (s *Scene) Ready() hud.Event {
	return newEvent(hud.EventSceneReady)
}
