package hud

import "strings"

// EventKind names a host lifecycle event.
type EventKind string

const (
	EventEntityUpdated    EventKind = "entity.updated"
	EventOwnerUpdated     EventKind = "owner.updated"
	EventEntityCreated    EventKind = "entity.created"
	EventEntityRemoved    EventKind = "entity.removed"
	EventCombatantCreated EventKind = "combatant.created"
	EventCombatantRemoved EventKind = "combatant.removed"
	EventCombatUpdated    EventKind = "combat.updated"
	EventCombatEnded      EventKind = "combat.ended"
	EventItemUpdated      EventKind = "item.updated"
	EventSelection        EventKind = "selection.changed"
	EventSettingChanged   EventKind = "setting.changed"
	EventSceneReady       EventKind = "scene.ready"
)

// SettingOnlyCombatants is the key of the "only show combatants" setting.
const SettingOnlyCombatants = "onlyCombatants"

// Event is a host lifecycle notification. Changed lists the dotted paths of
// the fields an update touched.
type Event struct {
	ID          string    `json:"id,omitempty"`
	Kind        EventKind `json:"kind"`
	EntityID    string    `json:"entity_id,omitempty"`
	OwnerID     string    `json:"owner_id,omitempty"`
	ItemID      string    `json:"item_id,omitempty"`
	Changed     []string  `json:"changed,omitempty"`
	SelectedIDs []string  `json:"selected_ids,omitempty"`
	Key         string    `json:"key,omitempty"`
}

// tokenFields are the token fields that affect a card.
var tokenFields = map[string]struct{}{
	"hidden":      {},
	"texture":     {},
	"name":        {},
	"disposition": {},
	"actorData":   {},
}

const resourcesPath = "system.resources"

// TouchesToken reports whether an entity update changed a field the card shows.
func (ev Event) TouchesToken() bool {
	for _, path := range ev.Changed {
		top, _, _ := strings.Cut(path, ".")
		if _, ok := tokenFields[top]; ok {
			return true
		}
	}
	return false
}

// TouchesResources reports whether an owner update changed its resource pools.
func (ev Event) TouchesResources() bool {
	for _, path := range ev.Changed {
		if path == resourcesPath || strings.HasPrefix(path, resourcesPath+".") {
			return true
		}
	}
	return false
}
