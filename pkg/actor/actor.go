package actor

import (
	"maps"
	"slices"
	"strings"
)

// MaxRage is the fixed ceiling of the rage counter.
const MaxRage = 10

// Resource is a depletable pool with a current value and a maximum.
type Resource struct {
	Value float64 `json:"value"`
	Max   float64 `json:"max"`
}

// Resources groups the pools tracked by the HUD. Nil pools are absent.
type Resources struct {
	HP   *Resource `json:"hp,omitempty"`
	MP   *Resource `json:"mp,omitempty"`
	Rage *Resource `json:"rage,omitempty"`
	Huti float64   `json:"huti,omitempty"` // shield points layered over HP
}

// CombatStats are the derived defensive and initiative totals.
type CombatStats struct {
	Block int `json:"block,omitempty"`
	Dodge int `json:"dodge,omitempty"`
	Kanpo int `json:"kanpo,omitempty"`
	Speed int `json:"speed,omitempty"`
}

// Martial holds the actor's active inner art and stance.
type Martial struct {
	ActiveNeigong string `json:"active_neigong,omitempty"`
	StanceActive  bool   `json:"stance_active,omitempty"`
	StanceItemID  string `json:"stance_item_id,omitempty"`
	Stance        string `json:"stance,omitempty"`
}

// Actor is the owner record behind one or more tokens.
type Actor struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Img        string         `json:"img,omitempty"`
	Owners     []string       `json:"owners,omitempty"` // user IDs with owner permission
	Resources  Resources      `json:"resources"`
	Stats      map[string]int `json:"stats,omitempty"`
	Skills     map[string]int `json:"skills,omitempty"`
	Arts       map[string]int `json:"arts,omitempty"`
	Combat     CombatStats    `json:"combat,omitempty"`
	Martial    Martial        `json:"martial,omitempty"`
	RealmLevel int            `json:"realm_level,omitempty"`
	Items      []Item         `json:"items,omitempty"`
	Acupoints  []string       `json:"acupoints,omitempty"` // opened acupoints that can hold a qizhen

	// PinnedMoves are shortcut references encoded as "<itemId>.<moveId>".
	PinnedMoves []string `json:"pinned_moves,omitempty"`
}

// IsOwner reports whether the user may modify the actor.
func (a *Actor) IsOwner(userID string, isGM bool) bool {
	if isGM {
		return true
	}
	return userID != "" && slices.Contains(a.Owners, userID)
}

// Item returns the owned item with the given ID.
func (a *Actor) Item(id string) (*Item, bool) {
	for i := range a.Items {
		if a.Items[i].ID == id {
			return &a.Items[i], true
		}
	}
	return nil, false
}

// ItemsOfType returns the owned items of the given type in inventory order.
func (a *Actor) ItemsOfType(itemType string) []*Item {
	var out []*Item
	for i := range a.Items {
		if a.Items[i].Type == itemType {
			out = append(out, &a.Items[i])
		}
	}
	return out
}

// TakeDamage reduces HP by n. HP cannot go below 0.
func (a *Actor) TakeDamage(n float64) {
	if n <= 0 || a.Resources.HP == nil {
		return
	}
	a.Resources.HP.Value -= n
	if a.Resources.HP.Value < 0 {
		a.Resources.HP.Value = 0
	}
}

// Heal increases HP by n. HP cannot exceed its maximum.
func (a *Actor) Heal(n float64) {
	if n <= 0 || a.Resources.HP == nil {
		return
	}
	a.Resources.HP.Value += n
	if a.Resources.HP.Value > a.Resources.HP.Max {
		a.Resources.HP.Value = a.Resources.HP.Max
	}
}

// SpendMP reduces MP by n, stopping at 0.
func (a *Actor) SpendMP(n float64) {
	if n <= 0 || a.Resources.MP == nil {
		return
	}
	a.Resources.MP.Value = max(0, a.Resources.MP.Value-n)
}

// RestoreMP increases MP by n, stopping at its maximum.
func (a *Actor) RestoreMP(n float64) {
	if n <= 0 || a.Resources.MP == nil {
		return
	}
	a.Resources.MP.Value = min(a.Resources.MP.Max, a.Resources.MP.Value+n)
}

// AddRage moves the rage counter by n (negative spends) within [0, MaxRage].
func (a *Actor) AddRage(n int) {
	if a.Resources.Rage == nil {
		a.Resources.Rage = &Resource{Max: MaxRage}
	}
	v := int(a.Resources.Rage.Value) + n
	a.Resources.Rage.Value = float64(min(MaxRage, max(0, v)))
}

// IsDefeated returns true if the actor's HP is 0 or less.
func (a *Actor) IsDefeated() bool {
	return a.Resources.HP != nil && a.Resources.HP.Value <= 0
}

// ParsePinned splits a pinned shortcut reference into item and move IDs.
func ParsePinned(ref string) (itemID, moveID string, ok bool) {
	itemID, moveID, ok = strings.Cut(ref, ".")
	if !ok || itemID == "" || moveID == "" {
		return "", "", false
	}
	return itemID, moveID, true
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	c := *a
	c.Resources.HP = a.Resources.HP.clone()
	c.Resources.MP = a.Resources.MP.clone()
	c.Resources.Rage = a.Resources.Rage.clone()
	c.Owners = slices.Clone(a.Owners)
	c.Stats = maps.Clone(a.Stats)
	c.Skills = maps.Clone(a.Skills)
	c.Arts = maps.Clone(a.Arts)
	c.PinnedMoves = slices.Clone(a.PinnedMoves)
	c.Acupoints = slices.Clone(a.Acupoints)
	if a.Items != nil {
		c.Items = make([]Item, len(a.Items))
		for i, item := range a.Items {
			item.Moves = slices.Clone(item.Moves)
			c.Items[i] = item
		}
	}
	return &c
}

func (r *Resource) clone() *Resource {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
