package actor

// Item types known to the HUD.
const (
	ItemWeapon     = "weapon"
	ItemArmor      = "armor"
	ItemQizhen     = "qizhen"
	ItemConsumable = "consumable"
	ItemMisc       = "misc"
	ItemNeigong    = "neigong"
	ItemWuxue      = "wuxue"
)

// Cost is the resource price of using a move.
type Cost struct {
	MP   int `json:"mp,omitempty"`
	Rage int `json:"rage,omitempty"`
	HP   int `json:"hp,omitempty"`
}

// IsZero reports whether the move is free.
func (c Cost) IsZero() bool {
	return c.MP == 0 && c.Rage == 0 && c.HP == 0
}

// Move is a technique taught by a martial-art item.
type Move struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type,omitempty"`
	Level          int    `json:"level,omitempty"`
	Range          string `json:"range,omitempty"`
	Cost           Cost   `json:"cost,omitempty"`
	Damage         int    `json:"damage,omitempty"` // precomputed damage preview
	Description    string `json:"description,omitempty"`
	AutomationNote string `json:"automation_note,omitempty"`
}

// Item is anything an actor carries, equips or has learned.
type Item struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Img            string `json:"img,omitempty"`
	Type           string `json:"type"`
	Slot           string `json:"slot,omitempty"` // armor sub-type, e.g. "head"
	Quantity       int    `json:"quantity,omitempty"`
	Equipped       bool   `json:"equipped,omitempty"`
	Acupoint       string `json:"acupoint,omitempty"` // where an equipped qizhen sits
	Element        string `json:"element,omitempty"` // neigong element
	Description    string `json:"description,omitempty"`
	AutomationNote string `json:"automation_note,omitempty"`
	Moves          []Move `json:"moves,omitempty"`
}

// Move returns the move with the given ID.
func (i *Item) Move(id string) (*Move, bool) {
	for k := range i.Moves {
		if i.Moves[k].ID == id {
			return &i.Moves[k], true
		}
	}
	return nil, false
}

// IsEquipment reports whether the item is worn rather than used up.
func (i *Item) IsEquipment() bool {
	return i.Type != ItemConsumable && i.Type != ItemMisc
}
