package panel

import (
	"slices"
	"strconv"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/hud"
)

// PlayerTemplate is the template name of the focal panel.
const PlayerTemplate = "hud-player"

// ElementNone is the neigong element reported when no inner art is active.
const ElementNone = "none"

// Pool is a resource pool as the panel shows it.
type Pool struct {
	Value   float64 `json:"value"`
	Max     float64 `json:"max"`
	Percent float64 `json:"percent"`
}

// Shortcut is a pinned move.
type Shortcut struct {
	Ref      string     `json:"ref"`
	ItemID   string     `json:"item_id"`
	MoveID   string     `json:"move_id"`
	ItemName string     `json:"item_name"`
	MoveName string     `json:"move_name"`
	Img      string     `json:"img,omitempty"`
	Cost     actor.Cost `json:"cost"`
	Tooltip  string     `json:"tooltip"`
}

// Entry is an item in the consumable or equipment lists.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Img      string `json:"img,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Equipped bool   `json:"equipped,omitempty"`
	Acupoint string `json:"acupoint,omitempty"`
	Tooltip  string `json:"tooltip"`
}

// EquipmentGroup is the equipment of one slot.
type EquipmentGroup struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Items     []Entry `json:"items"`
	Collapsed bool    `json:"collapsed"`
}

// Value is a labelled number.
type Value struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// SkillGroup is an attribute and the skills under it.
type SkillGroup struct {
	Value
	Skills []Value `json:"skills"`
}

// Stance is the active stance move.
type Stance struct {
	Name    string `json:"name"`
	ItemID  string `json:"item_id"`
	Tooltip string `json:"tooltip"`
}

// Data is the full payload of the focal panel template.
type Data struct {
	TokenID string `json:"token_id"`
	ActorID string `json:"actor_id"`
	Name    string `json:"name"`
	Img     string `json:"img,omitempty"`

	HP          Pool             `json:"hp"`
	MP          Pool             `json:"mp"`
	Rage        hud.CounterView  `json:"rage"`
	Huti        float64          `json:"huti"`
	HutiPercent float64          `json:"huti_percent"`
	Stats       []Value          `json:"stats"`
	Shortcuts   []Shortcut       `json:"shortcuts"`
	Consumables []Entry          `json:"consumables"`
	Equipment   []EquipmentGroup `json:"equipment"`
	Skills      []SkillGroup     `json:"skills"`
	Arts        []Value          `json:"arts"`

	Element   string  `json:"element"`
	Stance    *Stance `json:"stance,omitempty"`
	Realm     int     `json:"realm"`
	RealmName string  `json:"realm_name"`

	Collapsed bool `json:"collapsed"`
}

// equipmentSlots is the display order of equipment groups.
var equipmentSlots = []string{
	"weapon", "head", "top", "bottom", "shoes",
	"necklace", "ring", "earring", "accessory", "qizhen", "other",
}

// skillGroups lists the skills governed by each attribute, in display order.
var skillGroups = []struct {
	stat   string
	skills []string
}{
	{"wuxing", []string{"wuxue", "jianding", "bagua", "shili"}},
	{"liliang", []string{"jiaoli", "zhengtuo", "paozhi", "qinbao"}},
	{"shenfa", []string{"qianxing", "qiaoshou", "qinggong", "mashu"}},
	{"tipo", []string{"renxing", "biqi", "rennai", "ningxue"}},
	{"neixi", []string{"liaoshang", "chongxue", "lianxi", "duqi"}},
	{"qigan", []string{"dianxue", "zhuizong", "tancha", "dongcha"}},
	{"shencai", []string{"jiaoyi", "qiman", "shuofu", "dingli"}},
}

// Build assembles the panel payload for a token and its owner record.
func Build(tok *actor.Token, a *actor.Actor, labels Localizer) Data {
	if labels == nil {
		labels = Labels{}
	}

	res := a.Resources
	hp := poolOf(res.HP)
	rage := 0
	if res.Rage != nil {
		rage = hud.ClampCounter(int(res.Rage.Value))
	}
	overload, intensity := hud.Overload(rage)
	dots := make([]bool, actor.MaxRage)
	for i := range dots {
		dots[i] = i < rage
	}

	d := Data{
		TokenID:     tok.ID,
		ActorID:     a.ID,
		Name:        a.Name,
		Img:         a.Img,
		HP:          hp,
		MP:          poolOf(res.MP),
		Rage:        hud.CounterView{Value: rage, Dots: dots, Overload: overload, Intensity: intensity},
		Huti:        res.Huti,
		HutiPercent: min(100, hud.Percent(res.Huti, hp.Max)),
		Stats: []Value{
			{Key: "block", Label: labels.Localize("Combat.Block"), Value: a.Combat.Block},
			{Key: "dodge", Label: labels.Localize("Combat.Dodge"), Value: a.Combat.Dodge},
			{Key: "kanpo", Label: labels.Localize("Combat.Kanpo"), Value: a.Combat.Kanpo},
			{Key: "speed", Label: labels.Localize("Combat.Speed"), Value: a.Combat.Speed},
		},
		Shortcuts:   shortcuts(a, labels),
		Consumables: consumables(a),
		Equipment:   equipment(a, labels),
		Skills:      skills(a, labels),
		Arts:        arts(a, labels),
		Element:     ElementNone,
		Realm:       a.RealmLevel,
		RealmName:   labels.Localize("Realm." + strconv.Itoa(a.RealmLevel)),
	}
	if d.Name == "" {
		d.Name = tok.Name
	}

	if ng, ok := a.Item(a.Martial.ActiveNeigong); ok && ng.Element != "" {
		d.Element = ng.Element
	}
	if a.Martial.StanceActive && a.Martial.StanceItemID != "" {
		if item, ok := a.Item(a.Martial.StanceItemID); ok {
			if move, ok := item.Move(a.Martial.Stance); ok {
				d.Stance = &Stance{Name: move.Name, ItemID: item.ID, Tooltip: MoveTooltip(item, move, labels)}
			}
		}
	}
	return d
}

// poolOf reads a resource for display. A missing pool shows as 0/1.
func poolOf(r *actor.Resource) Pool {
	if r == nil {
		return Pool{Max: 1}
	}
	return Pool{Value: r.Value, Max: r.Max, Percent: hud.Percent(r.Value, r.Max)}
}

// shortcuts resolves pinned references, skipping malformed or dangling ones.
func shortcuts(a *actor.Actor, labels Localizer) []Shortcut {
	var out []Shortcut
	for _, ref := range a.PinnedMoves {
		itemID, moveID, ok := actor.ParsePinned(ref)
		if !ok {
			continue
		}
		item, ok := a.Item(itemID)
		if !ok {
			continue
		}
		move, ok := item.Move(moveID)
		if !ok {
			continue
		}
		out = append(out, Shortcut{
			Ref:      ref,
			ItemID:   item.ID,
			MoveID:   move.ID,
			ItemName: item.Name,
			MoveName: move.Name,
			Img:      item.Img,
			Cost:     move.Cost,
			Tooltip:  MoveTooltip(item, move, labels),
		})
	}
	return out
}

func entryOf(item *actor.Item) Entry {
	return Entry{
		ID:       item.ID,
		Name:     item.Name,
		Img:      item.Img,
		Quantity: item.Quantity,
		Equipped: item.Equipped,
		Acupoint: item.Acupoint,
		Tooltip:  ItemTooltip(item),
	}
}

func consumables(a *actor.Actor) []Entry {
	var out []Entry
	for _, item := range a.ItemsOfType(actor.ItemConsumable) {
		out = append(out, entryOf(item))
	}
	return out
}

// slotOf returns the equipment group key of an item.
func slotOf(item *actor.Item) string {
	switch item.Type {
	case actor.ItemWeapon:
		return "weapon"
	case actor.ItemQizhen:
		return "qizhen"
	case actor.ItemArmor:
		if slices.Contains(equipmentSlots, item.Slot) && item.Slot != "weapon" && item.Slot != "qizhen" {
			return item.Slot
		}
	}
	return "other"
}

// equipment groups weapons, armor and qizhen by slot. Empty groups are dropped.
func equipment(a *actor.Actor, labels Localizer) []EquipmentGroup {
	bySlot := make(map[string][]Entry)
	for i := range a.Items {
		item := &a.Items[i]
		switch item.Type {
		case actor.ItemWeapon, actor.ItemArmor, actor.ItemQizhen:
		default:
			continue
		}
		slot := slotOf(item)
		bySlot[slot] = append(bySlot[slot], entryOf(item))
	}

	var out []EquipmentGroup
	for _, slot := range equipmentSlots {
		items := bySlot[slot]
		if len(items) == 0 {
			continue
		}
		out = append(out, EquipmentGroup{
			Key:   slot,
			Label: labels.Localize(labelKey("Equipment", slot)),
			Items: items,
		})
	}
	return out
}

func skills(a *actor.Actor, labels Localizer) []SkillGroup {
	out := make([]SkillGroup, 0, len(skillGroups))
	for _, g := range skillGroups {
		group := SkillGroup{
			Value: Value{Key: g.stat, Label: labels.Localize(labelKey("Stats", g.stat)), Value: a.Stats[g.stat]},
		}
		for _, key := range g.skills {
			group.Skills = append(group.Skills, Value{
				Key:   key,
				Label: labels.Localize(labelKey("Skills", key)),
				Value: a.Skills[key],
			})
		}
		out = append(out, group)
	}
	return out
}

// arts lists the learned arts (total above zero), sorted by key.
func arts(a *actor.Actor, labels Localizer) []Value {
	keys := make([]string, 0, len(a.Arts))
	for k, v := range a.Arts {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	out := make([]Value, 0, len(keys))
	for _, k := range keys {
		out = append(out, Value{Key: k, Label: labels.Localize(labelKey("Arts", k)), Value: a.Arts[k]})
	}
	return out
}
