package actor

import (
	"errors"
	"fmt"
	"slices"
)

// MoveStance is the move type that puts the actor into a stance.
const MoveStance = "stance"

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrMoveNotFound        = errors.New("move not found")
	ErrNotEquipment        = errors.New("item cannot be equipped")
	ErrNotConsumable       = errors.New("item cannot be used")
	ErrOutOfStock          = errors.New("no uses left")
	ErrInvalidQuantity     = errors.New("quantity must not be negative")
	ErrAcupointRequired    = errors.New("qizhen needs an acupoint")
	ErrAcupointUnavailable = errors.New("acupoint is not open or already holds a qizhen")
	ErrNotStance           = errors.New("move is not a stance")
	ErrInsufficient        = errors.New("not enough resources")
)

// AvailableAcupoints returns the opened acupoints that hold no equipped
// qizhen, in the order they were opened.
func (a *Actor) AvailableAcupoints() []string {
	var out []string
	for _, point := range a.Acupoints {
		taken := slices.ContainsFunc(a.Items, func(i Item) bool {
			return i.Type == ItemQizhen && i.Equipped && i.Acupoint == point
		})
		if !taken {
			out = append(out, point)
		}
	}
	return out
}

// ToggleEquip takes an equipped item off, or puts an unequipped one on.
// A qizhen goes into acupoint, which must be open and free; other items
// ignore it. It returns whether the item is now equipped.
func (a *Actor) ToggleEquip(itemID, acupoint string) (bool, error) {
	item, ok := a.Item(itemID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if !item.IsEquipment() || item.Type == ItemNeigong || item.Type == ItemWuxue {
		return false, fmt.Errorf("%w: %s", ErrNotEquipment, item.Name)
	}

	if item.Equipped {
		item.Equipped = false
		item.Acupoint = ""
		return false, nil
	}

	if item.Type == ItemQizhen {
		if acupoint == "" {
			return false, ErrAcupointRequired
		}
		if !slices.Contains(a.AvailableAcupoints(), acupoint) {
			return false, fmt.Errorf("%w: %s", ErrAcupointUnavailable, acupoint)
		}
		item.Acupoint = acupoint
	}
	item.Equipped = true
	return true, nil
}

// UseItem consumes one unit of a consumable.
func (a *Actor) UseItem(itemID string) error {
	item, ok := a.Item(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if item.Type != ItemConsumable {
		return fmt.Errorf("%w: %s", ErrNotConsumable, item.Name)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: %s", ErrOutOfStock, item.Name)
	}
	item.Quantity--
	return nil
}

// SetQuantity overwrites how many of an item the actor carries.
func (a *Actor) SetQuantity(itemID string, n int) error {
	if n < 0 {
		return ErrInvalidQuantity
	}
	item, ok := a.Item(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	item.Quantity = n
	return nil
}

// UseMove pays a move's cost. Using a stance move also enters the stance.
// Nothing changes unless every cost can be paid; HP costs may not be lethal.
func (a *Actor) UseMove(itemID, moveID string) (*Move, error) {
	item, move, err := a.move(itemID, moveID)
	if err != nil {
		return nil, err
	}

	c := move.Cost
	res := a.Resources
	switch {
	case c.MP > 0 && (res.MP == nil || res.MP.Value < float64(c.MP)):
		return nil, fmt.Errorf("%w: %s needs %d MP", ErrInsufficient, move.Name, c.MP)
	case c.Rage > 0 && (res.Rage == nil || int(res.Rage.Value) < c.Rage):
		return nil, fmt.Errorf("%w: %s needs %d rage", ErrInsufficient, move.Name, c.Rage)
	case c.HP > 0 && (res.HP == nil || res.HP.Value <= float64(c.HP)):
		return nil, fmt.Errorf("%w: %s needs more than %d HP", ErrInsufficient, move.Name, c.HP)
	}

	a.SpendMP(float64(c.MP))
	if c.Rage > 0 {
		a.AddRage(-c.Rage)
	}
	a.TakeDamage(float64(c.HP))

	if move.Type == MoveStance {
		a.enterStance(item, move)
	}
	return move, nil
}

// SetStance enters the stance taught by a stance move.
func (a *Actor) SetStance(itemID, moveID string) error {
	item, move, err := a.move(itemID, moveID)
	if err != nil {
		return err
	}
	if move.Type != MoveStance {
		return fmt.Errorf("%w: %s", ErrNotStance, move.Name)
	}
	a.enterStance(item, move)
	return nil
}

// StopStance leaves the current stance, if any.
func (a *Actor) StopStance() {
	a.Martial.StanceActive = false
	a.Martial.StanceItemID = ""
	a.Martial.Stance = ""
}

// StanceMoves lists every stance move the actor knows as "<itemId>.<moveId>"
// references.
func (a *Actor) StanceMoves() []string {
	var out []string
	for _, item := range a.Items {
		for _, m := range item.Moves {
			if m.Type == MoveStance {
				out = append(out, item.ID+"."+m.ID)
			}
		}
	}
	return out
}

func (a *Actor) enterStance(item *Item, move *Move) {
	a.Martial.StanceActive = true
	a.Martial.StanceItemID = item.ID
	a.Martial.Stance = move.ID
}

func (a *Actor) move(itemID, moveID string) (*Item, *Move, error) {
	item, ok := a.Item(itemID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	move, ok := item.Move(moveID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s.%s", ErrMoveNotFound, itemID, moveID)
	}
	return item, move, nil
}
