package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/jwebster45206/d20"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/scene"
)

const baseAC = 10

// Combat stats are carried as the d20 attributes closest in meaning.
const (
	attrSpeed = "dexterity"
	attrBlock = "constitution"
)

// simulator resolves attacks between owner records. Hit points live in the
// scene; the d20 actors carry armour class, attributes and the HP record
// used for the roll.
type simulator struct {
	rng      *rand.Rand
	fighters map[string]*d20.Actor
}

func newSimulator(sc *scene.Scene, rng *rand.Rand) (*simulator, error) {
	s := &simulator{rng: rng, fighters: make(map[string]*d20.Actor)}
	for _, a := range sc.Actors() {
		if err := s.add(a); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *simulator) add(a *actor.Actor) error {
	hp := a.Resources.HP
	if hp == nil || hp.Max < 1 {
		return nil
	}
	f, err := d20.NewActor(a.ID).
		WithHP(int(hp.Max)).
		WithAC(baseAC + a.Combat.Dodge).
		WithAttributes(map[string]int{
			attrSpeed: a.Combat.Speed,
			attrBlock: a.Combat.Block,
		}).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build fighter %s: %w", a.ID, err)
	}
	s.fighters[a.ID] = f
	return nil
}

// strikeResult describes one resolved attack.
type strikeResult struct {
	Roll   int
	Hit    bool
	Damage int
	Event  hud.Event
}

func (r strikeResult) String() string {
	if !r.Hit {
		return fmt.Sprintf("rolled %d and missed", r.Roll)
	}
	return fmt.Sprintf("rolled %d and hit for %d", r.Roll, r.Damage)
}

// strike rolls an attack from attacker against target and applies the damage
// to the scene. A miss changes nothing and carries no event.
func (s *simulator) strike(sc *scene.Scene, attackerID, targetID string) (strikeResult, error) {
	attacker, ok := s.fighters[attackerID]
	if !ok {
		return strikeResult{}, fmt.Errorf("unknown fighter: %s", attackerID)
	}
	target, ok := s.fighters[targetID]
	if !ok {
		return strikeResult{}, fmt.Errorf("unknown fighter: %s", targetID)
	}

	a, ok := sc.Actor(targetID)
	if !ok || a.Resources.HP == nil {
		return strikeResult{}, fmt.Errorf("actor not found: %s", targetID)
	}
	if hp := int(a.Resources.HP.Value); hp > 0 {
		if err := target.SetHP(hp); err != nil {
			return strikeResult{}, fmt.Errorf("failed to sync HP: %w", err)
		}
	} else {
		return strikeResult{}, fmt.Errorf("%s is already down", targetID)
	}

	speed, _ := attacker.Attribute(attrSpeed)
	roll := s.rng.IntN(20) + 1
	res := strikeResult{Roll: roll}
	if roll != 20 && roll+speed/2 < target.AC() {
		return res, nil
	}

	block, _ := target.Attribute(attrBlock)
	res.Hit = true
	res.Damage = max(1, s.rng.IntN(8)+1+speed/3-block/2)
	if roll == 20 {
		res.Damage *= 2
	}

	if remaining := target.HP() - res.Damage; remaining > 0 {
		if err := target.SetHP(remaining); err != nil {
			return res, fmt.Errorf("failed to record HP: %w", err)
		}
	}

	ev, err := sc.Damage(targetID, float64(res.Damage))
	if err != nil {
		return res, err
	}
	res.Event = ev
	return res, nil
}
