package hud

import (
	"slices"

	"github.com/jwebster45206/token-hud/pkg/schedule"
)

type cardPhase int

const (
	phaseEntering cardPhase = iota
	phaseActive
	phaseExiting
)

// card is the engine's record of a rendered node. Category and the set of
// bars never change for the lifetime of a card; a change builds a new card.
type card struct {
	id       string
	category Category
	channels Channels
	phase    cardPhase

	activation  schedule.Timer
	removal     schedule.Timer
	effectClear schedule.Timer
	effect      Effect
	effectSeq   uint64
}

func (c *card) stopTimers() {
	for _, t := range []schedule.Timer{c.activation, c.removal, c.effectClear} {
		if t != nil {
			t.Stop()
		}
	}
	c.activation, c.removal, c.effectClear = nil, nil, nil
}

// Registration is the public view of a card.
type Registration struct {
	Category Category
	Active   bool // entry transition has started
	Exiting  bool // exit transition is running; removal is scheduled
}

// registry tracks cards and per-token generations. Generations come from a
// single counter that survives reset, so a render started before a reset can
// never match a generation issued after it.
type registry struct {
	epoch uint64
	gens  map[string]uint64
	cards map[string]*card
}

func newRegistry() *registry {
	return &registry{
		gens:  make(map[string]uint64),
		cards: make(map[string]*card),
	}
}

func (r *registry) advance(id string) uint64 {
	r.epoch++
	r.gens[id] = r.epoch
	return r.epoch
}

func (r *registry) current(id string) uint64 {
	return r.gens[id]
}

func (r *registry) get(id string) *card {
	return r.cards[id]
}

func (r *registry) put(c *card) {
	r.cards[c.id] = c
}

func (r *registry) drop(id string) {
	delete(r.cards, id)
}

func (r *registry) ids() []string {
	ids := make([]string, 0, len(r.cards))
	for id := range r.cards {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *registry) reset() {
	for _, c := range r.cards {
		c.stopTimers()
	}
	clear(r.cards)
	clear(r.gens)
}
