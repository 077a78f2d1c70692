package hud

import (
	"fmt"
	"strconv"

	"github.com/jwebster45206/token-hud/pkg/actor"
)

// EntityData is the raw per-token input of a reconciliation.
type EntityData struct {
	Name      string
	Avatar    string // token artwork
	Art       string // owner artwork used by the ultimate cut-in
	Primary   *actor.Resource
	Secondary *actor.Resource
	Counter   *int
}

// EntityFromToken extracts the card input from a token and its owner record.
// It reports false when there is nothing to render.
func EntityFromToken(tok *actor.Token, a *actor.Actor) (*EntityData, bool) {
	if tok == nil || a == nil || a.Resources.HP == nil {
		return nil, false
	}
	art := a.Img
	if art == "" {
		art = tok.Texture
	}
	data := &EntityData{
		Name:      tok.Name,
		Avatar:    tok.Texture,
		Art:       art,
		Primary:   a.Resources.HP,
		Secondary: a.Resources.MP,
	}
	if a.Resources.Rage != nil {
		v := int(a.Resources.Rage.Value)
		data.Counter = &v
	}
	return data, true
}

// Meter is a bar's fill and, when numbers may be shown, its text.
type Meter struct {
	Percent float64 `json:"percent"`
	Text    string  `json:"text,omitempty"` // "value/max"; empty when obscured
}

// CounterView is the rendered state of the discrete counter.
type CounterView struct {
	Value     int     `json:"value"`
	Dots      []bool  `json:"dots"`
	Overload  bool    `json:"overload"`
	Intensity float64 `json:"intensity,omitempty"`
}

// CardData is the fully computed payload handed to the card template.
// The renderer performs no logic on it.
type CardData struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Avatar    string       `json:"avatar"`
	Art       string       `json:"art"`
	Category  Category     `json:"category"`
	Obscured  bool         `json:"obscured"`
	Primary   Meter        `json:"primary"`
	Secondary *Meter       `json:"secondary,omitempty"`
	Counter   *CounterView `json:"counter,omitempty"`
	Status    Status       `json:"status"`
	Dead      bool         `json:"dead"`
}

// Ghost is the trailing indicator behind a bar.
type Ghost struct {
	Percent float64 `json:"percent"`
	// Snap jumps to Percent with transitions disabled. The engine restores
	// the transition on the next frame.
	Snap bool `json:"snap,omitempty"`
}

// BarPatch updates one bar and its ghost.
type BarPatch struct {
	Meter
	Ghost Ghost `json:"ghost"`
}

// Patch is the set of leaf updates applied to an existing card.
type Patch struct {
	Name      string       `json:"name"`
	Avatar    string       `json:"avatar"`
	Art       string       `json:"art"`
	Obscured  bool         `json:"obscured"`
	Status    Status       `json:"status"`
	Primary   BarPatch     `json:"primary"`
	Secondary *BarPatch    `json:"secondary,omitempty"`
	Counter   *CounterView `json:"counter,omitempty"`
	Dead      bool         `json:"dead"`
}

// view is one token's computed card state.
type view struct {
	data     CardData
	snap     Snapshot
	channels Channels
}

func buildView(id string, d Decision, e *EntityData) (view, error) {
	if e == nil || e.Primary == nil || e.Primary.Max <= 0 {
		return view{}, fmt.Errorf("token %s: %w", id, ErrMissingData)
	}

	primary := ClampValue(e.Primary.Value, e.Primary.Max)
	primaryPct := Percent(e.Primary.Value, e.Primary.Max)

	v := view{
		data: CardData{
			ID:       id,
			Name:     e.Name,
			Avatar:   e.Avatar,
			Art:      e.Art,
			Category: d.Category,
			Obscured: d.Obscured,
			Primary:  meter(primary, e.Primary.Max, primaryPct, d.Obscured),
			Status:   StatusFor(primaryPct, primary),
			Dead:     primary <= 0,
		},
		snap: Snapshot{Primary: primary},
	}

	if e.Secondary != nil && e.Secondary.Max > 0 {
		secondary := ClampValue(e.Secondary.Value, e.Secondary.Max)
		m := meter(secondary, e.Secondary.Max, Percent(e.Secondary.Value, e.Secondary.Max), d.Obscured)
		v.data.Secondary = &m
		v.snap.Secondary = secondary
		v.channels.Secondary = true
	}

	if e.Counter != nil {
		c := ClampCounter(*e.Counter)
		overload, intensity := Overload(c)
		dots := make([]bool, actor.MaxRage)
		for i := range dots {
			dots[i] = i < c
		}
		v.data.Counter = &CounterView{Value: c, Dots: dots, Overload: overload, Intensity: intensity}
		v.snap.Counter = c
		v.channels.Counter = true
	}

	return v, nil
}

func meter(value, maxValue, pct float64, obscured bool) Meter {
	m := Meter{Percent: pct}
	if !obscured {
		m.Text = FormatValue(value) + "/" + FormatValue(maxValue)
	}
	return m
}

// FormatValue prints a resource value without trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// patch builds the leaf updates for a delta. Ghosts trail losses with the
// normal transition and snap on gains.
func (v view) patch(d Delta) Patch {
	p := Patch{
		Name:     v.data.Name,
		Avatar:   v.data.Avatar,
		Art:      v.data.Art,
		Obscured: v.data.Obscured,
		Status:   v.data.Status,
		Primary:  BarPatch{Meter: v.data.Primary, Ghost: ghostFor(d.Primary, v.data.Primary.Percent)},
		Counter:  v.data.Counter,
		Dead:     v.data.Dead,
	}
	if v.data.Secondary != nil {
		p.Secondary = &BarPatch{Meter: *v.data.Secondary, Ghost: ghostFor(d.Secondary, v.data.Secondary.Percent)}
	}
	return p
}

func ghostFor(dir Direction, pct float64) Ghost {
	return Ghost{Percent: pct, Snap: dir == Increased}
}
