package hud

import "github.com/jwebster45206/token-hud/pkg/actor"

// Direction classifies how a channel moved between two snapshots.
type Direction int

const (
	Unchanged Direction = iota
	Increased
	Decreased
)

func (d Direction) String() string {
	switch d {
	case Increased:
		return "increased"
	case Decreased:
		return "decreased"
	default:
		return "unchanged"
	}
}

// Classify compares a channel's old and new values.
func Classify(prev, next float64) Direction {
	switch {
	case next > prev:
		return Increased
	case next < prev:
		return Decreased
	default:
		return Unchanged
	}
}

// Percent returns value/max as a percentage clamped to [0, 100].
// A non-positive max yields 0.
func Percent(value, maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	return min(100, max(0, value/maxValue*100))
}

// ClampCounter bounds a counter to [0, actor.MaxRage].
func ClampCounter(v int) int {
	return min(actor.MaxRage, max(0, v))
}

// ClampValue bounds a resource value to [0, max].
func ClampValue(value, maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	return min(maxValue, max(0, value))
}

// Channels records which optional channels a card carries.
type Channels struct {
	Secondary bool
	Counter   bool
}

// Delta is the per-channel classification of one reconciliation.
type Delta struct {
	Primary   Direction
	Secondary Direction
	Counter   Direction
}

// Compare classifies every present channel. Absent channels are Unchanged.
func Compare(prev, next Snapshot, ch Channels) Delta {
	d := Delta{Primary: Classify(prev.Primary, next.Primary)}
	if ch.Secondary {
		d.Secondary = Classify(prev.Secondary, next.Secondary)
	}
	if ch.Counter {
		d.Counter = Classify(float64(prev.Counter), float64(next.Counter))
	}
	return d
}

// Effect is the one visual effect played for a reconciliation.
type Effect string

const (
	EffectNone     Effect = ""
	EffectUltimate Effect = "ultimate"
	EffectShake    Effect = "shake"
	EffectHeal     Effect = "heal"
	EffectCast     Effect = "cast"
	EffectSurge    Effect = "surge"
)

// Effects lists every playable effect. They are mutually exclusive on a card.
var Effects = []Effect{EffectUltimate, EffectShake, EffectHeal, EffectCast, EffectSurge}

// Class is the style class that plays the effect.
func (e Effect) Class() string {
	if e == EffectNone {
		return ""
	}
	return "effect-" + string(e)
}

// SelectEffect picks the effect for a delta. The first applicable rule wins:
// counter spent, primary lost, primary gained, secondary spent, secondary gained.
func SelectEffect(d Delta) Effect {
	switch {
	case d.Counter == Decreased:
		return EffectUltimate
	case d.Primary == Decreased:
		return EffectShake
	case d.Primary == Increased:
		return EffectHeal
	case d.Secondary == Decreased:
		return EffectCast
	case d.Secondary == Increased:
		return EffectSurge
	default:
		return EffectNone
	}
}

// EffectFor is SelectEffect over two snapshots.
func EffectFor(prev, next Snapshot, ch Channels) Effect {
	return SelectEffect(Compare(prev, next, ch))
}

// overloadThreshold is the counter value at which the overload state starts.
const overloadThreshold = 5

// Overload returns whether the counter is in overload and its intensity in (0, 1].
func Overload(counter int) (bool, float64) {
	counter = ClampCounter(counter)
	if counter < overloadThreshold {
		return false, 0
	}
	return true, float64(counter-(overloadThreshold-1)) / float64(actor.MaxRage-(overloadThreshold-1))
}

// Status is the qualitative health label shown instead of exact numbers.
type Status struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

var (
	StatusPerfect  = Status{Label: "perfect", Class: "status-perfect"}
	StatusLight    = Status{Label: "lightly wounded", Class: "status-high"}
	StatusWounded  = Status{Label: "wounded", Class: "status-mid"}
	StatusBadly    = Status{Label: "badly wounded", Class: "status-low"}
	StatusCritical = Status{Label: "near death", Class: "status-critical"}
	StatusDead     = Status{Label: "deceased", Class: "status-dead"}
)

// StatusFor maps primary percent and value to a status label.
func StatusFor(percent, value float64) Status {
	switch {
	case percent >= 100:
		return StatusPerfect
	case percent >= 75:
		return StatusLight
	case percent >= 50:
		return StatusWounded
	case percent >= 25:
		return StatusBadly
	case value > 0:
		return StatusCritical
	default:
		return StatusDead
	}
}
