// Package hud reconciles live token state into overlay cards: it decides
// whether a card should exist, creates, patches and removes cards, and picks
// the single visual effect an update deserves.
package hud

import "github.com/jwebster45206/token-hud/pkg/actor"

// Category groups cards by faction. Neutral tokens never get a card.
type Category string

const (
	CategoryFriend  Category = "friend"
	CategoryEnemy   Category = "enemy"
	CategoryNeutral Category = "neutral"
)

// VisibilityInput is everything the visibility policy looks at.
type VisibilityInput struct {
	Hidden         bool // hidden by the GM
	Occluded       bool // hidden from the viewer by fog of war
	InCombat       bool
	OnlyCombatants bool // global "only show combatants" setting
	Disposition    actor.Disposition
	ViewerIsGM     bool
}

// Decision is the outcome of the visibility policy. It is computed fresh for
// every reconciliation and never stored.
type Decision struct {
	ShouldRender bool
	Category     Category
	// Obscured hides exact resource numbers behind a status label.
	Obscured bool
}

// Hide is the do-not-render decision.
var Hide = Decision{ShouldRender: false, Category: CategoryNeutral}

// Decide applies the visibility rules in order; the first match wins.
func Decide(in VisibilityInput) Decision {
	switch {
	case in.Hidden:
		return Hide
	case in.Occluded:
		return Hide
	case in.OnlyCombatants && !in.InCombat:
		return Hide
	}

	category := CategoryFor(in.Disposition)
	if category == CategoryNeutral {
		return Hide
	}
	return Decision{
		ShouldRender: true,
		Category:     category,
		Obscured:     category == CategoryEnemy && !in.ViewerIsGM,
	}
}

// CategoryFor maps a disposition to a card category.
func CategoryFor(d actor.Disposition) Category {
	switch {
	case d.IsFriendly():
		return CategoryFriend
	case d.IsHostile():
		return CategoryEnemy
	default:
		return CategoryNeutral
	}
}
