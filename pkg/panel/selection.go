// Package panel builds the focal-entity panel: the detailed view of the one
// token the viewer currently controls.
package panel

import (
	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/hud"
)

// CurrentActor applies the selection rule: exactly one selected token, with
// an owner record the viewer may modify.
func CurrentActor(world hud.World, selected []string, viewer hud.Viewer) (*actor.Token, *actor.Actor, bool) {
	if world == nil || len(selected) != 1 {
		return nil, nil, false
	}
	tok, ok := world.Token(selected[0])
	if !ok {
		return nil, nil, false
	}
	a, ok := world.Actor(tok.ActorID)
	if !ok || !a.IsOwner(viewer.UserID, viewer.IsGM) {
		return nil, nil, false
	}
	return tok, a, true
}
