package hud

import (
	"testing"

	"github.com/jwebster45206/token-hud/pkg/actor"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		in   VisibilityInput
		want Decision
	}{
		{
			name: "hidden token is never shown",
			in:   VisibilityInput{Hidden: true, Disposition: actor.DispositionFriendly, ViewerIsGM: true},
			want: Hide,
		},
		{
			name: "occluded token is not shown",
			in:   VisibilityInput{Occluded: true, Disposition: actor.DispositionFriendly},
			want: Hide,
		},
		{
			name: "only combatants hides tokens outside combat",
			in:   VisibilityInput{OnlyCombatants: true, Disposition: actor.DispositionHostile},
			want: Hide,
		},
		{
			name: "only combatants keeps combatants",
			in:   VisibilityInput{OnlyCombatants: true, InCombat: true, Disposition: actor.DispositionFriendly},
			want: Decision{ShouldRender: true, Category: CategoryFriend},
		},
		{
			name: "neutral tokens get no card",
			in:   VisibilityInput{Disposition: actor.DispositionNeutral, ViewerIsGM: true},
			want: Hide,
		},
		{
			name: "friend is shown with numbers",
			in:   VisibilityInput{Disposition: actor.DispositionFriendly},
			want: Decision{ShouldRender: true, Category: CategoryFriend},
		},
		{
			name: "enemy is obscured for players",
			in:   VisibilityInput{Disposition: actor.DispositionHostile},
			want: Decision{ShouldRender: true, Category: CategoryEnemy, Obscured: true},
		},
		{
			name: "enemy is clear for the GM",
			in:   VisibilityInput{Disposition: actor.DispositionHostile, ViewerIsGM: true},
			want: Decision{ShouldRender: true, Category: CategoryEnemy},
		},
		{
			name: "secret disposition counts as enemy",
			in:   VisibilityInput{Disposition: actor.DispositionSecret},
			want: Decision{ShouldRender: true, Category: CategoryEnemy, Obscured: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.in); got != tt.want {
				t.Errorf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
