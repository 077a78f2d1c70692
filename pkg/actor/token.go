package actor

// Disposition is the faction stance of a token toward the players.
type Disposition int

const (
	DispositionSecret   Disposition = -2
	DispositionHostile  Disposition = -1
	DispositionNeutral  Disposition = 0
	DispositionFriendly Disposition = 1
)

// IsFriendly reports whether the token fights on the players' side.
func (d Disposition) IsFriendly() bool {
	return d == DispositionFriendly
}

// IsHostile reports whether the token is hostile. Secret tokens count as hostile.
func (d Disposition) IsHostile() bool {
	return d < 0
}

// Token is a piece placed on the current scene. Several tokens may share one Actor.
type Token struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ActorID     string      `json:"actor_id,omitempty"`
	Texture     string      `json:"texture,omitempty"`
	Hidden      bool        `json:"hidden,omitempty"`   // hidden by the GM
	Occluded    bool        `json:"occluded,omitempty"` // not visible to the viewer through fog of war
	Disposition Disposition `json:"disposition"`
	X           int         `json:"x,omitempty"`
	Y           int         `json:"y,omitempty"`
}

// MoveTo updates the token's position.
func (t *Token) MoveTo(x, y int) {
	t.X = x
	t.Y = y
}
