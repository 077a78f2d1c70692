package hud

import "context"

// Template names understood by renderers.
const (
	ContainerTemplate = "hud-container"
	CardTemplate      = "hud-card"
)

// Renderer turns a template name and a fully computed payload into markup.
// It may block; the engine never holds its lock while rendering.
type Renderer interface {
	Render(ctx context.Context, template string, data any) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, template string, data any) (string, error)

func (f RendererFunc) Render(ctx context.Context, template string, data any) (string, error) {
	return f(ctx, template, data)
}

// Container is the layout group a card is inserted into.
type Container string

const (
	ContainerFriends Container = "hud-friends"
	ContainerEnemies Container = "hud-enemies"
)

// ContainerFor returns the container for a category.
func ContainerFor(c Category) Container {
	if c == CategoryEnemy {
		return ContainerEnemies
	}
	return ContainerFriends
}

// Bar identifies a resource bar on a card.
type Bar string

const (
	BarPrimary   Bar = "primary"
	BarSecondary Bar = "secondary"
)

// Surface is the visual tree the engine patches. Cards are a rendering of
// engine state; the engine never reads the surface back.
//
// Every method is called with the engine lock held, including from timer
// callbacks. Implementations must return quickly:
// a slow surface stalls all reconciliation. Remote surfaces should bound
// their I/O with a short timeout.
type Surface interface {
	// Insert adds a card built from markup to a container.
	Insert(container Container, id string, markup string) error
	// Remove deletes a card node immediately.
	Remove(id string)
	// SetActive toggles the class driving the entry and exit transitions.
	SetActive(id string, active bool)
	// Apply patches a card's leaf nodes.
	Apply(id string, p Patch)
	// RestoreTransition re-enables the ghost transition after a snap.
	RestoreTransition(id string, bar Bar)
	// PlayEffect clears any other effect, restarts the animation and plays e.
	// EffectUltimate also restarts its media from the beginning.
	PlayEffect(id string, e Effect)
	// ClearEffect removes a finished effect.
	ClearEffect(id string, e Effect)
}

// Observer receives engine outcomes, e.g. for metrics.
type Observer interface {
	Reconciled(action Action)
	EffectPlayed(effect Effect)
}
