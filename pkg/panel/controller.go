package panel

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/schedule"
)

// Surface shows and hides the focal panel.
type Surface interface {
	ShowPanel(actorID string, markup string) error
	HidePanel()
}

// Controller keeps the focal panel in sync with the selection and with the
// focal actor's data. Bursts of notifications are debounced into one render.
type Controller struct {
	mu        sync.Mutex
	source    hud.WorldSource
	renderer  hud.Renderer
	surface   Surface
	viewer    hud.Viewer
	labels    Localizer
	debouncer *schedule.Debouncer
	logger    *slog.Logger

	selected  []string
	shown     string // actor ID of the panel on screen
	collapsed bool
	groups    map[string]bool // collapsed equipment groups by slot
}

var _ hud.Listener = (*Controller)(nil)

// NewController creates a Controller.
func NewController(source hud.WorldSource, renderer hud.Renderer, surface Surface, viewer hud.Viewer,
	labels Localizer, debouncer *schedule.Debouncer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if labels == nil {
		labels = Labels{}
	}
	return &Controller{
		source:    source,
		renderer:  renderer,
		surface:   surface,
		viewer:    viewer,
		labels:    labels,
		debouncer: debouncer,
		logger:    logger,
		groups:    make(map[string]bool),
	}
}

// Notify implements hud.Listener.
func (c *Controller) Notify(ctx context.Context, ev hud.Event) {
	switch ev.Kind {
	case hud.EventSelection:
		c.mu.Lock()
		c.selected = slices.Clone(ev.SelectedIDs)
		c.mu.Unlock()
	case hud.EventOwnerUpdated, hud.EventItemUpdated:
		if ev.OwnerID == "" || ev.OwnerID != c.target(ctx) {
			return
		}
	case hud.EventCombatUpdated, hud.EventEntityRemoved:
	default:
		return
	}

	ctx = context.WithoutCancel(ctx)
	c.debouncer.Trigger(func() {
		if err := c.Render(ctx); err != nil {
			c.logger.Error("Failed to render panel", "error", err)
		}
	})
}

// Selected returns the current selection.
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.selected)
}

// Shown returns the actor whose panel is on screen, or "".
func (c *Controller) Shown() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shown
}

// SetCollapsed records the collapsed state; it survives re-renders.
func (c *Controller) SetCollapsed(collapsed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collapsed = collapsed
}

// Collapsed reports whether the panel is collapsed.
func (c *Controller) Collapsed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collapsed
}

// ToggleGroup collapses or expands one equipment group and reports whether
// it is now collapsed. Like the panel's own state it survives re-renders.
func (c *Controller) ToggleGroup(slot string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[slot] = !c.groups[slot]
	return c.groups[slot]
}

// GroupCollapsed reports whether an equipment group is collapsed.
func (c *Controller) GroupCollapsed(slot string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.groups[slot]
}

// target resolves the focal actor for the current selection.
func (c *Controller) target(ctx context.Context) string {
	world, err := c.source(ctx)
	if err != nil {
		return ""
	}
	_, a, ok := CurrentActor(world, c.Selected(), c.viewer)
	if !ok {
		return ""
	}
	return a.ID
}

// Render rebuilds the panel for the current selection, or hides it when the
// selection rule is not met. A render is dropped if the focal actor changes
// while data is assembled or while the template renders.
func (c *Controller) Render(ctx context.Context) error {
	world, err := c.source(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}

	tok, a, ok := CurrentActor(world, c.Selected(), c.viewer)
	if !ok {
		c.hide()
		return nil
	}

	data := Build(tok, a, c.labels)
	data.Collapsed = c.Collapsed()
	for i := range data.Equipment {
		data.Equipment[i].Collapsed = c.GroupCollapsed(data.Equipment[i].Key)
	}
	if c.target(ctx) != a.ID {
		c.logger.Debug("Focal actor changed during data assembly", "actor_id", a.ID)
		return nil
	}

	markup, err := c.renderer.Render(ctx, PlayerTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render panel for %s: %w", a.ID, err)
	}
	if c.target(ctx) != a.ID {
		c.logger.Debug("Focal actor changed during render", "actor_id", a.ID)
		return nil
	}

	if err := c.surface.ShowPanel(a.ID, markup); err != nil {
		return fmt.Errorf("failed to show panel for %s: %w", a.ID, err)
	}
	c.mu.Lock()
	c.shown = a.ID
	c.mu.Unlock()
	return nil
}

func (c *Controller) hide() {
	c.mu.Lock()
	wasShown := c.shown != ""
	c.shown = ""
	c.mu.Unlock()
	if wasShown {
		c.surface.HidePanel()
	}
}

// Close drops any pending render.
func (c *Controller) Close() {
	c.debouncer.Cancel()
}
