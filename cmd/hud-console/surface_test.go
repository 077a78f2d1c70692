package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/panel"
	"github.com/jwebster45206/token-hud/pkg/scene"
	"github.com/jwebster45206/token-hud/pkg/schedule"
)

func loadScene(t *testing.T) *scene.Scene {
	t.Helper()
	sc, err := scene.Load("../../pkg/scene/testdata/bamboo-grove.yaml")
	require.NoError(t, err)
	return sc
}

func newTestHUD(t *testing.T, sc *scene.Scene) (*hud.Router, *termSurface, *schedule.Manual) {
	t.Helper()
	surface := newTermSurface()
	sched := schedule.NewManual()
	ref := &sceneRef{sc: sc}
	engine := hud.New(termRenderer{}, surface, sched, slog.Default())
	router := hud.NewRouter(engine, ref.Source(), ref, hud.Viewer{UserID: "player-1"}, slog.Default())
	return router, surface, sched
}

func TestTermSurfaceShowsCards(t *testing.T) {
	sc := loadScene(t)
	router, surface, _ := newTestHUD(t, sc)

	require.NoError(t, router.Handle(context.Background(), sc.Ready()))

	lin, ok := surface.Card("t-lin")
	require.True(t, ok)
	assert.Contains(t, lin, "Lin Yue")
	assert.Contains(t, lin, "80/100")

	bandit, ok := surface.Card("t-bandit-1")
	require.True(t, ok)
	assert.Contains(t, bandit, "perfect", "enemy cards show a status instead of numbers")
	assert.NotContains(t, bandit, "30/30")

	_, ok = surface.Card("t-bandit-2")
	assert.False(t, ok)

	assert.Contains(t, surface.Column(hud.ContainerEnemies), "Bandit")
	assert.Contains(t, surface.Column(hud.ContainerFriends), "Lin Yue")
}

func TestTermSurfacePatchesAndEffects(t *testing.T) {
	sc := loadScene(t)
	router, surface, sched := newTestHUD(t, sc)
	ctx := context.Background()

	require.NoError(t, router.Handle(ctx, sc.Ready()))
	sched.Frame()

	ev, err := sc.Damage("lin", 30)
	require.NoError(t, err)
	require.NoError(t, router.Handle(ctx, ev))

	lin, _ := surface.Card("t-lin")
	assert.Contains(t, lin, "50/100")
	assert.Contains(t, lin, "SHAKE")

	sched.Advance(hud.DefaultEffectDuration)
	lin, _ = surface.Card("t-lin")
	assert.NotContains(t, lin, "SHAKE")
}

func TestTermSurfaceRemovesHiddenToken(t *testing.T) {
	sc := loadScene(t)
	router, surface, sched := newTestHUD(t, sc)
	ctx := context.Background()

	require.NoError(t, router.Handle(ctx, sc.Ready()))
	ev, err := sc.SetHidden("t-bandit-1", true)
	require.NoError(t, err)
	require.NoError(t, router.Handle(ctx, ev))

	_, ok := surface.Card("t-bandit-1")
	assert.True(t, ok, "card stays for the exit transition")

	sched.Advance(hud.DefaultRemovalDelay)
	_, ok = surface.Card("t-bandit-1")
	assert.False(t, ok)
	assert.Contains(t, surface.Column(hud.ContainerEnemies), "(none)")
}

func TestTermRendererPanel(t *testing.T) {
	sc := loadScene(t)
	tok, _ := sc.Token("t-lin")
	a, _ := sc.Actor("lin")

	out, err := termRenderer{}.Render(context.Background(), panel.PlayerTemplate, panel.Build(tok, a, panel.Labels{}))
	require.NoError(t, err)
	assert.Contains(t, out, "Lin Yue")
	assert.Contains(t, out, "Shortcuts")
	assert.Contains(t, out, "Willow Sweeps the Bank")

	_, err = termRenderer{}.Render(context.Background(), "hud-unknown", nil)
	assert.ErrorIs(t, err, hud.ErrUnknownTemplate)
}

func TestTermSurfacePanel(t *testing.T) {
	s := newTermSurface()
	require.NoError(t, s.ShowPanel("lin", "panel"))
	content, actorID := s.Panel()
	assert.Equal(t, "panel", content)
	assert.Equal(t, "lin", actorID)

	s.HidePanel()
	content, _ = s.Panel()
	assert.Empty(t, content)
}
