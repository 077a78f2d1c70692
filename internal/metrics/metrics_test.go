package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/token-hud/pkg/hud"
)

func TestReconciled(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Reconciled(hud.ActionCreated)
	m.Reconciled(hud.ActionPatched)
	m.Reconciled(hud.ActionPatched)
	m.Reconciled(hud.ActionFailed)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciliations.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reconciliations.WithLabelValues("patched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciliations.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renderFailures))
}

func TestEffectPlayedIgnoresNone(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.EffectPlayed(hud.EffectShake)
	m.EffectPlayed(hud.EffectNone)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.effects.WithLabelValues("shake")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.effects))
}

func TestEventHandled(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.EventHandled(hud.EventSceneReady, nil)
	m.EventHandled(hud.EventSceneReady, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("scene.ready", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("scene.ready", "error")))
}

func TestRegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Reconciled(hud.ActionRemoved)

	count, err := testutil.GatherAndCount(reg, "token_hud_engine_reconciliations_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
