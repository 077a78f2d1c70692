// Package metrics exposes engine outcomes as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jwebster45206/token-hud/pkg/hud"
)

const namespace = "token_hud"

// Metrics observes the engine and the event stream.
type Metrics struct {
	// reconciliations counts reconciliations by outcome.
	// Labels: action (created, patched, removed, skipped, stale, failed)
	reconciliations *prometheus.CounterVec

	// effects counts played animation effects.
	// Labels: effect (ultimate, shake, heal, cast, surge)
	effects *prometheus.CounterVec

	// renderFailures counts reconciliations whose template render failed.
	renderFailures prometheus.Counter

	// events counts host events handled by the worker.
	// Labels: kind, status (ok, error)
	events *prometheus.CounterVec
}

var _ hud.Observer = (*Metrics)(nil)

// New registers the HUD metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		reconciliations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "reconciliations_total",
			Help:      "Total card reconciliations by outcome",
		}, []string{"action"}),
		effects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "effects_total",
			Help:      "Total animation effects played by kind",
		}, []string{"effect"}),
		renderFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "render_failures_total",
			Help:      "Total card renders that failed",
		}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "events_total",
			Help:      "Total host events handled by kind and status",
		}, []string{"kind", "status"}),
	}
}

func (m *Metrics) Reconciled(action hud.Action) {
	m.reconciliations.WithLabelValues(string(action)).Inc()
	if action == hud.ActionFailed {
		m.renderFailures.Inc()
	}
}

func (m *Metrics) EffectPlayed(effect hud.Effect) {
	if effect == hud.EffectNone {
		return
	}
	m.effects.WithLabelValues(string(effect)).Inc()
}

// EventHandled records one host event. err is the router's result.
func (m *Metrics) EventHandled(kind hud.EventKind, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.events.WithLabelValues(string(kind), status).Inc()
}
