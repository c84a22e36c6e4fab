// Package metrics exposes engine counters and latencies on a dedicated
// Prometheus registry so embedders control where they get served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the engine's instrumentation. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	turns        *prometheus.CounterVec
	turnDuration *prometheus.HistogramVec
	actions      *prometheus.CounterVec
	decisions    *prometheus.CounterVec
	handoffs     *prometheus.CounterVec
}

// New builds a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.turns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_turns_total",
			Help: "Total submitted turns, labelled by outcome.",
		},
		[]string{"outcome"},
	)
	m.turnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "concierge_turn_duration_seconds",
			Help: "End-to-end duration of one submitted turn.",
		},
		[]string{"outcome"},
	)
	m.actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_actions_total",
			Help: "Executed actions, labelled by action name and outcome.",
		},
		[]string{"action", "outcome"},
	)
	m.decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_decisions_total",
			Help: "Resolved approval gates, labelled by decision.",
		},
		[]string{"decision"},
	)
	m.handoffs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_handoffs_total",
			Help: "Control transfers between handlers, labelled by direction.",
		},
		[]string{"direction", "handler"},
	)

	m.registry.MustRegister(m.turns, m.turnDuration, m.actions, m.decisions, m.handoffs)
	return m
}

// Registry returns the underlying registry for serving via promhttp.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveTurn records one completed turn.
func (m *Metrics) ObserveTurn(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(outcome).Inc()
	m.turnDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveAction records one executed action.
func (m *Metrics) ObserveAction(action string, isError bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if isError {
		outcome = "error"
	}
	m.actions.WithLabelValues(action, outcome).Inc()
}

// ObserveDecision records one resolved approval gate.
func (m *Metrics) ObserveDecision(approved bool) {
	if m == nil {
		return
	}
	decision := "rejected"
	if approved {
		decision = "approved"
	}
	m.decisions.WithLabelValues(decision).Inc()
}

// ObserveHandoff records one control transfer.
func (m *Metrics) ObserveHandoff(direction, handler string) {
	if m == nil {
		return
	}
	m.handoffs.WithLabelValues(direction, handler).Inc()
}
