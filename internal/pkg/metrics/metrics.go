/*
Package metrics exposes the server's Prometheus instruments: session gauges
and move/timeout/game counters.
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "goroda"

// Metrics bundles every instrument the server registers. Construct with New;
// tests pass their own registry to avoid collisions with the default one.
type Metrics struct {
	ActiveRooms    prometheus.Gauge
	ActiveSolitary prometheus.Gauge

	// MovesTotal counts validated moves by mode ("room"/"solitary") and
	// result ("accepted"/"rejected").
	MovesTotal *prometheus.CounterVec

	TurnTimeoutsTotal prometheus.Counter

	// GamesFinishedTotal counts terminated sessions by reason.
	GamesFinishedTotal *prometheus.CounterVec

	InboundMessagesTotal prometheus.Counter
}

// New constructs and registers all instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of active two-player rooms",
		}),
		ActiveSolitary: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_solitary_sessions",
			Help:      "Number of active solitary sessions",
		}),
		MovesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Total number of attempted moves",
		}, []string{"mode", "result"}),
		TurnTimeoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_timeouts_total",
			Help:      "Total number of expired turn countdowns",
		}),
		GamesFinishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Total number of finished games by termination reason",
		}, []string{"reason"}),
		InboundMessagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_messages_total",
			Help:      "Total number of inbound chat messages",
		}),
	}

	reg.MustRegister(
		m.ActiveRooms,
		m.ActiveSolitary,
		m.MovesTotal,
		m.TurnTimeoutsTotal,
		m.GamesFinishedTotal,
		m.InboundMessagesTotal,
	)

	return m
}
