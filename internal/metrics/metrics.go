// Package metrics registers the Prometheus collectors scraped over the
// admin HTTP surface (SPEC_FULL.md §4.14).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bomberman_tick_duration_seconds",
		Help:    "Wall time spent in one simulation tick",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
	})

	ConnectedPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bomberman_connected_players",
		Help: "Current number of connected players",
	})

	ConnectedSpectators = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bomberman_connected_spectators",
		Help: "Current number of connected spectators",
	})

	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bomberman_commands_total",
		Help: "Known commands received from clients after rate limiting, by command",
	}, []string{"command"})

	AdmissionRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bomberman_admission_rejected_total",
		Help: "Admission attempts rejected, by reason",
	}, []string{"reason"})

	BroadcastDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bomberman_broadcast_dropped_total",
		Help: "Connections disconnected because their outbound queue overflowed",
	})
)
