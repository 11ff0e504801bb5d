// Package metrics exposes the coordinator's operational counters as
// Prometheus collectors, served over a /metrics endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every counter/gauge the coordinator updates as it runs.
type Metrics struct {
	registry *prometheus.Registry

	PlayersJoined   prometheus.Counter
	PlayersQuit     prometheus.Counter
	Broadcasts      prometheus.Counter
	DroppedSends    prometheus.Counter
	GoldCollected   prometheus.Counter
	GoldRemaining   prometheus.Gauge
	VisibilityHits  prometheus.Gauge
	VisibilityMiss  prometheus.Gauge
}

// New constructs and registers every collector against a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		PlayersJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nuggets",
			Name:      "players_joined_total",
			Help:      "Number of PLAY joins accepted.",
		}),
		PlayersQuit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nuggets",
			Name:      "players_quit_total",
			Help:      "Number of players that quit.",
		}),
		Broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nuggets",
			Name:      "broadcasts_total",
			Help:      "Number of grid broadcasts sent.",
		}),
		DroppedSends: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nuggets",
			Name:      "dropped_sends_total",
			Help:      "Number of sends that failed and were dropped.",
		}),
		GoldCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nuggets",
			Name:      "gold_collected_total",
			Help:      "Total nuggets collected across all players.",
		}),
		GoldRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nuggets",
			Name:      "gold_remaining",
			Help:      "Nuggets not yet collected.",
		}),
		VisibilityHits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nuggets",
			Name:      "visibility_cache_hits",
			Help:      "Cumulative perspective-cache hits.",
		}),
		VisibilityMiss: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nuggets",
			Name:      "visibility_cache_misses",
			Help:      "Cumulative perspective-cache misses.",
		}),
	}

	reg.MustRegister(
		m.PlayersJoined, m.PlayersQuit, m.Broadcasts, m.DroppedSends,
		m.GoldCollected, m.GoldRemaining, m.VisibilityHits, m.VisibilityMiss,
	)
	return m
}

// Handler returns the HTTP handler that serves this registry's collectors
// in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SampleVisibilityCache sets the visibility-cache gauges to a
// visibility.Cache's current cumulative hit/miss counts. Safe to call
// repeatedly; each call simply overwrites the prior reading.
func (m *Metrics) SampleVisibilityCache(hits, misses uint64) {
	m.VisibilityHits.Set(float64(hits))
	m.VisibilityMiss.Set(float64(misses))
}
