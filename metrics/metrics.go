// Package metrics exposes aggregate play counters on a private prometheus
// registry. The session manager feeds it; everything here is optional for
// headless runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HandsTotal            prometheus.Counter
	HandsVoidedTotal      prometheus.Counter
	EnergyTransactedTotal prometheus.Counter
	WinsTotal             *prometheus.CounterVec
	ActiveSessions        prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		HandsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fishtank_poker_hands_total",
			Help: "Hands resolved across all sessions.",
		}),
		HandsVoidedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fishtank_poker_hands_voided_total",
			Help: "Hands voided by mid-hand player removal.",
		}),
		EnergyTransactedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fishtank_poker_energy_transacted_total",
			Help: "Gross energy that changed hands at resolution.",
		}),
		WinsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fishtank_poker_wins_total",
			Help: "Hands won, by winner species.",
		}, []string{"species"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fishtank_poker_active_sessions",
			Help: "Sessions currently seated at a table.",
		}),
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
