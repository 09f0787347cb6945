// SPDX-License-Identifier: MIT

package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by Optimize. Create it
// once per registry; several optimizers may share it.
type Metrics struct {
	FrontierSize prometheus.Gauge
	Watermark    prometheus.Gauge
	Completions  prometheus.Counter
	Expansions   prometheus.Counter
	Pruned       prometheus.Counter
	Duration     prometheus.Histogram
}

// NewMetrics creates and registers the optimizer collectors with reg.
// A nil reg creates unregistered collectors. Registering twice with the
// same registry panics, as promauto does.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		FrontierSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "questopt",
			Name:      "frontier_size",
			Help:      "Number of states currently held in the search frontier.",
		}),
		Watermark: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "questopt",
			Name:      "watermark",
			Help:      "Lowest remaining stop count seen since the last completion.",
		}),
		Completions: f.NewCounter(prometheus.CounterOpts{
			Namespace: "questopt",
			Name:      "completions_total",
			Help:      "Coverage walks recorded.",
		}),
		Expansions: f.NewCounter(prometheus.CounterOpts{
			Namespace: "questopt",
			Name:      "expansions_total",
			Help:      "States that passed the admission test.",
		}),
		Pruned: f.NewCounter(prometheus.CounterOpts{
			Namespace: "questopt",
			Name:      "pruned_total",
			Help:      "States discarded by the admission test.",
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "questopt",
			Name:      "search_duration_seconds",
			Help:      "Wall time of Optimize calls.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// observe publishes a live snapshot to the gauges.
func (m *Metrics) observe(s Snapshot) {
	if m == nil {
		return
	}
	m.FrontierSize.Set(float64(s.Frontier))
	m.Watermark.Set(float64(s.Watermark))
}

// finish adds the totals of a finished run.
func (m *Metrics) finish(r Result) {
	if m == nil {
		return
	}
	m.FrontierSize.Set(0)
	m.Completions.Add(float64(r.Completions))
	m.Expansions.Add(float64(r.Expansions))
	m.Pruned.Add(float64(r.Pruned))
	m.Duration.Observe(r.Duration.Seconds())
}
