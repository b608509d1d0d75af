// Package metrics exposes Prometheus instrumentation for audio generation and voting.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	audioRequests     *prometheus.CounterVec
	synthesisDuration *prometheus.HistogramVec
	votes             *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in
// tests to avoid clashing with the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,

		audioRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_audio_requests_total",
				Help: "Audio lookups by provider and cache result.",
			},
			[]string{"provider", "cache"}, // cache: hit, miss
		),

		synthesisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tts_synthesis_duration_seconds",
				Help:    "Time spent in provider synthesis calls.",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
			},
			[]string{"provider", "status"}, // status: ok, error
		),

		votes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_votes_total",
				Help: "Recorded votes by winning provider.",
			},
			[]string{"winner"},
		),
	}

	reg.MustRegister(m.audioRequests, m.synthesisDuration, m.votes)
	return m
}

func (m *Metrics) CacheLookup(provider string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.audioRequests.WithLabelValues(provider, result).Inc()
}

func (m *Metrics) Synthesis(provider string, took time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.synthesisDuration.WithLabelValues(provider, status).Observe(took.Seconds())
}

func (m *Metrics) Vote(winner string) {
	m.votes.WithLabelValues(winner).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
