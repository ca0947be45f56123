// Package metrics exposes the Prometheus collectors used across the
// application. Collectors are registered on the default registry so
// cmd/web only needs to mount promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StageFailures counts provider stage errors absorbed by the
	// aggregator. Labelled by pipeline stage (genre, mood, reference,
	// freetext, ai, chart, preview).
	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tuneswipe_stage_failures_total",
		Help: "Provider stage failures absorbed by the recommendation pipeline.",
	}, []string{"stage"})

	// FallbacksServed counts discovery requests answered from the static
	// fallback deck.
	FallbacksServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tuneswipe_fallbacks_served_total",
		Help: "Discovery requests that fell back to the built-in track list.",
	})

	// DeckSize observes the number of tracks in each returned deck.
	DeckSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tuneswipe_deck_size",
		Help:    "Tracks per returned deck.",
		Buckets: prometheus.LinearBuckets(0, 5, 9),
	})

	// RequestDuration observes HTTP handler latency by route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tuneswipe_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)
