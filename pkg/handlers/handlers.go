// Package handlers implements the JSON API in front of the recommendation
// engine: discovery requests, free-text search, liked tracks and shareable
// bento collections. Handlers never surface provider failures; the engine
// absorbs those, and the only distinguishable error state is an empty
// deck.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"Tune-Swipe-Go/pkg/db"
	"Tune-Swipe-Go/pkg/discover"
	"Tune-Swipe-Go/pkg/metrics"
)

// Recommender produces a deck for a preference set. *discover.Aggregator
// implements it; tests substitute fakes.
type Recommender interface {
	Recommend(ctx context.Context, prefs discover.Preferences) ([]discover.Track, error)
}

// PreviewEnricher attaches preview URLs to a deck. *discover.Enricher
// implements it.
type PreviewEnricher interface {
	AttachPreviews(ctx context.Context, deck []discover.Track) []discover.Track
}

// Application bundles the dependencies used by the HTTP handlers.
// Enricher and Search may be nil, in which case the matching endpoints
// degrade gracefully (no enrichment pass, 503 on search).
type Application struct {
	Recommender Recommender
	Enricher    PreviewEnricher
	Search      discover.SearchProvider
	DB          *db.DB
	Log         *logrus.Logger
}

func (app *Application) log() *logrus.Logger {
	if app.Log != nil {
		return app.Log
	}
	return logrus.StandardLogger()
}

// Health reports process liveness.
func (app *Application) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// WithMetrics wraps a handler so its latency is observed under the given
// route label.
func WithMetrics(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
