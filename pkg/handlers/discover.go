// Discovery and search endpoints.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"Tune-Swipe-Go/pkg/discover"
)

// DiscoverJSON handles POST /api/discover. The body is a Preferences
// object; the response is the ordered, optionally preview-enriched deck.
// An empty preference set is valid and answered from the surprise-me
// path. The request context flows through the whole pipeline, so an
// abandoned request (user swiped away and issued a new one) cancels its
// provider calls; stale responses are simply never read by the client.
func (app *Application) DiscoverJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
		return
	}
	var prefs discover.Preferences
	if err := decodeJSON(r, &prefs); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	deck, err := app.Recommender.Recommend(r.Context(), prefs)
	if err != nil {
		if errors.Is(err, discover.ErrNoResults) {
			respondError(w, http.StatusNotFound, "no_results", "no recommendations found, try different preferences")
			return
		}
		app.log().WithError(err).Error("recommendation failed")
		respondError(w, http.StatusInternalServerError, "internal", "recommendation failed")
		return
	}
	if app.Enricher != nil {
		deck = app.Enricher.AttachPreviews(r.Context(), deck)
	}
	respondJSON(w, http.StatusOK, map[string]any{"tracks": deck})
}

// SearchJSON handles GET /api/search?q=. It is used by the onboarding
// reference-track picker and returns normalised tracks, not raw provider
// records.
func (app *Application) SearchJSON(w http.ResponseWriter, r *http.Request) {
	if app.Search == nil {
		respondError(w, http.StatusServiceUnavailable, "unconfigured", "search provider not configured")
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "missing q parameter")
		return
	}
	raws, err := app.Search.SearchTracks(r.Context(), q, 10)
	if err != nil {
		app.log().WithError(err).Warn("search failed")
		respondError(w, http.StatusBadGateway, "provider_error", "search failed")
		return
	}
	tracks := discover.NormalizeAll(raws, discover.SourceFreeText)
	respondJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}
