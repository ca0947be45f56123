package discover

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"Tune-Swipe-Go/pkg/metrics"
)

// Enricher attaches playable preview URLs to a deck by querying a
// preview-capable provider one track at a time. The serial, rate-limited
// loop is deliberate backpressure against third-party rate limits, not an
// optimisation oversight.
type Enricher struct {
	Provider SearchProvider
	// Limiter spaces out provider calls. Nil means no delay, which tests
	// rely on.
	Limiter *rate.Limiter
	// Candidates is how many search results are considered per track.
	Candidates int
	Log        *logrus.Logger
}

// NewEnricher builds an Enricher with the production pacing of four
// lookups per second.
func NewEnricher(provider SearchProvider, log *logrus.Logger) *Enricher {
	return &Enricher{
		Provider:   provider,
		Limiter:    rate.NewLimiter(rate.Limit(4), 1),
		Candidates: 3,
		Log:        log,
	}
}

// AttachPreviews looks up a preview for every track that lacks one. On a
// match the provider's metadata (canonical title, artist, album, artwork,
// preview, duration) overrides the original; on failure or no match the
// track keeps its metadata and an empty PreviewURL, and is never dropped —
// the UI decides how to present previewless tracks. Tracks that ended up
// with previews are moved toward the front of the deck; relative order
// within each group is preserved.
func (e *Enricher) AttachPreviews(ctx context.Context, deck []Track) []Track {
	if e.Provider == nil {
		return deck
	}
	candidates := e.Candidates
	if candidates <= 0 {
		candidates = 3
	}

	out := make([]Track, 0, len(deck))
	for _, t := range deck {
		if t.PreviewURL != "" {
			out = append(out, t)
			continue
		}
		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx); err != nil {
				out = append(out, t)
				continue
			}
		}
		results, err := e.Provider.SearchTracks(ctx, t.Name+" "+t.Artist, candidates)
		if err != nil {
			e.log().WithFields(logrus.Fields{"track": t.Name, "error": err}).
				Warn("preview lookup failed")
			metrics.StageFailures.WithLabelValues("preview").Inc()
			out = append(out, t)
			continue
		}
		match, ok := BestMatch(t.Name, t.Artist, results)
		if !ok || match.PreviewURL == "" {
			out = append(out, t)
			continue
		}
		out = append(out, mergeMatch(t, match))
	}
	return previewsFirst(out)
}

// mergeMatch overlays the preview provider's metadata on the original
// track, keeping the original value wherever the match has none. Score,
// provenance and reason always survive from the original.
func mergeMatch(t Track, match RawTrack) Track {
	t.PreviewURL = match.PreviewURL
	if title := firstNonEmpty(match.Title, match.Name); title != "" {
		t.Name = title
	}
	if match.ArtistName != "" {
		t.Artist = match.ArtistName
	}
	if match.AlbumTitle != "" {
		t.Album = match.AlbumTitle
	}
	if match.ImageURL != "" {
		t.ImageURL = match.ImageURL
	}
	if match.Duration > 0 {
		t.Duration = match.Duration
	}
	return t
}

// previewsFirst stably partitions the deck so playable tracks come first.
// Nothing is removed; previewless tracks keep their relative order at the
// tail.
func previewsFirst(deck []Track) []Track {
	out := make([]Track, 0, len(deck))
	for _, t := range deck {
		if t.PreviewURL != "" {
			out = append(out, t)
		}
	}
	for _, t := range deck {
		if t.PreviewURL == "" {
			out = append(out, t)
		}
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (e *Enricher) log() *logrus.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logrus.StandardLogger()
}
