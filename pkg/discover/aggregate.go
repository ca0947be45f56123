// Aggregator orchestration: fans out to the configured providers per
// preference category, merges the results and runs them through
// normalisation, deduplication, scoring, diversity filtering and
// truncation. One provider being down must not prevent a deck being built
// from the others, so every stage failure is absorbed, logged and counted
// rather than propagated.

package discover

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"Tune-Swipe-Go/pkg/metrics"
)

// ErrNoResults signals that even the fallback stage produced nothing. The
// caller can distinguish it from transient provider failure, which never
// surfaces as an error.
var ErrNoResults = errors.New("no recommendations found")

// Config bounds the aggregator's fan-out and output sizes. The zero value
// of any field falls back to the default.
type Config struct {
	// MaxDeckSize caps the final deck length.
	MaxDeckSize int
	// ArtistCap is the diversity limit per artist.
	ArtistCap int
	// MinViable is the unique-track count below which the AI supplement
	// and then the fallback stage are invoked.
	MinViable int
	// TagLimit is the per-tag result count requested from the tag
	// provider.
	TagLimit int
	// MaxGenres / MaxMoods / MaxMoodTags bound the query fan-out so a
	// user selecting everything does not hammer the providers.
	MaxGenres   int
	MaxMoods    int
	MaxMoodTags int
	// SimilarArtistLimit and ArtistTrackLimit shape the reference stage.
	SimilarArtistLimit int
	ArtistTrackLimit   int
	SimilarTrackLimit  int
	// SearchLimit bounds the free-text stage.
	SearchLimit int
	// StageTimeout bounds each category fetch; a timed-out stage
	// contributes nothing, like any other failed stage.
	StageTimeout time.Duration
}

// DefaultConfig returns the production limits.
func DefaultConfig() Config {
	return Config{
		MaxDeckSize:        30,
		ArtistCap:          2,
		MinViable:          8,
		TagLimit:           10,
		MaxGenres:          3,
		MaxMoods:           2,
		MaxMoodTags:        2,
		SimilarArtistLimit: 3,
		ArtistTrackLimit:   5,
		SimilarTrackLimit:  6,
		SearchLimit:        10,
		StageTimeout:       10 * time.Second,
	}
}

// Aggregator builds recommendation decks. Any provider field may be nil;
// the matching stage is then skipped (the documented behaviour for a
// missing API key). Scorer may be nil, in which case default weights with
// no jitter are used.
type Aggregator struct {
	Tags          TagProvider
	Similar       SimilarArtistProvider
	ArtistTop     ArtistTopTracksProvider
	SimilarTracks SimilarTracksProvider
	Search        SearchProvider
	AI            AIProvider
	Charts        ChartProvider

	Scorer *Scorer
	Config Config
	Log    *logrus.Logger
}

// Recommend produces an ordered deck for the given preferences. Each call
// builds an independent track graph; nothing is shared across requests.
// The only error ever returned is ErrNoResults.
func (a *Aggregator) Recommend(ctx context.Context, prefs Preferences) ([]Track, error) {
	cfg := a.config()

	type stage struct {
		name string
		run  func(context.Context) ([]Track, error)
	}
	var stages []stage
	if len(prefs.Genres) > 0 && a.Tags != nil {
		stages = append(stages, stage{"genre", func(ctx context.Context) ([]Track, error) {
			return a.fetchByGenre(ctx, prefs, cfg)
		}})
	}
	if len(prefs.Moods) > 0 && a.Tags != nil {
		stages = append(stages, stage{"mood", func(ctx context.Context) ([]Track, error) {
			return a.fetchByMood(ctx, prefs, cfg)
		}})
	}
	if prefs.Reference != nil && (a.SimilarTracks != nil || (a.Similar != nil && a.ArtistTop != nil)) {
		stages = append(stages, stage{"reference", func(ctx context.Context) ([]Track, error) {
			return a.fetchByReference(ctx, *prefs.Reference, cfg)
		}})
	}
	if strings.TrimSpace(prefs.Query) != "" && a.Search != nil {
		stages = append(stages, stage{"freetext", func(ctx context.Context) ([]Track, error) {
			return a.fetchFreeText(ctx, prefs.Query, cfg)
		}})
	}

	// Category fetches are read-only and order-independent, so they run
	// concurrently; all must complete (or fail) before merging starts.
	type result struct {
		stage  string
		tracks []Track
		err    error
	}
	resCh := make(chan result, len(stages))
	var wg sync.WaitGroup
	for _, st := range stages {
		st := st
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, cfg.StageTimeout)
			defer cancel()
			tracks, err := st.run(sctx)
			resCh <- result{stage: st.name, tracks: tracks, err: err}
		}()
	}
	wg.Wait()
	close(resCh)

	var merged []Track
	for r := range resCh {
		if r.err != nil {
			a.log().WithFields(logrus.Fields{"stage": r.stage, "error": r.err}).
				Warn("recommendation stage failed")
			metrics.StageFailures.WithLabelValues(r.stage).Inc()
		}
		merged = append(merged, r.tracks...)
	}
	unique := Dedupe(merged)

	// Supplement thin result sets with the generative recommender.
	if len(unique) < cfg.MinViable && a.AI != nil {
		sctx, cancel := context.WithTimeout(ctx, cfg.StageTimeout)
		raws, err := a.AI.Recommendations(sctx, prefs)
		cancel()
		if err != nil {
			a.log().WithError(err).Warn("ai recommendations failed")
			metrics.StageFailures.WithLabelValues("ai").Inc()
		} else {
			unique = Dedupe(append(unique, NormalizeAll(raws, SourceAI)...))
		}
	}

	// Surprise-me: an empty preference set pulls from the charts before
	// resorting to the static list.
	if len(unique) < cfg.MinViable && prefs.Empty() && a.Charts != nil {
		sctx, cancel := context.WithTimeout(ctx, cfg.StageTimeout)
		raws, err := a.Charts.ChartTracks(sctx, cfg.MaxDeckSize)
		cancel()
		if err != nil {
			a.log().WithError(err).Warn("chart lookup failed")
			metrics.StageFailures.WithLabelValues("chart").Inc()
		} else {
			for i := range raws {
				if raws[i].Reason == "" {
					raws[i].Reason = "Trending right now"
				}
			}
			unique = Dedupe(append(unique, NormalizeAll(raws, SourceFallback)...))
		}
	}

	if len(unique) < cfg.MinViable {
		metrics.FallbacksServed.Inc()
		unique = Dedupe(append(unique, FallbackDeck(prefs)...))
	}

	scorer := a.scorer()
	for i := range unique {
		unique[i].Score = scorer.Score(unique[i], prefs)
	}
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Score > unique[j].Score })

	deck := LimitPerArtist(unique, cfg.ArtistCap)
	if len(deck) > cfg.MaxDeckSize {
		deck = deck[:cfg.MaxDeckSize]
	}
	if len(deck) == 0 {
		return nil, ErrNoResults
	}
	metrics.DeckSize.Observe(float64(len(deck)))
	return deck, nil
}

// fetchByGenre queries the tag provider once per requested genre. A
// failing genre is skipped; the stage only errors when every lookup
// failed.
func (a *Aggregator) fetchByGenre(ctx context.Context, prefs Preferences, cfg Config) ([]Track, error) {
	var out []Track
	var firstErr error
	for _, genre := range limitStrings(prefs.Genres, cfg.MaxGenres) {
		raws, err := a.Tags.TopTracksByTag(ctx, TagForGenre(genre), cfg.TagLimit)
		if err != nil {
			a.log().WithFields(logrus.Fields{"genre": genre, "error": err}).Warn("genre lookup failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for i := range raws {
			raws[i].Tags = append(raws[i].Tags, strings.ToLower(genre))
			if raws[i].Reason == "" {
				raws[i].Reason = fmt.Sprintf("Top %s track", genre)
			}
		}
		out = append(out, NormalizeAll(raws, SourceGenre)...)
	}
	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// fetchByMood resolves each mood through the mood→tag table and queries
// the tag provider per resolved tag.
func (a *Aggregator) fetchByMood(ctx context.Context, prefs Preferences, cfg Config) ([]Track, error) {
	var out []Track
	var firstErr error
	for _, mood := range limitStrings(prefs.Moods, cfg.MaxMoods) {
		for _, tag := range limitStrings(TagsForMood(mood), cfg.MaxMoodTags) {
			raws, err := a.Tags.TopTracksByTag(ctx, tag, cfg.TagLimit)
			if err != nil {
				a.log().WithFields(logrus.Fields{"mood": mood, "tag": tag, "error": err}).
					Warn("mood lookup failed")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			for i := range raws {
				raws[i].Tags = append(raws[i].Tags, strings.ToLower(mood), tag)
				if raws[i].Reason == "" {
					raws[i].Reason = fmt.Sprintf("Matches your %s mood", mood)
				}
			}
			out = append(out, NormalizeAll(raws, SourceMood)...)
		}
	}
	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// fetchByReference combines direct track similarity with a similar-artist
// fan-out: similar artists are looked up first, then each contributes its
// top tracks.
func (a *Aggregator) fetchByReference(ctx context.Context, ref ReferenceTrack, cfg Config) ([]Track, error) {
	var out []Track
	var firstErr error

	if a.SimilarTracks != nil && ref.Name != "" && ref.Artist != "" {
		raws, err := a.SimilarTracks.SimilarTracks(ctx, ref.Artist, ref.Name, cfg.SimilarTrackLimit)
		if err != nil {
			a.log().WithError(err).Warn("similar tracks lookup failed")
			firstErr = err
		} else {
			for i := range raws {
				if raws[i].Reason == "" {
					raws[i].Reason = fmt.Sprintf("Similar to %q by %s", ref.Name, ref.Artist)
				}
			}
			out = append(out, NormalizeAll(raws, SourceReference)...)
		}
	}

	if a.Similar != nil && a.ArtistTop != nil && ref.Artist != "" {
		artists, err := a.Similar.SimilarArtists(ctx, ref.Artist, cfg.SimilarArtistLimit)
		if err != nil {
			a.log().WithError(err).Warn("similar artists lookup failed")
			if firstErr == nil {
				firstErr = err
			}
		}
		for _, artist := range artists {
			raws, err := a.ArtistTop.ArtistTopTracks(ctx, artist.Name, cfg.ArtistTrackLimit)
			if err != nil {
				a.log().WithFields(logrus.Fields{"artist": artist.Name, "error": err}).
					Warn("artist top tracks lookup failed")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			for i := range raws {
				if raws[i].Reason == "" {
					raws[i].Reason = fmt.Sprintf("Similar to %s", ref.Artist)
				}
			}
			out = append(out, NormalizeAll(raws, SourceReference)...)
		}
	}

	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (a *Aggregator) fetchFreeText(ctx context.Context, query string, cfg Config) ([]Track, error) {
	raws, err := a.Search.SearchTracks(ctx, query, cfg.SearchLimit)
	if err != nil {
		return nil, err
	}
	for i := range raws {
		if raws[i].Reason == "" {
			raws[i].Reason = "Matches your search"
		}
	}
	return NormalizeAll(raws, SourceFreeText), nil
}

func (a *Aggregator) config() Config {
	cfg := a.Config
	def := DefaultConfig()
	if cfg.MaxDeckSize <= 0 {
		cfg.MaxDeckSize = def.MaxDeckSize
	}
	if cfg.ArtistCap <= 0 {
		cfg.ArtistCap = def.ArtistCap
	}
	if cfg.MinViable <= 0 {
		cfg.MinViable = def.MinViable
	}
	if cfg.TagLimit <= 0 {
		cfg.TagLimit = def.TagLimit
	}
	if cfg.MaxGenres <= 0 {
		cfg.MaxGenres = def.MaxGenres
	}
	if cfg.MaxMoods <= 0 {
		cfg.MaxMoods = def.MaxMoods
	}
	if cfg.MaxMoodTags <= 0 {
		cfg.MaxMoodTags = def.MaxMoodTags
	}
	if cfg.SimilarArtistLimit <= 0 {
		cfg.SimilarArtistLimit = def.SimilarArtistLimit
	}
	if cfg.ArtistTrackLimit <= 0 {
		cfg.ArtistTrackLimit = def.ArtistTrackLimit
	}
	if cfg.SimilarTrackLimit <= 0 {
		cfg.SimilarTrackLimit = def.SimilarTrackLimit
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = def.SearchLimit
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = def.StageTimeout
	}
	return cfg
}

func (a *Aggregator) scorer() *Scorer {
	if a.Scorer != nil {
		return a.Scorer
	}
	return NewScorer(DefaultScoreWeights(), nil)
}

func (a *Aggregator) log() *logrus.Logger {
	if a.Log != nil {
		return a.Log
	}
	return logrus.StandardLogger()
}

func limitStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
