package discover

import (
	"math/rand"
	"strings"
)

// ScoreWeights holds the tunable scoring parameters. The exact magnitudes
// are configurable; the provenance ordering reference >= genre/mood >=
// freetext >= ai >= fallback must be preserved by any override.
type ScoreWeights struct {
	Reference float64
	Genre     float64
	Mood      float64
	FreeText  float64
	AI        float64
	Fallback  float64

	// TagOverlap is added once per tag shared between the track and the
	// user's requested genres and moods.
	TagOverlap float64
	// ReferenceArtist is added when the track's artist is a substring
	// match of the reference artist in either direction.
	ReferenceArtist float64
	// PopularityCap bounds the popularity contribution; PopularityUnit is
	// the play count that would earn the full cap.
	PopularityCap  float64
	PopularityUnit float64
	// Jitter is the upper bound of the uniform random tie-breaking term.
	Jitter float64
	// MaxScore clamps the final value.
	MaxScore float64
}

// DefaultScoreWeights returns the weights used in production.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Reference:       3.0,
		Genre:           3.0,
		Mood:            2.5,
		FreeText:        2.2,
		AI:              2.0,
		Fallback:        1.5,
		TagOverlap:      0.5,
		ReferenceArtist: 2.0,
		PopularityCap:   0.5,
		PopularityUnit:  1_000_000,
		Jitter:          0.3,
		MaxScore:        6.0,
	}
}

// Scorer computes track relevance scores. The random source is injected so
// tests can pass a fixed seed or nil to disable the jitter term entirely;
// with a nil Rand the scorer is a pure function of (track, preferences).
type Scorer struct {
	Weights ScoreWeights
	Rand    *rand.Rand
}

// NewScorer builds a Scorer. rnd may be nil for deterministic output.
func NewScorer(w ScoreWeights, rnd *rand.Rand) *Scorer {
	return &Scorer{Weights: w, Rand: rnd}
}

// Score computes the relevance of a track for the given preferences.
// Missing tag or popularity data contributes zero.
func (s *Scorer) Score(t Track, prefs Preferences) float64 {
	w := s.Weights
	score := s.base(t.Source)

	score += float64(tagOverlap(t.Tags, prefs)) * w.TagOverlap

	if prefs.Reference != nil && prefs.Reference.Artist != "" && t.Artist != "" {
		ref := strings.ToLower(prefs.Reference.Artist)
		artist := strings.ToLower(t.Artist)
		if strings.Contains(artist, ref) || strings.Contains(ref, artist) {
			score += w.ReferenceArtist
		}
	}

	if plays := popularity(t); plays > 0 && w.PopularityUnit > 0 {
		bonus := float64(plays) / w.PopularityUnit * w.PopularityCap
		if bonus > w.PopularityCap {
			bonus = w.PopularityCap
		}
		score += bonus
	}

	if s.Rand != nil && w.Jitter > 0 {
		score += s.Rand.Float64() * w.Jitter
	}

	if w.MaxScore > 0 && score > w.MaxScore {
		score = w.MaxScore
	}
	return score
}

func (s *Scorer) base(p Provenance) float64 {
	w := s.Weights
	switch p {
	case SourceReference:
		return w.Reference
	case SourceGenre:
		return w.Genre
	case SourceMood:
		return w.Mood
	case SourceFreeText:
		return w.FreeText
	case SourceAI:
		return w.AI
	case SourceFallback:
		return w.Fallback
	}
	return w.Fallback
}

// tagOverlap counts the case-insensitive intersection between the track's
// tags and the user's requested genres and moods.
func tagOverlap(tags []string, prefs Preferences) int {
	if len(tags) == 0 {
		return 0
	}
	wanted := make(map[string]struct{}, len(prefs.Genres)+len(prefs.Moods))
	for _, g := range prefs.Genres {
		wanted[strings.ToLower(g)] = struct{}{}
	}
	for _, m := range prefs.Moods {
		wanted[strings.ToLower(m)] = struct{}{}
	}
	n := 0
	counted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		lt := strings.ToLower(tag)
		if _, dup := counted[lt]; dup {
			continue
		}
		counted[lt] = struct{}{}
		if _, ok := wanted[lt]; ok {
			n++
		}
	}
	return n
}

// popularity prefers play count and falls back to listener count; a viral
// track cannot dominate because the caller caps the contribution.
func popularity(t Track) int64 {
	if t.Playcount > 0 {
		return t.Playcount
	}
	return t.Listeners
}
