package discover

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

type fakeTags struct {
	tracks map[string][]RawTrack
	errOn  map[string]bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeTags) TopTracksByTag(_ context.Context, tag string, _ int) ([]RawTrack, error) {
	f.mu.Lock()
	f.calls = append(f.calls, tag)
	f.mu.Unlock()
	if f.errOn[tag] {
		return nil, fmt.Errorf("tag %s unavailable", tag)
	}
	return f.tracks[tag], nil
}

type fakeSimilar struct{ artists []SimilarArtist }

func (f fakeSimilar) SimilarArtists(context.Context, string, int) ([]SimilarArtist, error) {
	return f.artists, nil
}

type fakeArtistTop struct{ tracks map[string][]RawTrack }

func (f fakeArtistTop) ArtistTopTracks(_ context.Context, artist string, _ int) ([]RawTrack, error) {
	return f.tracks[artist], nil
}

type fakeAI struct {
	tracks []RawTrack
	called bool
}

func (f *fakeAI) Recommendations(context.Context, Preferences) ([]RawTrack, error) {
	f.called = true
	return f.tracks, nil
}

type fakeCharts struct{ tracks []RawTrack }

func (f fakeCharts) ChartTracks(context.Context, int) ([]RawTrack, error) {
	return f.tracks, nil
}

func rawTracks(artist string, n int) []RawTrack {
	out := make([]RawTrack, n)
	for i := range out {
		out[i] = RawTrack{Name: fmt.Sprintf("%s song %d", artist, i), ArtistName: artist}
	}
	return out
}

// TestRecommendPartialFailure verifies a failing genre lookup does not
// prevent the mood and reference stages from contributing.
func TestRecommendPartialFailure(t *testing.T) {
	tags := &fakeTags{
		tracks: map[string][]RawTrack{
			"chill":   rawTracks("Calm Artist", 4),
			"ambient": rawTracks("Drift Artist", 4),
		},
		errOn: map[string]bool{"rock": true},
	}
	agg := &Aggregator{
		Tags:      tags,
		Similar:   fakeSimilar{artists: []SimilarArtist{{Name: "Kindred", Match: 0.9}}},
		ArtistTop: fakeArtistTop{tracks: map[string][]RawTrack{"Kindred": rawTracks("Kindred", 3)}},
	}
	prefs := Preferences{
		Genres:    []string{"rock"},
		Moods:     []string{"chill"},
		Reference: &ReferenceTrack{Name: "Seed", Artist: "Origin"},
	}
	deck, err := agg.Recommend(context.Background(), prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deck) == 0 {
		t.Fatal("expected non-empty deck despite genre stage failure")
	}
	sources := map[Provenance]bool{}
	for _, tr := range deck {
		sources[tr.Source] = true
	}
	if !sources[SourceMood] || !sources[SourceReference] {
		t.Errorf("expected mood and reference contributions, got %v", sources)
	}
}

// TestRecommendEmptyPreferences checks the surprise-me guarantee: no
// preferences at all still yields a non-empty deck.
func TestRecommendEmptyPreferences(t *testing.T) {
	agg := &Aggregator{}
	deck, err := agg.Recommend(context.Background(), Preferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deck) == 0 {
		t.Fatal("expected fallback deck for empty preferences")
	}
	for _, tr := range deck {
		if tr.Source != SourceFallback {
			t.Errorf("expected fallback provenance, got %s for %q", tr.Source, tr.Name)
		}
	}
}

// TestRecommendEmptyPreferencesUsesCharts verifies the chart provider
// feeds the surprise-me path before the static list.
func TestRecommendEmptyPreferencesUsesCharts(t *testing.T) {
	charts := fakeCharts{tracks: rawTracks("Chart Artist", 10)}
	agg := &Aggregator{Charts: charts}
	deck, err := agg.Recommend(context.Background(), Preferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, tr := range deck {
		if tr.Artist == "Chart Artist" {
			found = true
			if tr.Reason != "Trending right now" {
				t.Errorf("chart reason missing: %+v", tr)
			}
		}
	}
	if !found {
		t.Fatal("chart tracks missing from surprise-me deck")
	}
}

// TestRecommendAISupplement checks the generative recommender is invoked
// only when the primary stages under-deliver.
func TestRecommendAISupplement(t *testing.T) {
	ai := &fakeAI{tracks: rawTracks("AI Artist", 5)}
	thin := &fakeTags{tracks: map[string][]RawTrack{"rock": rawTracks("Thin", 2)}}
	agg := &Aggregator{Tags: thin, AI: ai}
	deck, err := agg.Recommend(context.Background(), Preferences{Genres: []string{"rock"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ai.called {
		t.Fatal("expected AI supplement for thin result set")
	}
	found := false
	for _, tr := range deck {
		if tr.Source == SourceAI {
			found = true
		}
	}
	if !found {
		t.Error("AI tracks missing from deck")
	}

	rich := &fakeTags{tracks: map[string][]RawTrack{"rock": richRawTracks(12)}}
	ai2 := &fakeAI{}
	agg2 := &Aggregator{Tags: rich, AI: ai2}
	if _, err := agg2.Recommend(context.Background(), Preferences{Genres: []string{"rock"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai2.called {
		t.Error("AI should not be invoked when primaries deliver enough")
	}
}

func richRawTracks(n int) []RawTrack {
	out := make([]RawTrack, n)
	for i := range out {
		out[i] = RawTrack{Name: fmt.Sprintf("song %d", i), ArtistName: fmt.Sprintf("artist %d", i)}
	}
	return out
}

// TestRecommendDeckInvariants runs the spec scenario: ten raw rock tracks
// with case-variant duplicates and one over-represented artist. The deck
// must be deduplicated, diversity-capped, sorted by descending score and
// non-empty.
func TestRecommendDeckInvariants(t *testing.T) {
	raws := []RawTrack{
		{Name: "Anthem", ArtistName: "Loud Band"},
		{Name: "ANTHEM", ArtistName: "loud band"}, // case duplicate
		{Name: "Riff", ArtistName: "Loud Band"},
		{Name: "Solo", ArtistName: "Loud Band"},
		{Name: "Encore", ArtistName: "Loud Band"},
		{Name: "Ballad", ArtistName: "Soft Band"},
		{Name: "Hymn", ArtistName: "Soft Band"},
		{Name: "Drone", ArtistName: "Noise Act"},
		{Name: "Hum", ArtistName: "Quiet Act"},
		{Name: "Buzz", ArtistName: "Quiet Act"},
	}
	tags := &fakeTags{tracks: map[string][]RawTrack{"rock": raws}}
	agg := &Aggregator{Tags: tags, Config: Config{MinViable: 2, ArtistCap: 2}}
	deck, err := agg.Recommend(context.Background(), Preferences{Genres: []string{"rock"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deck) == 0 || len(deck) > 9 {
		t.Fatalf("expected 1-9 unique tracks, got %d", len(deck))
	}
	counts := map[string]int{}
	seen := map[string]bool{}
	for i, tr := range deck {
		counts[strings.ToLower(tr.Artist)]++
		key := tr.Key()
		if seen[key] {
			t.Errorf("duplicate %q in deck", key)
		}
		seen[key] = true
		if i > 0 && deck[i-1].Score < tr.Score {
			t.Errorf("deck not sorted descending at %d: %f < %f", i, deck[i-1].Score, tr.Score)
		}
	}
	for artist, n := range counts {
		if n > 2 {
			t.Errorf("artist %q appears %d times, cap is 2", artist, n)
		}
	}
}

// TestRecommendTruncates verifies the deck never exceeds MaxDeckSize.
func TestRecommendTruncates(t *testing.T) {
	tags := &fakeTags{tracks: map[string][]RawTrack{"rock": richRawTracks(50)}}
	agg := &Aggregator{Tags: tags, Config: Config{MaxDeckSize: 10, MinViable: 2}}
	deck, err := agg.Recommend(context.Background(), Preferences{Genres: []string{"rock"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deck) != 10 {
		t.Fatalf("expected deck of 10, got %d", len(deck))
	}
}

// TestRecommendFanOutLimits ensures the genre and mood fan-out respects
// the configured bounds.
func TestRecommendFanOutLimits(t *testing.T) {
	tags := &fakeTags{tracks: map[string][]RawTrack{}}
	agg := &Aggregator{Tags: tags}
	prefs := Preferences{
		Genres: []string{"rock", "pop", "jazz", "folk", "metal"},
		Moods:  []string{"chill", "happy", "party"},
	}
	if _, err := agg.Recommend(context.Background(), prefs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 genres plus 2 moods x 2 tags each.
	if len(tags.calls) != 7 {
		t.Fatalf("expected 7 tag lookups, got %d (%v)", len(tags.calls), tags.calls)
	}
}

// TestRecommendReasonsSet verifies stage-specific reasons survive into
// the deck.
func TestRecommendReasonsSet(t *testing.T) {
	tags := &fakeTags{tracks: map[string][]RawTrack{"rock": richRawTracks(10)}}
	agg := &Aggregator{Tags: tags, Config: Config{MinViable: 2}}
	deck, err := agg.Recommend(context.Background(), Preferences{Genres: []string{"rock"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tr := range deck {
		if tr.Reason == "" {
			t.Errorf("track %q has no reason", tr.Name)
		}
	}
}
