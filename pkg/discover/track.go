// Package discover implements the recommendation engine behind the swipe
// interface. It merges partially-overlapping results from several music
// metadata providers into a single deduplicated, scored and
// diversity-filtered deck of candidate tracks.
//
// Providers return their native records as RawTrack values which are
// normalised into the canonical Track shape before any scoring or
// deduplication takes place. The rest of the application only ever sees
// Track.
package discover

import "strings"

// Provenance records which pipeline stage produced a track. The Scorer uses
// it to weight results; stages backed by stronger signals (reference-track
// similarity, explicit genre choice) outrank free-text and fallback
// sources.
type Provenance string

const (
	SourceGenre     Provenance = "genre"
	SourceMood      Provenance = "mood"
	SourceReference Provenance = "reference"
	SourceFreeText  Provenance = "freetext"
	SourceAI        Provenance = "ai"
	SourceFallback  Provenance = "fallback"
)

// Track is the canonical track shape flowing through the pipeline and out
// to the UI. Instances are created fresh per Recommend call and are not
// mutated after the deck is returned.
//
// PreviewURL and ImageURL are empty when the originating provider supplied
// none; an absent preview is an expected state, not an error.
type Track struct {
	Name       string     `json:"name"`
	Artist     string     `json:"artist"`
	Album      string     `json:"album,omitempty"`
	PreviewURL string     `json:"preview_url,omitempty"`
	ImageURL   string     `json:"image_url,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Source     Provenance `json:"source"`
	Score      float64    `json:"score"`
	Reason     string     `json:"reason,omitempty"`
	Playcount  int64      `json:"playcount,omitempty"`
	Listeners  int64      `json:"listeners,omitempty"`
	Duration   int        `json:"duration,omitempty"`
}

// Key returns the identity used for deduplication: the lowercased name and
// artist joined by an underscore. It is not globally unique across
// sessions.
func (t Track) Key() string {
	return strings.ToLower(t.Name) + "_" + strings.ToLower(t.Artist)
}

// ReferenceTrack identifies the seed track a user picked during
// onboarding.
type ReferenceTrack struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// Preferences is the user input driving a discovery request. All fields
// are optional; an entirely empty value is treated as "surprise me" rather
// than an error.
type Preferences struct {
	Moods     []string        `json:"moods,omitempty"`
	Genres    []string        `json:"genres,omitempty"`
	Reference *ReferenceTrack `json:"reference,omitempty"`
	Query     string          `json:"query,omitempty"`
}

// Empty reports whether the user supplied no preference at all.
func (p Preferences) Empty() bool {
	return len(p.Moods) == 0 && len(p.Genres) == 0 && p.Reference == nil && strings.TrimSpace(p.Query) == ""
}

// RawTrack is a provider's native track record before normalisation.
// Providers differ on which name field they populate: Last.fm style
// responses use Name while Deezer and YouTube style responses use Title.
// Normalize resolves the variance; records carrying neither are dropped.
type RawTrack struct {
	Name       string
	Title      string
	ArtistName string
	AlbumTitle string
	PreviewURL string
	ImageURL   string
	Tags       []string
	Playcount  int64
	Listeners  int64
	Duration   int
	Reason     string
}
