// Provider interfaces consumed by the Aggregator. Each maps to one
// external lookup; concrete implementations live in pkg/lastfm,
// pkg/deezer, pkg/spotify, pkg/youtube and pkg/gemini. Every Aggregator
// field holding one of these may be nil, in which case the corresponding
// stage is skipped rather than failing the pipeline.

package discover

import "context"

// TagProvider returns the most popular tracks for a genre or mood tag.
type TagProvider interface {
	TopTracksByTag(ctx context.Context, tag string, limit int) ([]RawTrack, error)
}

// SimilarArtist is one entry from a similar-artist lookup.
type SimilarArtist struct {
	Name  string
	Match float64
}

// SimilarArtistProvider lists artists resembling the given one, most
// similar first.
type SimilarArtistProvider interface {
	SimilarArtists(ctx context.Context, artist string, limit int) ([]SimilarArtist, error)
}

// ArtistTopTracksProvider returns an artist's most played tracks.
type ArtistTopTracksProvider interface {
	ArtistTopTracks(ctx context.Context, artist string, limit int) ([]RawTrack, error)
}

// SimilarTracksProvider returns tracks similar to a specific seed track.
type SimilarTracksProvider interface {
	SimilarTracks(ctx context.Context, artist, track string, limit int) ([]RawTrack, error)
}

// SearchProvider performs a free-text track search. It doubles as the
// preview-enrichment lookup when the implementation supplies preview URLs
// (Deezer does, Last.fm does not).
type SearchProvider interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]RawTrack, error)
}

// AIProvider generates recommendations from the whole preference object.
// Implementations must degrade to a static mock list when unconfigured.
type AIProvider interface {
	Recommendations(ctx context.Context, prefs Preferences) ([]RawTrack, error)
}

// ChartProvider returns globally trending tracks. Used for the
// surprise-me path when the user supplied no preferences.
type ChartProvider interface {
	ChartTracks(ctx context.Context, limit int) ([]RawTrack, error)
}
