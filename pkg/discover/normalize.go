package discover

import (
	"fmt"
	"net/url"
	"strings"
)

// lastfmPlaceholderHash appears in artwork URLs Last.fm returns when it
// has no real image for a track. Such URLs are treated as absent artwork
// so the deterministic placeholder is used instead.
const lastfmPlaceholderHash = "2a96cbd8b46e442fc41c2b86b821562f"

// Normalize converts a provider record into the canonical Track shape.
// The boolean result is false when the record cannot form a valid
// identity (no name in either supported field, or no artist); callers
// must drop such records rather than abort the batch.
func Normalize(raw RawTrack, source Provenance) (Track, bool) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = strings.TrimSpace(raw.Title)
	}
	artist := strings.TrimSpace(raw.ArtistName)
	if name == "" || artist == "" {
		return Track{}, false
	}

	image := raw.ImageURL
	if image == "" || strings.Contains(image, lastfmPlaceholderHash) {
		image = PlaceholderImage(name, artist)
	}

	return Track{
		Name:       name,
		Artist:     artist,
		Album:      strings.TrimSpace(raw.AlbumTitle),
		PreviewURL: raw.PreviewURL,
		ImageURL:   image,
		Tags:       raw.Tags,
		Source:     source,
		Reason:     raw.Reason,
		Playcount:  raw.Playcount,
		Listeners:  raw.Listeners,
		Duration:   raw.Duration,
	}, true
}

// NormalizeAll converts a batch of raw records, silently dropping any that
// cannot be normalised.
func NormalizeAll(raws []RawTrack, source Provenance) []Track {
	tracks := make([]Track, 0, len(raws))
	for _, r := range raws {
		if t, ok := Normalize(r, source); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// PlaceholderImage returns a generated artwork URL keyed off the track and
// artist initials. The same input always yields the same URL.
func PlaceholderImage(name, artist string) string {
	initials := initial(name) + initial(artist)
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=7D5260&color=fff&size=300",
		url.QueryEscape(initials))
}

func initial(s string) string {
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return "M"
}
