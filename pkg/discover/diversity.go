package discover

import "strings"

// LimitPerArtist caps how many tracks a single artist may occupy in the
// deck. The input is expected to be sorted by descending score; the filter
// makes a single pass keeping a track only while its artist's counter is
// below cap. Skipped tracks are dropped permanently, never re-inserted
// later, so this is a strict truncation rather than a round-robin
// redistribution.
func LimitPerArtist(tracks []Track, cap int) []Track {
	if cap <= 0 {
		return tracks
	}
	counts := make(map[string]int, len(tracks))
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Artist == "" {
			continue
		}
		key := strings.ToLower(t.Artist)
		if counts[key] >= cap {
			continue
		}
		counts[key]++
		out = append(out, t)
	}
	return out
}
