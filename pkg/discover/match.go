package discover

import (
	"strings"

	"github.com/xrash/smetrics"
)

// minMatchScore is the combined similarity (0-100) a candidate must reach
// before fuzzy matching accepts it.
const minMatchScore = 55

// BestMatch picks the preview-provider candidate that most plausibly
// represents the given track. A candidate whose artist name is a
// case-insensitive substring match of the wanted artist (either direction)
// wins immediately; otherwise candidates are ranked by a weighted
// title/artist edit-distance similarity and the best one above the
// threshold is used. The boolean result is false when no candidate is an
// acceptable match.
func BestMatch(name, artist string, candidates []RawTrack) (RawTrack, bool) {
	wantArtist := strings.ToLower(strings.TrimSpace(artist))
	for _, c := range candidates {
		ca := strings.ToLower(strings.TrimSpace(c.ArtistName))
		if ca == "" || wantArtist == "" {
			continue
		}
		if strings.Contains(ca, wantArtist) || strings.Contains(wantArtist, ca) {
			return c, true
		}
	}

	best := RawTrack{}
	bestScore := -1
	for _, c := range candidates {
		title := c.Title
		if title == "" {
			title = c.Name
		}
		// Title carries more weight than artist: providers frequently
		// list collaborations under a different primary artist.
		score := (similarity(name, title)*60 + similarity(artist, c.ArtistName)*40) / 100
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if bestScore >= minMatchScore {
		return best, true
	}
	return RawTrack{}, false
}

// similarity returns a 0-100 match percentage based on Wagner-Fischer edit
// distance over the lowercased strings. Distance and length are both
// counted in runes so multibyte names ("Tiësto", "Björk") are not
// penalised per byte.
func similarity(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 100
	}
	sa, sb := internRunes(ra, rb)
	distance := smetrics.WagnerFischer(sa, sb, 1, 1, 2)
	score := 100 - distance*100/maxLen
	if score < 0 {
		score = 0
	}
	return score
}

// internRunes maps each distinct rune across both inputs to a single byte,
// so the byte-oriented edit distance counts runes. Track and artist names
// never approach 256 distinct runes.
func internRunes(a, b []rune) (string, string) {
	table := make(map[rune]byte, len(a)+len(b))
	encode := func(rs []rune) string {
		out := make([]byte, len(rs))
		for i, r := range rs {
			c, ok := table[r]
			if !ok {
				c = byte(len(table))
				table[r] = c
			}
			out[i] = c
		}
		return string(out)
	}
	return encode(a), encode(b)
}
