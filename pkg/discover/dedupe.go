package discover

// Dedupe collapses tracks sharing the same case-insensitive (name, artist)
// identity, keeping the first-seen instance and discarding all metadata
// from later duplicates. Order among the survivors is preserved, so the
// operation is stable and idempotent. Tracks missing a name or artist
// cannot form a key and are excluded entirely.
func Dedupe(tracks []Track) []Track {
	seen := make(map[string]struct{}, len(tracks))
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Name == "" || t.Artist == "" {
			continue
		}
		key := t.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
