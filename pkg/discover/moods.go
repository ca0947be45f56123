package discover

import "strings"

// moodTags maps each onboarding mood to the catalogue tags that best
// approximate it. The engine owns this table; providers only ever see the
// resolved tags.
var moodTags = map[string][]string{
	"energetic":  {"energetic", "upbeat", "dance", "workout", "party"},
	"chill":      {"chill", "ambient", "lofi", "relax", "calm"},
	"happy":      {"happy", "uplifting", "feelgood", "positive", "sunny"},
	"focused":    {"focus", "study", "concentration", "work", "productive"},
	"melancholy": {"sad", "melancholy", "emotional", "reflective", "somber"},
	"party":      {"party", "dance", "club", "festival", "celebration"},
	"romantic":   {"romantic", "love", "intimate", "passionate", "sensual"},
	"nostalgic":  {"nostalgic", "retro", "throwback", "classic", "oldies"},
}

// genreTags translates UI genre labels into the tag vocabulary the tag
// provider understands.
var genreTags = map[string]string{
	"rock":        "rock",
	"pop":         "pop",
	"electronic":  "electronic",
	"hip hop":     "hiphop",
	"jazz":        "jazz",
	"indie":       "indie",
	"alternative": "alternative",
	"r&b":         "rnb",
	"classical":   "classical",
	"metal":       "metal",
	"folk":        "folk",
	"soul":        "soul",
	"kpop":        "kpop",
	"lofi":        "lofi",
	"country":     "country",
	"reggae":      "reggae",
}

// TagsForMood returns the tags used to query for a mood. Unknown moods map
// to themselves so free-form moods still produce a query.
func TagsForMood(mood string) []string {
	if tags, ok := moodTags[strings.ToLower(mood)]; ok {
		return tags
	}
	return []string{strings.ToLower(mood)}
}

// TagForGenre returns the provider tag for a UI genre label.
func TagForGenre(genre string) string {
	if tag, ok := genreTags[strings.ToLower(genre)]; ok {
		return tag
	}
	return strings.ToLower(genre)
}
