package discover

import "fmt"

// FallbackDeck returns the built-in track list served when live providers
// fail or under-deliver. Tracks are tagged with the user's requested
// genres and moods where possible so downstream scoring still reflects the
// preference that was supplied.
func FallbackDeck(prefs Preferences) []Track {
	genre := "pop"
	if len(prefs.Genres) > 0 {
		genre = prefs.Genres[0]
	}
	mood := "chill"
	if len(prefs.Moods) > 0 {
		mood = prefs.Moods[0]
	}

	tracks := []Track{
		{
			Name:      "Blinding Lights",
			Artist:    "The Weeknd",
			Album:     "After Hours",
			Tags:      []string{genre, mood, "synth-pop", "80s"},
			Reason:    fmt.Sprintf("A synth-pop staple that captures %s energy", mood),
			Playcount: 250_000_000,
			Duration:  200,
		},
		{
			Name:      "Stay",
			Artist:    "The Kid LAROI, Justin Bieber",
			Album:     "F*CK LOVE 3",
			Tags:      []string{"pop", "emotional", mood},
			Reason:    "Emotional pop collaboration with heartfelt lyrics",
			Playcount: 200_000_000,
			Duration:  141,
		},
		{
			Name:      "good 4 u",
			Artist:    "Olivia Rodrigo",
			Album:     "SOUR",
			Tags:      []string{"alternative", "pop-punk", genre},
			Reason:    "Pop-punk influenced track with raw emotional delivery",
			Playcount: 180_000_000,
			Duration:  178,
		},
		{
			Name:      "Heat Waves",
			Artist:    "Glass Animals",
			Album:     "Dreamland",
			Tags:      []string{"indie", "electronic", mood},
			Reason:    "Dreamy indie electronic perfect for chill sessions",
			Playcount: 220_000_000,
			Duration:  238,
		},
		{
			Name:      "As It Was",
			Artist:    "Harry Styles",
			Album:     "Harry's House",
			Tags:      []string{"pop", "nostalgic", genre},
			Reason:    "Catchy pop with nostalgic 80s influence",
			Playcount: 190_000_000,
			Duration:  167,
		},
		{
			Name:      "Levitating",
			Artist:    "Dua Lipa",
			Album:     "Future Nostalgia",
			Tags:      []string{"pop", "disco", mood},
			Reason:    "Disco-influenced dance pop built for repeat plays",
			Playcount: 170_000_000,
			Duration:  203,
		},
	}

	for i := range tracks {
		tracks[i].Source = SourceFallback
		tracks[i].ImageURL = PlaceholderImage(tracks[i].Name, tracks[i].Artist)
	}
	return tracks
}
