// Package gemini implements the generative recommender on the Gemini
// generateContent REST endpoint. The model is asked for a JSON track list;
// fenced code blocks around the payload are tolerated. When no API key is
// configured the client degrades to a small static mock list so the
// pipeline can run in demo capacity.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"Tune-Swipe-Go/pkg/discover"
)

const defaultURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"

// defaultHTTP serves clients constructed without an http.Client. The long
// timeout accounts for model generation latency.
var defaultHTTP = &http.Client{Timeout: 30 * time.Second}

// Client calls the Gemini API. The zero value (no key) serves mock
// recommendations. Fields are read-only after construction; one Client
// may be used from multiple goroutines.
type Client struct {
	APIKey string
	HTTP   *http.Client
}

var _ discover.AIProvider = (*Client)(nil)

// Recommendations asks the model for tracks matching the preferences. API
// errors and unparseable responses are returned as errors; the aggregator
// absorbs them like any other stage failure. An unconfigured client
// returns the mock list instead.
func (c *Client) Recommendations(ctx context.Context, prefs discover.Preferences) ([]discover.RawTrack, error) {
	if c.APIKey == "" {
		return mockRecommendations(prefs), nil
	}
	httpc := c.HTTP
	if httpc == nil {
		httpc = defaultHTTP
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": buildPrompt(prefs)}}},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, defaultURL+"?key="+c.APIKey, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini error: %s", resp.Status)
	}

	var body struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("gemini decode: %w", err)
	}
	if len(body.Candidates) == 0 || len(body.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty response")
	}
	return parseTrackList(body.Candidates[0].Content.Parts[0].Text)
}

// buildPrompt renders the user preferences into the recommendation
// request. The model is instructed to answer with bare JSON.
func buildPrompt(prefs discover.Preferences) string {
	var b strings.Builder
	b.WriteString(`You are a music expert. Provide a list of 20 music recommendations as a JSON array with this exact structure:
[{"name":"Song Title","artist":"Artist Name","album":"Album Name","reason":"why this matches (1-2 sentences)","tags":["tag1","tag2"]}]

User preferences:
`)
	if len(prefs.Moods) > 0 {
		fmt.Fprintf(&b, "- Moods: %s\n", strings.Join(prefs.Moods, ", "))
	}
	if len(prefs.Genres) > 0 {
		fmt.Fprintf(&b, "- Genres: %s\n", strings.Join(prefs.Genres, ", "))
	}
	if prefs.Reference != nil {
		fmt.Fprintf(&b, "- Reference track: %q by %s\n", prefs.Reference.Name, prefs.Reference.Artist)
	}
	if prefs.Query != "" {
		fmt.Fprintf(&b, "- Free-text request: %s\n", prefs.Query)
	}
	b.WriteString(`
Guidelines: return ONLY valid JSON, mix popular and underrated tracks, keep artist diversity (no artist more than twice), match at least one preference per track.`)
	return b.String()
}

// parseTrackList decodes the model's answer, stripping Markdown code
// fences when present.
func parseTrackList(text string) ([]discover.RawTrack, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var items []struct {
		Name   string   `json:"name"`
		Artist string   `json:"artist"`
		Album  string   `json:"album"`
		Reason string   `json:"reason"`
		Tags   []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("gemini: parse track list: %w", err)
	}
	out := make([]discover.RawTrack, 0, len(items))
	for _, it := range items {
		out = append(out, discover.RawTrack{
			Name:       it.Name,
			ArtistName: it.Artist,
			AlbumTitle: it.Album,
			Reason:     it.Reason,
			Tags:       it.Tags,
		})
	}
	return out, nil
}

// mockRecommendations is the demo-capacity answer used when no key is
// configured. Reasons reference the user's first mood and genre so the
// deck still feels personalised.
func mockRecommendations(prefs discover.Preferences) []discover.RawTrack {
	mood := "chill"
	if len(prefs.Moods) > 0 {
		mood = prefs.Moods[0]
	}
	genre := "pop"
	if len(prefs.Genres) > 0 {
		genre = prefs.Genres[0]
	}
	return []discover.RawTrack{
		{
			Name:       "Blinding Lights",
			ArtistName: "The Weeknd",
			AlbumTitle: "After Hours",
			Reason:     fmt.Sprintf("A synth-pop masterpiece with 80s influences that captures %s energy while staying true to %s sensibilities.", mood, genre),
			Tags:       []string{"synth-pop", "80s", genre},
		},
		{
			Name:       "Stay",
			ArtistName: "The Kid LAROI, Justin Bieber",
			AlbumTitle: "F*CK LOVE 3",
			Reason:     "Emotional pop collaboration with heartfelt lyrics and a catchy melody.",
			Tags:       []string{"pop", "emotional"},
		},
		{
			Name:       "good 4 u",
			ArtistName: "Olivia Rodrigo",
			AlbumTitle: "SOUR",
			Reason:     "Pop-punk influenced track bridging pop and alternative rock.",
			Tags:       []string{"pop-punk", "alternative"},
		},
	}
}
