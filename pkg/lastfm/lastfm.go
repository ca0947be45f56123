// Package lastfm implements the tag, similar-artist, artist-top-tracks,
// similar-tracks and free-text search providers against the Last.fm API.
// An API key is required; the engine skips Last.fm backed stages entirely
// when the client is absent, so a missing key is never a hard failure.
//
// Last.fm serialises numeric fields as JSON strings, so counts are decoded
// as strings and parsed leniently. Last.fm supplies no audio previews;
// every record is returned with an explicitly empty preview URL.
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"Tune-Swipe-Go/pkg/discover"
)

const baseURL = "https://ws.audioscrobbler.com/2.0/"

// defaultHTTP serves clients constructed without an http.Client.
var defaultHTTP = &http.Client{Timeout: 10 * time.Second}

// Client talks to the Last.fm web service. If HTTP is nil a shared client
// with a 10 second timeout is used, so the zero value plus an APIKey is
// ready for use. Fields are read-only after construction; one Client may
// be used from multiple goroutines.
type Client struct {
	APIKey string
	HTTP   *http.Client
}

// Compile-time checks that Client satisfies the engine's provider
// interfaces.
var (
	_ discover.TagProvider             = (*Client)(nil)
	_ discover.SimilarArtistProvider   = (*Client)(nil)
	_ discover.ArtistTopTracksProvider = (*Client)(nil)
	_ discover.SimilarTracksProvider   = (*Client)(nil)
	_ discover.SearchProvider          = (*Client)(nil)
)

// trackJSON covers every track shape Last.fm returns. Artist is an object
// in most methods but a plain string in track.search; RawArtist captures
// both via custom decoding.
type trackJSON struct {
	Name      string      `json:"name"`
	URL       string      `json:"url"`
	Duration  string      `json:"duration"`
	Playcount string      `json:"playcount"`
	Listeners string      `json:"listeners"`
	Artist    artistField `json:"artist"`
	Image     []imageJSON `json:"image"`
}

type imageJSON struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

// artistField decodes either {"name": "..."} or a bare string.
type artistField struct {
	Name string
}

func (a *artistField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	a.Name = obj.Name
	return nil
}

// TopTracksByTag returns the most popular tracks for a genre or mood tag.
func (c *Client) TopTracksByTag(ctx context.Context, tag string, limit int) ([]discover.RawTrack, error) {
	var body struct {
		Tracks struct {
			Track []trackJSON `json:"track"`
		} `json:"tracks"`
	}
	params := url.Values{"tag": {tag}, "limit": {strconv.Itoa(limit)}}
	if err := c.request(ctx, "tag.gettoptracks", params, &body); err != nil {
		return nil, err
	}
	return convert(body.Tracks.Track), nil
}

// SimilarArtists lists artists resembling the given one.
func (c *Client) SimilarArtists(ctx context.Context, artist string, limit int) ([]discover.SimilarArtist, error) {
	var body struct {
		SimilarArtists struct {
			Artist []struct {
				Name  string `json:"name"`
				Match string `json:"match"`
			} `json:"artist"`
		} `json:"similarartists"`
	}
	params := url.Values{"artist": {artist}, "limit": {strconv.Itoa(limit)}}
	if err := c.request(ctx, "artist.getsimilar", params, &body); err != nil {
		return nil, err
	}
	out := make([]discover.SimilarArtist, 0, len(body.SimilarArtists.Artist))
	for _, a := range body.SimilarArtists.Artist {
		match, _ := strconv.ParseFloat(a.Match, 64)
		out = append(out, discover.SimilarArtist{Name: a.Name, Match: match})
	}
	return out, nil
}

// ArtistTopTracks returns an artist's most played tracks.
func (c *Client) ArtistTopTracks(ctx context.Context, artist string, limit int) ([]discover.RawTrack, error) {
	var body struct {
		TopTracks struct {
			Track []trackJSON `json:"track"`
		} `json:"toptracks"`
	}
	params := url.Values{"artist": {artist}, "limit": {strconv.Itoa(limit)}}
	if err := c.request(ctx, "artist.gettoptracks", params, &body); err != nil {
		return nil, err
	}
	return convert(body.TopTracks.Track), nil
}

// SimilarTracks returns tracks similar to a specific seed track.
func (c *Client) SimilarTracks(ctx context.Context, artist, track string, limit int) ([]discover.RawTrack, error) {
	var body struct {
		SimilarTracks struct {
			Track []trackJSON `json:"track"`
		} `json:"similartracks"`
	}
	params := url.Values{"artist": {artist}, "track": {track}, "limit": {strconv.Itoa(limit)}}
	if err := c.request(ctx, "track.getsimilar", params, &body); err != nil {
		return nil, err
	}
	return convert(body.SimilarTracks.Track), nil
}

// SearchTracks performs a free-text track search. This is the one Last.fm
// method where the artist field is a plain string.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]discover.RawTrack, error) {
	var body struct {
		Results struct {
			TrackMatches struct {
				Track []trackJSON `json:"track"`
			} `json:"trackmatches"`
		} `json:"results"`
	}
	params := url.Values{"track": {query}, "limit": {strconv.Itoa(limit)}}
	if err := c.request(ctx, "track.search", params, &body); err != nil {
		return nil, err
	}
	return convert(body.Results.TrackMatches.Track), nil
}

// request performs one API call. All Last.fm methods share the same
// endpoint and differ only in the method parameter.
func (c *Client) request(ctx context.Context, method string, params url.Values, v any) error {
	if c.APIKey == "" {
		return fmt.Errorf("lastfm: api key required")
	}
	httpc := c.HTTP
	if httpc == nil {
		httpc = defaultHTTP
	}
	params.Set("method", method)
	params.Set("api_key", c.APIKey)
	params.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lastfm %s error: %s", method, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("lastfm %s decode: %w", method, err)
	}
	return nil
}

func convert(tracks []trackJSON) []discover.RawTrack {
	out := make([]discover.RawTrack, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, discover.RawTrack{
			Name:       t.Name,
			ArtistName: t.Artist.Name,
			PreviewURL: "",
			ImageURL:   pickImage(t.Image),
			Playcount:  atoi64(t.Playcount),
			Listeners:  atoi64(t.Listeners),
			Duration:   int(atoi64(t.Duration)),
		})
	}
	return out
}

// pickImage prefers the largest artwork variant. Last.fm's "no image"
// placeholder is passed through; the normaliser recognises and replaces
// it.
func pickImage(images []imageJSON) string {
	best := ""
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		best = img.URL
		if img.Size == "extralarge" {
			break
		}
	}
	return best
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
