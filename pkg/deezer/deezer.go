// Package deezer implements the preview/artwork search provider and the
// chart provider against the public Deezer API. No API key is required,
// which makes Deezer the one provider that is always available.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Tune-Swipe-Go/pkg/discover"
)

const baseURL = "https://api.deezer.com"

// defaultHTTP serves clients constructed without an http.Client.
var defaultHTTP = &http.Client{Timeout: 10 * time.Second}

// Client talks to the Deezer API. If HTTP is nil a shared client with a
// 10 second timeout is used; the zero value is ready for use. Fields are
// read-only after construction; one Client may be used from multiple
// goroutines.
type Client struct {
	HTTP *http.Client
}

var (
	_ discover.SearchProvider = (*Client)(nil)
	_ discover.ChartProvider  = (*Client)(nil)
	_ discover.TagProvider    = (*Client)(nil)
)

// genreIDs maps tag vocabulary to Deezer's numeric genre chart IDs. Tags
// without an entry fall back to 0, the all-genres chart.
var genreIDs = map[string]int{
	"pop":         132,
	"rock":        152,
	"hip hop":     116,
	"hiphop":      116,
	"rap":         116,
	"electronic":  106,
	"dance":       113,
	"indie":       145,
	"alternative": 85,
	"metal":       144,
	"jazz":        129,
	"classical":   98,
	"folk":        99,
	"soul":        105,
	"rnb":         165,
	"r&b":         165,
	"reggae":      144,
	"country":     84,
	"blues":       142,
	"lofi":        464,
	"kpop":        161,
	"latin":       86,
}

type trackJSON struct {
	Title   string `json:"title"`
	Preview string `json:"preview"`
	Link    string `json:"link"`
	Duration int   `json:"duration"`
	Artist  struct {
		Name       string `json:"name"`
		PictureBig string `json:"picture_big"`
	} `json:"artist"`
	Album struct {
		Title       string `json:"title"`
		CoverBig    string `json:"cover_big"`
		CoverMedium string `json:"cover_medium"`
	} `json:"album"`
}

// SearchTracks queries the Deezer catalogue. Results carry preview URLs
// and album art, which is what makes this client the enrichment provider.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]discover.RawTrack, error) {
	u := baseURL + "/search?q=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(limit)
	return c.fetchTracks(ctx, u)
}

// ChartTracks returns the current global chart, used for the surprise-me
// path when the user supplied no preferences.
func (c *Client) ChartTracks(ctx context.Context, limit int) ([]discover.RawTrack, error) {
	u := baseURL + "/chart/0/tracks?limit=" + strconv.Itoa(limit)
	return c.fetchTracks(ctx, u)
}

// TopTracksByTag serves the tag provider role from Deezer's per-genre
// charts. Deezer has no mood charts, so coverage is coarser than Last.fm;
// unmapped tags answer from the all-genres chart rather than failing.
func (c *Client) TopTracksByTag(ctx context.Context, tag string, limit int) ([]discover.RawTrack, error) {
	id := genreIDs[strings.ToLower(tag)]
	u := baseURL + "/chart/" + strconv.Itoa(id) + "/tracks?limit=" + strconv.Itoa(limit)
	return c.fetchTracks(ctx, u)
}

func (c *Client) fetchTracks(ctx context.Context, u string) ([]discover.RawTrack, error) {
	httpc := c.HTTP
	if httpc == nil {
		httpc = defaultHTTP
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deezer error: %s", resp.Status)
	}
	var body struct {
		Data []trackJSON `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("deezer decode: %w", err)
	}
	out := make([]discover.RawTrack, 0, len(body.Data))
	for _, t := range body.Data {
		image := t.Album.CoverBig
		if image == "" {
			image = t.Album.CoverMedium
		}
		if image == "" {
			image = t.Artist.PictureBig
		}
		out = append(out, discover.RawTrack{
			Title:      t.Title,
			ArtistName: t.Artist.Name,
			AlbumTitle: t.Album.Title,
			PreviewURL: t.Preview,
			ImageURL:   image,
			Duration:   t.Duration,
		})
	}
	return out, nil
}
