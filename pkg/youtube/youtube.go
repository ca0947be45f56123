// Package youtube implements an auxiliary free-text search provider on
// the YouTube Data API. Video titles map onto track names and channel
// titles onto artist names, which is rough but good enough as a
// supplementary source. An API key is required.
//
// Network calls are performed using the provided http.Client allowing
// callers to substitute a test client.
package youtube

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

// defaultHTTP serves clients constructed without an http.Client.
var defaultHTTP = &http.Client{Timeout: 10 * time.Second}

// Client provides access to the YouTube Data API. Fields are read-only
// after construction; one Client may be used from multiple goroutines.
type Client struct {
	Key  string
	HTTP *http.Client
}

var _ discover.SearchProvider = (*Client)(nil)

// SearchTracks queries the YouTube search API and converts results into
// provider-neutral records. Only the first page of results is returned.
// YouTube supplies no audio previews, so the preview URL is always empty.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]discover.RawTrack, error) {
	if c.Key == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}
	httpc := c.HTTP
	if httpc == nil {
		httpc = defaultHTTP
	}
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(limit)},
		"q":          {query},
		"key":        {c.Key},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/youtube/v3/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search error: %s", resp.Status)
	}
	var body struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Thumbnails   struct {
					High struct {
						URL string `json:"url"`
					} `json:"high"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	out := make([]discover.RawTrack, 0, len(body.Items))
	for _, item := range body.Items {
		out = append(out, discover.RawTrack{
			Title:      item.Snippet.Title,
			ArtistName: item.Snippet.ChannelTitle,
			ImageURL:   item.Snippet.Thumbnails.High.URL,
		})
	}
	return out, nil
}
