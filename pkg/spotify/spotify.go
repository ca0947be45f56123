// Package spotify wraps the official Spotify client library as a
// free-text search provider for the recommendation engine. Authentication
// uses the client credentials flow, which allows catalogue searches
// without a user login. Spotify results carry preview URLs and album art,
// so the client can also serve as an enrichment provider.
//
// The wrapped library does not accept a context, so cancellation is
// checked explicitly before each call.
package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify"
	"golang.org/x/oauth2/clientcredentials"

	"Tune-Swipe-Go/pkg/discover"
)

// searcher defines the subset of the spotify.Client used by this package.
// It allows the concrete client to be replaced in tests.
type searcher interface {
	SearchOpt(query string, t spotify.SearchType, opt *spotify.Options) (*spotify.SearchResult, error)
}

// Client wraps the official Spotify client.
type Client struct {
	client searcher
}

var _ discover.SearchProvider = (*Client)(nil)

// NewClient authenticates with the client credentials flow and returns a
// Client ready for API calls. clientID and clientSecret come from the
// Spotify developer dashboard.
func NewClient(clientID, clientSecret string) (*Client, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotify.TokenURL,
	}
	token, err := config.Token(context.Background())
	if err != nil {
		return nil, fmt.Errorf("spotify auth: %w", err)
	}
	c := spotify.Authenticator{}.NewClient(token)
	return &Client{client: &c}, nil
}

// SearchTracks queries the Spotify catalogue and converts the results into
// provider-neutral records.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]discover.RawTrack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opt := &spotify.Options{Limit: &limit}
	results, err := c.client.SearchOpt(query, spotify.SearchTypeTrack, opt)
	if err != nil {
		return nil, err
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, nil
	}
	out := make([]discover.RawTrack, 0, len(results.Tracks.Tracks))
	for _, t := range results.Tracks.Tracks {
		artist := ""
		if len(t.Artists) > 0 {
			artist = t.Artists[0].Name
		}
		image := ""
		if len(t.Album.Images) > 0 {
			image = t.Album.Images[0].URL
		}
		out = append(out, discover.RawTrack{
			Name:       t.Name,
			ArtistName: artist,
			AlbumTitle: t.Album.Name,
			PreviewURL: t.PreviewURL,
			ImageURL:   image,
			Duration:   t.Duration / 1000,
		})
	}
	return out, nil
}
