package arr

import (
	"context"
	"net/url"
	"time"
)

// Artist is the subset of a Lidarr artist record the gateway exposes.
type Artist struct {
	ID         int64            `json:"id"`
	ArtistName string           `json:"artistName"`
	Status     string           `json:"status"`
	Path       string           `json:"path"`
	Added      time.Time        `json:"added"`
	Statistics ArtistStatistics `json:"statistics"`
}

// ArtistStatistics carries the per-artist aggregate numbers.
type ArtistStatistics struct {
	AlbumCount      int     `json:"albumCount"`
	TrackCount      int     `json:"trackCount"`
	TrackFileCount  int     `json:"trackFileCount"`
	SizeOnDisk      int64   `json:"sizeOnDisk"`
	PercentOfTracks float64 `json:"percentOfTracks"`
}

// Artists lists every artist in the library.
func (c *Client) Artists(ctx context.Context) ([]Artist, error) {
	var out []Artist
	if err := c.get(ctx, "/artist", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LookupArtists searches the metadata provider for artists matching term.
func (c *Client) LookupArtists(ctx context.Context, term string) ([]Artist, error) {
	q := url.Values{}
	q.Set("term", term)
	var out []Artist
	if err := c.get(ctx, "/artist/lookup", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
