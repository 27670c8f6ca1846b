package arr

import (
	"context"
	"net/url"
	"strconv"
)

// Indexer is one configured indexer in Prowlarr.
type Indexer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Enable   bool   `json:"enable"`
	Protocol string `json:"protocol"`
	Priority int    `json:"priority"`
}

// Release is one search result from Prowlarr's /search endpoint.
type Release struct {
	Title     string `json:"title"`
	Indexer   string `json:"indexer"`
	IndexerID int64  `json:"indexerId"`
	Size      int64  `json:"size"`
	Seeders   int    `json:"seeders"`
	Leechers  int    `json:"leechers"`
	Protocol  string `json:"protocol"`
	Age       int    `json:"age"`
}

// Indexers lists the configured indexers.
func (c *Client) Indexers(ctx context.Context) ([]Indexer, error) {
	var out []Indexer
	if err := c.get(ctx, "/indexer", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchReleases queries Prowlarr across all (or the given) indexers.
func (c *Client) SearchReleases(ctx context.Context, query string, indexerIDs []int64, limit int) ([]Release, error) {
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))
	for _, id := range indexerIDs {
		q.Add("indexerIds", strconv.FormatInt(id, 10))
	}
	var out []Release
	if err := c.get(ctx, "/search", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
