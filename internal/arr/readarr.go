package arr

import (
	"context"
	"net/url"
	"time"
)

// Author is the subset of a Readarr author record the gateway exposes.
type Author struct {
	ID         int64            `json:"id"`
	AuthorName string           `json:"authorName"`
	Status     string           `json:"status"`
	Path       string           `json:"path"`
	Added      time.Time        `json:"added"`
	Statistics AuthorStatistics `json:"statistics"`
}

// AuthorStatistics carries the per-author aggregate numbers.
type AuthorStatistics struct {
	BookCount      int     `json:"bookCount"`
	BookFileCount  int     `json:"bookFileCount"`
	SizeOnDisk     int64   `json:"sizeOnDisk"`
	PercentOfBooks float64 `json:"percentOfBooks"`
}

// Authors lists every author in the library.
func (c *Client) Authors(ctx context.Context) ([]Author, error) {
	var out []Author
	if err := c.get(ctx, "/author", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LookupAuthors searches the metadata provider for authors matching term.
func (c *Client) LookupAuthors(ctx context.Context, term string) ([]Author, error) {
	q := url.Values{}
	q.Set("term", term)
	var out []Author
	if err := c.get(ctx, "/author/lookup", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
