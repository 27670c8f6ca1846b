package arr

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Movie is the subset of a Radarr movie record the gateway exposes.
// Unlike Sonarr, size on disk is a top-level field here.
type Movie struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Year       int       `json:"year"`
	Status     string    `json:"status"`
	Path       string    `json:"path"`
	TmdbID     int64     `json:"tmdbId"`
	HasFile    bool      `json:"hasFile"`
	SizeOnDisk int64     `json:"sizeOnDisk"`
	Added      time.Time `json:"added"`
	InCinemas  time.Time `json:"inCinemas"`
}

// MovieCalendarEntry is one upcoming release from /calendar.
type MovieCalendarEntry struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Year            int       `json:"year"`
	PhysicalRelease time.Time `json:"physicalRelease"`
	DigitalRelease  time.Time `json:"digitalRelease"`
}

// Movies lists every movie in the library.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	var out []Movie
	if err := c.get(ctx, "/movie", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LookupMovies searches the metadata provider for movies matching term.
func (c *Client) LookupMovies(ctx context.Context, term string) ([]Movie, error) {
	q := url.Values{}
	q.Set("term", term)
	var out []Movie
	if err := c.get(ctx, "/movie/lookup", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MovieCalendar lists movies releasing within the next days days.
func (c *Client) MovieCalendar(ctx context.Context, days int) ([]MovieCalendarEntry, error) {
	var out []MovieCalendarEntry
	if err := c.get(ctx, "/calendar", calendarRange(days), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMovie removes a movie, optionally deleting its files on disk.
func (c *Client) DeleteMovie(ctx context.Context, id int64, deleteFiles bool) error {
	q := url.Values{}
	q.Set("deleteFiles", strconv.FormatBool(deleteFiles))
	return c.delete(ctx, "/movie/"+strconv.FormatInt(id, 10), q)
}
