package arr

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Series is the subset of a Sonarr series record the gateway exposes.
type Series struct {
	ID         int64            `json:"id"`
	Title      string           `json:"title"`
	Year       int              `json:"year"`
	Status     string           `json:"status"`
	Network    string           `json:"network"`
	Path       string           `json:"path"`
	TvdbID     int64            `json:"tvdbId"`
	Added      time.Time        `json:"added"`
	Statistics SeriesStatistics `json:"statistics"`
}

// SeriesStatistics carries the per-series aggregate numbers.
type SeriesStatistics struct {
	SeasonCount       int     `json:"seasonCount"`
	EpisodeCount      int     `json:"episodeCount"`
	EpisodeFileCount  int     `json:"episodeFileCount"`
	SizeOnDisk        int64   `json:"sizeOnDisk"`
	PercentOfEpisodes float64 `json:"percentOfEpisodes"`
}

// EpisodeCalendarEntry is one upcoming episode from /calendar.
type EpisodeCalendarEntry struct {
	SeriesID      int64     `json:"seriesId"`
	Title         string    `json:"title"`
	SeasonNumber  int       `json:"seasonNumber"`
	EpisodeNumber int       `json:"episodeNumber"`
	AirDateUTC    time.Time `json:"airDateUtc"`
	Series        struct {
		Title string `json:"title"`
	} `json:"series"`
}

// Series lists every series in the library.
func (c *Client) Series(ctx context.Context) ([]Series, error) {
	var out []Series
	if err := c.get(ctx, "/series", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LookupSeries searches the metadata provider for series matching term.
func (c *Client) LookupSeries(ctx context.Context, term string) ([]Series, error) {
	q := url.Values{}
	q.Set("term", term)
	var out []Series
	if err := c.get(ctx, "/series/lookup", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EpisodeCalendar lists episodes airing within the next days days.
func (c *Client) EpisodeCalendar(ctx context.Context, days int) ([]EpisodeCalendarEntry, error) {
	var out []EpisodeCalendarEntry
	if err := c.get(ctx, "/calendar", calendarRange(days), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSeries removes a series, optionally deleting its files on disk.
func (c *Client) DeleteSeries(ctx context.Context, id int64, deleteFiles bool) error {
	q := url.Values{}
	q.Set("deleteFiles", strconv.FormatBool(deleteFiles))
	return c.delete(ctx, "/series/"+strconv.FormatInt(id, 10), q)
}
