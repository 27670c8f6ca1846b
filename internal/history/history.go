// Package history implements the watch-history resolution flow: given a
// title, answer "is it in the library, and who has watched it" by
// correlating two independent Tautulli queries.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/arrgate/arrgate/internal/format"
	"github.com/arrgate/arrgate/internal/logging"
	"github.com/arrgate/arrgate/internal/tautulli"
)

const (
	// DefaultLength is substituted when the caller asks for nothing or a
	// non-positive row count.
	DefaultLength = 25
	// MaxLength caps the emitted history rows regardless of the request.
	MaxLength = 100

	// presenceLimit bounds the library-presence probe.
	presenceLimit = 10
	// probeRows bounds the full-text history probe. The watched count is
	// the number of rows the backend returns within this bound.
	probeRows = 1000
)

// Query drives one resolution.
type Query struct {
	Title  string
	User   string
	Length int
}

// Entry is one emitted history row.
type Entry struct {
	Who   string `json:"who"`
	When  string `json:"when"`
	Title string `json:"title"`
}

// Timing is the per-probe duration breakdown in milliseconds.
type Timing struct {
	PresenceMs int64 `json:"presenceMs,omitempty"`
	HistoryMs  int64 `json:"historyMs"`
	TotalMs    int64 `json:"totalMs"`
}

// Result is the correlated answer.
type Result struct {
	SearchedFor     string  `json:"searchedFor,omitempty"`
	ExistsInLibrary bool    `json:"existsInLibrary"`
	WatchedCount    int     `json:"watchedCount"`
	Returned        int     `json:"returned"`
	History         []Entry `json:"history"`
	Timing          Timing  `json:"timing"`
}

// Resolve answers the query against Tautulli.
//
// With a title, two probes run concurrently: a media-server search for
// library presence and a full-text history search for watches. Presence is
// advisory — its failure degrades to false rather than failing the call —
// while a history failure propagates, because history is the data the
// caller asked for. Without a title the flow is a single unfiltered
// history query.
func Resolve(ctx context.Context, c *tautulli.Client, q Query, log *logging.Logger) (*Result, error) {
	start := time.Now()
	length := q.Length
	if length <= 0 {
		length = DefaultLength
	}
	if length > MaxLength {
		length = MaxLength
	}

	if q.Title == "" {
		hist, err := c.History(ctx, tautulli.HistoryParams{User: q.User, Length: length})
		if err != nil {
			return nil, err
		}
		res := &Result{
			WatchedCount: len(hist.Data),
			History:      mapRows(hist.Data, length),
		}
		res.Returned = len(res.History)
		res.Timing.HistoryMs = time.Since(start).Milliseconds()
		res.Timing.TotalMs = res.Timing.HistoryMs
		return res, nil
	}

	var (
		wg          sync.WaitGroup
		search      *tautulli.SearchResults
		searchErr   error
		presenceMs  int64
		hist        *tautulli.History
		histErr     error
		historyMs   int64
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		t := time.Now()
		search, searchErr = c.Search(ctx, q.Title, presenceLimit)
		presenceMs = time.Since(t).Milliseconds()
	}()
	go func() {
		defer wg.Done()
		t := time.Now()
		hist, histErr = c.History(ctx, tautulli.HistoryParams{
			Search: q.Title,
			User:   q.User,
			Length: probeRows,
		})
		historyMs = time.Since(t).Milliseconds()
	}()
	wg.Wait()

	if histErr != nil {
		return nil, histErr
	}
	if searchErr != nil {
		log.Warn().Err(searchErr).Str("title", q.Title).Msg("presence probe failed, treating as not found")
	}

	res := &Result{
		SearchedFor:     q.Title,
		ExistsInLibrary: searchErr == nil && present(search),
		WatchedCount:    len(hist.Data),
		History:         mapRows(hist.Data, length),
		Timing: Timing{
			PresenceMs: presenceMs,
			HistoryMs:  historyMs,
			TotalMs:    time.Since(start).Milliseconds(),
		},
	}
	res.Returned = len(res.History)
	return res, nil
}

// present ORs the two emptiness signals the search result carries: the
// reported count and the grouped result lists. They should agree; the OR
// is defensive redundancy against the backend populating only one.
func present(s *tautulli.SearchResults) bool {
	if s == nil {
		return false
	}
	if s.ResultsCount > 0 {
		return true
	}
	for _, hits := range s.ResultsList {
		if len(hits) > 0 {
			return true
		}
	}
	return false
}

// mapRows reshapes history rows into emitted entries, at most limit of
// them. Field fallbacks follow Tautulli's population quirks: who prefers
// the display name, title prefers the most specific of four candidates.
func mapRows(rows []tautulli.HistoryRow, limit int) []Entry {
	if limit > len(rows) {
		limit = len(rows)
	}
	out := make([]Entry, 0, limit)
	for _, row := range rows[:limit] {
		out = append(out, Entry{
			Who:   format.FirstNonEmpty("Unknown", row.FriendlyName, row.User),
			When:  format.Epoch(row.Date),
			Title: format.FirstNonEmpty("Unknown", row.FullTitle, row.Title, row.GrandparentTitle, row.OriginalTitle),
		})
	}
	return out
}
