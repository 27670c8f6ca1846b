// Package tautulli provides a typed client for Tautulli's command API.
//
// Tautulli differs from the arr family in both auth and error signaling:
// every call is GET /api/v2?apikey=...&cmd=..., and a logical failure comes
// back inside an HTTP 200 as response.result != "success".
package tautulli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/logging"
)

// CommandError is a logical failure reported inside a transport-successful
// response. The message is Tautulli's own text.
type CommandError struct {
	Cmd     string
	Message string
}

func (e *CommandError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tautulli: command %s failed", e.Cmd)
	}
	return fmt.Sprintf("tautulli: command %s failed: %s", e.Cmd, e.Message)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tautulli: unexpected status %d %s", e.Status, e.Reason)
}

// Client talks to one Tautulli instance.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logging.Logger
}

// New creates a Tautulli client from its service config.
func New(cfg config.ServiceConfig, log *logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.Sub("tautulli"),
	}
}

// Name returns the service name, used as the key in aggregated results.
func (c *Client) Name() string { return "tautulli" }

// envelope is the outer shape of every Tautulli response.
type envelope struct {
	Response struct {
		Result  string          `json:"result"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"response"`
}

func (c *Client) call(ctx context.Context, cmd string, params url.Values, out any) error {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("apikey", c.apiKey)
	q.Set("cmd", cmd)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v2?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("tautulli: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tautulli: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return &StatusError{Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("tautulli: decode response: %w", err)
	}
	if env.Response.Result != "success" {
		return &CommandError{Cmd: cmd, Message: env.Response.Message}
	}
	if out == nil || env.Response.Data == nil {
		return nil
	}
	if err := json.Unmarshal(env.Response.Data, out); err != nil {
		return fmt.Errorf("tautulli: decode %s data: %w", cmd, err)
	}
	return nil
}

// ServerInfo is the subset of get_server_info used for connectivity probes.
type ServerInfo struct {
	Name    string `json:"pms_name"`
	Version string `json:"pms_version"`
}

// ServerInfo fetches the connected media server's name and version.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var out ServerInfo
	if err := c.call(ctx, "get_server_info", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Session is one active playback session from get_activity.
type Session struct {
	User            string `json:"user"`
	FriendlyName    string `json:"friendly_name"`
	FullTitle       string `json:"full_title"`
	Player          string `json:"player"`
	State           string `json:"state"`
	ProgressPercent string `json:"progress_percent"`
	QualityProfile  string `json:"quality_profile"`
	MediaType       string `json:"media_type"`
}

// Activity is the get_activity payload.
type Activity struct {
	StreamCount string    `json:"stream_count"`
	Sessions    []Session `json:"sessions"`
}

// Activity fetches the current playback sessions.
func (c *Client) Activity(ctx context.Context) (*Activity, error) {
	var out Activity
	if err := c.call(ctx, "get_activity", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HistoryRow is one watch-history record. Tautulli is inconsistent about
// which title field is populated depending on media type, so all four
// candidates are kept and resolved by the caller in documented order.
type HistoryRow struct {
	User             string `json:"user"`
	FriendlyName     string `json:"friendly_name"`
	Date             int64  `json:"date"`
	Title            string `json:"title"`
	FullTitle        string `json:"full_title"`
	GrandparentTitle string `json:"grandparent_title"`
	OriginalTitle    string `json:"original_title"`
	MediaType        string `json:"media_type"`
	WatchedStatus    float64 `json:"watched_status"`
}

// History is the get_history payload.
type History struct {
	RecordsFiltered int          `json:"recordsFiltered"`
	RecordsTotal    int          `json:"recordsTotal"`
	Data            []HistoryRow `json:"data"`
}

// HistoryParams filters a get_history call. Zero values are omitted.
type HistoryParams struct {
	Search string
	User   string
	Length int
}

// History fetches watch-history rows, newest first.
func (c *Client) History(ctx context.Context, p HistoryParams) (*History, error) {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.User != "" {
		q.Set("user", p.User)
	}
	if p.Length > 0 {
		q.Set("length", strconv.Itoa(p.Length))
	}
	q.Set("order_column", "date")
	q.Set("order_dir", "desc")
	var out History
	if err := c.call(ctx, "get_history", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchHit is one match from the media server search.
type SearchHit struct {
	Title     string `json:"title"`
	MediaType string `json:"media_type"`
	Year      string `json:"year"`
}

// SearchResults groups hits by media type. ResultsCount and the group
// contents are two separately-computed emptiness signals; callers should
// treat either being non-empty as "found".
type SearchResults struct {
	ResultsCount int                    `json:"results_count"`
	ResultsList  map[string][]SearchHit `json:"results_list"`
}

// Search runs a media server search for query.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResults, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))
	var out SearchResults
	if err := c.call(ctx, "search", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HomeStat is one block of get_home_stats.
type HomeStat struct {
	StatID string `json:"stat_id"`
	Rows   []struct {
		Title        string `json:"title"`
		FriendlyName string `json:"friendly_name"`
		TotalPlays   int    `json:"total_plays"`
	} `json:"rows"`
}

// HomeStats fetches the dashboard statistics for the given day window.
func (c *Client) HomeStats(ctx context.Context, days int) ([]HomeStat, error) {
	if days <= 0 {
		days = 30
	}
	q := url.Values{}
	q.Set("time_range", strconv.Itoa(days))
	var out []HomeStat
	if err := c.call(ctx, "get_home_stats", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
