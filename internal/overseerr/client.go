// Package overseerr provides a typed client for the Overseerr request
// broker. Auth follows the arr convention (X-Api-Key header); the API
// lives under /api/v1.
package overseerr

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

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overseerr: unexpected status %d %s", e.Status, e.Reason)
}

// Client talks to one Overseerr instance.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logging.Logger
}

// New creates an Overseerr client from its service config.
func New(cfg config.ServiceConfig, log *logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.Sub("overseerr"),
	}
}

// Name returns the service name, used as the key in aggregated results.
func (c *Client) Name() string { return "overseerr" }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	u := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("overseerr: build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("overseerr: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return &StatusError{Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("overseerr: decode response: %w", err)
	}
	return nil
}

// Status is the subset of /status used for connectivity probes.
type Status struct {
	Version string `json:"version"`
}

// Status fetches the Overseerr version.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var out Status
	if err := c.do(ctx, http.MethodGet, "/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Request is one media request.
type Request struct {
	ID        int64     `json:"id"`
	Status    int       `json:"status"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	Media     struct {
		TmdbID int64 `json:"tmdbId"`
		TvdbID int64 `json:"tvdbId"`
		Status int   `json:"status"`
	} `json:"media"`
	RequestedBy struct {
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
	} `json:"requestedBy"`
}

// RequestsPage is the paged envelope of /request.
type RequestsPage struct {
	PageInfo struct {
		Results int `json:"results"`
	} `json:"pageInfo"`
	Results []Request `json:"results"`
}

// Requests lists media requests. filter is one of Overseerr's documented
// filter values (all, pending, approved, available, processing, unavailable).
func (c *Client) Requests(ctx context.Context, filter string, take int) (*RequestsPage, error) {
	if take <= 0 {
		take = 20
	}
	q := url.Values{}
	q.Set("take", strconv.Itoa(take))
	if filter != "" {
		q.Set("filter", filter)
	}
	var out RequestsPage
	if err := c.do(ctx, http.MethodGet, "/request", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve approves a pending request.
func (c *Client) Approve(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/request/"+strconv.FormatInt(id, 10)+"/approve", nil, nil)
}

// Decline declines a pending request.
func (c *Client) Decline(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/request/"+strconv.FormatInt(id, 10)+"/decline", nil, nil)
}
