// Package arr provides typed HTTP clients for the arr family of media
// managers (Sonarr, Radarr, Lidarr, Readarr, Prowlarr). All five share the
// same API conventions: JSON over REST, authenticated with an X-Api-Key
// header, versioned under /api/v3 (Prowlarr: /api/v1).
package arr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/logging"
)

// Kind identifies which arr-family application a Client talks to.
type Kind string

const (
	KindSonarr   Kind = "sonarr"
	KindRadarr   Kind = "radarr"
	KindLidarr   Kind = "lidarr"
	KindReadarr  Kind = "readarr"
	KindProwlarr Kind = "prowlarr"
)

// apiBase returns the API path prefix for the kind. Prowlarr never moved
// past v1; the rest are on v3.
func (k Kind) apiBase() string {
	if k == KindProwlarr {
		return "/api/v1"
	}
	return "/api/v3"
}

// StatusError is returned when a backend answers with a non-2xx status.
// The credential is never part of the message; the body is kept as a short
// snippet for diagnostics only.
type StatusError struct {
	Service string
	Status  int
	Reason  string
	Snippet string
}

func (e *StatusError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s: unexpected status %d %s: %s", e.Service, e.Status, e.Reason, e.Snippet)
	}
	return fmt.Sprintf("%s: unexpected status %d %s", e.Service, e.Status, e.Reason)
}

// Client is a minimal typed client for one arr-family service. It is
// stateless beyond its config: no retries, no pooled app state, no
// circuit breaking. One instance is shared by all tool invocations.
type Client struct {
	kind    Kind
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logging.Logger
}

// New creates a client for the given service kind. The URL is expected to
// be normalized (no trailing slash) by the config loader; it is defensively
// trimmed again here because clients are also constructed directly in tests.
func New(kind Kind, cfg config.ServiceConfig, log *logging.Logger) *Client {
	return &Client{
		kind:    kind,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.Sub(string(kind)),
	}
}

// Name returns the service name, used as the key in aggregated results.
func (c *Client) Name() string { return string(c.kind) }

// Kind returns the service kind.
func (c *Client) Kind() Kind { return c.kind }

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, out)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	u := c.baseURL + c.kind.apiBase() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.kind, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Service: string(c.kind),
			Status:  resp.StatusCode,
			Reason:  http.StatusText(resp.StatusCode),
			Snippet: bodySnippet(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.kind, err)
	}
	return nil
}

// bodySnippet reads at most 200 bytes of an error body for the message.
func bodySnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 200))
	return strings.TrimSpace(string(b))
}
