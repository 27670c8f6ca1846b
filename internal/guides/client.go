// Package guides fetches the community configuration-guideline dataset
// (quality definitions and custom formats per service) from its public
// JSON mirror. Responses are cached with a TTL on the order of an hour;
// the dataset changes rarely and the mirror rate-limits aggressively.
package guides

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/logging"
)

const cacheSize = 64

// Client is a read-only, time-cached fetcher for the guideline dataset.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *expirable.LRU[string, []byte]
	log     *logging.Logger
}

// New creates a guides client from config.
func New(cfg config.GuidesConfig, log *logging.Logger) *Client {
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   expirable.NewLRU[string, []byte](cacheSize, nil, ttl),
		log:     log.Sub("guides"),
	}
}

// QualityLevel is one row of a quality-size definition.
type QualityLevel struct {
	Quality   string  `json:"quality"`
	Min       float64 `json:"min"`
	Preferred float64 `json:"preferred"`
	Max       float64 `json:"max"`
}

// QualityDefinition is the recommended size limits for one media type.
type QualityDefinition struct {
	Type      string         `json:"type"`
	Qualities []QualityLevel `json:"qualities"`
}

// CustomFormat is one entry of a service's custom-format index.
type CustomFormat struct {
	TrashID string `json:"trash_id"`
	Name    string `json:"name"`
}

// QualityDefinition fetches the recommended quality sizes for a service
// and definition type (e.g. "series", "movie").
func (c *Client) QualityDefinition(ctx context.Context, service, defType string) (*QualityDefinition, error) {
	data, err := c.fetch(ctx, fmt.Sprintf("/%s/quality-size/%s.json", service, defType))
	if err != nil {
		return nil, err
	}
	var out QualityDefinition
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("guides: decode quality definition: %w", err)
	}
	return &out, nil
}

// CustomFormats fetches the custom-format index for a service, optionally
// filtered to entries whose name contains nameFilter (case-insensitive).
func (c *Client) CustomFormats(ctx context.Context, service, nameFilter string) ([]CustomFormat, error) {
	data, err := c.fetch(ctx, fmt.Sprintf("/%s/cf-index.json", service))
	if err != nil {
		return nil, err
	}
	var all []CustomFormat
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("guides: decode custom formats: %w", err)
	}
	if nameFilter == "" {
		return all, nil
	}
	needle := strings.ToLower(nameFilter)
	out := make([]CustomFormat, 0, len(all))
	for _, cf := range all {
		if strings.Contains(strings.ToLower(cf.Name), needle) {
			out = append(out, cf)
		}
	}
	return out, nil
}

// fetch returns the body at path, from cache when fresh.
func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	if data, ok := c.cache.Get(path); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("guides: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guides: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guides: unexpected status %d fetching %s", resp.StatusCode, path)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("guides: read response: %w", err)
	}
	c.cache.Add(path, data)
	return data, nil
}
