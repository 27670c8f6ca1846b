package arr

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// SystemStatus is the subset of /system/status used for connectivity probes.
type SystemStatus struct {
	AppName string `json:"appName"`
	Version string `json:"version"`
}

// HealthCheck is one entry from /health.
type HealthCheck struct {
	Source  string `json:"source"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// QualityProfile is one entry from /qualityprofile.
type QualityProfile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RootFolder is one entry from /rootfolder.
type RootFolder struct {
	ID         int64  `json:"id"`
	Path       string `json:"path"`
	Accessible bool   `json:"accessible"`
	FreeSpace  int64  `json:"freeSpace"`
}

// Tag is one entry from /tag.
type Tag struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// QueueItem is one record from the paged /queue endpoint.
type QueueItem struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Status   string  `json:"status"`
	Size     float64 `json:"size"`
	SizeLeft float64 `json:"sizeleft"`
	TimeLeft string  `json:"timeleft"`
	Protocol string  `json:"protocol"`
	Indexer  string  `json:"indexer"`
}

// QueuePage is the envelope of /queue.
type QueuePage struct {
	TotalRecords int         `json:"totalRecords"`
	Records      []QueueItem `json:"records"`
}

// SystemStatus fetches the application name and version.
func (c *Client) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var out SystemStatus
	if err := c.get(ctx, "/system/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the current health check results.
func (c *Client) Health(ctx context.Context) ([]HealthCheck, error) {
	var out []HealthCheck
	if err := c.get(ctx, "/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// QualityProfiles fetches the configured quality profiles.
func (c *Client) QualityProfiles(ctx context.Context) ([]QualityProfile, error) {
	var out []QualityProfile
	if err := c.get(ctx, "/qualityprofile", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RootFolders fetches the configured root folders.
func (c *Client) RootFolders(ctx context.Context) ([]RootFolder, error) {
	var out []RootFolder
	if err := c.get(ctx, "/rootfolder", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tags fetches the configured tags.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var out []Tag
	if err := c.get(ctx, "/tag", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Queue fetches up to pageSize records from the download queue.
func (c *Client) Queue(ctx context.Context, pageSize int) (*QueuePage, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	q := url.Values{}
	q.Set("page", "1")
	q.Set("pageSize", strconv.Itoa(pageSize))
	var out QueuePage
	if err := c.get(ctx, "/queue", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// calendarRange formats a day window starting now as start/end query params.
func calendarRange(days int) url.Values {
	now := time.Now().UTC()
	q := url.Values{}
	q.Set("start", now.Format(time.RFC3339))
	q.Set("end", now.AddDate(0, 0, days).Format(time.RFC3339))
	return q
}
