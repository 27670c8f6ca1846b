package dispatch

import (
	"context"
	"time"

	"github.com/arrgate/arrgate/internal/format"
	"github.com/arrgate/arrgate/internal/mcp"
	"github.com/arrgate/arrgate/internal/overseerr"
	"github.com/arrgate/arrgate/internal/registry"
)

// requestStatusNames maps Overseerr's numeric request status to words.
var requestStatusNames = map[int]string{
	1: "pending",
	2: "approved",
	3: "declined",
}

func (d *Dispatcher) registerOverseerr() {
	d.register(registry.Overseerr, mcp.Tool{
		Name:        "overseerr_requests",
		Description: "List media requests in Overseerr, optionally filtered by state.",
		InputSchema: schema(nil, map[string]mcp.Property{
			"filter": {Type: "string", Description: "Request state filter (default all)", Enum: []string{"all", "pending", "approved", "available", "processing", "unavailable"}, Default: "all"},
			"limit":  {Type: "number", Description: "Max requests (default 20)", Default: 20},
		}),
	}, d.overseerrRequests)

	d.register(registry.Overseerr, mcp.Tool{
		Name:        "overseerr_approve_request",
		Description: "Approve a pending Overseerr request by id.",
		InputSchema: schema([]string{"id"}, map[string]mcp.Property{
			"id": {Type: "number", Description: "The request id"},
		}),
	}, d.overseerrApprove)

	d.register(registry.Overseerr, mcp.Tool{
		Name:        "overseerr_decline_request",
		Description: "Decline a pending Overseerr request by id.",
		InputSchema: schema([]string{"id"}, map[string]mcp.Property{
			"id": {Type: "number", Description: "The request id"},
		}),
	}, d.overseerrDecline)
}

// overseerrClient returns the client; Call has already verified presence.
func (d *Dispatcher) overseerrClient() *overseerr.Client {
	c, _ := d.reg.Overseerr()
	return c
}

func (d *Dispatcher) overseerrRequests(ctx context.Context, args Args) (any, error) {
	filter, err := args.Enum("filter", "all", "all", "pending", "approved", "available", "processing", "unavailable")
	if err != nil {
		return nil, err
	}
	limit := args.Int("limit", 20)

	page, err := d.overseerrClient().Requests(ctx, filter, limit)
	if err != nil {
		return nil, err
	}

	type requestView struct {
		ID          int64  `json:"id"`
		Type        string `json:"type"`
		Status      string `json:"status"`
		RequestedBy string `json:"requestedBy"`
		RequestedAt string `json:"requestedAt"`
	}
	views := make([]requestView, 0, len(page.Results))
	for _, r := range page.Results {
		views = append(views, requestView{
			ID:          r.ID,
			Type:        r.Type,
			Status:      format.FirstNonEmpty("unknown", requestStatusNames[r.Status]),
			RequestedBy: format.FirstNonEmpty("unknown", r.RequestedBy.DisplayName, r.RequestedBy.Email),
			RequestedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return map[string]any{
		"filter":   filter,
		"total":    page.PageInfo.Results,
		"requests": views,
	}, nil
}

func (d *Dispatcher) overseerrApprove(ctx context.Context, args Args) (any, error) {
	id, err := args.RequireInt64("id")
	if err != nil {
		return nil, err
	}
	if err := d.overseerrClient().Approve(ctx, id); err != nil {
		return nil, err
	}
	return map[string]any{"id": id, "action": "approved"}, nil
}

func (d *Dispatcher) overseerrDecline(ctx context.Context, args Args) (any, error) {
	id, err := args.RequireInt64("id")
	if err != nil {
		return nil, err
	}
	if err := d.overseerrClient().Decline(ctx, id); err != nil {
		return nil, err
	}
	return map[string]any{"id": id, "action": "declined"}, nil
}
