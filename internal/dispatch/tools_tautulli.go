package dispatch

import (
	"context"

	"github.com/arrgate/arrgate/internal/format"
	"github.com/arrgate/arrgate/internal/history"
	"github.com/arrgate/arrgate/internal/mcp"
	"github.com/arrgate/arrgate/internal/registry"
	"github.com/arrgate/arrgate/internal/tautulli"
)

func (d *Dispatcher) registerTautulli() {
	d.register(registry.Tautulli, mcp.Tool{
		Name:        "tautulli_activity",
		Description: "Show current playback sessions on the media server.",
		InputSchema: schema(nil, map[string]mcp.Property{}),
	}, d.tautulliActivity)

	d.register(registry.Tautulli, mcp.Tool{
		Name:        "tautulli_watch_history",
		Description: "Answer whether a title exists in the library and who has watched it. Without a title, lists recent watch history.",
		InputSchema: schema(nil, map[string]mcp.Property{
			"title":  {Type: "string", Description: "Title to correlate; omit for recent history"},
			"user":   {Type: "string", Description: "Restrict to one user"},
			"length": {Type: "number", Description: "Max history rows (default 25, cap 100)", Default: history.DefaultLength},
		}),
	}, d.tautulliWatchHistory)

	d.register(registry.Tautulli, mcp.Tool{
		Name:        "tautulli_home_stats",
		Description: "Show the media server's dashboard statistics for a day window.",
		InputSchema: schema(nil, map[string]mcp.Property{
			"days": {Type: "number", Description: "Day window (default 30)", Default: 30},
		}),
	}, d.tautulliHomeStats)
}

// tautulliClient returns the client; Call has already verified presence.
func (d *Dispatcher) tautulliClient() *tautulli.Client {
	c, _ := d.reg.Tautulli()
	return c
}

func (d *Dispatcher) tautulliActivity(ctx context.Context, _ Args) (any, error) {
	activity, err := d.tautulliClient().Activity(ctx)
	if err != nil {
		return nil, err
	}

	type sessionView struct {
		Who      string `json:"who"`
		Title    string `json:"title"`
		State    string `json:"state"`
		Player   string `json:"player,omitempty"`
		Progress string `json:"progress,omitempty"`
		Quality  string `json:"quality,omitempty"`
	}
	views := make([]sessionView, 0, len(activity.Sessions))
	for _, s := range activity.Sessions {
		progress := s.ProgressPercent
		if progress != "" {
			progress += "%"
		}
		views = append(views, sessionView{
			Who:      format.FirstNonEmpty("Unknown", s.FriendlyName, s.User),
			Title:    s.FullTitle,
			State:    s.State,
			Player:   s.Player,
			Progress: progress,
			Quality:  s.QualityProfile,
		})
	}
	return map[string]any{
		"streamCount": activity.StreamCount,
		"sessions":    views,
	}, nil
}

func (d *Dispatcher) tautulliWatchHistory(ctx context.Context, args Args) (any, error) {
	q := history.Query{
		Title:  args.String("title", ""),
		User:   args.String("user", ""),
		Length: args.Int("length", history.DefaultLength),
	}
	return history.Resolve(ctx, d.tautulliClient(), q, d.log)
}

func (d *Dispatcher) tautulliHomeStats(ctx context.Context, args Args) (any, error) {
	days := args.Int("days", 30)
	stats, err := d.tautulliClient().HomeStats(ctx, days)
	if err != nil {
		return nil, err
	}
	return map[string]any{"days": days, "stats": stats}, nil
}
