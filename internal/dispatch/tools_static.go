package dispatch

import (
	"context"

	"github.com/arrgate/arrgate/internal/arr"
	"github.com/arrgate/arrgate/internal/mcp"
	"github.com/arrgate/arrgate/internal/registry"
)

// statusEntry is one service's line in the global status report. Every
// known service gets exactly one entry whether or not it is configured
// or reachable.
type statusEntry struct {
	Service    string `json:"service"`
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Version    string `json:"version,omitempty"`
	Error      string `json:"error,omitempty"`
}

// searchHit is one compact row of a cross-service search result.
type searchHit struct {
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"`
}

// serviceSearch is one service's branch of the search_all result.
type serviceSearch struct {
	Service string      `json:"service"`
	OK      bool        `json:"ok"`
	Results []searchHit `json:"results,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (d *Dispatcher) registerStatic() {
	d.register("", mcp.Tool{
		Name:        "status",
		Description: "Check the connectivity of every known backend service. Reports configured/connected/version per service; unreachable or unconfigured services never hide the others.",
		InputSchema: schema(nil, map[string]mcp.Property{}),
	}, d.statusAll)

	d.register("", mcp.Tool{
		Name:        "search_all",
		Description: "Search every configured library manager (Sonarr, Radarr, Lidarr, Readarr) for a title. Each service reports its own results or its own error independently.",
		InputSchema: schema([]string{"query"}, map[string]mcp.Property{
			"query": {Type: "string", Description: "Title to search for"},
			"limit": {Type: "number", Description: "Max results per service (default 10)", Default: 10},
		}),
	}, d.searchAll)

	d.register("", mcp.Tool{
		Name:        "guides_quality_definition",
		Description: "Look up the community-recommended quality size limits for a service and media type.",
		InputSchema: schema([]string{"service", "type"}, map[string]mcp.Property{
			"service": {Type: "string", Description: "Target service", Enum: []string{"sonarr", "radarr"}},
			"type":    {Type: "string", Description: "Definition type", Enum: []string{"series", "anime", "movie"}},
		}),
	}, d.guidesQualityDefinition)

	d.register("", mcp.Tool{
		Name:        "guides_custom_formats",
		Description: "List the community custom-format index for a service, optionally filtered by name.",
		InputSchema: schema([]string{"service"}, map[string]mcp.Property{
			"service": {Type: "string", Description: "Target service", Enum: []string{"sonarr", "radarr"}},
			"name":    {Type: "string", Description: "Case-insensitive name filter"},
		}),
	}, d.guidesCustomFormats)
}

// statusProbe returns the version-probe operation for one configured
// service. Each backend family has its own health/version endpoint.
func (d *Dispatcher) statusProbe(svc registry.Service) func(ctx context.Context) (any, error) {
	switch svc {
	case registry.Overseerr:
		c, _ := d.reg.Overseerr()
		return func(ctx context.Context) (any, error) {
			st, err := c.Status(ctx)
			if err != nil {
				return nil, err
			}
			return st.Version, nil
		}
	case registry.Tautulli:
		c, _ := d.reg.Tautulli()
		return func(ctx context.Context) (any, error) {
			info, err := c.ServerInfo(ctx)
			if err != nil {
				return nil, err
			}
			return info.Version, nil
		}
	default:
		c, _ := d.reg.Arr(svc)
		return func(ctx context.Context) (any, error) {
			st, err := c.SystemStatus(ctx)
			if err != nil {
				return nil, err
			}
			return st.Version, nil
		}
	}
}

func (d *Dispatcher) statusAll(ctx context.Context, _ Args) (any, error) {
	var ops []Operation
	for _, svc := range d.reg.Configured() {
		ops = append(ops, Operation{Key: string(svc), Run: d.statusProbe(svc)})
	}
	settled := Settle(ctx, ops)

	probed := make(map[string]Outcome, len(settled))
	for _, ko := range settled {
		probed[ko.Key] = ko.Outcome
	}

	entries := make([]statusEntry, 0, len(registry.Order))
	for _, svc := range registry.Order {
		entry := statusEntry{Service: string(svc)}
		if out, ok := probed[string(svc)]; ok {
			entry.Configured = true
			if out.OK {
				entry.Connected = true
				entry.Version, _ = out.Payload.(string)
			} else {
				entry.Error = out.Error
			}
		}
		entries = append(entries, entry)
	}
	return map[string]any{"services": entries}, nil
}

func (d *Dispatcher) searchAll(ctx context.Context, args Args) (any, error) {
	query, err := args.RequireString("query")
	if err != nil {
		return nil, err
	}
	limit := args.Int("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	libraryServices := []registry.Service{registry.Sonarr, registry.Radarr, registry.Lidarr, registry.Readarr}
	var ops []Operation
	for _, svc := range libraryServices {
		c, ok := d.reg.Arr(svc)
		if !ok {
			continue
		}
		ops = append(ops, Operation{Key: string(svc), Run: lookupOp(c, query, limit)})
	}

	settled := Settle(ctx, ops)
	branches := make([]serviceSearch, 0, len(settled))
	for _, ko := range settled {
		branch := serviceSearch{Service: ko.Key, OK: ko.OK, Error: ko.Error}
		if ko.OK {
			branch.Results, _ = ko.Payload.([]searchHit)
		}
		branches = append(branches, branch)
	}
	return map[string]any{"query": query, "services": branches}, nil
}

// lookupOp adapts the kind-specific lookup operation to compact hits.
func lookupOp(c *arr.Client, query string, limit int) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		hits, err := lookup(ctx, c, query)
		if err != nil {
			return nil, err
		}
		if len(hits) > limit {
			hits = hits[:limit]
		}
		return hits, nil
	}
}

func lookup(ctx context.Context, c *arr.Client, query string) ([]searchHit, error) {
	switch c.Kind() {
	case arr.KindSonarr:
		series, err := c.LookupSeries(ctx, query)
		if err != nil {
			return nil, err
		}
		hits := make([]searchHit, 0, len(series))
		for _, s := range series {
			hits = append(hits, searchHit{Title: s.Title, Year: s.Year})
		}
		return hits, nil
	case arr.KindRadarr:
		movies, err := c.LookupMovies(ctx, query)
		if err != nil {
			return nil, err
		}
		hits := make([]searchHit, 0, len(movies))
		for _, m := range movies {
			hits = append(hits, searchHit{Title: m.Title, Year: m.Year})
		}
		return hits, nil
	case arr.KindLidarr:
		artists, err := c.LookupArtists(ctx, query)
		if err != nil {
			return nil, err
		}
		hits := make([]searchHit, 0, len(artists))
		for _, a := range artists {
			hits = append(hits, searchHit{Title: a.ArtistName})
		}
		return hits, nil
	case arr.KindReadarr:
		authors, err := c.LookupAuthors(ctx, query)
		if err != nil {
			return nil, err
		}
		hits := make([]searchHit, 0, len(authors))
		for _, a := range authors {
			hits = append(hits, searchHit{Title: a.AuthorName})
		}
		return hits, nil
	}
	return nil, nil
}

func (d *Dispatcher) guidesQualityDefinition(ctx context.Context, args Args) (any, error) {
	service, err := args.Enum("service", "", "sonarr", "radarr")
	if err != nil {
		return nil, err
	}
	if service == "" {
		return nil, &InvalidArgumentError{Reason: "service is required"}
	}
	defType, err := args.Enum("type", "", "series", "anime", "movie")
	if err != nil {
		return nil, err
	}
	if defType == "" {
		return nil, &InvalidArgumentError{Reason: "type is required"}
	}
	return d.guides.QualityDefinition(ctx, service, defType)
}

func (d *Dispatcher) guidesCustomFormats(ctx context.Context, args Args) (any, error) {
	service, err := args.Enum("service", "", "sonarr", "radarr")
	if err != nil {
		return nil, err
	}
	if service == "" {
		return nil, &InvalidArgumentError{Reason: "service is required"}
	}
	formats, err := d.guides.CustomFormats(ctx, service, args.String("name", ""))
	if err != nil {
		return nil, err
	}
	return map[string]any{"service": service, "formats": formats}, nil
}
