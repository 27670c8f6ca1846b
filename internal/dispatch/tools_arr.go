package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arrgate/arrgate/internal/arr"
	"github.com/arrgate/arrgate/internal/format"
	"github.com/arrgate/arrgate/internal/mcp"
	"github.com/arrgate/arrgate/internal/registry"
)

// Sort keys accepted by the library tools. Direction defaults depend on
// the key: sizes are most useful largest-first, dates oldest-first.
const (
	sortBySize  = "size_on_disk"
	sortByDate  = "date_added"
	sortByTitle = "title"
)

// libraryRow is the reduced per-item shape returned by the library tools.
type libraryRow struct {
	Title      string `json:"title"`
	Year       int    `json:"year,omitempty"`
	Status     string `json:"status,omitempty"`
	SizeOnDisk string `json:"sizeOnDisk"`
	Added      string `json:"added,omitempty"`
	Completion string `json:"completion,omitempty"`

	sizeBytes int64
	added     time.Time
}

// defaultDirection returns the documented default sort direction per key.
func defaultDirection(key string) string {
	if key == sortBySize {
		return "desc"
	}
	return "asc"
}

// sortLibrary orders rows by key and direction in place.
func sortLibrary(rows []libraryRow, key, direction string) {
	less := func(a, b libraryRow) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	switch key {
	case sortBySize:
		less = func(a, b libraryRow) bool { return a.sizeBytes < b.sizeBytes }
	case sortByDate:
		less = func(a, b libraryRow) bool { return a.added.Before(b.added) }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if direction == "desc" {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// librarySortArgs resolves the shared sort/limit arguments of the
// library tools.
func librarySortArgs(args Args) (key, direction string, limit int, err error) {
	key, err = args.Enum("sort", sortByTitle, sortBySize, sortByDate, sortByTitle)
	if err != nil {
		return "", "", 0, err
	}
	direction, err = args.Enum("direction", defaultDirection(key), "asc", "desc")
	if err != nil {
		return "", "", 0, err
	}
	limit = args.Int("limit", 25)
	if limit <= 0 {
		limit = 25
	}
	return key, direction, limit, nil
}

var librarySchema = schema(nil, map[string]mcp.Property{
	"sort":      {Type: "string", Description: "Sort key", Enum: []string{sortBySize, sortByDate, sortByTitle}, Default: sortByTitle},
	"direction": {Type: "string", Description: "Sort direction; defaults to desc for size_on_disk, asc otherwise", Enum: []string{"asc", "desc"}},
	"limit":     {Type: "number", Description: "Max rows to return (default 25)", Default: 25},
})

var searchSchema = schema([]string{"query"}, map[string]mcp.Property{
	"query": {Type: "string", Description: "Title to look up"},
	"limit": {Type: "number", Description: "Max results (default 10)", Default: 10},
})

var queueSchema = schema(nil, map[string]mcp.Property{
	"limit": {Type: "number", Description: "Max queue records (default 20)", Default: 20},
})

var calendarSchema = schema(nil, map[string]mcp.Property{
	"days": {Type: "number", Description: "Day window starting today (default 7)", Default: 7},
})

func deleteSchema(noun string) mcp.InputSchema {
	return schema([]string{"id"}, map[string]mcp.Property{
		"id":          {Type: "number", Description: "The " + noun + " id"},
		"deleteFiles": {Type: "boolean", Description: "Also delete files on disk (default false)", Default: false},
	})
}

// queueRow is the reduced per-record shape of the queue tools.
type queueRow struct {
	Title    string `json:"title"`
	Status   string `json:"status"`
	Size     string `json:"size"`
	Progress string `json:"progress"`
	TimeLeft string `json:"timeLeft,omitempty"`
	Indexer  string `json:"indexer,omitempty"`
	Protocol string `json:"protocol,omitempty"`
}

func (d *Dispatcher) registerArrTools() {
	for _, svc := range []registry.Service{registry.Sonarr, registry.Radarr, registry.Lidarr, registry.Readarr} {
		svc := svc
		name := string(svc)

		d.register(svc, mcp.Tool{
			Name:        name + "_library",
			Description: fmt.Sprintf("List the %s library with size, date added and completion, sorted as requested.", name),
			InputSchema: librarySchema,
		}, func(ctx context.Context, args Args) (any, error) {
			return d.arrLibrary(ctx, svc, args)
		})

		d.register(svc, mcp.Tool{
			Name:        name + "_search",
			Description: fmt.Sprintf("Search %s's metadata provider for a title.", name),
			InputSchema: searchSchema,
		}, func(ctx context.Context, args Args) (any, error) {
			return d.arrSearch(ctx, svc, args)
		})

		d.register(svc, mcp.Tool{
			Name:        name + "_queue",
			Description: fmt.Sprintf("Show %s's download queue.", name),
			InputSchema: queueSchema,
		}, func(ctx context.Context, args Args) (any, error) {
			return d.arrQueue(ctx, svc, args)
		})
	}

	// Calendar, delete and setup-review exist only for the two
	// video-library services.
	d.register(registry.Sonarr, mcp.Tool{
		Name:        "sonarr_calendar",
		Description: "Episodes airing within the coming day window.",
		InputSchema: calendarSchema,
	}, d.sonarrCalendar)
	d.register(registry.Radarr, mcp.Tool{
		Name:        "radarr_calendar",
		Description: "Movies releasing within the coming day window.",
		InputSchema: calendarSchema,
	}, d.radarrCalendar)

	d.register(registry.Sonarr, mcp.Tool{
		Name:        "sonarr_delete_series",
		Description: "Delete a series from Sonarr by id, optionally removing its files.",
		InputSchema: deleteSchema("series"),
	}, d.sonarrDeleteSeries)
	d.register(registry.Radarr, mcp.Tool{
		Name:        "radarr_delete_movie",
		Description: "Delete a movie from Radarr by id, optionally removing its files.",
		InputSchema: deleteSchema("movie"),
	}, d.radarrDeleteMovie)

	d.register(registry.Sonarr, mcp.Tool{
		Name:        "sonarr_review_setup",
		Description: "Fetch Sonarr's quality profiles, root folders, tags, indexers and health in one pass for a configuration review.",
		InputSchema: schema(nil, map[string]mcp.Property{}),
	}, func(ctx context.Context, args Args) (any, error) {
		return d.arrReviewSetup(ctx, registry.Sonarr)
	})
	d.register(registry.Radarr, mcp.Tool{
		Name:        "radarr_review_setup",
		Description: "Fetch Radarr's quality profiles, root folders, tags, indexers and health in one pass for a configuration review.",
		InputSchema: schema(nil, map[string]mcp.Property{}),
	}, func(ctx context.Context, args Args) (any, error) {
		return d.arrReviewSetup(ctx, registry.Radarr)
	})

	d.register(registry.Prowlarr, mcp.Tool{
		Name:        "prowlarr_indexers",
		Description: "List the indexers configured in Prowlarr.",
		InputSchema: schema(nil, map[string]mcp.Property{}),
	}, d.prowlarrIndexers)
	d.register(registry.Prowlarr, mcp.Tool{
		Name:        "prowlarr_search",
		Description: "Search releases across Prowlarr's indexers.",
		InputSchema: schema([]string{"query"}, map[string]mcp.Property{
			"query":      {Type: "string", Description: "Search query"},
			"indexerIds": {Type: "array", Description: "Restrict to these indexer ids", Items: &mcp.Items{Type: "number"}},
			"limit":      {Type: "number", Description: "Max releases (default 50)", Default: 50},
		}),
	}, d.prowlarrSearch)
}

// arrClient returns the client for svc. Call has already verified
// presence, so the lookup cannot miss.
func (d *Dispatcher) arrClient(svc registry.Service) *arr.Client {
	c, _ := d.reg.Arr(svc)
	return c
}

// libraryRows fetches and normalizes the library of one service into the
// common row shape.
func libraryRows(ctx context.Context, c *arr.Client) ([]libraryRow, error) {
	switch c.Kind() {
	case arr.KindSonarr:
		series, err := c.Series(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]libraryRow, 0, len(series))
		for _, s := range series {
			rows = append(rows, libraryRow{
				Title:      s.Title,
				Year:       s.Year,
				Status:     s.Status,
				SizeOnDisk: format.Bytes(s.Statistics.SizeOnDisk),
				Added:      s.Added.UTC().Format(time.RFC3339),
				Completion: fmt.Sprintf("%d/%d episodes (%.1f%%)", s.Statistics.EpisodeFileCount, s.Statistics.EpisodeCount, s.Statistics.PercentOfEpisodes),
				sizeBytes:  s.Statistics.SizeOnDisk,
				added:      s.Added,
			})
		}
		return rows, nil
	case arr.KindRadarr:
		movies, err := c.Movies(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]libraryRow, 0, len(movies))
		for _, m := range movies {
			completion := "missing"
			if m.HasFile {
				completion = "downloaded"
			}
			rows = append(rows, libraryRow{
				Title:      m.Title,
				Year:       m.Year,
				Status:     m.Status,
				SizeOnDisk: format.Bytes(m.SizeOnDisk),
				Added:      m.Added.UTC().Format(time.RFC3339),
				Completion: completion,
				sizeBytes:  m.SizeOnDisk,
				added:      m.Added,
			})
		}
		return rows, nil
	case arr.KindLidarr:
		artists, err := c.Artists(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]libraryRow, 0, len(artists))
		for _, a := range artists {
			rows = append(rows, libraryRow{
				Title:      a.ArtistName,
				Status:     a.Status,
				SizeOnDisk: format.Bytes(a.Statistics.SizeOnDisk),
				Added:      a.Added.UTC().Format(time.RFC3339),
				Completion: fmt.Sprintf("%d/%d tracks", a.Statistics.TrackFileCount, a.Statistics.TrackCount),
				sizeBytes:  a.Statistics.SizeOnDisk,
				added:      a.Added,
			})
		}
		return rows, nil
	case arr.KindReadarr:
		authors, err := c.Authors(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]libraryRow, 0, len(authors))
		for _, a := range authors {
			rows = append(rows, libraryRow{
				Title:      a.AuthorName,
				Status:     a.Status,
				SizeOnDisk: format.Bytes(a.Statistics.SizeOnDisk),
				Added:      a.Added.UTC().Format(time.RFC3339),
				Completion: fmt.Sprintf("%d/%d books", a.Statistics.BookFileCount, a.Statistics.BookCount),
				sizeBytes:  a.Statistics.SizeOnDisk,
				added:      a.Added,
			})
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%s has no library listing", c.Name())
}

func (d *Dispatcher) arrLibrary(ctx context.Context, svc registry.Service, args Args) (any, error) {
	key, direction, limit, err := librarySortArgs(args)
	if err != nil {
		return nil, err
	}
	rows, err := libraryRows(ctx, d.arrClient(svc))
	if err != nil {
		return nil, err
	}
	sortLibrary(rows, key, direction)
	total := len(rows)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return map[string]any{
		"service":   string(svc),
		"total":     total,
		"returned":  len(rows),
		"sort":      key,
		"direction": direction,
		"items":     rows,
	}, nil
}

func (d *Dispatcher) arrSearch(ctx context.Context, svc registry.Service, args Args) (any, error) {
	query, err := args.RequireString("query")
	if err != nil {
		return nil, err
	}
	limit := args.Int("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	hits, err := lookup(ctx, d.arrClient(svc), query)
	if err != nil {
		return nil, err
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return map[string]any{"service": string(svc), "query": query, "results": hits}, nil
}

func (d *Dispatcher) arrQueue(ctx context.Context, svc registry.Service, args Args) (any, error) {
	limit := args.Int("limit", 20)
	page, err := d.arrClient(svc).Queue(ctx, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]queueRow, 0, len(page.Records))
	for _, rec := range page.Records {
		size := int64(rec.Size)
		done := size - int64(rec.SizeLeft)
		rows = append(rows, queueRow{
			Title:    rec.Title,
			Status:   rec.Status,
			Size:     format.Bytes(size),
			Progress: format.Percent(done, size),
			TimeLeft: rec.TimeLeft,
			Indexer:  rec.Indexer,
			Protocol: rec.Protocol,
		})
	}
	return map[string]any{
		"service": string(svc),
		"total":   page.TotalRecords,
		"items":   rows,
	}, nil
}

func (d *Dispatcher) sonarrCalendar(ctx context.Context, args Args) (any, error) {
	days := args.Int("days", 7)
	if days <= 0 {
		days = 7
	}
	entries, err := d.arrClient(registry.Sonarr).EpisodeCalendar(ctx, days)
	if err != nil {
		return nil, err
	}
	type upcoming struct {
		Series  string `json:"series"`
		Episode string `json:"episode"`
		Title   string `json:"title"`
		AirsAt  string `json:"airsAt"`
	}
	out := make([]upcoming, 0, len(entries))
	for _, e := range entries {
		out = append(out, upcoming{
			Series:  e.Series.Title,
			Episode: fmt.Sprintf("S%02dE%02d", e.SeasonNumber, e.EpisodeNumber),
			Title:   e.Title,
			AirsAt:  e.AirDateUTC.UTC().Format(time.RFC3339),
		})
	}
	return map[string]any{"days": days, "episodes": out}, nil
}

func (d *Dispatcher) radarrCalendar(ctx context.Context, args Args) (any, error) {
	days := args.Int("days", 7)
	if days <= 0 {
		days = 7
	}
	entries, err := d.arrClient(registry.Radarr).MovieCalendar(ctx, days)
	if err != nil {
		return nil, err
	}
	type upcoming struct {
		Title           string `json:"title"`
		Year            int    `json:"year,omitempty"`
		PhysicalRelease string `json:"physicalRelease,omitempty"`
		DigitalRelease  string `json:"digitalRelease,omitempty"`
	}
	out := make([]upcoming, 0, len(entries))
	for _, e := range entries {
		u := upcoming{Title: e.Title, Year: e.Year}
		if !e.PhysicalRelease.IsZero() {
			u.PhysicalRelease = e.PhysicalRelease.UTC().Format(time.RFC3339)
		}
		if !e.DigitalRelease.IsZero() {
			u.DigitalRelease = e.DigitalRelease.UTC().Format(time.RFC3339)
		}
		out = append(out, u)
	}
	return map[string]any{"days": days, "movies": out}, nil
}

func (d *Dispatcher) sonarrDeleteSeries(ctx context.Context, args Args) (any, error) {
	id, err := args.RequireInt64("id")
	if err != nil {
		return nil, err
	}
	deleteFiles := args.Bool("deleteFiles", false)
	if err := d.arrClient(registry.Sonarr).DeleteSeries(ctx, id, deleteFiles); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": id, "filesDeleted": deleteFiles}, nil
}

func (d *Dispatcher) radarrDeleteMovie(ctx context.Context, args Args) (any, error) {
	id, err := args.RequireInt64("id")
	if err != nil {
		return nil, err
	}
	deleteFiles := args.Bool("deleteFiles", false)
	if err := d.arrClient(registry.Radarr).DeleteMovie(ctx, id, deleteFiles); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": id, "filesDeleted": deleteFiles}, nil
}

// arrReviewSetup pulls five facets of one backend concurrently. Unlike
// the cross-service fan-out these are not independent answers: the review
// is meaningless with a piece missing, so the first failure fails the
// whole call.
func (d *Dispatcher) arrReviewSetup(ctx context.Context, svc registry.Service) (any, error) {
	c := d.arrClient(svc)

	var (
		profiles []arr.QualityProfile
		folders  []arr.RootFolder
		tags     []arr.Tag
		indexers []arr.Indexer
		health   []arr.HealthCheck
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { profiles, err = c.QualityProfiles(gctx); return })
	g.Go(func() (err error) { folders, err = c.RootFolders(gctx); return })
	g.Go(func() (err error) { tags, err = c.Tags(gctx); return })
	g.Go(func() (err error) { indexers, err = c.Indexers(gctx); return })
	g.Go(func() (err error) { health, err = c.Health(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	type folderView struct {
		Path       string `json:"path"`
		FreeSpace  string `json:"freeSpace"`
		Accessible bool   `json:"accessible"`
	}
	folderViews := make([]folderView, 0, len(folders))
	for _, f := range folders {
		folderViews = append(folderViews, folderView{
			Path:       f.Path,
			FreeSpace:  format.Bytes(f.FreeSpace),
			Accessible: f.Accessible,
		})
	}

	type indexerView struct {
		Name     string `json:"name"`
		Enabled  bool   `json:"enabled"`
		Protocol string `json:"protocol,omitempty"`
	}
	indexerViews := make([]indexerView, 0, len(indexers))
	for _, ix := range indexers {
		indexerViews = append(indexerViews, indexerView{Name: ix.Name, Enabled: ix.Enable, Protocol: ix.Protocol})
	}

	healthMessages := make([]string, 0, len(health))
	for _, h := range health {
		healthMessages = append(healthMessages, fmt.Sprintf("[%s] %s", h.Type, h.Message))
	}

	return map[string]any{
		"service":         string(svc),
		"qualityProfiles": profileNames(profiles),
		"rootFolders":     folderViews,
		"tags":            tagLabels(tags),
		"indexers":        indexerViews,
		"health":          healthMessages,
	}, nil
}

func profileNames(profiles []arr.QualityProfile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Name)
	}
	return out
}

func tagLabels(tags []arr.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Label)
	}
	return out
}

func (d *Dispatcher) prowlarrIndexers(ctx context.Context, _ Args) (any, error) {
	indexers, err := d.arrClient(registry.Prowlarr).Indexers(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"indexers": indexers}, nil
}

func (d *Dispatcher) prowlarrSearch(ctx context.Context, args Args) (any, error) {
	query, err := args.RequireString("query")
	if err != nil {
		return nil, err
	}
	indexerIDs, err := args.Int64Slice("indexerIds")
	if err != nil {
		return nil, err
	}
	limit := args.Int("limit", 50)

	releases, err := d.arrClient(registry.Prowlarr).SearchReleases(ctx, query, indexerIDs, limit)
	if err != nil {
		return nil, err
	}

	type releaseView struct {
		Title    string `json:"title"`
		Indexer  string `json:"indexer"`
		Size     string `json:"size"`
		Seeders  int    `json:"seeders"`
		Protocol string `json:"protocol,omitempty"`
		AgeDays  int    `json:"ageDays"`
	}
	views := make([]releaseView, 0, len(releases))
	for _, r := range releases {
		views = append(views, releaseView{
			Title:    r.Title,
			Indexer:  r.Indexer,
			Size:     format.Bytes(r.Size),
			Seeders:  r.Seeders,
			Protocol: r.Protocol,
			AgeDays:  r.Age,
		})
	}
	return map[string]any{"query": query, "releases": views}, nil
}
