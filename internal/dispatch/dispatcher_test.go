package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/guides"
	"github.com/arrgate/arrgate/internal/logging"
	"github.com/arrgate/arrgate/internal/mcp"
	"github.com/arrgate/arrgate/internal/registry"
)

func testLogger() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

func newDispatcher(t *testing.T, services config.ServicesConfig, guidesURL string) *Dispatcher {
	t.Helper()
	reg := registry.New(services, testLogger())
	g := guides.New(config.GuidesConfig{BaseURL: guidesURL, TTLMinutes: 60}, testLogger())
	return New(reg, g, testLogger())
}

// sonarrHandler fakes the Sonarr endpoints the tools hit.
func sonarrHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/system/status":
			w.Write([]byte(`{"appName":"Sonarr","version":"4.0.0"}`))
		case "/api/v3/series":
			w.Write([]byte(`[
				{"title":"Zed","year":2024,"status":"continuing","added":"2024-03-01T00:00:00Z","statistics":{"episodeCount":10,"episodeFileCount":10,"sizeOnDisk":100,"percentOfEpisodes":100}},
				{"title":"alpha","year":2022,"status":"ended","added":"2022-03-01T00:00:00Z","statistics":{"episodeCount":8,"episodeFileCount":4,"sizeOnDisk":300,"percentOfEpisodes":50}},
				{"title":"Beta","year":2023,"status":"continuing","added":"2023-03-01T00:00:00Z","statistics":{"episodeCount":6,"episodeFileCount":6,"sizeOnDisk":200,"percentOfEpisodes":100}}
			]`))
		case "/api/v3/series/lookup":
			w.Write([]byte(`[{"title":"Found Show","year":2020}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func svc(url string) config.ServiceConfig {
	return config.ServiceConfig{URL: url, APIKey: "k"}
}

// callJSON invokes a tool and decodes its text payload into out.
func callJSON(t *testing.T, d *Dispatcher, name string, args map[string]any, out any) {
	t.Helper()
	result := d.Call(context.Background(), name, args)
	require.False(t, result.IsError, "tool %s failed: %s", name, resultText(result))
	require.NoError(t, json.Unmarshal([]byte(resultText(result)), out))
}

func resultText(r mcp.ToolResult) string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

func toolNames(d *Dispatcher) map[string]bool {
	names := make(map[string]bool)
	for _, tool := range d.Tools() {
		names[tool.Name] = true
	}
	return names
}

func TestToolsAdvertisesOnlyConfiguredServices(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()

	d := newDispatcher(t, config.ServicesConfig{Sonarr: svc(srv.URL)}, "http://unused")
	names := toolNames(d)

	// Static tools are always advertised.
	assert.True(t, names["status"])
	assert.True(t, names["search_all"])
	assert.True(t, names["guides_quality_definition"])
	assert.True(t, names["guides_custom_formats"])

	assert.True(t, names["sonarr_library"])
	assert.True(t, names["sonarr_calendar"])
	assert.True(t, names["sonarr_review_setup"])

	assert.False(t, names["radarr_library"])
	assert.False(t, names["tautulli_activity"])
	assert.False(t, names["overseerr_requests"])
	assert.False(t, names["prowlarr_search"])
}

func TestToolsIsPureFunctionOfConfig(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()

	d := newDispatcher(t, config.ServicesConfig{
		Sonarr:   svc(srv.URL),
		Tautulli: svc(srv.URL),
	}, "http://unused")
	names := toolNames(d)

	assert.True(t, names["tautulli_activity"])
	assert.True(t, names["tautulli_watch_history"])
	assert.True(t, names["tautulli_home_stats"])
	assert.False(t, names["radarr_library"])

	// Repeated listing yields the same set.
	assert.Equal(t, names, toolNames(d))
}

func TestCallUnknownTool(t *testing.T) {
	d := newDispatcher(t, config.ServicesConfig{}, "http://unused")
	result := d.Call(context.Background(), "bogus_tool", nil)

	assert.True(t, result.IsError)
	assert.Equal(t, "unknown tool: bogus_tool", resultText(result))
}

func TestCallUnconfiguredServiceTool(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()

	d := newDispatcher(t, config.ServicesConfig{Sonarr: svc(srv.URL)}, "http://unused")
	result := d.Call(context.Background(), "radarr_library", nil)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "radarr is not configured")
	assert.Contains(t, resultText(result), "RADARR_URL")
}

func TestStatusCoversEveryKnownService(t *testing.T) {
	up := httptest.NewServer(sonarrHandler())
	defer up.Close()

	// A configured but unreachable backend: closed before use.
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	d := newDispatcher(t, config.ServicesConfig{
		Sonarr: svc(up.URL),
		Radarr: svc(downURL),
	}, "http://unused")

	var payload struct {
		Services []struct {
			Service    string `json:"service"`
			Configured bool   `json:"configured"`
			Connected  bool   `json:"connected"`
			Version    string `json:"version"`
			Error      string `json:"error"`
		} `json:"services"`
	}
	callJSON(t, d, "status", nil, &payload)

	require.Len(t, payload.Services, 7)
	byName := make(map[string]int)
	for i, s := range payload.Services {
		byName[s.Service] = i
	}

	sonarr := payload.Services[byName["sonarr"]]
	assert.True(t, sonarr.Configured)
	assert.True(t, sonarr.Connected)
	assert.Equal(t, "4.0.0", sonarr.Version)

	radarr := payload.Services[byName["radarr"]]
	assert.True(t, radarr.Configured)
	assert.False(t, radarr.Connected)
	assert.NotEmpty(t, radarr.Error)

	lidarr := payload.Services[byName["lidarr"]]
	assert.False(t, lidarr.Configured)
	assert.False(t, lidarr.Connected)

	// Declared order, not completion order.
	assert.Equal(t, 0, byName["sonarr"])
	assert.Equal(t, 1, byName["radarr"])
	assert.Equal(t, 6, byName["tautulli"])
}

func TestSearchAllIsolatesFailures(t *testing.T) {
	sonarr := httptest.NewServer(sonarrHandler())
	defer sonarr.Close()

	radarr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer radarr.Close()

	d := newDispatcher(t, config.ServicesConfig{
		Sonarr: svc(sonarr.URL),
		Radarr: svc(radarr.URL),
	}, "http://unused")

	var payload struct {
		Query    string `json:"query"`
		Services []struct {
			Service string `json:"service"`
			OK      bool   `json:"ok"`
			Results []struct {
				Title string `json:"title"`
			} `json:"results"`
			Error string `json:"error"`
		} `json:"services"`
	}
	callJSON(t, d, "search_all", map[string]any{"query": "show"}, &payload)

	require.Len(t, payload.Services, 2)
	assert.Equal(t, "sonarr", payload.Services[0].Service)
	assert.True(t, payload.Services[0].OK)
	require.Len(t, payload.Services[0].Results, 1)
	assert.Equal(t, "Found Show", payload.Services[0].Results[0].Title)

	assert.Equal(t, "radarr", payload.Services[1].Service)
	assert.False(t, payload.Services[1].OK)
	assert.NotEmpty(t, payload.Services[1].Error)
}

func TestSearchAllRequiresQuery(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()

	d := newDispatcher(t, config.ServicesConfig{Sonarr: svc(srv.URL)}, "http://unused")
	result := d.Call(context.Background(), "search_all", nil)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "invalid argument")
}

type libraryPayload struct {
	Total     int    `json:"total"`
	Returned  int    `json:"returned"`
	Sort      string `json:"sort"`
	Direction string `json:"direction"`
	Items     []struct {
		Title string `json:"title"`
	} `json:"items"`
}

func libraryTitles(p libraryPayload) []string {
	titles := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		titles = append(titles, item.Title)
	}
	return titles
}

func TestLibraryDefaultSortIsTitleAscending(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()
	d := newDispatcher(t, config.ServicesConfig{Sonarr: svc(srv.URL)}, "http://unused")

	var payload libraryPayload
	callJSON(t, d, "sonarr_library", nil, &payload)

	assert.Equal(t, "title", payload.Sort)
	assert.Equal(t, "asc", payload.Direction)
	assert.Equal(t, []string{"alpha", "Beta", "Zed"}, libraryTitles(payload))
}

func TestLibrarySizeSortDefaultsDescending(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()
	d := newDispatcher(t, config.ServicesConfig{Sonarr: svc(srv.URL)}, "http://unused")

	var payload libraryPayload
	callJSON(t, d, "sonarr_library", map[string]any{"sort": "size_on_disk"}, &payload)

	assert.Equal(t, "desc", payload.Direction)
	assert.Equal(t, []string{"alpha", "Beta", "Zed"}, libraryTitles(payload))
}

func TestLibraryDateSortDefaultsAscending(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()
	d := newDispatcher(t, config.ServicesConfig{Sonarr: svc(srv.URL)}, "http://unused")

	var payload libraryPayload
	callJSON(t, d, "sonarr_library", map[string]any{"sort": "date_added"}, &payload)

	assert.Equal(t, "asc", payload.Direction)
	assert.Equal(t, []string{"alpha", "Beta", "Zed"}, libraryTitles(payload))
}

func TestLibraryExplicitDirectionOverridesDefault(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()
	d := newDispatcher(t, config.ServicesConfig{Sonarr: svc(srv.URL)}, "http://unused")

	var payload libraryPayload
	callJSON(t, d, "sonarr_library", map[string]any{"sort": "size_on_disk", "direction": "asc"}, &payload)

	assert.Equal(t, "asc", payload.Direction)
	assert.Equal(t, []string{"Zed", "Beta", "alpha"}, libraryTitles(payload))
}

func TestLibraryLimitTruncatesAfterSort(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()
	d := newDispatcher(t, config.ServicesConfig{Sonarr: svc(srv.URL)}, "http://unused")

	var payload libraryPayload
	callJSON(t, d, "sonarr_library", map[string]any{"sort": "size_on_disk", "limit": 1}, &payload)

	assert.Equal(t, 3, payload.Total)
	assert.Equal(t, 1, payload.Returned)
	assert.Equal(t, []string{"alpha"}, libraryTitles(payload))
}

func TestLibraryRejectsUnknownSortKey(t *testing.T) {
	srv := httptest.NewServer(sonarrHandler())
	defer srv.Close()
	d := newDispatcher(t, config.ServicesConfig{Sonarr: svc(srv.URL)}, "http://unused")

	result := d.Call(context.Background(), "sonarr_library", map[string]any{"sort": "color"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "invalid argument")
}

func TestGuidesQualityDefinition(t *testing.T) {
	guidesSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sonarr/quality-size/series.json", r.URL.Path)
		w.Write([]byte(`{"type":"series","qualities":[{"quality":"WEBDL-1080p","min":12.5,"preferred":50,"max":100}]}`))
	}))
	defer guidesSrv.Close()

	d := newDispatcher(t, config.ServicesConfig{}, guidesSrv.URL)

	var payload struct {
		Type      string `json:"type"`
		Qualities []struct {
			Quality string `json:"quality"`
		} `json:"qualities"`
	}
	callJSON(t, d, "guides_quality_definition", map[string]any{"service": "sonarr", "type": "series"}, &payload)

	assert.Equal(t, "series", payload.Type)
	require.Len(t, payload.Qualities, 1)
	assert.Equal(t, "WEBDL-1080p", payload.Qualities[0].Quality)
}

func TestGuidesRejectsUnknownService(t *testing.T) {
	d := newDispatcher(t, config.ServicesConfig{}, "http://unused")

	result := d.Call(context.Background(), "guides_quality_definition", map[string]any{"service": "plex", "type": "series"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "invalid argument")
}
