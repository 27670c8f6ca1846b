package guides

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(config.GuidesConfig{BaseURL: srv.URL, TTLMinutes: 60}, testLogger())
	return c, srv
}

func TestQualityDefinitionDecodes(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"type":"series","qualities":[{"quality":"Bluray-1080p","min":50.4,"preferred":95,"max":227.8}]}`))
	})

	def, err := c.QualityDefinition(context.Background(), "sonarr", "series")
	require.NoError(t, err)

	assert.Equal(t, "/sonarr/quality-size/series.json", gotPath)
	assert.Equal(t, "series", def.Type)
	require.Len(t, def.Qualities, 1)
	assert.Equal(t, "Bluray-1080p", def.Qualities[0].Quality)
	assert.Equal(t, 95.0, def.Qualities[0].Preferred)
}

func TestFetchIsCached(t *testing.T) {
	var hits int
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"type":"movie","qualities":[]}`))
	})

	for i := 0; i < 3; i++ {
		_, err := c.QualityDefinition(context.Background(), "radarr", "movie")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, hits)
}

func TestDistinctPathsCachedSeparately(t *testing.T) {
	var hits int
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"qualities":[]}`))
	})

	_, err := c.QualityDefinition(context.Background(), "sonarr", "series")
	require.NoError(t, err)
	_, err = c.QualityDefinition(context.Background(), "sonarr", "anime")
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestCustomFormatsNameFilter(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"trash_id":"a1","name":"AMZN"},{"trash_id":"b2","name":"Remaster"},{"trash_id":"c3","name":"amzn web tier"}]`))
	})

	all, err := c.CustomFormats(context.Background(), "radarr", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := c.CustomFormats(context.Background(), "radarr", "amzn")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "a1", filtered[0].TrashID)
	assert.Equal(t, "c3", filtered[1].TrashID)
}

func TestFetchErrorNotCached(t *testing.T) {
	var hits int
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"qualities":[]}`))
	})

	_, err := c.QualityDefinition(context.Background(), "sonarr", "series")
	require.Error(t, err)

	_, err = c.QualityDefinition(context.Background(), "sonarr", "series")
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}
