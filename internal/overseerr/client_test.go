package overseerr

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

func TestRequestsFilterAndTake(t *testing.T) {
	var gotKey string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"pageInfo":{"results":1},"results":[{"id":5,"status":1,"type":"movie","requestedBy":{"displayName":"alice"}}]}`))
	}))
	defer srv.Close()

	c := New(config.ServiceConfig{URL: srv.URL, APIKey: "secret"}, testLogger())
	page, err := c.Requests(context.Background(), "pending", 10)
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, []string{"pending"}, gotQuery["filter"])
	assert.Equal(t, []string{"10"}, gotQuery["take"])
	require.Len(t, page.Results, 1)
	assert.Equal(t, int64(5), page.Results[0].ID)
	assert.Equal(t, "alice", page.Results[0].RequestedBy.DisplayName)
}

func TestApprovePostsToRequestPath(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(config.ServiceConfig{URL: srv.URL, APIKey: "k"}, testLogger())
	require.NoError(t, c.Approve(context.Background(), 7))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v1/request/7/approve", gotPath)
}

func TestStatusErrorOnNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(config.ServiceConfig{URL: srv.URL, APIKey: "k"}, testLogger())
	err := c.Decline(context.Background(), 99)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
}
