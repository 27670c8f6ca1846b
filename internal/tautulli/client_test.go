package tautulli

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

func TestCallSendsAPIKeyAndCmd(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"response":{"result":"success","data":{"stream_count":"1","sessions":[]}}}`))
	}))
	defer srv.Close()

	c := New(config.ServiceConfig{URL: srv.URL, APIKey: "secret"}, testLogger())
	activity, err := c.Activity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"secret"}, gotQuery["apikey"])
	assert.Equal(t, []string{"get_activity"}, gotQuery["cmd"])
	assert.Equal(t, "1", activity.StreamCount)
}

func TestCommandErrorInsideSuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"result":"error","message":"Invalid apikey"}}`))
	}))
	defer srv.Close()

	c := New(config.ServiceConfig{URL: srv.URL, APIKey: "bad"}, testLogger())
	_, err := c.Activity(context.Background())
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "get_activity", cmdErr.Cmd)
	assert.Contains(t, err.Error(), "Invalid apikey")
}

func TestNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(config.ServiceConfig{URL: srv.URL, APIKey: "k"}, testLogger())
	_, err := c.ServerInfo(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
}

func TestHistoryParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"response":{"result":"success","data":{"recordsFiltered":2,"data":[{"user":"alice","date":1704067200,"full_title":"Show - Ep"},{"user":"bob","date":0,"title":"Other"}]}}}`))
	}))
	defer srv.Close()

	c := New(config.ServiceConfig{URL: srv.URL, APIKey: "k"}, testLogger())
	hist, err := c.History(context.Background(), HistoryParams{Search: "Show", User: "alice", Length: 50})
	require.NoError(t, err)

	assert.Equal(t, []string{"Show"}, gotQuery["search"])
	assert.Equal(t, []string{"alice"}, gotQuery["user"])
	assert.Equal(t, []string{"50"}, gotQuery["length"])
	require.Len(t, hist.Data, 2)
	assert.Equal(t, "alice", hist.Data[0].User)
}

func TestSearchGroupsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"result":"success","data":{"results_count":1,"results_list":{"show":[{"title":"Breaking Bad"}],"movie":[]}}}}`))
	}))
	defer srv.Close()

	c := New(config.ServiceConfig{URL: srv.URL, APIKey: "k"}, testLogger())
	results, err := c.Search(context.Background(), "Breaking Bad", 10)
	require.NoError(t, err)

	assert.Equal(t, 1, results.ResultsCount)
	require.Len(t, results.ResultsList["show"], 1)
	assert.Equal(t, "Breaking Bad", results.ResultsList["show"][0].Title)
}
