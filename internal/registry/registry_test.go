package registry

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

func TestPresenceFollowsConfiguration(t *testing.T) {
	cfg := config.ServicesConfig{
		Sonarr:   config.ServiceConfig{URL: "http://sonarr:8989", APIKey: "a"},
		Tautulli: config.ServiceConfig{URL: "http://tautulli:8181", APIKey: "b"},
	}
	r := New(cfg, testLogger())

	assert.True(t, r.Has(Sonarr))
	assert.True(t, r.Has(Tautulli))
	assert.False(t, r.Has(Radarr))
	assert.False(t, r.Has(Overseerr))

	_, ok := r.Arr(Sonarr)
	assert.True(t, ok)
	_, ok = r.Arr(Radarr)
	assert.False(t, ok)
	_, ok = r.Tautulli()
	assert.True(t, ok)
	_, ok = r.Overseerr()
	assert.False(t, ok)
}

func TestPartialConfigIsAbsent(t *testing.T) {
	// URL without a key does not produce a client.
	cfg := config.ServicesConfig{
		Radarr: config.ServiceConfig{URL: "http://radarr:7878"},
	}
	r := New(cfg, testLogger())
	assert.False(t, r.Has(Radarr))
	assert.Empty(t, r.Configured())
}

func TestConfiguredDeclaredOrder(t *testing.T) {
	cfg := config.ServicesConfig{
		Tautulli:  config.ServiceConfig{URL: "http://t", APIKey: "k"},
		Sonarr:    config.ServiceConfig{URL: "http://s", APIKey: "k"},
		Overseerr: config.ServiceConfig{URL: "http://o", APIKey: "k"},
		Prowlarr:  config.ServiceConfig{URL: "http://p", APIKey: "k"},
	}
	r := New(cfg, testLogger())

	require.Equal(t, []Service{Sonarr, Prowlarr, Overseerr, Tautulli}, r.Configured())
}

func TestArrRejectsNonArrServices(t *testing.T) {
	cfg := config.ServicesConfig{
		Tautulli: config.ServiceConfig{URL: "http://t", APIKey: "k"},
	}
	r := New(cfg, testLogger())

	_, ok := r.Arr(Tautulli)
	assert.False(t, ok)
}
