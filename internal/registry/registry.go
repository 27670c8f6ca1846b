// Package registry maps logical service names to optional client instances.
//
// Which services exist is decided once at startup from configuration and
// never changes afterwards; restarting the process is the only way to pick
// up new backends. An absent service is a valid state, not an error.
package registry

import (
	"github.com/arrgate/arrgate/internal/arr"
	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/logging"
	"github.com/arrgate/arrgate/internal/overseerr"
	"github.com/arrgate/arrgate/internal/tautulli"
)

// Service is a closed identifier for one backend family.
type Service string

const (
	Sonarr    Service = "sonarr"
	Radarr    Service = "radarr"
	Lidarr    Service = "lidarr"
	Readarr   Service = "readarr"
	Prowlarr  Service = "prowlarr"
	Overseerr Service = "overseerr"
	Tautulli  Service = "tautulli"
)

// Order is the fixed declared service order. All aggregated output is
// emitted in this order regardless of which backend answers first.
var Order = []Service{Sonarr, Radarr, Lidarr, Readarr, Prowlarr, Overseerr, Tautulli}

// arrKinds maps arr-family services to their client kind.
var arrKinds = map[Service]arr.Kind{
	Sonarr:   arr.KindSonarr,
	Radarr:   arr.KindRadarr,
	Lidarr:   arr.KindLidarr,
	Readarr:  arr.KindReadarr,
	Prowlarr: arr.KindProwlarr,
}

// Registry holds the configured backend clients. Immutable after New.
type Registry struct {
	arrs map[Service]*arr.Client
	ovr  *overseerr.Client
	taut *tautulli.Client
}

// New builds the registry from the services config. A service is present
// iff both its URL and API key are set.
func New(cfg config.ServicesConfig, log *logging.Logger) *Registry {
	r := &Registry{arrs: make(map[Service]*arr.Client)}

	svcCfgs := map[Service]config.ServiceConfig{
		Sonarr:    cfg.Sonarr,
		Radarr:    cfg.Radarr,
		Lidarr:    cfg.Lidarr,
		Readarr:   cfg.Readarr,
		Prowlarr:  cfg.Prowlarr,
		Overseerr: cfg.Overseerr,
		Tautulli:  cfg.Tautulli,
	}

	for svc, kind := range arrKinds {
		if sc := svcCfgs[svc]; sc.Configured() {
			r.arrs[svc] = arr.New(kind, sc, log)
		}
	}
	if cfg.Overseerr.Configured() {
		r.ovr = overseerr.New(cfg.Overseerr, log)
	}
	if cfg.Tautulli.Configured() {
		r.taut = tautulli.New(cfg.Tautulli, log)
	}

	for _, svc := range Order {
		if r.Has(svc) {
			log.Info().Str("service", string(svc)).Msg("service configured")
		}
	}
	return r
}

// Arr returns the arr-family client for svc, or false when the service is
// not configured (or is not an arr-family service).
func (r *Registry) Arr(svc Service) (*arr.Client, bool) {
	c, ok := r.arrs[svc]
	return c, ok
}

// Overseerr returns the Overseerr client, or false when not configured.
func (r *Registry) Overseerr() (*overseerr.Client, bool) {
	return r.ovr, r.ovr != nil
}

// Tautulli returns the Tautulli client, or false when not configured.
func (r *Registry) Tautulli() (*tautulli.Client, bool) {
	return r.taut, r.taut != nil
}

// Has reports whether svc is configured.
func (r *Registry) Has(svc Service) bool {
	switch svc {
	case Overseerr:
		return r.ovr != nil
	case Tautulli:
		return r.taut != nil
	default:
		_, ok := r.arrs[svc]
		return ok
	}
}

// Configured lists the configured services in declared order.
func (r *Registry) Configured() []Service {
	out := make([]Service, 0, len(Order))
	for _, svc := range Order {
		if r.Has(svc) {
			out = append(out, svc)
		}
	}
	return out
}
