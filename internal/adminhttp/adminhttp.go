// Package adminhttp is crabdb's observability-only HTTP surface: health,
// Prometheus metrics, and a debug/vars snapshot. It is entirely separate
// from the TCP KV wire protocol and never touches the store directly.
package adminhttp

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crabdb/pkg/config"
	"crabdb/pkg/httpx"
	"crabdb/pkg/logger"
	"crabdb/pkg/utils"
)

// Server builds the admin surface's http.Handler. It holds no lock-
// guarded mutable state beyond a single atomic readiness flag.
type Server struct {
	cfg       config.Config
	registry  *prometheus.Registry
	startedAt time.Time
	ready     atomic.Bool
}

// New returns a Server reporting cfg's worker/shard/file counts in
// /debug/vars and serving reg's families at /metrics.
func New(cfg config.Config, reg *prometheus.Registry) *Server {
	return &Server{cfg: cfg, registry: reg, startedAt: time.Now()}
}

// SetReady flips the /healthz verdict. App.Run in internal/app calls
// this once AOL recovery has completed, just before its accept loop starts.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler returns the mounted router and its logging middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.Handle("/healthz", httpx.NetHTTPAdapter(s.handleHealthz)).Methods(http.MethodGet)
	r.Handle("/debug/vars", httpx.NetHTTPAdapter(s.handleDebugVars)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// loggingMiddleware logs every admin-surface request — the admin
// surface is the only HTTP-shaped traffic in crabdb, so it is the only
// place this applies.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.LogRequest(r)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w httpx.ResponseWriter, r *httpx.Request) {
	if !s.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("starting\n"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

type debugVars struct {
	Workers       int     `json:"workers"`
	StoreShards   int     `json:"store_shards"`
	AOLFiles      int     `json:"aol_files"`
	Ready         bool    `json:"ready"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (s *Server) handleDebugVars(w httpx.ResponseWriter, r *httpx.Request) {
	v := debugVars{
		Workers:       s.cfg.Workers,
		StoreShards:   s.cfg.StoreShards,
		AOLFiles:      s.cfg.AOLFiles,
		Ready:         s.ready.Load(),
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
	}
	utils.JSONWrite(w, http.StatusOK, v)
}
