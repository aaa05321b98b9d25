// Package app wires crabdb's components together: the durable store, the
// worker pool, the TCP wire listener, and the admin HTTP surface.
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"crabdb/internal/adminhttp"
	"crabdb/pkg/aol"
	"crabdb/pkg/banner"
	"crabdb/pkg/config"
	"crabdb/pkg/logger"
	"crabdb/pkg/metrics"
	"crabdb/pkg/pool"
	"crabdb/pkg/protocol"
	"crabdb/pkg/resolver"
	"crabdb/pkg/store"
)

// acceptLimitBurst bounds the optional accept-loop throttle to one
// connection per tick beyond its steady-state rate.
const acceptLimitBurst = 1

// App holds every long-lived component once New has assembled them. The
// split between New and Run mirrors the two startup phases the spec
// separates: building the durable core (which can fail with a fatal
// AOL-corruption error) and then serving traffic (which runs until
// cancelled).
type App struct {
	eff config.EffectiveConfigResult

	registry *prometheus.Registry
	metrics  *metrics.Metrics

	backing    *store.MemStore
	durable    *aol.AOL
	dispatcher *protocol.Dispatcher
	workers    *pool.Pool

	ln          net.Listener
	admin       *adminhttp.Server
	adminServer *http.Server

	acceptRatePerSecond float64
}

// New opens the durable store (replaying its append-only log) and binds
// the TCP listener, but does not yet accept connections or serve admin
// HTTP — both of New's failure modes (AOL corruption, listener bind
// failure) are the ones the spec names as fatal, and keeping them here
// lets main distinguish "failed to start" from "failed while running".
func New(eff config.EffectiveConfigResult, acceptRatePerSecond float64) (*App, error) {
	cfg := eff.Config
	logger.Init(cfg.LogLevel)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	backing := store.NewMemStore(cfg.StoreShards)
	durable, err := aol.Open(cfg.AOLDir, cfg.AOLFiles, backing, m)
	if err != nil {
		return nil, fmt.Errorf("aol recovery: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		durable.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.Listen, err)
	}

	res := resolver.New(durable, m)
	admin := adminhttp.New(cfg, reg)

	return &App{
		eff:                 eff,
		registry:            reg,
		metrics:             m,
		backing:             backing,
		durable:             durable,
		dispatcher:          protocol.New(durable, res, m),
		workers:             pool.New(cfg.Workers, m),
		ln:                  ln,
		admin:               admin,
		adminServer:         &http.Server{Addr: cfg.AdminListen, Handler: admin.Handler()},
		acceptRatePerSecond: acceptRatePerSecond,
	}, nil
}

// Run starts the admin HTTP surface and the accept loop, and blocks until
// ctx is cancelled. It always returns nil: a failure to bind the admin
// listener is logged and otherwise ignored, since the spec treats the
// admin surface as non-essential to serving the wire protocol.
func (a *App) Run(ctx context.Context) error {
	banner.Print(a.eff)

	go func() {
		if err := a.adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("admin_listen_failed", "addr", a.adminServer.Addr, "error", err)
		}
	}()

	gaugeDone := make(chan struct{})
	go a.reportStoreKeys(ctx, gaugeDone)

	a.admin.SetReady(true)
	logger.Info("crabdb_started", "listen", a.eff.Config.Listen, "admin_listen", a.eff.Config.AdminListen)

	go func() {
		<-ctx.Done()
		a.ln.Close()
	}()

	a.acceptLoop(ctx)

	a.workers.Join()
	<-gaugeDone
	return nil
}

// Shutdown drains the admin HTTP server and closes the append-only log's
// files. It is safe to call after Run has already returned from ctx
// cancellation.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	a.adminServer.Shutdown(shutdownCtx)
	return a.durable.Close()
}

// acceptLoop accepts connections until the listener is closed (by Run's
// ctx.Done watcher) or a non-shutdown Accept error occurs, handing each
// connection to the pool as a self-contained job.
func (a *App) acceptLoop(ctx context.Context) {
	var limiter *rate.Limiter
	if a.acceptRatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(a.acceptRatePerSecond), acceptLimitBurst)
	}

	for {
		conn, err := a.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("accept_failed", "error", err)
			return
		}
		if limiter != nil {
			limiter.Wait(ctx)
		}
		a.workers.Execute(func() {
			defer conn.Close()
			if err := a.dispatcher.HandleConn(conn); err != nil {
				logger.Debug("connection_closed", "remote", conn.RemoteAddr(), "error", err)
			}
		})
	}
}

// reportStoreKeys polls the store's key count into the metrics gauge once
// a second, since the gauge has no natural write-time hook the way the
// per-request counters do.
func (a *App) reportStoreKeys(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.metrics.SetStoreKeys(a.backing.Len())
		}
	}
}
