// Package metrics wires crabdb's request, storage, pool, and resolver
// counters into Prometheus, the way the teacher instruments its own
// store writes and queue depth.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every crabdb Prometheus collector. It is a pure
// observer: nothing in the core depends on its values, and a nil
// *Metrics is safe to call methods on (each method guards against it),
// so components can be wired without the caller threading an
// "is metrics enabled" flag everywhere.
type Metrics struct {
	requests          *prometheus.CounterVec
	requestErrors     *prometheus.CounterVec
	storeKeys         prometheus.Gauge
	aolWrites         prometheus.Counter
	aolWriteSeconds   prometheus.Histogram
	poolQueueDepth    prometheus.Gauge
	poolActiveWorkers prometheus.Gauge
	linkResolutions   prometheus.Counter
}

// New registers and returns crabdb's collectors against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crabdb_requests_total",
			Help: "Requests handled without error, by operation.",
		}, []string{"op"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crabdb_request_errors_total",
			Help: "Request errors, by operation and error kind.",
		}, []string{"op", "kind"}),
		storeKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crabdb_store_keys",
			Help: "Best-effort live key count across all shards.",
		}),
		aolWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crabdb_aol_writes_total",
			Help: "Append-only log records written and fsynced.",
		}),
		aolWriteSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "crabdb_aol_write_seconds",
			Help: "Time spent writing and fsyncing one AOL record.",
		}),
		poolQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crabdb_pool_queue_depth",
			Help: "Jobs currently queued in the worker pool.",
		}),
		poolActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crabdb_pool_active_workers",
			Help: "Workers currently running a job.",
		}),
		linkResolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crabdb_link_resolutions_total",
			Help: "Links followed by the resolver.",
		}),
	}

	reg.MustRegister(
		m.requests,
		m.requestErrors,
		m.storeKeys,
		m.aolWrites,
		m.aolWriteSeconds,
		m.poolQueueDepth,
		m.poolActiveWorkers,
		m.linkResolutions,
	)
	return m
}

// ObserveRequest increments the per-op request counter.
func (m *Metrics) ObserveRequest(op string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op).Inc()
}

// ObserveError increments the per-op, per-kind error counter. kind is
// one of "protocol", "io", "storage".
func (m *Metrics) ObserveError(op, kind string) {
	if m == nil {
		return
	}
	m.requestErrors.WithLabelValues(op, kind).Inc()
}

// SetStoreKeys updates the live key count gauge.
func (m *Metrics) SetStoreKeys(n int) {
	if m == nil {
		return
	}
	m.storeKeys.Set(float64(n))
}

// ObserveAOLWrite records one fsynced AOL record write taking d.
func (m *Metrics) ObserveAOLWrite(d time.Duration) {
	if m == nil {
		return
	}
	m.aolWrites.Inc()
	m.aolWriteSeconds.Observe(d.Seconds())
}

// SetPoolQueueDepth updates the queue depth gauge.
func (m *Metrics) SetPoolQueueDepth(n int) {
	if m == nil {
		return
	}
	m.poolQueueDepth.Set(float64(n))
}

// IncPoolActiveWorkers marks one worker as having started a job.
func (m *Metrics) IncPoolActiveWorkers() {
	if m == nil {
		return
	}
	m.poolActiveWorkers.Inc()
}

// DecPoolActiveWorkers marks one worker as having finished a job.
func (m *Metrics) DecPoolActiveWorkers() {
	if m == nil {
		return
	}
	m.poolActiveWorkers.Dec()
}

// IncLinkResolutions increments the link-follow counter by one.
func (m *Metrics) IncLinkResolutions() {
	if m == nil {
		return
	}
	m.linkResolutions.Inc()
}
