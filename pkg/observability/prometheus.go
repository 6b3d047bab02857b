package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hyperpart"

// PrometheusHooks implements [PartitionHooks], [CacheHooks] and [HTTPHooks]
// by recording Prometheus metrics.
type PrometheusHooks struct {
	handles    *prometheus.GaugeVec
	leaks      *prometheus.CounterVec
	pins       *prometheus.HistogramVec
	inFlight   *prometheus.GaugeVec
	partitions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	objective  *prometheus.HistogramVec

	cache *prometheus.CounterVec
	bytes *prometheus.CounterVec

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// It panics if any collector is already registered, like prometheus.MustRegister.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		handles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_handles",
			Help:      "Engine handles currently held, by engine and kind.",
		}, []string{"engine", "kind"}),
		leaks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaked_handles_total",
			Help:      "Handles released by a finalizer instead of Close.",
		}, []string{"engine", "kind"}),
		pins: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hypergraph_pins",
			Help:      "Pin count of built hypergraphs.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}, []string{"engine"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "partitions_in_flight",
			Help:      "Partition calls currently running.",
		}, []string{"engine"}),
		partitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partitions_total",
			Help:      "Completed partition calls by outcome.",
		}, []string{"engine", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "partition_duration_seconds",
			Help:      "Wall time of partition calls.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"engine"}),
		objective: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "partition_objective",
			Help:      "Objective value of successful partition calls.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"engine"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key type.",
		}, []string{"key_type", "op"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API responses by route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "API requests that failed with an error.",
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		h.handles, h.leaks, h.pins, h.inFlight, h.partitions, h.duration, h.objective,
		h.cache, h.bytes,
		h.requests, h.latency, h.errors,
	)
	return h
}

// Install registers h for every hook category.
func (h *PrometheusHooks) Install() {
	SetPartitionHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *PrometheusHooks) OnContextCreate(_ context.Context, engine string) {
	h.handles.WithLabelValues(engine, "context").Inc()
}

func (h *PrometheusHooks) OnContextRelease(_ context.Context, engine string, leaked bool) {
	h.handles.WithLabelValues(engine, "context").Dec()
	if leaked {
		h.leaks.WithLabelValues(engine, "context").Inc()
	}
}

func (h *PrometheusHooks) OnHypergraphCreate(_ context.Context, engine string, _, _, pins int) {
	h.handles.WithLabelValues(engine, "hypergraph").Inc()
	h.pins.WithLabelValues(engine).Observe(float64(pins))
}

func (h *PrometheusHooks) OnHypergraphRelease(_ context.Context, engine string, leaked bool) {
	h.handles.WithLabelValues(engine, "hypergraph").Dec()
	if leaked {
		h.leaks.WithLabelValues(engine, "hypergraph").Inc()
	}
}

func (h *PrometheusHooks) OnPartitionStart(_ context.Context, engine string, _ int, _ float64) {
	h.inFlight.WithLabelValues(engine).Inc()
}

func (h *PrometheusHooks) OnPartitionComplete(_ context.Context, engine string, _ int, objective int64, d time.Duration, err error) {
	h.inFlight.WithLabelValues(engine).Dec()
	h.duration.WithLabelValues(engine).Observe(d.Seconds())
	if err != nil {
		h.partitions.WithLabelValues(engine, "error").Inc()
		return
	}
	h.partitions.WithLabelValues(engine, "ok").Inc()
	h.objective.WithLabelValues(engine).Observe(float64(objective))
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cache.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cache.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cache.WithLabelValues(keyType, "set").Inc()
	h.bytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	h.errors.WithLabelValues(method, route).Inc()
}
