package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	graphNodes    prometheus.Histogram
	expanded      prometheus.Histogram
	pathLength    prometheus.Histogram
	cacheTotal    *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	inflight      prometheus.Gauge
	httpTotal     *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewPrometheus registers the collectors with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in
// tests.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	sizes := prometheus.ExponentialBuckets(1, 4, 10)
	return &Prometheus{
		stageTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mazeroute_stage_total",
			Help: "Pipeline stages run, by stage and result",
		}, []string{"stage", "result"}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mazeroute_stage_duration_seconds",
			Help:    "Pipeline stage duration",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		graphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mazeroute_graph_nodes",
			Help:    "Nodes per maze graph",
			Buckets: sizes,
		}),
		expanded: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mazeroute_search_expanded_nodes",
			Help:    "Nodes expanded per search",
			Buckets: sizes,
		}),
		pathLength: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mazeroute_path_length_steps",
			Help:    "Solved path length in steps",
			Buckets: sizes,
		}),
		cacheTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mazeroute_cache_operations_total",
			Help: "Cache lookups and writes, by key type and outcome",
		}, []string{"key_type", "outcome"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mazeroute_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}, []string{"key_type"}),
		inflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "mazeroute_http_inflight_requests",
			Help: "Requests being served",
		}),
		httpTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mazeroute_http_requests_total",
			Help: "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mazeroute_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *Prometheus) OnStageStart(context.Context, string) {}

func (p *Prometheus) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.stageTotal.WithLabelValues(stage, result).Inc()
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *Prometheus) OnSolved(_ context.Context, nodes, expanded, length int) {
	p.graphNodes.Observe(float64(nodes))
	p.expanded.Observe(float64(expanded))
	p.pathLength.Observe(float64(length))
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheTotal.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheTotal.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheTotal.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string) { p.inflight.Inc() }

func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.inflight.Dec()
	p.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
