package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// Computation outcomes recorded by ObserveComputation.
const (
	ComputationSucceeded = "success"
	ComputationRejected  = "rejected"
	ComputationFailed    = "error"
	ComputationLocked    = "locked"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	computeDuration *prometheus.HistogramVec
	computeTotal    *prometheus.CounterVec
	issuesTotal     *prometheus.CounterVec
	jobsEnqueued    *prometheus.CounterVec
	exportsTotal    *prometheus.CounterVec

	cacheHitCount  uint64
	cacheMissCount uint64
	requestCount   uint64
	computeCount   uint64
}

// MetricsSnapshot is a compact view of the counters for health payloads.
type MetricsSnapshot struct {
	RequestsTotal     uint64    `json:"requestsTotal"`
	CacheHits         uint64    `json:"cacheHits"`
	CacheMisses       uint64    `json:"cacheMisses"`
	CacheHitRatio     float64   `json:"cacheHitRatio"`
	ComputationsTotal uint64    `json:"computationsTotal"`
	Goroutines        int       `json:"goroutines"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	computeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "attainment_computation_duration_seconds",
		Help:    "Duration of attainment computations including persistence",
		Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"trigger"})

	computeTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attainment_computations_total",
		Help: "Attainment computations by trigger and outcome",
	}, []string{"trigger", "outcome"})

	issuesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attainment_issues_total",
		Help: "Non-fatal data issues recorded in attainment reports",
	}, []string{"kind"})

	jobsEnqueued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attainment_recalculations_enqueued_total",
		Help: "Background recalculation requests, split by whether they were coalesced",
	}, []string{"coalesced"})

	exportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attainment_exports_total",
		Help: "Rendered attainment exports by format",
	}, []string{"format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		computeDuration, computeTotal, issuesTotal, jobsEnqueued, exportsTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		computeDuration: computeDuration,
		computeTotal:    computeTotal,
		issuesTotal:     issuesTotal,
		jobsEnqueued:    jobsEnqueued,
		exportsTotal:    exportsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveComputation records one attainment run. trigger is "api" or "job".
func (m *MetricsService) ObserveComputation(trigger, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.computeDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	m.computeTotal.WithLabelValues(trigger, outcome).Inc()
	atomic.AddUint64(&m.computeCount, 1)
}

// RecordIssues counts the issues attached to a report.
func (m *MetricsService) RecordIssues(issues []models.AttainmentIssue) {
	if m == nil {
		return
	}
	for _, issue := range issues {
		m.issuesTotal.WithLabelValues(string(issue.Kind)).Inc()
	}
}

// RecordRecalculationEnqueued counts background recalculation requests.
func (m *MetricsService) RecordRecalculationEnqueued(accepted bool) {
	if m == nil {
		return
	}
	m.jobsEnqueued.WithLabelValues(fmt.Sprintf("%t", !accepted)).Inc()
}

// RecordExport counts a rendered export.
func (m *MetricsService) RecordExport(format models.ExportFormat) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(string(format)).Inc()
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)

	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}

	return MetricsSnapshot{
		RequestsTotal:     atomic.LoadUint64(&m.requestCount),
		CacheHits:         hits,
		CacheMisses:       misses,
		CacheHitRatio:     ratio,
		ComputationsTotal: atomic.LoadUint64(&m.computeCount),
		Goroutines:        runtime.NumGoroutine(),
		GeneratedAt:       time.Now().UTC(),
	}
}
