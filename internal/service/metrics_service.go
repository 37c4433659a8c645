package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the admission engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	allocationTotal *prometheus.CounterVec
	seatsGranted    prometheus.Counter
	waitlistDepth   *prometheus.GaugeVec
	ledgerLatency   prometheus.Histogram

	cacheLatency  prometheus.Observer
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	cacheHitRatio prometheus.Gauge

	cacheHitCount  uint64
	cacheMissCount uint64
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

	allocationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_attempts_total",
		Help: "Allocation attempts by course and outcome",
	}, []string{"course", "outcome"})

	seatsGranted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seats_granted_total",
		Help: "Total seats granted by the admission engine",
	})

	waitlistDepth := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "waitlist_depth",
		Help: "Current queued requests per course",
	}, []string{"course"})

	ledgerLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_check_duration_seconds",
		Help:    "Latency of fee clearance checks",
		Buckets: prometheus.DefBuckets,
	})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, allocationTotal, seatsGranted, waitlistDepth, ledgerLatency, cacheLatency, cacheHits, cacheMisses, cacheHitRatio, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		allocationTotal: allocationTotal,
		seatsGranted:    seatsGranted,
		waitlistDepth:   waitlistDepth,
		ledgerLatency:   ledgerLatency,
		cacheLatency:    cacheLatency,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		cacheHitRatio:   cacheHitRatio,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveAllocation counts one allocation attempt outcome.
func (m *MetricsService) ObserveAllocation(course, outcome string) {
	if m == nil {
		return
	}
	m.allocationTotal.WithLabelValues(course, outcome).Inc()
}

// RecordSeatGranted counts one granted seat.
func (m *MetricsService) RecordSeatGranted() {
	if m == nil {
		return
	}
	m.seatsGranted.Inc()
}

// SetWaitlistDepth updates the queued-request gauge for a course.
func (m *MetricsService) SetWaitlistDepth(course string, depth int) {
	if m == nil {
		return
	}
	m.waitlistDepth.WithLabelValues(course).Set(float64(depth))
}

// ObserveLedgerCheck records the latency of one fee clearance check.
func (m *MetricsService) ObserveLedgerCheck(duration time.Duration) {
	if m == nil {
		return
	}
	m.ledgerLatency.Observe(duration.Seconds())
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
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}
