package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	submissionsTotal     *prometheus.CounterVec
	availabilityFailOpen prometheus.Counter
	deletionsTotal       prometheus.Counter
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

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	submissionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollment_submissions_total",
		Help: "Total successful enrollment submissions",
	}, []string{"level", "student_type"})

	availabilityFailOpen := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollment_availability_fail_open_total",
		Help: "Availability checks that failed and were treated as available",
	})

	deletionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollment_deletions_total",
		Help: "Total confirmed enrollment deletions",
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		submissionsTotal, availabilityFailOpen, deletionsTotal)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		submissionsTotal:     submissionsTotal,
		availabilityFailOpen: availabilityFailOpen,
		deletionsTotal:       deletionsTotal,
	}
}

// Handler serves the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// GinMiddleware instruments requests with duration and count metrics.
func (s *MetricsService) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		s.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		s.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// RecordCacheOperation counts a cache hit or miss.
func (s *MetricsService) RecordCacheOperation(hit bool) {
	if s == nil {
		return
	}
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}

// RecordSubmission counts a successful enrollment submission.
func (s *MetricsService) RecordSubmission(level models.Level, studentType models.StudentType) {
	if s == nil {
		return
	}
	s.submissionsTotal.WithLabelValues(string(level), string(studentType)).Inc()
}

// RecordAvailabilityFailOpen counts a fail-open availability verdict.
func (s *MetricsService) RecordAvailabilityFailOpen() {
	if s == nil {
		return
	}
	s.availabilityFailOpen.Inc()
}

// RecordDeletion counts a confirmed enrollment deletion.
func (s *MetricsService) RecordDeletion() {
	if s == nil {
		return
	}
	s.deletionsTotal.Inc()
}
