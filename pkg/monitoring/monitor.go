package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// ProgressUpserts outcome = created | updated
	ProgressUpserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_upserts_total",
			Help: "Progress update_or_create calls by outcome",
		},
		[]string{"outcome"},
	)

	// TestResultsRecorded kind = module | lesson
	TestResultsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "test_results_recorded_total",
			Help: "Test results recorded by kind",
		},
		[]string{"kind"},
	)

	TestResultsReplaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "test_results_replaced_total",
			Help: "Final module test results removed by a newer submission",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ProgressUpserts,
			TestResultsRecorded,
			TestResultsReplaced,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
