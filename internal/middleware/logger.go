package middleware

import (
	"strconv" // Status labels
	"time"    // Latency

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metric types
	"github.com/prometheus/client_golang/prometheus/promauto" // Registration helpers
	"github.com/sirupsen/logrus"                              // Logrus for structured logging
)

// Metrics holds the HTTP request instruments
type Metrics struct {
	Requests *prometheus.CounterVec   // Requests by method, route and status
	Duration *prometheus.HistogramVec // Latency by method and route
}

// NewMetrics registers the HTTP metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RequestLogger logs every request with logrus and records it in metrics, which may be nil
func RequestLogger(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath() // Registered route, empty for 404s
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if metrics != nil {
			metrics.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
			metrics.Duration.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())
		}

		entry := logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("requestID"), // Request ID
			"method":     c.Request.Method,         // HTTP method
			"path":       c.Request.URL.Path,       // Request path
			"status":     status,                   // Response status
			"latency_ms": latency.Milliseconds(),   // Handling time
			"client_ip":  c.ClientIP(),             // Caller address
		})
		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
