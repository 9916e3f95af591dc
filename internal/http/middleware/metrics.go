package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(httpRequests)
	prometheus.MustRegister(httpDuration)
}

// Metrics records request counts and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
