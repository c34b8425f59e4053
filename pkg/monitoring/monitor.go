package monitoring

import (
	"strconv"
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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 工作流计数器
	SubmissionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "classwork_submissions_total",
			Help: "Total number of accepted submissions (including resubmissions)",
		},
	)

	GradeCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "classwork_grades_total",
			Help: "Total number of grading operations",
		},
	)

	RedoDecisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classwork_redo_decisions_total",
			Help: "Total number of redo request decisions",
		},
		[]string{"decision"},
	)

	NotificationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classwork_notifications_emitted_total",
			Help: "Total number of emitted notifications",
		},
		[]string{"kind"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SubmissionCounter)
	prometheus.MustRegister(GradeCounter)
	prometheus.MustRegister(RedoDecisionCounter)
	prometheus.MustRegister(NotificationCounter)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
