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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ExamSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_submissions_total",
			Help: "Exam submissions by exam type and outcome",
		},
		[]string{"exam_type", "status"},
	)

	GradingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exam_grading_duration_seconds",
			Help:    "Time spent grading one attempt",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	AttemptPercentage = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exam_attempt_percentage",
			Help:    "Percentage scored per graded attempt",
			Buckets: []float64{-50, -25, 0, 25, 50, 75, 90, 100},
		},
		[]string{"exam_type"},
	)

	ExamsDeactivated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exam_window_deactivations_total",
			Help: "Exams switched off by the window sweeper",
		},
	)
)

// Submission statuses.
const (
	StatusGraded   = "graded"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ExamSubmissions,
			GradingDuration,
			AttemptPercentage,
			ExamsDeactivated,
		)
	})
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
