package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's prometheus collectors
type Metrics struct {
	CheckoutsTotal       *prometheus.CounterVec
	ReviewDecisionsTotal *prometheus.CounterVec
	LeasesActivatedTotal prometheus.Counter
	LeasesExpiredTotal   prometheus.Counter
	RenewalRequestsTotal prometheus.Counter
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
}

// New registers and returns the engine metrics
func New() *Metrics {
	return &Metrics{
		CheckoutsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flexirents",
				Subsystem: "engine",
				Name:      "checkouts_total",
				Help:      "Total number of checkouts created",
			},
			[]string{"type"}, // rental, sale, service
		),
		ReviewDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flexirents",
				Subsystem: "engine",
				Name:      "review_decisions_total",
				Help:      "Total number of reviewer decisions applied",
			},
			[]string{"decision"}, // approve, reject
		),
		LeasesActivatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "flexirents",
				Subsystem: "engine",
				Name:      "leases_activated_total",
				Help:      "Total number of leases activated by first-payment approval",
			},
		),
		LeasesExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "flexirents",
				Subsystem: "engine",
				Name:      "leases_expired_total",
				Help:      "Total number of leases expired by the sweeper",
			},
		),
		RenewalRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "flexirents",
				Subsystem: "engine",
				Name:      "renewal_requests_total",
				Help:      "Total number of renewal requests created",
			},
		),
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flexirents",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "flexirents",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// Middleware records request counts and latencies per route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
