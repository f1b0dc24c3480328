// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pickmypit_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pickmypit_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RateLimitRejections counts requests rejected by the rate limiter per resource.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pickmypit_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"resource"})

	// PostStatusTransitions counts listing moderation transitions by target status.
	PostStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pickmypit_post_status_transitions_total",
		Help: "Total number of post status transitions by target status",
	}, []string{"status"})

	// ReferralBonusesGranted counts referral coin bonuses applied at registration.
	ReferralBonusesGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickmypit_referral_bonuses_granted_total",
		Help: "Total number of referral coin bonuses granted",
	})

	// ImageUploadFailures counts failed uploads to the external image host.
	ImageUploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickmypit_image_upload_failures_total",
		Help: "Total number of failed image host uploads",
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
