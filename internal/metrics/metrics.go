package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recommendation outcomes.
const (
	OutcomeCacheHit  = "cache_hit"
	OutcomeStored    = "stored"
	OutcomeGenerated = "generated"
	OutcomeFallback  = "fallback"
	OutcomeError     = "error"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_recommendation_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendedBooks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_recommended_books_total",
			Help: "Books persisted across all milestone batches",
		},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journal_llm_request_duration_seconds",
			Help:    "Chat completion latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"status"},
	)

	LLMBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "journal_llm_breaker_state",
			Help: "Circuit breaker state for the LLM client (0 closed, 1 half-open, 2 open)",
		},
	)

	ContentItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_content_operations_total",
			Help: "Content create/delete operations by type",
		},
		[]string{"operation", "type"},
	)

	BackfillRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_backfill_users_total",
			Help: "Users processed by the recommendation backfill by result",
		},
		[]string{"result"},
	)
)

// ObserveRecommendation records one recommendation request outcome.
func ObserveRecommendation(outcome string) {
	RecommendationRequests.WithLabelValues(outcome).Inc()
}

// ObserveLLM records a chat completion call; status is the HTTP status or 0 on transport error.
func ObserveLLM(status int, d time.Duration) {
	LLMRequestDuration.WithLabelValues(strconv.Itoa(status)).Observe(d.Seconds())
}

// GinMiddleware records request latency labelled by the matched route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
