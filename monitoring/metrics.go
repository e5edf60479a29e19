package monitoring

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Form submissions by form kind and terminal state",
		},
		[]string{"form", "state"},
	)

	notificationEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emails_total",
			Help: "Transactional emails by recipient kind and status",
		},
		[]string{"kind", "status"},
	)

	rateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Rate-limited requests by enforcing layer",
		},
		[]string{"layer"},
	)

	quoteRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quote_recomputes_total",
			Help: "Quote pricing recomputations",
		},
	)

	activeRateLimitKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_rate_limit_keys_total",
			Help: "Currently tracked rate-limit keys in Redis",
		},
	)
)

type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{redis: redisClient}

	// Start metrics collection
	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx := context.Background()
		keys, _ := m.redis.Keys(ctx, "ratelimit:*").Result()
		activeRateLimitKeys.Set(float64(len(keys)))
	}
}

// TrackSubmission records a submission reaching a terminal state.
func (m *Monitor) TrackSubmission(form, state string) {
	submissionsTotal.WithLabelValues(form, state).Inc()
}

// TrackEmail records one email delivery attempt.
func (m *Monitor) TrackEmail(kind, status string) {
	notificationEmails.WithLabelValues(kind, status).Inc()
}

// TrackRateLimit records a rejection at the given layer.
func (m *Monitor) TrackRateLimit(layer string) {
	rateLimitRejections.WithLabelValues(layer).Inc()
}

// TrackQuoteRecompute records one pricing recomputation.
func (m *Monitor) TrackQuoteRecompute() {
	quoteRecomputes.Inc()
}

// ServeMetrics exposes the prometheus endpoint on its own port.
func ServeMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("metrics server stopped: %v", err)
	}
}
