package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for SyncBridge
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Sync Metrics
	SyncsTotal       prometheus.CounterVec
	SyncDuration     prometheus.HistogramVec
	SchedulesActive  prometheus.Gauge
	ScheduleBreakers prometheus.Counter

	// Webhook Metrics
	WebhookEventsTotal     prometheus.CounterVec
	ConflictsDetectedTotal prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncbridge_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "syncbridge_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "syncbridge_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Sync Metrics
		SyncsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncbridge_syncs_total",
				Help: "Total sync executions by type and outcome",
			},
			[]string{"sync_type", "status"},
		),
		SyncDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "syncbridge_sync_duration_seconds",
				Help:    "Sync execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"sync_type"},
		),
		SchedulesActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "syncbridge_schedules_active",
				Help: "Current number of schedules with live timers",
			},
		),
		ScheduleBreakers: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "syncbridge_schedule_breakers_total",
				Help: "Total schedules disabled by the consecutive-error breaker",
			},
		),

		// Webhook Metrics
		WebhookEventsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncbridge_webhook_events_total",
				Help: "Total inbound webhook events by type and outcome",
			},
			[]string{"event_type", "status"},
		),
		ConflictsDetectedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "syncbridge_conflicts_detected_total",
				Help: "Total booking conflicts detected from webhook events",
			},
		),
	}
}
