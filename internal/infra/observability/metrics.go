package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the back office.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration       *prometheus.HistogramVec
	storeErrors           *prometheus.CounterVec
	cacheHits             *prometheus.CounterVec
	cacheMisses           *prometheus.CounterVec
	notificationsCreated  *prometheus.CounterVec
	notificationsCleaned  prometheus.Counter
	reconcileRuns         prometheus.Counter
	requestsTotal         *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_store_errors_total",
				Help: "Total errors from the storage collaborator.",
			},
			[]string{"collection"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		notificationsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_notifications_created_total",
				Help: "Total due/overdue notifications generated, by type.",
			},
			[]string{"type"},
		),
		notificationsCleaned: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "backoffice_notifications_cleaned_total",
				Help: "Total notifications retired by the engine.",
			},
		),
		reconcileRuns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "backoffice_reconcile_runs_total",
				Help: "Total bulk notification reconciliation passes.",
			},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the storage error counter.
func (m *Metrics) IncrStoreError(collection string) {
	m.storeErrors.WithLabelValues(collection).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrNotificationCreated counts one generated notification by type.
func (m *Metrics) IncrNotificationCreated(notifType string) {
	m.notificationsCreated.WithLabelValues(notifType).Inc()
}

// AddNotificationsCleaned counts retired notifications.
func (m *Metrics) AddNotificationsCleaned(n int) {
	m.notificationsCleaned.Add(float64(n))
}

// IncrReconcileRun counts one bulk reconciliation pass.
func (m *Metrics) IncrReconcileRun() {
	m.reconcileRuns.Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// EngineSnapshot is a point-in-time view of the notification engine
// counters, served by the engine stats endpoint.
type EngineSnapshot struct {
	DueTodayCreated float64 `json:"due_today_created"`
	OverdueCreated  float64 `json:"overdue_created"`
	CleanedUp       float64 `json:"cleaned_up"`
	ReconcileRuns   float64 `json:"reconcile_runs"`
	CacheHitRate    float64 `json:"cache_hit_rate"`
}

// GetEngineSnapshot gathers current counter values.
// Prometheus counters expose cumulative values.
func (m *Metrics) GetEngineSnapshot() *EngineSnapshot {
	hits := getCounterValue(m.cacheHits, "customers")
	misses := getCounterValue(m.cacheMisses, "customers")

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &EngineSnapshot{
		DueTodayCreated: getCounterValue(m.notificationsCreated, "complaint_due_today"),
		OverdueCreated:  getCounterValue(m.notificationsCreated, "complaint_overdue"),
		CleanedUp:       getPlainCounterValue(m.notificationsCleaned),
		ReconcileRuns:   getPlainCounterValue(m.reconcileRuns),
		CacheHitRate:    hitRate,
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// getPlainCounterValue extracts the value of an unlabelled counter.
func getPlainCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
