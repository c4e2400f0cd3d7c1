package providers

import (
	"ecotracker/internal/models"
	"ecotracker/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(family string)
	IncCacheMisses(family string)
	ObservePersistenceDuration(duration time.Duration)
	IncStorageFailures(op string)
	IncFixes()
	IncFixErrors(reason string)
	ObserveFixStep(km float64)
	RegisterTrackerGauges(totals func() models.RunningTotals)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	storageFailures     *prometheus.CounterVec
	fixesTotal          prometheus.Counter
	fixErrors           *prometheus.CounterVec
	fixStep             prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(family string) {
	m.cacheHits.WithLabelValues(family).Inc()
}

func (m *MetricsProvider) IncCacheMisses(family string) {
	m.cacheMisses.WithLabelValues(family).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStorageFailures(op string) {
	m.storageFailures.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) IncFixes() {
	m.fixesTotal.Inc()
}

func (m *MetricsProvider) IncFixErrors(reason string) {
	m.fixErrors.WithLabelValues(reason).Inc()
}

func (m *MetricsProvider) ObserveFixStep(km float64) {
	m.fixStep.Observe(km)
}

// RegisterTrackerGauges exposes the live totals. totals is called on every scrape.
func (m *MetricsProvider) RegisterTrackerGauges(totals func() models.RunningTotals) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ecotracker_carbon_kg",
		Help: "Estimated CO2 emitted today in kilograms",
	}, func() float64 {
		return totals().CarbonKg
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ecotracker_distance_km",
		Help: "Estimated distance travelled today in kilometres",
	}, func() float64 {
		return totals().DistanceKm
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ecotracker_active_seconds",
		Help: "Seconds the page was visible today",
	}, func() float64 {
		return float64(totals().ActiveSeconds)
	})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotracker_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecotracker_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotracker_cache_hits_total",
			Help: "History cache hits by key family",
		}, []string{"family"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotracker_cache_misses_total",
			Help: "History cache misses by key family",
		}, []string{"family"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ecotracker_persistence_duration_seconds",
			Help:    "Duration of snapshot saves in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		storageFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotracker_storage_failures_total",
			Help: "Storage reads and writes that failed and were dropped",
		}, []string{"op"}),

		fixesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ecotracker_fixes_total",
			Help: "Position fixes folded into the running totals",
		}),

		fixErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotracker_fix_errors_total",
			Help: "Position watch failures",
		}, []string{"reason"}),

		fixStep: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ecotracker_fix_step_km",
			Help:    "Great-circle distance between consecutive fixes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                    {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)    {}
func (n *noopMetrics) IncCacheHits(_ string)                               {}
func (n *noopMetrics) IncCacheMisses(_ string)                             {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)          {}
func (n *noopMetrics) IncStorageFailures(_ string)                         {}
func (n *noopMetrics) IncFixes()                                           {}
func (n *noopMetrics) IncFixErrors(_ string)                               {}
func (n *noopMetrics) ObserveFixStep(_ float64)                            {}
func (n *noopMetrics) RegisterTrackerGauges(_ func() models.RunningTotals) {}

// NewNoopMetrics returns the disabled implementation.
func NewNoopMetrics() MetricsProviderInterface {
	return &noopMetrics{}
}
