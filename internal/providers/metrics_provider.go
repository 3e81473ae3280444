package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"telemetryd/internal/structures"
	"time"
)

// Check-in outcomes reported by IncCheckIns.
const (
	CheckInSent       = "sent"
	CheckInFailed     = "failed"
	CheckInThrottled  = "throttled"
	CheckInAggregate  = "aggregate_error"
	CheckInNotOptedIn = "not_opted_in"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(key string)
	IncCacheMisses(key string)
	IncCheckIns(outcome string)
	ObserveAggregationDuration(duration time.Duration)
	SetPopupsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	checkIns            *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	popupsTotal         prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Cache keys form a small fixed set (throttle marker, preview), so they are
// safe to use as a label.
func (m *MetricsProvider) IncCacheHits(key string) {
	m.cacheHits.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) IncCacheMisses(key string) {
	m.cacheMisses.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) IncCheckIns(outcome string) {
	m.checkIns.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObserveAggregationDuration(duration time.Duration) {
	m.aggregationDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetPopupsTotal(count int) {
	m.popupsTotal.Set(float64(count))
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
	return newMetricsProvider(promauto.With(prometheus.DefaultRegisterer))
}

func newMetricsProvider(factory promauto.Factory) *MetricsProvider {
	return &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ptd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ptd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ptd_cache_hits_total",
			Help: "Cache hits by key",
		}, []string{"key"}),

		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ptd_cache_misses_total",
			Help: "Cache misses by key",
		}, []string{"key"}),

		checkIns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ptd_check_ins_total",
			Help: "Scheduled telemetry checks by outcome",
		}, []string{"outcome"}),

		aggregationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ptd_aggregation_duration_seconds",
			Help:    "Duration of payload aggregation in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		popupsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ptd_popups_total",
			Help: "Popups seen by the last aggregation",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) IncCheckIns(_ string)                             {}
func (n *noopMetrics) ObserveAggregationDuration(_ time.Duration)       {}
func (n *noopMetrics) SetPopupsTotal(_ int)                             {}
