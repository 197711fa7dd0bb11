package http

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. It implements core.Recorder.
type Metrics struct {
	ResolutionsTotal    *prometheus.CounterVec
	ResolveDuration     *prometheus.HistogramVec
	CacheLookupsTotal   *prometheus.CounterVec
	ProviderErrorsTotal *prometheus.CounterVec
	StreamsTotal        *prometheus.CounterVec
	RequestsTotal       *prometheus.CounterVec
	FloodRejections     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbird_resolutions_total",
				Help: "Total number of resolution attempts",
			},
			[]string{"kind", "status"},
		),
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "songbird_resolve_duration_seconds",
				Help:    "Time spent resolving inputs into tracks",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbird_cache_lookups_total",
				Help: "Total number of resolution cache lookups",
			},
			[]string{"result"},
		),
		ProviderErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbird_provider_errors_total",
				Help: "Total number of failed provider calls",
			},
			[]string{"provider"},
		),
		StreamsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbird_streams_total",
				Help: "Total number of stream open attempts",
			},
			[]string{"source", "outcome"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbird_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"route", "code"},
		),
		FloodRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "songbird_flood_rejections_total",
				Help: "Total number of requests rejected by the flood limit",
			},
		),
	}

	reg.MustRegister(
		metrics.ResolutionsTotal,
		metrics.ResolveDuration,
		metrics.CacheLookupsTotal,
		metrics.ProviderErrorsTotal,
		metrics.StreamsTotal,
		metrics.RequestsTotal,
		metrics.FloodRejections,
	)

	return metrics
}

func (m *Metrics) RecordResolve(kind, status string, duration time.Duration) {
	m.ResolutionsTotal.WithLabelValues(kind, status).Inc()
	m.ResolveDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordProviderError(provider string) {
	m.ProviderErrorsTotal.WithLabelValues(provider).Inc()
}

func (m *Metrics) RecordStream(source, outcome string) {
	m.StreamsTotal.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) RecordRequest(route string, code int) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func (m *Metrics) RecordFloodRejection() {
	m.FloodRejections.Inc()
}
