package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for autodaily.
type Metrics struct {
	SourceFetchTotal      *prometheus.CounterVec
	SourceFetchDurationMs *prometheus.HistogramVec
	SourceRecordsTotal    *prometheus.CounterVec
	GenerationTotal       *prometheus.CounterVec
	GenerationDurationMs  *prometheus.HistogramVec
	ReportTotal           *prometheus.CounterVec
	RateLimitHitTotal     *prometheus.CounterVec
	FilterActionTotal     *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SourceFetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autodaily_source_fetch_total",
			Help: "Total upstream source fetches by outcome.",
		}, []string{"source", "outcome"}),

		SourceFetchDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "autodaily_source_fetch_duration_ms",
			Help:    "Upstream source fetch duration in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}, []string{"source"}),

		SourceRecordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autodaily_source_records_total",
			Help: "Total normalized records returned by upstream sources.",
		}, []string{"source"}),

		GenerationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autodaily_generation_total",
			Help: "Total text-generation calls by outcome.",
		}, []string{"provider", "outcome"}),

		GenerationDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "autodaily_generation_duration_ms",
			Help:    "Text-generation call duration in milliseconds.",
			Buckets: []float64{250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
		}, []string{"provider"}),

		ReportTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autodaily_report_total",
			Help: "Total report requests by mode, style and outcome.",
		}, []string{"mode", "style", "outcome"}),

		RateLimitHitTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autodaily_ratelimit_hit_total",
			Help: "Total requests rejected by the rate limiter.",
		}, []string{"route"}),

		FilterActionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autodaily_filter_action_total",
			Help: "Total prompt filter detections by filter and action taken.",
		}, []string{"filter", "action"}),
	}
}

// RecordSourceFetch records one adapter invocation.
func (m *Metrics) RecordSourceFetch(source, outcome string, durationMs float64, records int) {
	m.SourceFetchTotal.WithLabelValues(source, outcome).Inc()
	m.SourceFetchDurationMs.WithLabelValues(source).Observe(durationMs)
	if records > 0 {
		m.SourceRecordsTotal.WithLabelValues(source).Add(float64(records))
	}
}

// RecordGeneration records one text-generation call.
func (m *Metrics) RecordGeneration(provider, outcome string, durationMs float64) {
	m.GenerationTotal.WithLabelValues(provider, outcome).Inc()
	m.GenerationDurationMs.WithLabelValues(provider).Observe(durationMs)
}

// RecordReport records the final outcome of a report request.
func (m *Metrics) RecordReport(mode, style, outcome string) {
	m.ReportTotal.WithLabelValues(mode, style, outcome).Inc()
}

// RecordRateLimitHit records a rejected request.
func (m *Metrics) RecordRateLimitHit(route string) {
	m.RateLimitHitTotal.WithLabelValues(route).Inc()
}

// RecordFilterAction adds n detections handled by filter with action.
func (m *Metrics) RecordFilterAction(filter, action string, n int) {
	if n > 0 {
		m.FilterActionTotal.WithLabelValues(filter, action).Add(float64(n))
	}
}
