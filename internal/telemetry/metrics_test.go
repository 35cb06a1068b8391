package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func TestNewMetrics(t *testing.T) {
	// Use a fresh registry to avoid polluting the default one
	m := NewMetrics(prometheus.NewRegistry())

	if m.SourceFetchTotal == nil {
		t.Error("SourceFetchTotal should not be nil")
	}
	if m.SourceFetchDurationMs == nil {
		t.Error("SourceFetchDurationMs should not be nil")
	}
	if m.GenerationTotal == nil {
		t.Error("GenerationTotal should not be nil")
	}
	if m.ReportTotal == nil {
		t.Error("ReportTotal should not be nil")
	}
	if m.RateLimitHitTotal == nil {
		t.Error("RateLimitHitTotal should not be nil")
	}
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic registering metrics twice on the same registry")
		}
	}()
	NewMetrics(reg)
}

func TestRecordSourceFetch(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSourceFetch("harvest", "success", 120, 3)
	m.RecordSourceFetch("harvest", "success", 80, 2)
	m.RecordSourceFetch("harvest", "access_denied", 40, 0)

	if v := counterValue(t, m.SourceFetchTotal.WithLabelValues("harvest", "success")); v != 2 {
		t.Errorf("expected 2 successful fetches, got %v", v)
	}
	if v := counterValue(t, m.SourceFetchTotal.WithLabelValues("harvest", "access_denied")); v != 1 {
		t.Errorf("expected 1 denied fetch, got %v", v)
	}
	if v := counterValue(t, m.SourceRecordsTotal.WithLabelValues("harvest")); v != 5 {
		t.Errorf("expected 5 records, got %v", v)
	}
}

func TestRecordGenerationAndReport(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordGeneration("gemini", "success", 1500)
	m.RecordReport("combined-default", "standup", "success")
	m.RecordRateLimitHit("/v1/reports")

	if v := counterValue(t, m.GenerationTotal.WithLabelValues("gemini", "success")); v != 1 {
		t.Errorf("expected generation count 1, got %v", v)
	}
	if v := counterValue(t, m.ReportTotal.WithLabelValues("combined-default", "standup", "success")); v != 1 {
		t.Errorf("expected report count 1, got %v", v)
	}
	if v := counterValue(t, m.RateLimitHitTotal.WithLabelValues("/v1/reports")); v != 1 {
		t.Errorf("expected rate limit hit 1, got %v", v)
	}
}

func TestRecordFilterAction(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordFilterAction("secrets", "redact", 2)
	m.RecordFilterAction("injection", "neutralize", 1)
	m.RecordFilterAction("injection", "flag", 0)

	if v := counterValue(t, m.FilterActionTotal.WithLabelValues("secrets", "redact")); v != 2 {
		t.Errorf("expected 2 redactions, got %v", v)
	}
	if v := counterValue(t, m.FilterActionTotal.WithLabelValues("injection", "neutralize")); v != 1 {
		t.Errorf("expected 1 neutralization, got %v", v)
	}
	if v := counterValue(t, m.FilterActionTotal.WithLabelValues("injection", "flag")); v != 0 {
		t.Errorf("zero detections should not count, got %v", v)
	}
}
