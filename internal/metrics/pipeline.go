package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StageGenerate  = "generate"
	StageUpload    = "upload"
	StagePublicURL = "public_url"
	StageObjectID  = "object_id"
	StageBlurhash  = "blurhash"
)

// PipelineMetrics records image processing runs. A nil *PipelineMetrics is
// valid and records nothing.
type PipelineMetrics struct {
	duration       *prometheus.HistogramVec
	runs           *prometheus.CounterVec
	unitFailures   *prometheus.CounterVec
	batchItems     *prometheus.CounterVec
	batchLastTotal prometheus.Gauge
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "image_processing_duration_seconds",
		Help:    "Duration of single image processing runs in seconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"outcome"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_processing_runs_total",
		Help: "Single image processing runs by outcome.",
	}, []string{"outcome"})
	unitFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_variant_failures_total",
		Help: "Swallowed per-variant failures by variant and stage.",
	}, []string{"variant", "stage"})
	batchItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_reprocess_items_total",
		Help: "Images handled by backlog reprocessing by outcome.",
	}, []string{"outcome"})
	batchLastTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "image_reprocess_last_total",
		Help: "Eligible images found by the most recent backlog scan.",
	})
	reg.MustRegister(duration, runs, unitFailures, batchItems, batchLastTotal)
	return &PipelineMetrics{
		duration:       duration,
		runs:           runs,
		unitFailures:   unitFailures,
		batchItems:     batchItems,
		batchLastTotal: batchLastTotal,
	}
}

// ObserveRun records the duration and outcome of one processing run.
func (m *PipelineMetrics) ObserveRun(outcome string, duration time.Duration) {
	if m == nil || m.runs == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncUnitFailure counts a per-variant failure that did not abort the run.
func (m *PipelineMetrics) IncUnitFailure(variant, stage string) {
	if m == nil || m.unitFailures == nil {
		return
	}
	m.unitFailures.WithLabelValues(normalizeLabel(variant), normalizeLabel(stage)).Inc()
}

// ObserveBatch records the result of one backlog reprocessing sweep.
func (m *PipelineMetrics) ObserveBatch(total, processed, failed int) {
	if m == nil || m.batchItems == nil {
		return
	}
	m.batchLastTotal.Set(float64(total))
	m.batchItems.WithLabelValues("success").Add(float64(processed))
	m.batchItems.WithLabelValues("failed").Add(float64(failed))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
