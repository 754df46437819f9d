// Package metrics provides Prometheus observability metrics for the triage engine.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"hospital-triage/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Patient Flow Visibility
// =============================================================================

// WaitingPatients tracks the current queue size per care area.
var WaitingPatients = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "triage",
	Name:      "waiting_patients",
	Help:      "Number of patients waiting, by care area",
}, []string{"area"})

// WaitingByPriority tracks the current queue size per priority.
var WaitingByPriority = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "triage",
	Name:      "waiting_by_priority",
	Help:      "Number of patients waiting, by priority",
}, []string{"priority"})

// CriticalPatients tracks waiting patients with critical priority.
var CriticalPatients = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "triage",
	Name:      "critical_patients",
	Help:      "Number of waiting patients with critical priority",
})

// ResourcesAvailable tracks resources currently free.
var ResourcesAvailable = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "triage",
	Name:      "resources_available",
	Help:      "Number of resources currently available",
})

// ResourcesTotal tracks all known resources.
var ResourcesTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "triage",
	Name:      "resources_total",
	Help:      "Number of resources in the snapshot",
})

// MeanWaitMinutes tracks the mean time patients have been waiting.
var MeanWaitMinutes = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "triage",
	Name:      "mean_wait_minutes",
	Help:      "Mean minutes waited so far by patients in the queue",
})

// OccupancyPercent tracks waiting / (waiting + available resources).
var OccupancyPercent = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "triage",
	Name:      "occupancy_percent",
	Help:      "Waiting patients as a percentage of waiting patients plus free resources",
})

// ForecastEstimatedMinutes tracks the projected wait per care area.
// High values indicate a saturated area.
var ForecastEstimatedMinutes = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "forecast",
	Name:      "estimated_minutes",
	Help:      "Projected wait in minutes, by care area",
}, []string{"area"})

// ForecastSaturationLevel tracks the saturation level per care area
// (0=low, 1=medium, 2=high, 3=critical).
var ForecastSaturationLevel = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "forecast",
	Name:      "saturation_level",
	Help:      "Saturation level by care area: 0=low, 1=medium, 2=high, 3=critical",
}, []string{"area"})

// AdvisoriesTotal counts advisories emitted by type.
var AdvisoriesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recommend",
	Name:      "advisories_total",
	Help:      "Total advisories emitted, by type",
}, []string{"type"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks records successfully parsed by kind.
var ParserRecordsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total records successfully parsed, by kind (patient, resource)",
}, []string{"kind"})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse a snapshot input",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// EvaluationDurationSeconds tracks time to evaluate one snapshot.
var EvaluationDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "triage",
	Name:      "evaluation_duration_seconds",
	Help:      "Time taken to aggregate, forecast and recommend over one snapshot",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// EvaluationsTotal counts snapshot evaluations.
var EvaluationsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "triage",
	Name:      "evaluations_total",
	Help:      "Total snapshot evaluations",
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetGauges resets all snapshot gauges before recording a new evaluation,
// so areas and priorities that emptied out do not keep stale values.
func ResetGauges() {
	WaitingPatients.Reset()
	WaitingByPriority.Reset()
	CriticalPatients.Set(0)
	ResourcesAvailable.Set(0)
	ResourcesTotal.Set(0)
	MeanWaitMinutes.Set(0)
	OccupancyPercent.Set(0)
	ForecastEstimatedMinutes.Reset()
	ForecastSaturationLevel.Reset()
}

// RecordReport publishes one evaluated report.
func RecordReport(r *models.Report) {
	ResetGauges()
	EvaluationsTotal.Inc()

	if s := r.Statistics; s != nil {
		for area, n := range s.ByArea {
			WaitingPatients.WithLabelValues(string(area)).Set(float64(n))
		}
		for priority, n := range s.ByPriority {
			WaitingByPriority.WithLabelValues(string(priority)).Set(float64(n))
		}
		CriticalPatients.Set(float64(s.CriticalCount))
		ResourcesAvailable.Set(float64(s.AvailableResources))
		ResourcesTotal.Set(float64(s.TotalResources))
		MeanWaitMinutes.Set(float64(s.MeanWaitingMinutes))
		OccupancyPercent.Set(float64(s.Trends.OccupancyPct))
	}

	for _, f := range r.Forecasts {
		ForecastEstimatedMinutes.WithLabelValues(string(f.Area)).Set(float64(f.EstimatedMinutes))
		ForecastSaturationLevel.WithLabelValues(string(f.Area)).Set(float64(f.Level.Ordinal()))
	}

	for _, a := range r.Advisories {
		AdvisoriesTotal.WithLabelValues(string(a.Type)).Inc()
	}
}
