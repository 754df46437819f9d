package cli

import (
	"hospital-triage/forecast"
	"hospital-triage/metrics"
	"hospital-triage/models"
	"hospital-triage/parser"
	"hospital-triage/recommend"
	"hospital-triage/stats"
	"time"
)

// Selection chooses which sections of a report are computed.
type Selection struct {
	Statistics bool
	Forecasts  bool
	Advisories bool
	Queue      bool
	// Area restricts the forecast to one care area. Empty means every area.
	Area models.Area
}

// Everything selects the statistics, a forecast for each care area and the
// advisories. The queue listing is opt-in.
var Everything = Selection{Statistics: true, Forecasts: true, Advisories: true}

// Evaluate filters the waiting queue out of snap and runs the selected
// computations over it. now is only used for the waiting-time statistics.
func Evaluate(snap *parser.Snapshot, sel Selection, now time.Time) *models.Report {
	start := time.Now()
	defer func() { metrics.EvaluationDurationSeconds.Observe(time.Since(start).Seconds()) }()

	waiting := parser.Waiting(snap.Patients)
	report := &models.Report{GeneratedAt: now}

	if sel.Statistics {
		s := stats.Aggregate(waiting, snap.Resources, now)
		report.Statistics = &s
	}

	if sel.Forecasts {
		if sel.Area != "" {
			report.Forecasts = []models.Forecast{forecast.Forecast(waiting, snap.Resources, sel.Area)}
		} else {
			report.Forecasts = forecast.ForecastAll(waiting, snap.Resources)
		}
	}

	if sel.Advisories {
		report.Advisories = recommend.Recommend(waiting, snap.Resources)
	}

	if sel.Queue {
		report.Queue = &models.Queue{
			Patients:  stats.NewestFirst(waiting),
			Resources: snap.Resources,
		}
	}

	return report
}
