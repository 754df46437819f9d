package formatter_test

import (
	"encoding/json"
	"hospital-triage/formatter"
	"hospital-triage/models"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *models.Report {
	return &models.Report{
		GeneratedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Statistics: &models.Statistics{
			TotalPatients:      7,
			TotalResources:     3,
			ByArea:             map[models.Area]int{models.AreaICU: 1, models.AreaEmergency: 6},
			ByPriority:         map[models.Priority]int{models.PriorityCritical: 1, models.PriorityLow: 6},
			AvailableResources: 1,
			MeanWaitingMinutes: 23,
			CriticalCount:      1,
			Trends:             models.Trends{OccupancyPct: 88, ResourcesInUsePct: 67, UrgentPct: 14},
		},
		Forecasts: []models.Forecast{
			{
				Area:             models.AreaEmergency,
				EstimatedMinutes: 98,
				Level:            models.SaturationCritical,
				Message:          "critical saturation, activate emergency protocol",
				PatientsInArea:   6,
				ResourcesFree:    1,
			},
		},
		Advisories: []models.Advisory{
			{Type: models.AdvisoryHigh, Icon: "🚨", Text: "emergency has 6 patients (0 critical). Reassign staff."},
			{Type: models.AdvisoryCritical, Icon: "⚠️", Text: "1 critical case(s) require immediate attention."},
		},
	}
}

func TestFormatText(t *testing.T) {
	tests := map[string]struct {
		report   *models.Report
		contains []string
		excludes []string
	}{
		"EmptyReport": {
			report:   &models.Report{GeneratedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)},
			contains: []string{"Report generated at 2024-03-10T12:00:00Z"},
			excludes: []string{"Patients waiting", "Forecast:", "Recommendations:"},
		},
		"EmptySnapshotStatistics": {
			report: &models.Report{Statistics: &models.Statistics{}},
			contains: []string{
				"Patients waiting   : 0",
				"Mean wait          : 0 min",
				"Resources available: 0/0",
				"Occupancy 0% ; resources in use 0% ; urgent 0%",
			},
			excludes: []string{"By area", "By priority", "Forecast:"},
		},
		"ForecastOnly": {
			report: &models.Report{Forecasts: sampleReport().Forecasts},
			contains: []string{
				"Forecast:",
				"emergency  :  98 min [critical]",
			},
			excludes: []string{"Patients waiting", "Recommendations:"},
		},
		"FullReport": {
			report: sampleReport(),
			contains: []string{
				"Report generated at 2024-03-10T12:00:00Z",
				"Patients waiting   : 7",
				"Resources available: 1/3",
				"By area            : emergency=6, icu=1",
				"By priority        : low=6, critical=1",
				"emergency  :  98 min [critical] patients=6 free=1 ; critical saturation, activate emergency protocol",
				"🚨 [high] emergency has 6 patients",
				"⚠️ [critical] 1 critical case(s)",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatText(tt.report)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestFormatText_AdvisoryOrderPreserved(t *testing.T) {
	output := formatter.FormatText(sampleReport())
	high := strings.Index(output, "[high]")
	critical := strings.Index(output, "[critical] 1 critical")
	assert.True(t, high >= 0 && critical > high, "advisories should render in evaluation order")
}

func TestFormatJSON(t *testing.T) {
	output := formatter.FormatJSON(sampleReport())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))

	statistics := decoded["statistics"].(map[string]any)
	assert.Equal(t, 7.0, statistics["total_patients"])

	byArea := statistics["by_area"].([]any)
	require.Len(t, byArea, 2)
	assert.Equal(t, "emergency", byArea[0].(map[string]any)["area"])
	assert.Equal(t, "icu", byArea[1].(map[string]any)["area"])

	forecasts := decoded["forecasts"].([]any)
	require.Len(t, forecasts, 1)
	assert.Equal(t, 98.0, forecasts[0].(map[string]any)["estimated_minutes"])
	assert.Equal(t, "critical", forecasts[0].(map[string]any)["level"])
}

func TestFormatJSON_OmitsMissingSections(t *testing.T) {
	output := formatter.FormatJSON(&models.Report{Advisories: sampleReport().Advisories})

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))

	assert.Contains(t, decoded, "generated_at")
	assert.Contains(t, decoded, "advisories")
	assert.NotContains(t, decoded, "statistics")
	assert.NotContains(t, decoded, "forecasts")
}

func TestFormatCSV(t *testing.T) {
	output := formatter.FormatCSV(sampleReport())
	lines := strings.Split(strings.TrimSpace(output), "\n")

	assert.Equal(t, "Section,Key,Value,Detail", lines[0])
	assert.Contains(t, output, "summary,available_resources,1,3")
	assert.Contains(t, output, "area,emergency,6,")
	assert.Contains(t, output, "priority,critical,1,")
	assert.Contains(t, output, `forecast,emergency,98,"critical: critical saturation, activate emergency protocol"`)
	assert.Contains(t, output, "advisory,high,🚨,emergency has 6 patients (0 critical). Reassign staff.")
	assert.Contains(t, output, "trend,occupancy_pct,88,")
}

func TestFormatCSV_HeaderOnlyForEmptyReport(t *testing.T) {
	output := formatter.FormatCSV(&models.Report{})
	assert.Equal(t, "Section,Key,Value,Detail\n", output)
}

func queueReport() *models.Report {
	return &models.Report{
		GeneratedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Queue: &models.Queue{
			Patients: []models.Patient{
				{ID: "p2", Name: "Luis", Age: 71, Area: models.AreaICU, Priority: models.PriorityCritical,
					Status: models.StatusWaiting, ArrivalTime: time.Date(2024, 3, 10, 11, 45, 0, 0, time.UTC)},
				{ID: "p1", Name: "Ana", Age: 34, Area: models.AreaEmergency, Priority: models.PriorityHigh,
					Status: models.StatusWaiting, ArrivalTime: time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC)},
			},
			Resources: []models.Resource{
				{ID: "b1", Name: "Bed 1", Type: "bed", Available: true},
				{ID: "v1", Name: "Ventilator 1", Type: "ventilator", Available: false},
			},
		},
	}
}

func TestFormatText_Queue(t *testing.T) {
	tests := map[string]struct {
		report   *models.Report
		contains []string
		excludes []string
	}{
		"WithQueue": {
			report: queueReport(),
			contains: []string{
				"Waiting queue (2):",
				"  11:45  icu        critical Luis (71) id=p2",
				"  11:00  emergency  high     Ana (34) id=p1",
				"Resources (1/2 available):",
				"  available Bed 1 (bed) id=b1",
				"  occupied  Ventilator 1 (ventilator) id=v1",
			},
		},
		"EmptyQueue": {
			report:   &models.Report{Queue: &models.Queue{}},
			contains: []string{"Waiting queue (0):", "Resources (0/0 available):"},
		},
		"NoQueueSection": {
			report:   sampleReport(),
			excludes: []string{"Waiting queue", "Resources ("},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatText(tt.report)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestFormatText_QueueOrderPreserved(t *testing.T) {
	output := formatter.FormatText(queueReport())
	luis := strings.Index(output, "Luis")
	ana := strings.Index(output, "Ana")
	assert.True(t, luis >= 0 && ana > luis, "queue should render in the given order")
}

func TestFormatJSON_Queue(t *testing.T) {
	output := formatter.FormatJSON(queueReport())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))

	queue := decoded["queue"].(map[string]any)
	patients := queue["patients"].([]any)
	require.Len(t, patients, 2)
	assert.Equal(t, "p2", patients[0].(map[string]any)["id"])

	resources := queue["resources"].([]any)
	require.Len(t, resources, 2)
	assert.Equal(t, false, resources[1].(map[string]any)["available"])
}

func TestFormatCSV_Queue(t *testing.T) {
	output := formatter.FormatCSV(queueReport())

	assert.Contains(t, output, "queue,p2,critical,Luis (71) icu since 2024-03-10T11:45:00Z")
	assert.Contains(t, output, "resource,b1,available,Bed 1 (bed)")
	assert.Contains(t, output, "resource,v1,occupied,Ventilator 1 (ventilator)")
}
