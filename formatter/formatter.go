package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"hospital-triage/models"
	"hospital-triage/stats"
	"strconv"
	"strings"
	"time"
)

// ReportData holds prepared report data used by all formatters
type ReportData struct {
	GeneratedAt string            `json:"generated_at"`
	Statistics  *StatisticsData   `json:"statistics,omitempty"`
	Forecasts   []models.Forecast `json:"forecasts,omitempty"`
	Advisories  []models.Advisory `json:"advisories,omitempty"`
	Queue       *models.Queue     `json:"queue,omitempty"`
}

// StatisticsData holds the aggregate section with distributions in
// canonical enumeration order
type StatisticsData struct {
	TotalPatients      int                   `json:"total_patients"`
	MeanWaitingMinutes int                   `json:"mean_waiting_minutes"`
	AvailableResources int                   `json:"available_resources"`
	TotalResources     int                   `json:"total_resources"`
	CriticalCount      int                   `json:"critical_count"`
	ByArea             []stats.AreaCount     `json:"by_area"`
	ByPriority         []stats.PriorityCount `json:"by_priority"`
	Trends             models.Trends         `json:"trends"`
}

// prepareReportData flattens a report into a stable, ordered structure
func prepareReportData(report *models.Report) *ReportData {
	data := &ReportData{
		GeneratedAt: report.GeneratedAt.UTC().Format(time.RFC3339),
		Forecasts:   report.Forecasts,
		Advisories:  report.Advisories,
		Queue:       report.Queue,
	}

	if s := report.Statistics; s != nil {
		data.Statistics = &StatisticsData{
			TotalPatients:      s.TotalPatients,
			MeanWaitingMinutes: s.MeanWaitingMinutes,
			AvailableResources: s.AvailableResources,
			TotalResources:     s.TotalResources,
			CriticalCount:      s.CriticalCount,
			ByArea:             stats.SortedAreaCounts(s.ByArea),
			ByPriority:         stats.SortedPriorityCounts(s.ByPriority),
			Trends:             s.Trends,
		}
	}

	return data
}

// FormatText returns the text representation of the report
func FormatText(report *models.Report) string {
	data := prepareReportData(report)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Report generated at %s\n", data.GeneratedAt))

	if s := data.Statistics; s != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Patients waiting   : %d\n", s.TotalPatients))
		sb.WriteString(fmt.Sprintf("Mean wait          : %d min\n", s.MeanWaitingMinutes))
		sb.WriteString(fmt.Sprintf("Resources available: %d/%d\n", s.AvailableResources, s.TotalResources))
		sb.WriteString(fmt.Sprintf("Critical cases     : %d\n", s.CriticalCount))

		if len(s.ByArea) > 0 {
			sb.WriteString("By area            : ")
			sb.WriteString(formatAreaCounts(s.ByArea))
			sb.WriteString("\n")
		}
		if len(s.ByPriority) > 0 {
			sb.WriteString("By priority        : ")
			sb.WriteString(formatPriorityCounts(s.ByPriority))
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("Occupancy %d%% ; resources in use %d%% ; urgent %d%%\n",
			s.Trends.OccupancyPct, s.Trends.ResourcesInUsePct, s.Trends.UrgentPct))
	}

	if len(data.Forecasts) > 0 {
		sb.WriteString("\nForecast:\n")
		for _, f := range data.Forecasts {
			sb.WriteString(formatForecastLine(f))
			sb.WriteString("\n")
		}
	}

	if len(data.Advisories) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, a := range data.Advisories {
			sb.WriteString(fmt.Sprintf("  %s [%s] %s\n", a.Icon, a.Type, a.Text))
		}
	}

	if q := data.Queue; q != nil {
		sb.WriteString(fmt.Sprintf("\nWaiting queue (%d):\n", len(q.Patients)))
		for _, p := range q.Patients {
			sb.WriteString(formatPatientLine(p))
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("\nResources (%d/%d available):\n", models.AvailableCount(q.Resources), len(q.Resources)))
		for _, r := range q.Resources {
			sb.WriteString(formatResourceLine(r))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of the report
func FormatJSON(report *models.Report) string {
	data := prepareReportData(report)
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of the report.
// Every row is "section, key, value, detail" so the whole report fits one table.
func FormatCSV(report *models.Report) string {
	data := prepareReportData(report)
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	writer.Write([]string{"Section", "Key", "Value", "Detail"})

	if s := data.Statistics; s != nil {
		writeStatisticsToCSV(writer, s)
	}

	for _, f := range data.Forecasts {
		writer.Write([]string{"forecast", string(f.Area), strconv.Itoa(f.EstimatedMinutes),
			fmt.Sprintf("%s: %s", f.Level, f.Message)})
	}
	for _, a := range data.Advisories {
		writer.Write([]string{"advisory", string(a.Type), a.Icon, a.Text})
	}
	if q := data.Queue; q != nil {
		writeQueueToCSV(writer, q)
	}

	writer.Flush()
	return sb.String()
}

// writeStatisticsToCSV writes the aggregate section rows
func writeStatisticsToCSV(writer *csv.Writer, s *StatisticsData) {
	writer.Write([]string{"summary", "total_patients", strconv.Itoa(s.TotalPatients), ""})
	writer.Write([]string{"summary", "mean_waiting_minutes", strconv.Itoa(s.MeanWaitingMinutes), ""})
	writer.Write([]string{"summary", "available_resources", strconv.Itoa(s.AvailableResources), strconv.Itoa(s.TotalResources)})
	writer.Write([]string{"summary", "critical_count", strconv.Itoa(s.CriticalCount), ""})

	for _, ac := range s.ByArea {
		writer.Write([]string{"area", string(ac.Area), strconv.Itoa(ac.Count), ""})
	}
	for _, pc := range s.ByPriority {
		writer.Write([]string{"priority", string(pc.Priority), strconv.Itoa(pc.Count), ""})
	}

	writer.Write([]string{"trend", "occupancy_pct", strconv.Itoa(s.Trends.OccupancyPct), ""})
	writer.Write([]string{"trend", "resources_in_use_pct", strconv.Itoa(s.Trends.ResourcesInUsePct), ""})
	writer.Write([]string{"trend", "urgent_pct", strconv.Itoa(s.Trends.UrgentPct), ""})
}

// writeQueueToCSV writes one row per waiting patient and per resource
func writeQueueToCSV(writer *csv.Writer, q *models.Queue) {
	for _, p := range q.Patients {
		writer.Write([]string{"queue", p.ID, string(p.Priority),
			fmt.Sprintf("%s (%d) %s since %s", p.Name, p.Age, p.Area, p.ArrivalTime.UTC().Format(time.RFC3339))})
	}
	for _, r := range q.Resources {
		writer.Write([]string{"resource", r.ID, availability(r), fmt.Sprintf("%s (%s)", r.Name, r.Type)})
	}
}

// formatPatientLine formats one waiting patient for text output
func formatPatientLine(p models.Patient) string {
	return fmt.Sprintf("  %s  %-10s %-8s %s (%d) id=%s",
		p.ArrivalTime.UTC().Format("15:04"), p.Area, p.Priority, p.Name, p.Age, p.ID)
}

// formatResourceLine formats one resource for text output
func formatResourceLine(r models.Resource) string {
	return fmt.Sprintf("  %-9s %s (%s) id=%s", availability(r), r.Name, r.Type, r.ID)
}

func availability(r models.Resource) string {
	if r.Available {
		return "available"
	}
	return "occupied"
}

// formatForecastLine formats a single forecast line for text output
func formatForecastLine(f models.Forecast) string {
	return fmt.Sprintf("  %-10s : %3d min [%s] patients=%d free=%d ; %s",
		f.Area, f.EstimatedMinutes, f.Level, f.PatientsInArea, f.ResourcesFree, f.Message)
}

func formatAreaCounts(counts []stats.AreaCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s=%d", c.Area, c.Count))
	}
	return strings.Join(parts, ", ")
}

func formatPriorityCounts(counts []stats.PriorityCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s=%d", c.Priority, c.Count))
	}
	return strings.Join(parts, ", ")
}
