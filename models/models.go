package models

import (
	"strings"
	"time"
)

// Area is a care area a patient waits in.
type Area string

const (
	AreaEmergency  Area = "emergency"
	AreaOutpatient Area = "outpatient"
	AreaICU        Area = "icu"
	AreaSurgery    Area = "surgery"
)

// Areas lists every care area in canonical order. Tie-breaks and rendering
// order follow this slice.
var Areas = []Area{AreaEmergency, AreaOutpatient, AreaICU, AreaSurgery}

// Priority is the triage priority of a waiting patient.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Rank returns the position of p in the low < medium < high < critical
// ordering, or -1 for an unknown priority.
func (p Priority) Rank() int {
	for i, known := range Priorities {
		if p == known {
			return i
		}
	}
	return -1
}

// Status is the queue status of a patient.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusAttended Status = "attended"
)

// Patient is a person registered in a care area queue.
type Patient struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Age         int       `json:"age" yaml:"age"`
	Area        Area      `json:"area" yaml:"area"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	Status      Status    `json:"status" yaml:"status"`
	ArrivalTime time.Time `json:"arrival_time" yaml:"arrival_time"`
}

// Resource is a physical resource such as a bed, room or piece of equipment.
type Resource struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Available bool   `json:"available" yaml:"available"`
}

// AvailableCount returns how many resources are currently available.
func AvailableCount(resources []Resource) int {
	n := 0
	for _, r := range resources {
		if r.Available {
			n++
		}
	}
	return n
}

// Trends holds percentage indicators of how loaded the hospital is.
type Trends struct {
	// OccupancyPct is waiting / (waiting + available resources).
	OccupancyPct int `json:"occupancy_pct"`
	// ResourcesInUsePct is the share of resources that are not available.
	ResourcesInUsePct int `json:"resources_in_use_pct"`
	// UrgentPct is the share of waiting patients with high or critical priority.
	UrgentPct int `json:"urgent_pct"`
}

// Statistics is the aggregate view over one snapshot.
type Statistics struct {
	TotalPatients      int              `json:"total_patients"`
	TotalResources     int              `json:"total_resources"`
	ByArea             map[Area]int     `json:"by_area"`
	ByPriority         map[Priority]int `json:"by_priority"`
	AvailableResources int              `json:"available_resources"`
	MeanWaitingMinutes int              `json:"mean_waiting_minutes"`
	CriticalCount      int              `json:"critical_count"`
	Trends             Trends           `json:"trends"`
}

// SaturationLevel classifies a projected wait time.
type SaturationLevel string

const (
	SaturationLow      SaturationLevel = "low"
	SaturationMedium   SaturationLevel = "medium"
	SaturationHigh     SaturationLevel = "high"
	SaturationCritical SaturationLevel = "critical"
)

// Ordinal returns 0 for low up to 3 for critical, -1 when unknown.
func (l SaturationLevel) Ordinal() int {
	switch l {
	case SaturationLow:
		return 0
	case SaturationMedium:
		return 1
	case SaturationHigh:
		return 2
	case SaturationCritical:
		return 3
	default:
		return -1
	}
}

// Forecast is the expected wait for one care area.
type Forecast struct {
	Area             Area            `json:"area"`
	EstimatedMinutes int             `json:"estimated_minutes"`
	Level            SaturationLevel `json:"level"`
	Message          string          `json:"message"`
	PatientsInArea   int             `json:"patients_in_area"`
	ResourcesFree    int             `json:"resources_free"`
}

// AdvisoryType mirrors the urgency of an advisory.
type AdvisoryType string

const (
	AdvisoryLow      AdvisoryType = "low"
	AdvisoryMedium   AdvisoryType = "medium"
	AdvisoryHigh     AdvisoryType = "high"
	AdvisoryCritical AdvisoryType = "critical"
)

// Advisory is a single operational recommendation.
type Advisory struct {
	Type AdvisoryType `json:"type"`
	Icon string       `json:"icon"`
	Text string       `json:"text"`
}

// Queue is the read-only listing of a snapshot: waiting patients, newest
// arrival first, and every resource with its availability.
type Queue struct {
	Patients  []Patient  `json:"patients"`
	Resources []Resource `json:"resources"`
}

// Report bundles the derived values of one snapshot evaluation. Sections
// that were not requested are left nil.
type Report struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Statistics  *Statistics `json:"statistics,omitempty"`
	Forecasts   []Forecast  `json:"forecasts,omitempty"`
	Advisories  []Advisory  `json:"advisories,omitempty"`
	Queue       *Queue      `json:"queue,omitempty"`
}

var areaAliases = map[string]Area{
	"emergency":  AreaEmergency,
	"emergencia": AreaEmergency,
	"outpatient": AreaOutpatient,
	"consulta":   AreaOutpatient,
	"icu":        AreaICU,
	"uci":        AreaICU,
	"surgery":    AreaSurgery,
	"cirugia":    AreaSurgery,
}

var priorityAliases = map[string]Priority{
	"low":      PriorityLow,
	"baja":     PriorityLow,
	"medium":   PriorityMedium,
	"media":    PriorityMedium,
	"high":     PriorityHigh,
	"alta":     PriorityHigh,
	"critical": PriorityCritical,
	"critica":  PriorityCritical,
}

var statusAliases = map[string]Status{
	"waiting":   StatusWaiting,
	"esperando": StatusWaiting,
	"attended":  StatusAttended,
	"atendido":  StatusAttended,
}

// ParseArea resolves a care area name, case-insensitively.
func ParseArea(s string) (Area, bool) {
	a, ok := areaAliases[strings.ToLower(strings.TrimSpace(s))]
	return a, ok
}

// ParsePriority resolves a priority name, case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	p, ok := priorityAliases[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

// ParseStatus resolves a queue status name, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}
