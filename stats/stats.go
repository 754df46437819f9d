// Package stats aggregates a snapshot of waiting patients and resources into
// counts, ratios and a mean waiting time.
//
// Every function is a pure function of its arguments. The caller passes the
// current time explicitly so results are reproducible.
package stats

import (
	"hospital-triage/models"
	"math"
	"sort"
	"time"
)

// AreaCount is one entry of an area distribution in rendering order.
type AreaCount struct {
	Area  models.Area `json:"area"`
	Count int         `json:"count"`
}

// PriorityCount is one entry of a priority distribution in rendering order.
type PriorityCount struct {
	Priority models.Priority `json:"priority"`
	Count    int             `json:"count"`
}

// Aggregate computes the full Statistics value for a snapshot.
func Aggregate(patients []models.Patient, resources []models.Resource, now time.Time) models.Statistics {
	available := AvailableResourceCount(resources)
	byPriority := CountByPriority(patients)

	return models.Statistics{
		TotalPatients:      len(patients),
		TotalResources:     len(resources),
		ByArea:             CountByArea(patients),
		ByPriority:         byPriority,
		AvailableResources: available,
		MeanWaitingMinutes: MeanWaitingMinutes(patients, now),
		CriticalCount:      CriticalCount(patients),
		Trends: models.Trends{
			OccupancyPct:      percent(len(patients), len(patients)+available),
			ResourcesInUsePct: percent(len(resources)-available, len(resources)),
			UrgentPct:         percent(byPriority[models.PriorityHigh]+byPriority[models.PriorityCritical], max(len(patients), 1)),
		},
	}
}

// CountByArea groups patients by care area. Areas without patients have no
// entry in the result.
func CountByArea(patients []models.Patient) map[models.Area]int {
	counts := make(map[models.Area]int)
	for _, p := range patients {
		counts[p.Area]++
	}
	return counts
}

// CountByPriority groups patients by priority. Priorities without patients
// have no entry in the result.
func CountByPriority(patients []models.Patient) map[models.Priority]int {
	counts := make(map[models.Priority]int)
	for _, p := range patients {
		counts[p.Priority]++
	}
	return counts
}

// AvailableResourceCount counts resources that are available.
func AvailableResourceCount(resources []models.Resource) int {
	return models.AvailableCount(resources)
}

// MeanWaitingMinutes returns the mean elapsed minutes since arrival, rounded
// to the nearest integer. It returns 0 for an empty list.
func MeanWaitingMinutes(patients []models.Patient, now time.Time) int {
	if len(patients) == 0 {
		return 0
	}

	var total float64
	for _, p := range patients {
		total += now.Sub(p.ArrivalTime).Minutes()
	}
	return int(math.Round(total / float64(len(patients))))
}

// CriticalCount counts patients with critical priority.
func CriticalCount(patients []models.Patient) int {
	n := 0
	for _, p := range patients {
		if p.Priority == models.PriorityCritical {
			n++
		}
	}
	return n
}

// SortedAreaCounts orders an area distribution by the canonical area order.
// Areas outside the enumeration follow, sorted by name.
func SortedAreaCounts(counts map[models.Area]int) []AreaCount {
	out := make([]AreaCount, 0, len(counts))
	for _, a := range models.Areas {
		if n, ok := counts[a]; ok {
			out = append(out, AreaCount{Area: a, Count: n})
		}
	}

	var extra []AreaCount
	for a, n := range counts {
		if !isKnownArea(a) {
			extra = append(extra, AreaCount{Area: a, Count: n})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Area < extra[j].Area })
	return append(out, extra...)
}

// SortedPriorityCounts orders a priority distribution from low to critical.
// Priorities outside the enumeration follow, sorted by name.
func SortedPriorityCounts(counts map[models.Priority]int) []PriorityCount {
	out := make([]PriorityCount, 0, len(counts))
	for _, p := range models.Priorities {
		if n, ok := counts[p]; ok {
			out = append(out, PriorityCount{Priority: p, Count: n})
		}
	}

	var extra []PriorityCount
	for p, n := range counts {
		if p.Rank() < 0 {
			extra = append(extra, PriorityCount{Priority: p, Count: n})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Priority < extra[j].Priority })
	return append(out, extra...)
}

// NewestFirst returns a copy of patients ordered by arrival time, latest
// first. Patients that arrived at the same instant keep their input order.
func NewestFirst(patients []models.Patient) []models.Patient {
	out := make([]models.Patient, len(patients))
	copy(out, patients)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ArrivalTime.After(out[j].ArrivalTime)
	})
	return out
}

func isKnownArea(a models.Area) bool {
	for _, known := range models.Areas {
		if a == known {
			return true
		}
	}
	return false
}

// percent returns round(part/whole*100), or 0 when whole is not positive.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
