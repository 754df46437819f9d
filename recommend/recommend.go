// Package recommend turns a snapshot into a short list of operational
// advisories.
//
// Rules run in a fixed order and each may emit at most one advisory. When no
// rule fires, a single low advisory reports optimal conditions, so the result
// always holds between one and three entries.
package recommend

import (
	"fmt"
	"hospital-triage/models"
)

// Rule thresholds.
const (
	// OverloadThreshold is the patient count above which an area is saturated.
	OverloadThreshold = 5
	// ScarceResources is the available count below which resources are scarce.
	ScarceResources = 2
	// ScarcityQueue is the waiting count above which scarcity matters.
	ScarcityQueue = 3
)

// Fixed advisory texts.
const (
	TextScarcity = "Limited resources. Prepare to free beds/operating rooms."
	TextOptimal  = "System operating under optimal conditions."
)

// Snapshot is the read-only view every rule evaluates.
type Snapshot struct {
	Patients  []models.Patient
	Resources []models.Resource
}

// Rule inspects a snapshot and optionally emits an advisory.
type Rule struct {
	Name     string
	Evaluate func(Snapshot) (models.Advisory, bool)
}

// Rules is the ordered rule set. The fallback is not part of it; it applies
// only when none of these fire.
var Rules = []Rule{
	{Name: "overload", Evaluate: overload},
	{Name: "critical_cases", Evaluate: criticalCases},
	{Name: "scarcity", Evaluate: scarcity},
}

// Recommend evaluates Rules in order and returns the emitted advisories.
func Recommend(patients []models.Patient, resources []models.Resource) []models.Advisory {
	snap := Snapshot{Patients: patients, Resources: resources}

	advisories := make([]models.Advisory, 0, len(Rules))
	for _, rule := range Rules {
		if adv, ok := rule.Evaluate(snap); ok {
			advisories = append(advisories, adv)
		}
	}

	if len(advisories) == 0 {
		advisories = append(advisories, Optimal())
	}
	return advisories
}

// Optimal is the advisory emitted when nothing else fires.
func Optimal() models.Advisory {
	return models.Advisory{Type: models.AdvisoryLow, Icon: "✅", Text: TextOptimal}
}

// AreaLoad is the patient count and critical count of one area.
type AreaLoad struct {
	Area     models.Area
	Count    int
	Critical int
}

// Distribution returns the load of every care area in canonical order.
func Distribution(patients []models.Patient) []AreaLoad {
	loads := make([]AreaLoad, len(models.Areas))
	index := make(map[models.Area]int, len(models.Areas))
	for i, a := range models.Areas {
		loads[i].Area = a
		index[a] = i
	}

	for _, p := range patients {
		i, ok := index[p.Area]
		if !ok {
			continue
		}
		loads[i].Count++
		if p.Priority == models.PriorityCritical {
			loads[i].Critical++
		}
	}
	return loads
}

// MostLoaded returns the area with the most patients. Ties go to the area
// that comes first in canonical order.
func MostLoaded(patients []models.Patient) AreaLoad {
	loads := Distribution(patients)
	busiest := loads[0]
	for _, l := range loads[1:] {
		if l.Count > busiest.Count {
			busiest = l
		}
	}
	return busiest
}

func overload(s Snapshot) (models.Advisory, bool) {
	busiest := MostLoaded(s.Patients)
	if busiest.Count <= OverloadThreshold {
		return models.Advisory{}, false
	}
	return models.Advisory{
		Type: models.AdvisoryHigh,
		Icon: "🚨",
		Text: fmt.Sprintf("%s has %d patients (%d critical). Reassign staff.",
			busiest.Area, busiest.Count, busiest.Critical),
	}, true
}

func criticalCases(s Snapshot) (models.Advisory, bool) {
	n := 0
	for _, p := range s.Patients {
		if p.Priority == models.PriorityCritical {
			n++
		}
	}
	if n == 0 {
		return models.Advisory{}, false
	}
	return models.Advisory{
		Type: models.AdvisoryCritical,
		Icon: "⚠️",
		Text: fmt.Sprintf("%d critical case(s) require immediate attention.", n),
	}, true
}

func scarcity(s Snapshot) (models.Advisory, bool) {
	if models.AvailableCount(s.Resources) >= ScarceResources || len(s.Patients) <= ScarcityQueue {
		return models.Advisory{}, false
	}
	return models.Advisory{Type: models.AdvisoryMedium, Icon: "🛏️", Text: TextScarcity}, true
}
