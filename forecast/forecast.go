// Package forecast estimates the expected wait in a care area from the
// current queue, its priority mix and resource scarcity.
//
// The estimate is a transparent heuristic rather than a trained model:
//
//	estimated = round(avg(base(priority)) * resourceFactor) + patients*10
//
// where resourceFactor is 2 when no resource is free and 1 otherwise. The
// result is classified into a saturation level with right-exclusive
// thresholds at 20, 40 and 60 minutes.
package forecast

import (
	"hospital-triage/models"
	"math"
)

// Base wait in minutes for one patient of each priority.
const (
	BaseCritical = 5
	BaseHigh     = 15
	BaseMedium   = 30
	BaseLow      = 45

	// BaseDefault applies to a priority outside the enumeration.
	BaseDefault = 30
)

// LoadMinutesPerPatient is the queueing delay each waiting patient adds.
const LoadMinutesPerPatient = 10

// ScarcityFactor multiplies the base average when no resource is free.
const ScarcityFactor = 2

// Thresholds (in minutes) that map an estimate to a saturation level.
const (
	ThresholdMedium   = 20
	ThresholdHigh     = 40
	ThresholdCritical = 60
)

// Messages attached to each saturation level.
const (
	MessageEmpty    = "no patients in this area, minimal wait"
	MessageLow      = "normal flow, maintain current pace"
	MessageMedium   = "moderate load, consider optimizing resources"
	MessageHigh     = "high demand, activate additional staff"
	MessageCritical = "critical saturation, activate emergency protocol"
)

var baseMinutes = map[models.Priority]int{
	models.PriorityCritical: BaseCritical,
	models.PriorityHigh:     BaseHigh,
	models.PriorityMedium:   BaseMedium,
	models.PriorityLow:      BaseLow,
}

// Forecast estimates the wait in area for the given snapshot.
func Forecast(patients []models.Patient, resources []models.Resource, area models.Area) models.Forecast {
	resourcesFree := models.AvailableCount(resources)

	var baseSum, n int
	for _, p := range patients {
		if p.Area != area {
			continue
		}
		baseSum += BaseMinutes(p.Priority)
		n++
	}

	if n == 0 {
		return models.Forecast{
			Area:          area,
			Level:         models.SaturationLow,
			Message:       MessageEmpty,
			ResourcesFree: resourcesFree,
		}
	}

	resourceFactor := 1
	if resourcesFree == 0 {
		resourceFactor = ScarcityFactor
	}

	baseAverage := float64(baseSum) / float64(n)
	estimated := int(math.Round(baseAverage*float64(resourceFactor))) + n*LoadMinutesPerPatient
	level, message := Classify(estimated)

	return models.Forecast{
		Area:             area,
		EstimatedMinutes: estimated,
		Level:            level,
		Message:          message,
		PatientsInArea:   n,
		ResourcesFree:    resourcesFree,
	}
}

// ForecastAll returns one forecast per care area in canonical order.
func ForecastAll(patients []models.Patient, resources []models.Resource) []models.Forecast {
	out := make([]models.Forecast, 0, len(models.Areas))
	for _, area := range models.Areas {
		out = append(out, Forecast(patients, resources, area))
	}
	return out
}

// BaseMinutes returns the base wait for a priority, falling back to
// BaseDefault for unknown values.
func BaseMinutes(p models.Priority) int {
	if m, ok := baseMinutes[p]; ok {
		return m
	}
	return BaseDefault
}

// Classify maps an estimate in minutes to a saturation level and its message.
func Classify(minutes int) (models.SaturationLevel, string) {
	switch {
	case minutes < ThresholdMedium:
		return models.SaturationLow, MessageLow
	case minutes < ThresholdHigh:
		return models.SaturationMedium, MessageMedium
	case minutes < ThresholdCritical:
		return models.SaturationHigh, MessageHigh
	default:
		return models.SaturationCritical, MessageCritical
	}
}
