package forecast_test

import (
	"fmt"
	"hospital-triage/forecast"
	"hospital-triage/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func patients(area models.Area, priorities ...models.Priority) []models.Patient {
	out := make([]models.Patient, 0, len(priorities))
	for i, p := range priorities {
		out = append(out, models.Patient{
			ID:       fmt.Sprintf("%s-%d", area, i),
			Area:     area,
			Priority: p,
			Status:   models.StatusWaiting,
		})
	}
	return out
}

func resources(available, busy int) []models.Resource {
	var out []models.Resource
	for i := 0; i < available; i++ {
		out = append(out, models.Resource{ID: fmt.Sprintf("free-%d", i), Type: "bed", Available: true})
	}
	for i := 0; i < busy; i++ {
		out = append(out, models.Resource{ID: fmt.Sprintf("busy-%d", i), Type: "bed"})
	}
	return out
}

func TestForecast(t *testing.T) {
	tests := map[string]struct {
		patients  []models.Patient
		resources []models.Resource
		area      models.Area
		expected  models.Forecast
	}{
		"EmptyArea": {
			patients:  patients(models.AreaICU, models.PriorityCritical),
			resources: resources(2, 1),
			area:      models.AreaEmergency,
			expected: models.Forecast{
				Area:          models.AreaEmergency,
				Level:         models.SaturationLow,
				Message:       forecast.MessageEmpty,
				ResourcesFree: 2,
			},
		},
		"SingleCritical_Low": {
			// round(5 * 1) + 10 = 15
			patients:  patients(models.AreaEmergency, models.PriorityCritical),
			resources: resources(1, 0),
			area:      models.AreaEmergency,
			expected: models.Forecast{
				Area:             models.AreaEmergency,
				EstimatedMinutes: 15,
				Level:            models.SaturationLow,
				Message:          forecast.MessageLow,
				PatientsInArea:   1,
				ResourcesFree:    1,
			},
		},
		"SingleLow_High": {
			// round(45 * 1) + 10 = 55
			patients:  patients(models.AreaOutpatient, models.PriorityLow),
			resources: resources(3, 0),
			area:      models.AreaOutpatient,
			expected: models.Forecast{
				Area:             models.AreaOutpatient,
				EstimatedMinutes: 55,
				Level:            models.SaturationHigh,
				Message:          forecast.MessageHigh,
				PatientsInArea:   1,
				ResourcesFree:    3,
			},
		},
		"NoResourcesDoublesBase": {
			// round(15 * 2) + 10 = 40
			patients:  patients(models.AreaSurgery, models.PriorityHigh),
			resources: resources(0, 4),
			area:      models.AreaSurgery,
			expected: models.Forecast{
				Area:             models.AreaSurgery,
				EstimatedMinutes: 40,
				Level:            models.SaturationHigh,
				Message:          forecast.MessageHigh,
				PatientsInArea:   1,
				ResourcesFree:    0,
			},
		},
		"MixedPriorities_RoundHalfUp": {
			// (5 + 30) / 2 = 17.5 → 18, + 20 = 38
			patients:  patients(models.AreaICU, models.PriorityCritical, models.PriorityMedium),
			resources: resources(1, 1),
			area:      models.AreaICU,
			expected: models.Forecast{
				Area:             models.AreaICU,
				EstimatedMinutes: 38,
				Level:            models.SaturationMedium,
				Message:          forecast.MessageMedium,
				PatientsInArea:   2,
				ResourcesFree:    1,
			},
		},
		"UnknownPriorityUsesDefault": {
			// round(30) + 10 = 40
			patients:  patients(models.AreaICU, models.Priority("urgent")),
			resources: resources(1, 0),
			area:      models.AreaICU,
			expected: models.Forecast{
				Area:             models.AreaICU,
				EstimatedMinutes: 40,
				Level:            models.SaturationHigh,
				Message:          forecast.MessageHigh,
				PatientsInArea:   1,
				ResourcesFree:    1,
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, forecast.Forecast(tt.patients, tt.resources, tt.area))
		})
	}
}

func TestForecast_EmptySnapshot(t *testing.T) {
	for _, area := range models.Areas {
		got := forecast.Forecast(nil, nil, area)
		assert.Equal(t, 0, got.EstimatedMinutes, "area %s", area)
		assert.Equal(t, models.SaturationLow, got.Level, "area %s", area)
		assert.Equal(t, 0, got.ResourcesFree, "area %s", area)
	}
}

func TestForecast_Deterministic(t *testing.T) {
	ps := append(patients(models.AreaEmergency, models.PriorityHigh, models.PriorityLow),
		patients(models.AreaICU, models.PriorityCritical)...)
	rs := resources(1, 2)

	first := forecast.Forecast(ps, rs, models.AreaEmergency)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, forecast.Forecast(ps, rs, models.AreaEmergency))
	}
}

func TestForecast_MonotonicCongestion(t *testing.T) {
	for _, rs := range [][]models.Resource{resources(0, 2), resources(2, 0)} {
		prev := -1
		var ps []models.Patient
		for i := 0; i < 12; i++ {
			ps = append(ps, patients(models.AreaEmergency, models.PriorityMedium)...)
			got := forecast.Forecast(ps, rs, models.AreaEmergency).EstimatedMinutes
			assert.GreaterOrEqual(t, got, prev)
			prev = got
		}
	}
}

func TestForecast_MonotonicScarcity(t *testing.T) {
	mixes := [][]models.Priority{
		{models.PriorityCritical},
		{models.PriorityLow, models.PriorityLow},
		{models.PriorityCritical, models.PriorityHigh, models.PriorityMedium, models.PriorityLow},
	}
	for _, mix := range mixes {
		ps := patients(models.AreaSurgery, mix...)
		scarce := forecast.Forecast(ps, resources(0, 3), models.AreaSurgery).EstimatedMinutes
		stocked := forecast.Forecast(ps, resources(1, 2), models.AreaSurgery).EstimatedMinutes
		assert.GreaterOrEqual(t, scarce, stocked, "mix %v", mix)
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := map[int]models.SaturationLevel{
		0:   models.SaturationLow,
		19:  models.SaturationLow,
		20:  models.SaturationMedium,
		39:  models.SaturationMedium,
		40:  models.SaturationHigh,
		59:  models.SaturationHigh,
		60:  models.SaturationCritical,
		240: models.SaturationCritical,
	}

	for minutes, expected := range tests {
		t.Run(fmt.Sprintf("%d_minutes", minutes), func(t *testing.T) {
			level, msg := forecast.Classify(minutes)
			assert.Equal(t, expected, level)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestForecast_SaturatedEmergency(t *testing.T) {
	ps := patients(models.AreaEmergency,
		models.PriorityCritical, models.PriorityHigh, models.PriorityMedium,
		models.PriorityMedium, models.PriorityLow, models.PriorityLow)
	rs := resources(1, 2)

	got := forecast.Forecast(ps, rs, models.AreaEmergency)

	// base (5+15+30+30+45+45)/6 = 28.33 → 28, load 60
	assert.Equal(t, 88, got.EstimatedMinutes)
	assert.Equal(t, models.SaturationCritical, got.Level)
	assert.Equal(t, forecast.MessageCritical, got.Message)
	assert.Equal(t, 6, got.PatientsInArea)
	assert.Equal(t, 1, got.ResourcesFree)
}

func TestForecastAll(t *testing.T) {
	ps := patients(models.AreaICU, models.PriorityHigh)
	got := forecast.ForecastAll(ps, resources(1, 0))

	if assert.Len(t, got, len(models.Areas)) {
		for i, area := range models.Areas {
			assert.Equal(t, area, got[i].Area)
		}
		assert.Equal(t, 25, got[2].EstimatedMinutes)
		assert.Equal(t, 0, got[0].EstimatedMinutes)
	}
}

func TestBaseMinutes(t *testing.T) {
	assert.Equal(t, 5, forecast.BaseMinutes(models.PriorityCritical))
	assert.Equal(t, 15, forecast.BaseMinutes(models.PriorityHigh))
	assert.Equal(t, 30, forecast.BaseMinutes(models.PriorityMedium))
	assert.Equal(t, 45, forecast.BaseMinutes(models.PriorityLow))
	assert.Equal(t, 30, forecast.BaseMinutes(""))
}
