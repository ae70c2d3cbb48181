package weight

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestValidateWeightLog(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want []string
	}{
		{"valid kg", Input{Weight: 72.5, Unit: "kg", LoggedAt: ptr(now)}, nil},
		{"valid pounds", Input{Weight: 160, Unit: "pounds", LoggedAt: ptr(now.Add(-time.Hour))}, nil},
		{"empty unit means kg", Input{Weight: 72.5, LoggedAt: ptr(now)}, nil},
		{"zero weight", Input{Weight: 0, Unit: "kg", LoggedAt: ptr(now)}, []string{"weight must be greater than 0"}},
		{"too heavy in kg", Input{Weight: 1000.1, Unit: "kg", LoggedAt: ptr(now)}, []string{"weight must be at most 1000 kg"}},
		{"heavy but fine in lbs", Input{Weight: 2000, Unit: "lbs", LoggedAt: ptr(now)}, nil},
		{"too heavy in lbs", Input{Weight: 2300, Unit: "lbs", LoggedAt: ptr(now)}, []string{"weight must be at most 1000 kg"}},
		{"unknown unit", Input{Weight: 12, Unit: "stone", LoggedAt: ptr(now)}, []string{"unit must be one of kg, lbs, pounds"}},
		{"body fat out of range", Input{Weight: 70, LoggedAt: ptr(now), BodyFatPercentage: ptr(100.5)}, []string{"body fat percentage must be between 0 and 100"}},
		{"negative muscle mass", Input{Weight: 70, LoggedAt: ptr(now), MuscleMass: ptr(-1.0)}, []string{"muscle mass must be 0 or greater"}},
		{"future", Input{Weight: 70, LoggedAt: ptr(now.Add(time.Second))}, []string{"logged at cannot be in the future"}},
		{"before 1900", Input{Weight: 70, LoggedAt: ptr(time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC))}, []string{"logged at cannot be before 1900-01-01"}},
		{"all problems together", Input{
			Weight:            -3,
			Unit:              "st",
			BodyFatPercentage: ptr(-1.0),
			Notes:             ptr(strings.Repeat("x", 501)),
		}, []string{
			"unit must be one of kg, lbs, pounds",
			"weight must be greater than 0",
			"body fat percentage must be between 0 and 100",
			"logged at is required",
			"notes must be at most 500 characters",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateWeightLog(tt.in, now))
		})
	}
}

func TestInput_ApplyStoresKilograms(t *testing.T) {
	var l Log
	Input{Weight: 100, Unit: " LBS ", LoggedAt: ptr(now), Notes: ptr("  ")}.Apply(&l)

	assert.Equal(t, "lbs", l.Unit)
	assert.InDelta(t, 45.3592, l.WeightKg, 1e-9)
	assert.Nil(t, l.Notes)

	back := InputFrom(&l)
	assert.Equal(t, "lbs", back.Unit)
	assert.InDelta(t, 100, back.Weight, 1e-3)
}
