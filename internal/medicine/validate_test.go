package medicine

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func validInterval() Input {
	return Input{Name: "Ibuprofen", Dose: "200mg", ScheduleType: "interval", IntervalMinutes: ptr(480)}
}

func TestValidateMedicine(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		want   []string
	}{
		{"valid interval", func(*Input) {}, nil},
		{"valid meal based", func(in *Input) {
			in.ScheduleType = "meal_based"
			in.IntervalMinutes = nil
			in.MealTiming = []string{"before_meal", "before_meal", "with_meal"}
		}, nil},
		{"interval missing minutes", func(in *Input) { in.IntervalMinutes = nil }, []string{"interval minutes required"}},
		{"interval minutes too large", func(in *Input) { in.IntervalMinutes = ptr(43201) }, []string{"interval minutes must be between 1 and 43200"}},
		{"interval minutes zero", func(in *Input) { in.IntervalMinutes = ptr(0) }, []string{"interval minutes must be between 1 and 43200"}},
		{"interval days not positive", func(in *Input) { in.IntervalDays = ptr(0) }, []string{"interval days must be greater than 0"}},
		{"meal based missing timing", func(in *Input) { in.ScheduleType = "meal_based" }, []string{"meal timing required"}},
		{"meal based invalid timing", func(in *Input) {
			in.ScheduleType = "meal_based"
			in.MealTiming = []string{"invalid"}
		}, []string{`invalid meal timing "invalid" (allowed: before_meal, after_meal, with_meal)`}},
		{"meal timing too long", func(in *Input) {
			in.ScheduleType = "meal_based"
			in.MealTiming = []string{"with_meal", "with_meal", "with_meal", "with_meal", "with_meal", "with_meal"}
		}, []string{"meal timing must have at most 5 entries"}},
		{"unknown schedule type", func(in *Input) { in.ScheduleType = "weekly" }, []string{`schedule type must be "interval" or "meal_based"`}},
		{"missing schedule type", func(in *Input) { in.ScheduleType = "" }, []string{"schedule type is required"}},
		{"long instructions", func(in *Input) { in.Instructions = ptr(strings.Repeat("x", 501)) }, []string{"instructions must be at most 500 characters"}},
		{"everything wrong at once", func(in *Input) {
			in.Name = "  "
			in.Dose = strings.Repeat("d", 51)
			in.IntervalMinutes = nil
			in.Notes = ptr(strings.Repeat("n", 501))
		}, []string{
			"name is required",
			"dose must be at most 50 characters",
			"interval minutes required",
			"notes must be at most 500 characters",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInterval()
			tt.mutate(&in)
			assert.Equal(t, tt.want, ValidateMedicine(in))
		})
	}
}

func TestValidateMedicine_NameLengthCountsRunes(t *testing.T) {
	in := validInterval()
	in.Name = strings.Repeat("é", 100)
	assert.Empty(t, ValidateMedicine(in))

	in.Name = strings.Repeat("é", 101)
	assert.Equal(t, []string{"name must be at most 100 characters"}, ValidateMedicine(in))
}

func TestInput_ApplySwitchesSchedule(t *testing.T) {
	var m Medicine
	in := validInterval()
	in.Instructions = ptr("  ")
	in.Apply(&m)

	assert.True(t, m.Active)
	assert.Nil(t, m.Instructions)
	assert.Equal(t, 480, *m.IntervalMinutes)

	m.ID = uuid.New()
	in = InputFrom(&m)
	in.ScheduleType = "meal_based"
	in.MealTiming = []string{"after_meal"}
	in.Active = nil
	in.Apply(&m)

	assert.True(t, m.Active)
	assert.Equal(t, ScheduleMealBased, m.ScheduleType)
	assert.Nil(t, m.IntervalMinutes)
	assert.Equal(t, []MealTiming{AfterMeal}, m.MealTiming)
}

func TestValidateMedicineLog(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name string
		in   LogInput
		want []string
	}{
		{"valid", LogInput{MedicineID: id, TakenAt: ptr(now.Add(-time.Hour))}, nil},
		{"exactly now", LogInput{MedicineID: id, TakenAt: ptr(now)}, nil},
		{"future", LogInput{MedicineID: id, TakenAt: ptr(now.Add(time.Minute))}, []string{"taken at cannot be in the future"}},
		{"older than a year", LogInput{MedicineID: id, TakenAt: ptr(now.Add(-366 * 24 * time.Hour))}, []string{"taken at cannot be more than 365 days in the past"}},
		{"missing fields", LogInput{}, []string{"medicine id is required", "taken at is required"}},
		{"long dosage and notes", LogInput{
			MedicineID:  id,
			TakenAt:     ptr(now),
			DosageTaken: ptr(strings.Repeat("x", 101)),
			Notes:       ptr(strings.Repeat("x", 501)),
		}, []string{"dosage taken must be at most 100 characters", "notes must be at most 500 characters"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateMedicineLog(tt.in, now))
		})
	}
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(now, now))
	assert.True(t, IsDuplicate(now, now.Add(DuplicateWindow)))
	assert.True(t, IsDuplicate(now, now.Add(-4*time.Minute)))
	assert.False(t, IsDuplicate(now, now.Add(DuplicateWindow+time.Second)))
	assert.Equal(t, 5*time.Minute, DuplicateWindow)
}
