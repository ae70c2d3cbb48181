package medicine

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxNameLen         = 100
	MaxDoseLen         = 50
	MaxTextLen         = 500
	MaxDosageTakenLen  = 100
	MaxIntervalMinutes = 43200
	MaxMealTimings     = 5

	// MaxLogAge bounds how far back an intake can be logged.
	MaxLogAge = 365 * 24 * time.Hour

	// DuplicateWindow is the proximity within which a second intake of the
	// same medicine is rejected.
	DuplicateWindow = 5 * time.Minute
)

// Input is the writable shape of a Medicine. Updates decode the request
// body over InputFrom(existing), so absent JSON fields keep their values.
type Input struct {
	Name            string   `json:"name"`
	Dose            string   `json:"dose"`
	ScheduleType    string   `json:"schedule_type"`
	IntervalMinutes *int     `json:"interval_minutes"`
	IntervalDays    *int     `json:"interval_days"`
	MealTiming      []string `json:"meal_timing"`
	Instructions    *string  `json:"instructions"`
	Notes           *string  `json:"notes"`
	Active          *bool    `json:"active"`
}

func InputFrom(m *Medicine) Input {
	in := Input{
		Name:            m.Name,
		Dose:            m.Dose,
		ScheduleType:    string(m.ScheduleType),
		IntervalMinutes: clone(m.IntervalMinutes),
		IntervalDays:    clone(m.IntervalDays),
		Instructions:    clone(m.Instructions),
		Notes:           clone(m.Notes),
	}
	for _, t := range m.MealTiming {
		in.MealTiming = append(in.MealTiming, string(t))
	}
	active := m.Active
	in.Active = &active
	return in
}

// ValidateMedicine returns every violated rule; an empty result means valid.
func ValidateMedicine(in Input) []string {
	var problems []string

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		problems = append(problems, "name is required")
	case utf8.RuneCountInString(name) > MaxNameLen:
		problems = append(problems, fmt.Sprintf("name must be at most %d characters", MaxNameLen))
	}

	dose := strings.TrimSpace(in.Dose)
	switch {
	case dose == "":
		problems = append(problems, "dose is required")
	case utf8.RuneCountInString(dose) > MaxDoseLen:
		problems = append(problems, fmt.Sprintf("dose must be at most %d characters", MaxDoseLen))
	}

	switch ScheduleType(strings.TrimSpace(in.ScheduleType)) {
	case ScheduleInterval:
		problems = append(problems, validateInterval(in)...)
	case ScheduleMealBased:
		problems = append(problems, validateMealTiming(in.MealTiming)...)
	case "":
		problems = append(problems, "schedule type is required")
	default:
		problems = append(problems, fmt.Sprintf("schedule type must be %q or %q", ScheduleInterval, ScheduleMealBased))
	}

	problems = append(problems, checkLen("instructions", in.Instructions, MaxTextLen)...)
	problems = append(problems, checkLen("notes", in.Notes, MaxTextLen)...)
	return problems
}

func validateInterval(in Input) []string {
	var problems []string
	if in.IntervalMinutes == nil {
		problems = append(problems, "interval minutes required")
	} else if m := *in.IntervalMinutes; m < 1 || m > MaxIntervalMinutes {
		problems = append(problems, fmt.Sprintf("interval minutes must be between 1 and %d", MaxIntervalMinutes))
	}
	if in.IntervalDays != nil && *in.IntervalDays <= 0 {
		problems = append(problems, "interval days must be greater than 0")
	}
	return problems
}

func validateMealTiming(timing []string) []string {
	if len(timing) == 0 {
		return []string{"meal timing required"}
	}
	var problems []string
	if len(timing) > MaxMealTimings {
		problems = append(problems, fmt.Sprintf("meal timing must have at most %d entries", MaxMealTimings))
	}
	for _, t := range timing {
		if !MealTiming(t).Valid() {
			problems = append(problems, fmt.Sprintf("invalid meal timing %q (allowed: %s, %s, %s)", t, BeforeMeal, AfterMeal, WithMeal))
		}
	}
	return problems
}

// Schedule converts a validated Input into its typed schedule.
func (in Input) Schedule() Schedule {
	if ScheduleType(strings.TrimSpace(in.ScheduleType)) == ScheduleInterval {
		s := IntervalSchedule{Days: in.IntervalDays}
		if in.IntervalMinutes != nil {
			s.Minutes = *in.IntervalMinutes
		}
		return s
	}
	timing := make([]MealTiming, 0, len(in.MealTiming))
	for _, t := range in.MealTiming {
		timing = append(timing, MealTiming(t))
	}
	return MealSchedule{Timing: timing}
}

// Apply copies a validated Input onto m. Active defaults to true for new medicines.
func (in Input) Apply(m *Medicine) {
	m.Name = strings.TrimSpace(in.Name)
	m.Dose = strings.TrimSpace(in.Dose)
	m.SetSchedule(in.Schedule())
	m.Instructions = trimOptional(in.Instructions)
	m.Notes = trimOptional(in.Notes)
	if in.Active != nil {
		m.Active = *in.Active
	} else if m.ID == uuid.Nil {
		m.Active = true
	}
}

// LogInput is the writable shape of an intake log.
type LogInput struct {
	MedicineID  uuid.UUID  `json:"medicine_id"`
	TakenAt     *time.Time `json:"taken_at"`
	DosageTaken *string    `json:"dosage_taken"`
	Notes       *string    `json:"notes"`
}

func LogInputFrom(l *Log) LogInput {
	takenAt := l.TakenAt
	return LogInput{
		MedicineID:  l.MedicineID,
		TakenAt:     &takenAt,
		DosageTaken: clone(l.DosageTaken),
		Notes:       clone(l.Notes),
	}
}

// ValidateMedicineLog returns every violated rule for an intake at now.
func ValidateMedicineLog(in LogInput, now time.Time) []string {
	var problems []string
	if in.MedicineID == uuid.Nil {
		problems = append(problems, "medicine id is required")
	}
	switch {
	case in.TakenAt == nil:
		problems = append(problems, "taken at is required")
	case in.TakenAt.After(now):
		problems = append(problems, "taken at cannot be in the future")
	case in.TakenAt.Before(now.Add(-MaxLogAge)):
		problems = append(problems, "taken at cannot be more than 365 days in the past")
	}
	problems = append(problems, checkLen("dosage taken", in.DosageTaken, MaxDosageTakenLen)...)
	problems = append(problems, checkLen("notes", in.Notes, MaxTextLen)...)
	return problems
}

func (in LogInput) Apply(l *Log) {
	l.MedicineID = in.MedicineID
	if in.TakenAt != nil {
		l.TakenAt = in.TakenAt.UTC()
	}
	l.DosageTaken = trimOptional(in.DosageTaken)
	l.Notes = trimOptional(in.Notes)
}

// IsDuplicate reports whether two intakes of the same medicine fall within DuplicateWindow.
func IsDuplicate(existing, candidate time.Time) bool {
	d := candidate.Sub(existing)
	if d < 0 {
		d = -d
	}
	return d <= DuplicateWindow
}

func checkLen(field string, v *string, max int) []string {
	if v != nil && utf8.RuneCountInString(*v) > max {
		return []string{fmt.Sprintf("%s must be at most %d characters", field, max)}
	}
	return nil
}

// clone copies a pointer target so decoding over an Input never writes into the stored row.
func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
