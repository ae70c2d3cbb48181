package weight

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"medtrack/internal/units"
)

const (
	MaxWeightKg = 1000
	MaxNotesLen = 500
)

// Earliest is the oldest accepted measurement time.
var Earliest = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Input is the writable shape of a weight log; Weight is expressed in Unit.
type Input struct {
	Weight            float64    `json:"weight"`
	Unit              string     `json:"unit"`
	LoggedAt          *time.Time `json:"logged_at"`
	BodyFatPercentage *float64   `json:"body_fat_percentage"`
	MuscleMass        *float64   `json:"muscle_mass"`
	Notes             *string    `json:"notes"`
}

// InputFrom expresses a stored log in its original unit.
func InputFrom(l *Log) Input {
	loggedAt := l.LoggedAt
	return Input{
		Weight:            units.ConvertWeight(l.WeightKg, units.KG, l.Unit),
		Unit:              l.Unit,
		LoggedAt:          &loggedAt,
		BodyFatPercentage: clone(l.BodyFatPercentage),
		MuscleMass:        clone(l.MuscleMass),
		Notes:             clone(l.Notes),
	}
}

// ValidateWeightLog returns every violated rule for a measurement entered at now.
func ValidateWeightLog(in Input, now time.Time) []string {
	var problems []string

	unitOK := units.Valid(in.Unit)
	if !unitOK {
		problems = append(problems, fmt.Sprintf("unit must be one of %s, %s, %s", units.KG, units.LBS, units.Pounds))
	}
	switch {
	case in.Weight <= 0:
		problems = append(problems, "weight must be greater than 0")
	case unitOK && units.ToKG(in.Weight, in.Unit) > MaxWeightKg:
		problems = append(problems, fmt.Sprintf("weight must be at most %d kg", MaxWeightKg))
	}

	if in.BodyFatPercentage != nil && (*in.BodyFatPercentage < 0 || *in.BodyFatPercentage > 100) {
		problems = append(problems, "body fat percentage must be between 0 and 100")
	}
	if in.MuscleMass != nil && *in.MuscleMass < 0 {
		problems = append(problems, "muscle mass must be 0 or greater")
	}

	switch {
	case in.LoggedAt == nil:
		problems = append(problems, "logged at is required")
	case in.LoggedAt.After(now):
		problems = append(problems, "logged at cannot be in the future")
	case in.LoggedAt.Before(Earliest):
		problems = append(problems, "logged at cannot be before 1900-01-01")
	}

	if in.Notes != nil && utf8.RuneCountInString(*in.Notes) > MaxNotesLen {
		problems = append(problems, fmt.Sprintf("notes must be at most %d characters", MaxNotesLen))
	}
	return problems
}

// Apply stores a validated Input on l, converting the weight to kilograms.
func (in Input) Apply(l *Log) {
	unit := units.Normalize(in.Unit)
	l.Unit = unit
	l.WeightKg = units.ToKG(in.Weight, unit)
	if in.LoggedAt != nil {
		l.LoggedAt = in.LoggedAt.UTC()
	}
	l.BodyFatPercentage = in.BodyFatPercentage
	l.MuscleMass = in.MuscleMass
	l.Notes = nil
	if in.Notes != nil {
		if s := strings.TrimSpace(*in.Notes); s != "" {
			l.Notes = &s
		}
	}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
