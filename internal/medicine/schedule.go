package medicine

import (
	"fmt"
	"time"
)

// NextDoseInfo is either an IntervalNextDose or a MealNextDose.
type NextDoseInfo interface {
	Type() ScheduleType
	isNextDose()
}

type IntervalNextDose struct {
	NextDoseAt      time.Time
	IntervalMinutes int
	IntervalDays    *int
	LastDoseAt      *time.Time
	IsOverdue       bool
}

func (IntervalNextDose) Type() ScheduleType { return ScheduleInterval }
func (IntervalNextDose) isNextDose()        {}

// MealNextDose carries no timestamp: meal schedules follow meals, not the clock.
type MealNextDose struct {
	MealTiming []MealTiming
	LastDoseAt *time.Time
}

func (MealNextDose) Type() ScheduleType { return ScheduleMealBased }
func (MealNextDose) isNextDose()        {}

// NextDose computes when the schedule expects the next intake given the
// most recent log (nil when the medicine was never taken).
func NextDose(s Schedule, last *Log, now time.Time) NextDoseInfo {
	var lastAt *time.Time
	if last != nil {
		t := last.TakenAt
		lastAt = &t
	}

	switch v := s.(type) {
	case IntervalSchedule:
		if lastAt == nil {
			return IntervalNextDose{
				NextDoseAt:      now,
				IntervalMinutes: v.Minutes,
				IntervalDays:    v.Days,
			}
		}
		next := lastAt.Add(v.Interval())
		return IntervalNextDose{
			NextDoseAt:      next,
			IntervalMinutes: v.Minutes,
			IntervalDays:    v.Days,
			LastDoseAt:      lastAt,
			IsOverdue:       next.Before(now),
		}
	case MealSchedule:
		return MealNextDose{
			MealTiming: append([]MealTiming(nil), v.Timing...),
			LastDoseAt: lastAt,
		}
	default:
		panic(fmt.Sprintf("medicine: unknown schedule %T", s))
	}
}
