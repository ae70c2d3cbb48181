package medicine

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"medtrack/internal/errs"
)

type ScheduleType string

const (
	ScheduleInterval  ScheduleType = "interval"
	ScheduleMealBased ScheduleType = "meal_based"
)

type MealTiming string

const (
	BeforeMeal MealTiming = "before_meal"
	AfterMeal  MealTiming = "after_meal"
	WithMeal   MealTiming = "with_meal"
)

func (m MealTiming) Valid() bool {
	switch m {
	case BeforeMeal, AfterMeal, WithMeal:
		return true
	}
	return false
}

// Medicine is a user-owned schedule definition.
// Exactly one of the interval fields or MealTiming is populated, matching ScheduleType.
type Medicine struct {
	ID     uuid.UUID `gorm:"primaryKey"`
	UserID uuid.UUID `gorm:"index;not null"`

	Name string `gorm:"size:100;not null"`
	Dose string `gorm:"size:50;not null"`

	ScheduleType    ScheduleType `gorm:"size:20;not null"`
	IntervalMinutes *int
	IntervalDays    *int
	MealTiming      []MealTiming `gorm:"serializer:json;type:text"`

	Instructions *string `gorm:"size:500"`
	Notes        *string `gorm:"size:500"`
	Active       bool    `gorm:"index;not null"`

	Logs []Log `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Log is an intake event for a medicine.
type Log struct {
	ID         uuid.UUID `gorm:"primaryKey"`
	UserID     uuid.UUID `gorm:"index;not null"`
	MedicineID uuid.UUID `gorm:"index;not null"`

	TakenAt     time.Time `gorm:"index;not null"`
	DosageTaken *string   `gorm:"size:100"`
	Notes       *string   `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Log) TableName() string { return "medicine_logs" }

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Schedule is either an IntervalSchedule or a MealSchedule.
type Schedule interface {
	Type() ScheduleType
	isSchedule()
}

type IntervalSchedule struct {
	Minutes int
	Days    *int
}

func (IntervalSchedule) Type() ScheduleType { return ScheduleInterval }
func (IntervalSchedule) isSchedule()        {}

func (s IntervalSchedule) Interval() time.Duration {
	return time.Duration(s.Minutes) * time.Minute
}

type MealSchedule struct {
	Timing []MealTiming
}

func (MealSchedule) Type() ScheduleType { return ScheduleMealBased }
func (MealSchedule) isSchedule()        {}

// Schedule builds the typed schedule from the stored columns.
// It fails only for rows that never went through ValidateMedicine.
func (m *Medicine) Schedule() (Schedule, error) {
	switch m.ScheduleType {
	case ScheduleInterval:
		if m.IntervalMinutes == nil || *m.IntervalMinutes <= 0 {
			return nil, errs.ErrInvalidSchedule
		}
		return IntervalSchedule{Minutes: *m.IntervalMinutes, Days: m.IntervalDays}, nil
	case ScheduleMealBased:
		if len(m.MealTiming) == 0 {
			return nil, errs.ErrInvalidSchedule
		}
		return MealSchedule{Timing: append([]MealTiming(nil), m.MealTiming...)}, nil
	default:
		return nil, errs.ErrInvalidSchedule
	}
}

// SetSchedule stores s in the schedule columns and clears the other variant.
func (m *Medicine) SetSchedule(s Schedule) {
	switch v := s.(type) {
	case IntervalSchedule:
		minutes := v.Minutes
		m.ScheduleType = ScheduleInterval
		m.IntervalMinutes = &minutes
		m.IntervalDays = v.Days
		m.MealTiming = nil
	case MealSchedule:
		m.ScheduleType = ScheduleMealBased
		m.IntervalMinutes = nil
		m.IntervalDays = nil
		m.MealTiming = append([]MealTiming(nil), v.Timing...)
	}
}
