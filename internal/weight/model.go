package weight

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Log is a weight measurement. WeightKg is always canonical kilograms;
// Unit records what the user entered so it can be shown back.
type Log struct {
	ID     uuid.UUID `gorm:"primaryKey"`
	UserID uuid.UUID `gorm:"index;not null"`

	WeightKg float64   `gorm:"not null"`
	Unit     string    `gorm:"size:10;not null"`
	LoggedAt time.Time `gorm:"index;not null"`

	BodyFatPercentage *float64
	MuscleMass        *float64
	Notes             *string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Log) TableName() string { return "weight_logs" }

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
