package dbschema

import (
	"time"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// PolarExercise is a row of polar_exercises.
type PolarExercise struct {
	ID              uint  `gorm:"primaryKey"`
	PolarUserID     int64 `gorm:"not null"`
	PolarExerciseID int64 `gorm:"not null;uniqueIndex"`
	StartTime       string
	Duration        string
	Sport           string
	Distance        *float64
	Calories        *int
	AverageHR       *int `gorm:"column:average_hr"`
	MaxHR           *int `gorm:"column:max_hr"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PolarExercise) TableName() string { return "polar_exercises" }

func NewSchemaPolarExercise(d *health.PolarExercise) *PolarExercise {
	if d == nil {
		return nil
	}
	return &PolarExercise{
		PolarUserID:     d.PolarUserID,
		PolarExerciseID: d.PolarExerciseID,
		StartTime:       d.StartTime,
		Duration:        d.Duration,
		Sport:           d.Sport,
		Distance:        d.Distance,
		Calories:        d.Calories,
		AverageHR:       d.AverageHR,
		MaxHR:           d.MaxHR,
	}
}

// PolarDailyActivity is a row of polar_daily_activity.
type PolarDailyActivity struct {
	ID                 uint `gorm:"primaryKey"`
	PolarUserID        string
	PolarTransactionID int64
	Date               string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Calories           *int
	ActiveCalories     *int
	Duration           string
	ActiveSteps        *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (PolarDailyActivity) TableName() string { return "polar_daily_activity" }

func NewSchemaPolarDailyActivity(d *health.PolarDailyActivity) *PolarDailyActivity {
	if d == nil {
		return nil
	}
	return &PolarDailyActivity{
		PolarUserID:        d.PolarUserID,
		PolarTransactionID: d.PolarTransactionID,
		Date:               d.Date,
		Calories:           d.Calories,
		ActiveCalories:     d.ActiveCalories,
		Duration:           d.Duration,
		ActiveSteps:        d.ActiveSteps,
	}
}
