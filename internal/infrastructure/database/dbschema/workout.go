package dbschema

import (
	"time"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// ManualWorkout is a row of manual_workouts.
type ManualWorkout struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	WorkoutDate  time.Time `gorm:"type:date;not null;uniqueIndex:manual_workouts_set_key"`
	ExerciseName string    `gorm:"type:varchar(128);not null;uniqueIndex:manual_workouts_set_key"`
	WeightKg     float64   `gorm:"not null"`
	Repetitions  int       `gorm:"not null"`
	SetNumber    int       `gorm:"not null;uniqueIndex:manual_workouts_set_key"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ManualWorkout) TableName() string { return "manual_workouts" }

func NewSchemaManualWorkout(d *health.WorkoutSet) *ManualWorkout {
	if d == nil {
		return nil
	}
	return &ManualWorkout{
		ID:           d.ID,
		WorkoutDate:  health.Truncate(d.WorkoutDate),
		ExerciseName: d.ExerciseName,
		WeightKg:     d.WeightKg,
		Repetitions:  d.Repetitions,
		SetNumber:    d.SetNumber,
		CreatedAt:    d.CreatedAt,
	}
}

func (s *ManualWorkout) EtoD() *health.WorkoutSet {
	if s == nil {
		return nil
	}
	return &health.WorkoutSet{
		ID:           s.ID,
		WorkoutDate:  health.Truncate(s.WorkoutDate),
		ExerciseName: s.ExerciseName,
		WeightKg:     s.WeightKg,
		Repetitions:  s.Repetitions,
		SetNumber:    s.SetNumber,
		CreatedAt:    s.CreatedAt,
	}
}
