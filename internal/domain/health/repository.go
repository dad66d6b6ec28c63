package health

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by single-record lookups with no matching row.
var ErrNotFound = errors.New("record not found")

// Reader is the range-query contract the assistant tools consume.
// Range queries return records ordered newest first.
type Reader interface {
	GetSleepByDay(ctx context.Context, day time.Time) (*SleepRecord, error)
	ListSleep(ctx context.Context, window DateRange) ([]SleepRecord, error)
	RecentSleep(ctx context.Context, limit int) ([]SleepRecord, error)
	GetActivityByDay(ctx context.Context, day time.Time) (*ActivityRecord, error)
	ListActivity(ctx context.Context, window DateRange) ([]ActivityRecord, error)
	ListWorkoutSets(ctx context.Context, window DateRange) ([]WorkoutSet, error)
}

// WorkoutWriter persists manually logged sets, keyed by
// (workout_date, exercise_name, set_number).
type WorkoutWriter interface {
	UpsertWorkoutSet(ctx context.Context, set *WorkoutSet) error
}

// Store is the fact store surface used by the assistant.
type Store interface {
	Reader
	WorkoutWriter
}

// IngestRepository is the upsert surface used by vendor ingestion.
type IngestRepository interface {
	UpsertSleep(ctx context.Context, rec *SleepRecord) error
	UpsertActivity(ctx context.Context, rec *ActivityRecord) error
	UpsertReadiness(ctx context.Context, rec *ReadinessRecord) error
	UpsertHeartRate(ctx context.Context, sample *HeartRateSample) error
	UpsertPolarExercises(ctx context.Context, exercises []PolarExercise) (int, error)
	UpsertPolarActivities(ctx context.Context, activities []PolarDailyActivity) (int, error)
}
