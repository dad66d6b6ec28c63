package healthrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/janhq/health-assistant/internal/domain/health"
	"github.com/janhq/health-assistant/internal/infrastructure/database/dbschema"
	"github.com/janhq/health-assistant/internal/utils/platformerrors"
)

// Repository is the Postgres-backed fact store.
type Repository struct {
	db *gorm.DB
}

var (
	_ health.Store            = (*Repository)(nil)
	_ health.IngestRepository = (*Repository)(nil)
)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetSleepByDay(ctx context.Context, day time.Time) (*health.SleepRecord, error) {
	var row dbschema.OuraSleep
	err := r.db.WithContext(ctx).
		Where("day = ?", health.Truncate(day)).
		First(&row).Error
	if err != nil {
		return nil, notFoundOr(ctx, err, "failed to fetch sleep record")
	}
	return row.EtoD(), nil
}

func (r *Repository) ListSleep(ctx context.Context, window health.DateRange) ([]health.SleepRecord, error) {
	var rows []dbschema.OuraSleep
	if err := r.db.WithContext(ctx).
		Where("day BETWEEN ? AND ?", health.Truncate(window.Start), health.Truncate(window.End)).
		Order("day DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list sleep records")
	}
	result := make([]health.SleepRecord, 0, len(rows))
	for i := range rows {
		result = append(result, *rows[i].EtoD())
	}
	return result, nil
}

func (r *Repository) RecentSleep(ctx context.Context, limit int) ([]health.SleepRecord, error) {
	var rows []dbschema.OuraSleep
	if err := r.db.WithContext(ctx).
		Order("day DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list recent sleep")
	}
	result := make([]health.SleepRecord, 0, len(rows))
	for i := range rows {
		result = append(result, *rows[i].EtoD())
	}
	return result, nil
}

func (r *Repository) GetActivityByDay(ctx context.Context, day time.Time) (*health.ActivityRecord, error) {
	var row dbschema.OuraActivity
	err := r.db.WithContext(ctx).
		Where("day = ?", health.Truncate(day)).
		First(&row).Error
	if err != nil {
		return nil, notFoundOr(ctx, err, "failed to fetch activity record")
	}
	return row.EtoD(), nil
}

func (r *Repository) ListActivity(ctx context.Context, window health.DateRange) ([]health.ActivityRecord, error) {
	var rows []dbschema.OuraActivity
	if err := r.db.WithContext(ctx).
		Where("day BETWEEN ? AND ?", health.Truncate(window.Start), health.Truncate(window.End)).
		Order("day DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list activity records")
	}
	result := make([]health.ActivityRecord, 0, len(rows))
	for i := range rows {
		result = append(result, *rows[i].EtoD())
	}
	return result, nil
}

func (r *Repository) ListWorkoutSets(ctx context.Context, window health.DateRange) ([]health.WorkoutSet, error) {
	var rows []dbschema.ManualWorkout
	if err := r.db.WithContext(ctx).
		Where("workout_date BETWEEN ? AND ?", health.Truncate(window.Start), health.Truncate(window.End)).
		Order("workout_date DESC, exercise_name ASC, set_number ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list workout sets")
	}
	result := make([]health.WorkoutSet, 0, len(rows))
	for i := range rows {
		result = append(result, *rows[i].EtoD())
	}
	return result, nil
}

// UpsertWorkoutSet writes a set, replacing weight and reps when the
// (date, exercise, set number) key already exists.
func (r *Repository) UpsertWorkoutSet(ctx context.Context, set *health.WorkoutSet) error {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}

	row := dbschema.NewSchemaManualWorkout(set)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "workout_date"}, {Name: "exercise_name"}, {Name: "set_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"weight_kg", "repetitions", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to upsert workout set")
	}
	return nil
}

func (r *Repository) UpsertSleep(ctx context.Context, rec *health.SleepRecord) error {
	row := dbschema.NewSchemaOuraSleep(rec)
	if err := r.upsertByKey(ctx, row, "id"); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to upsert sleep record")
	}
	return nil
}

func (r *Repository) UpsertActivity(ctx context.Context, rec *health.ActivityRecord) error {
	row := dbschema.NewSchemaOuraActivity(rec)
	if err := r.upsertByKey(ctx, row, "id"); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to upsert activity record")
	}
	return nil
}

func (r *Repository) UpsertReadiness(ctx context.Context, rec *health.ReadinessRecord) error {
	row := dbschema.NewSchemaOuraReadiness(rec)
	if err := r.upsertByKey(ctx, row, "id"); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to upsert readiness record")
	}
	return nil
}

func (r *Repository) UpsertHeartRate(ctx context.Context, sample *health.HeartRateSample) error {
	row := dbschema.NewSchemaOuraHeartRate(sample)
	if err := r.upsertByKey(ctx, row, "timestamp"); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to upsert heart rate sample")
	}
	return nil
}

func (r *Repository) UpsertPolarExercises(ctx context.Context, exercises []health.PolarExercise) (int, error) {
	if len(exercises) == 0 {
		return 0, nil
	}
	// A batch may not touch the same conflict key twice; the last copy wins.
	index := make(map[int64]int, len(exercises))
	rows := make([]*dbschema.PolarExercise, 0, len(exercises))
	for i := range exercises {
		row := dbschema.NewSchemaPolarExercise(&exercises[i])
		if at, seen := index[row.PolarExerciseID]; seen {
			rows[at] = row
			continue
		}
		index[row.PolarExerciseID] = len(rows)
		rows = append(rows, row)
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "polar_exercise_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"polar_user_id", "start_time", "duration", "sport", "distance",
				"calories", "average_hr", "max_hr", "updated_at",
			}),
		}).
		Create(&rows).Error
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to upsert polar exercises")
	}
	return len(rows), nil
}

func (r *Repository) UpsertPolarActivities(ctx context.Context, activities []health.PolarDailyActivity) (int, error) {
	if len(activities) == 0 {
		return 0, nil
	}
	index := make(map[string]int, len(activities))
	rows := make([]*dbschema.PolarDailyActivity, 0, len(activities))
	for i := range activities {
		row := dbschema.NewSchemaPolarDailyActivity(&activities[i])
		if at, seen := index[row.Date]; seen {
			rows[at] = row
			continue
		}
		index[row.Date] = len(rows)
		rows = append(rows, row)
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"polar_user_id", "polar_transaction_id", "calories", "active_calories",
				"duration", "active_steps", "updated_at",
			}),
		}).
		Create(&rows).Error
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to upsert polar activities")
	}
	return len(rows), nil
}

func (r *Repository) upsertByKey(ctx context.Context, row any, key string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: key}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func notFoundOr(ctx context.Context, err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, message, health.ErrNotFound)
	}
	return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, message)
}
