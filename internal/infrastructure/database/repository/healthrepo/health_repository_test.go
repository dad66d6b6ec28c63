package healthrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// dryRunDB builds statements without a server and records the SQL of every
// create and query.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	var statements []string
	capture := func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	}
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:capture_create", capture))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", capture))
	return db, &statements
}

func TestUpsertWorkoutSet_ConflictKey(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewRepository(db)

	set := &health.WorkoutSet{
		WorkoutDate:  time.Date(2025, 10, 25, 18, 30, 0, 0, time.UTC),
		ExerciseName: "Squat",
		WeightKg:     100,
		Repetitions:  5,
		SetNumber:    3,
	}
	require.NoError(t, repo.UpsertWorkoutSet(context.Background(), set))

	assert.NotEmpty(t, set.ID)
	require.Len(t, *statements, 1)
	sql := (*statements)[0]
	assert.Contains(t, sql, `INSERT INTO "manual_workouts"`)
	assert.Contains(t, sql, `ON CONFLICT ("workout_date","exercise_name","set_number") DO UPDATE SET`)
	assert.Contains(t, sql, `"weight_kg"="excluded"."weight_kg"`)
}

func TestListSleep_RangeNewestFirst(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewRepository(db)

	window := health.DateRange{
		Start: time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC),
	}
	_, err := repo.ListSleep(context.Background(), window)
	require.NoError(t, err)

	require.Len(t, *statements, 1)
	sql := (*statements)[0]
	assert.Contains(t, sql, `FROM "oura_sleep"`)
	assert.Contains(t, sql, "day BETWEEN")
	assert.Contains(t, sql, "ORDER BY day DESC")
}

func TestUpsertPolarExercises_DeduplicatesBatch(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewRepository(db)

	n, err := repo.UpsertPolarExercises(context.Background(), []health.PolarExercise{
		{PolarUserID: 1, PolarExerciseID: 10, StartTime: "2025-10-20T07:00:00", Sport: "RUNNING"},
		{PolarUserID: 1, PolarExerciseID: 11, StartTime: "2025-10-21T07:00:00", Sport: "CYCLING"},
		{PolarUserID: 1, PolarExerciseID: 10, StartTime: "2025-10-20T07:00:00", Sport: "TRAIL_RUNNING"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, *statements, 1)
	assert.Contains(t, (*statements)[0], `ON CONFLICT ("polar_exercise_id") DO UPDATE SET`)
}

func TestUpsertPolarActivities_EmptyBatch(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewRepository(db)

	n, err := repo.UpsertPolarActivities(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, *statements)
}
