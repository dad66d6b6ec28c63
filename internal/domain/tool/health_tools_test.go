package tool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/health-assistant/internal/domain/health"
)

func invoke(t *testing.T, tools *HealthTools, kind Kind, raw ...string) string {
	t.Helper()
	for _, d := range tools.Descriptors() {
		if d.Kind != kind {
			continue
		}
		args, err := Coerce(d, raw)
		require.NoError(t, err)
		out, err := d.Invoke(context.Background(), args)
		require.NoError(t, err)
		return out
	}
	t.Fatalf("kind %s not in tool set", kind)
	return ""
}

func TestSleepScore_LooksUpRequestedDay(t *testing.T) {
	var asked time.Time
	store := &MockStore{
		GetSleepByDayFunc: func(ctx context.Context, day time.Time) (*health.SleepRecord, error) {
			asked = day
			return &health.SleepRecord{
				Day:                day,
				Score:              intPtr(82),
				TotalSleepDuration: intPtr(7*3600 + 25*60),
				Efficiency:         intPtr(91),
			}, nil
		},
	}
	tools := NewHealthTools(store, 3, fixedNow("2025-10-25"))

	out := invoke(t, tools, KindSleepScore, "2025-10-24")
	assert.Equal(t, "2025-10-24", health.FormatDate(asked))
	assert.Equal(t, "Sleep data for 2025-10-24:\n- Score: 82\n- Total sleep: 7h 25m\n- Efficiency: 91%", out)
}

func TestSleepScore_NoDataAndBadDate(t *testing.T) {
	tools := NewHealthTools(&MockStore{}, 3, fixedNow("2025-10-25"))

	assert.Equal(t, "No Oura sleep data found for 2025-10-24.", invoke(t, tools, KindSleepScore, "2025-10-24"))
	assert.Contains(t, invoke(t, tools, KindSleepScore, "yesterday"), "expected YYYY-MM-DD")
}

func TestActivitySteps_Format(t *testing.T) {
	store := &MockStore{
		GetActivityByDayFunc: func(ctx context.Context, day time.Time) (*health.ActivityRecord, error) {
			return &health.ActivityRecord{Day: day, Steps: 12345, ActiveCalories: intPtr(410)}, nil
		},
	}
	tools := NewHealthTools(store, 3, fixedNow("2025-10-25"))

	out := invoke(t, tools, KindActivitySteps, "2025-10-24")
	assert.Equal(t, "Activity data for 2025-10-24:\n- Steps: 12,345\n- Active calories: 410\n- Activity score: N/A", out)
	assert.Equal(t, "No activity data found for 2025-10-23.",
		invoke(t, NewHealthTools(&MockStore{}, 3, nil), KindActivitySteps, "2025-10-23"))
}

func TestReadinessReport_DefaultWindow(t *testing.T) {
	var got health.DateRange
	store := &MockStore{
		ListSleepFunc: func(ctx context.Context, window health.DateRange) ([]health.SleepRecord, error) {
			got = window
			return nil, nil
		},
	}
	tools := NewHealthTools(store, 3, fixedNow("2025-10-25"))

	out := invoke(t, tools, KindReadinessReport)
	assert.Equal(t, "2025-10-22 to 2025-10-25", got.String())
	assert.Equal(t, NoDataSentinel, out)
}

func TestResolveWindow(t *testing.T) {
	today := mustDate("2025-10-25")
	start := mustDate("2025-10-01")
	end := mustDate("2025-10-10")
	late := mustDate("2025-10-30")

	tests := []struct {
		name       string
		start, end *time.Time
		want       string
	}{
		{"defaults", nil, nil, "2025-10-22 to 2025-10-25"},
		{"start only", &start, nil, "2025-10-01 to 2025-10-25"},
		{"end only", nil, &end, "2025-10-07 to 2025-10-10"},
		{"both", &start, &end, "2025-10-01 to 2025-10-10"},
		{"inverted falls back", &late, &end, "2025-10-22 to 2025-10-25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveWindow(today, 3, tt.start, tt.end).String())
		})
	}
}

func TestMaxPerExercise(t *testing.T) {
	sets := []health.WorkoutSet{
		{WorkoutDate: mustDate("2025-10-24"), ExerciseName: "Bench Press", WeightKg: 100, Repetitions: 3},
		{WorkoutDate: mustDate("2025-10-24"), ExerciseName: "Squat", WeightKg: 120, Repetitions: 5},
		{WorkoutDate: mustDate("2025-10-23"), ExerciseName: "Bench Press", WeightKg: 80, Repetitions: 5},
		{WorkoutDate: mustDate("2025-10-22"), ExerciseName: "Squat", WeightKg: 120, Repetitions: 8},
	}

	got := MaxPerExercise(sets)
	require.Len(t, got, 2)
	assert.Equal(t, ExerciseMax{Exercise: "Bench Press", WeightKg: 100, Repetitions: 3, Date: mustDate("2025-10-24")}, got[0])
	assert.Equal(t, 5, got[1].Repetitions, "ties keep the newest set")
}

func TestMaxPerExercise_HeavierOlderSetWins(t *testing.T) {
	sets := []health.WorkoutSet{
		{WorkoutDate: mustDate("2025-10-24"), ExerciseName: "Bench Press", WeightKg: 80, Repetitions: 5},
		{WorkoutDate: mustDate("2025-10-23"), ExerciseName: "Bench Press", WeightKg: 100, Repetitions: 3},
	}
	got := MaxPerExercise(sets)
	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].WeightKg)
	assert.Equal(t, "2025-10-23", health.FormatDate(got[0].Date))
}

func TestRenderReadinessReport(t *testing.T) {
	window := health.DateRange{Start: mustDate("2025-10-22"), End: mustDate("2025-10-25")}
	sleep := []health.SleepRecord{
		{Day: mustDate("2025-10-25"), Score: intPtr(65), TotalSleepDuration: intPtr(6*3600 + 10*60), Efficiency: intPtr(84)},
	}
	sets := []health.WorkoutSet{
		{WorkoutDate: mustDate("2025-10-24"), ExerciseName: "Bench Press", WeightKg: 100, Repetitions: 3},
		{WorkoutDate: mustDate("2025-10-23"), ExerciseName: "Bench Press", WeightKg: 80, Repetitions: 5},
	}

	want := "--- HEALTH READINESS REPORT (2025-10-22 to 2025-10-25) ---\n" +
		"\nSLEEP SUMMARY:\n" +
		" - 2025-10-25: Score 65, Duration 6h 10m, Efficiency 84%\n" +
		"\nACTIVITY SUMMARY: No data available\n" +
		"\nRECENT WORKOUTS:\n" +
		" - Bench Press: Max 100.0kg x 3 reps on 2025-10-24\n"
	assert.Equal(t, want, RenderReadinessReport(window, sleep, nil, sets))
	assert.Equal(t, NoDataSentinel, RenderReadinessReport(window, nil, nil, nil))
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "100.0", FormatWeight(100))
	assert.Equal(t, "80.5", FormatWeight(80.5))
	assert.Equal(t, "1,234,567", groupThousands(1234567))
	assert.Equal(t, "999", groupThousands(999))
}

func TestDescriptors_Schemas(t *testing.T) {
	tools := NewHealthTools(&MockStore{}, 3, nil)
	for _, d := range tools.Descriptors() {
		require.NotNil(t, d.Schema, d.Name())
	}
	gym := tools.Descriptors()[2]
	require.Equal(t, KindLogGymSet, gym.Kind)
	_, ok := gym.Schema.Properties.Get("weight")
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"date_str", "exercise", "weight", "reps", "sets"}, gym.Schema.Required)
}
