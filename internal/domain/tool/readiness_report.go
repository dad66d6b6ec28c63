package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// NoDataSentinel is returned instead of a report when the window holds no
// sleep, activity or workout records. It means "nothing to summarize".
const NoDataSentinel = "No recent Oura or manual workout data found to generate advice."

const noSectionData = "No data available"

// ExerciseMax is the heaviest set seen for one exercise in a window.
type ExerciseMax struct {
	Exercise    string
	WeightKg    float64
	Repetitions int
	Date        time.Time
}

// MaxPerExercise keeps the heaviest set per exercise. sets must be ordered
// newest first; on equal weight the first seen (newest) set wins. Output
// order follows first appearance.
func MaxPerExercise(sets []health.WorkoutSet) []ExerciseMax {
	index := make(map[string]int, len(sets))
	out := make([]ExerciseMax, 0, len(sets))
	for _, s := range sets {
		i, seen := index[s.ExerciseName]
		if !seen {
			index[s.ExerciseName] = len(out)
			out = append(out, ExerciseMax{
				Exercise:    s.ExerciseName,
				WeightKg:    s.WeightKg,
				Repetitions: s.Repetitions,
				Date:        s.WorkoutDate,
			})
			continue
		}
		if s.WeightKg > out[i].WeightKg {
			out[i].WeightKg = s.WeightKg
			out[i].Repetitions = s.Repetitions
			out[i].Date = s.WorkoutDate
		}
	}
	return out
}

// ResolveWindow applies the readiness window defaults. A missing end is
// today, a missing start is end minus days; an inverted range is replaced
// by [today-days, today].
func ResolveWindow(today time.Time, days int, start, end *time.Time) health.DateRange {
	today = health.Truncate(today)
	def := health.DateRange{Start: today.AddDate(0, 0, -days), End: today}

	w := def
	if end != nil {
		w.End = health.Truncate(*end)
		w.Start = w.End.AddDate(0, 0, -days)
	}
	if start != nil {
		w.Start = health.Truncate(*start)
	}
	if !w.Valid() {
		return def
	}
	return w
}

func (t *HealthTools) readinessReport(ctx context.Context, args Args) (string, error) {
	var start, end *time.Time
	if d, ok := args.Date("start_date"); ok {
		start = &d
	}
	if d, ok := args.Date("end_date"); ok {
		end = &d
	}
	window := ResolveWindow(t.now(), t.windowDays, start, end)

	sleep, err := t.store.ListSleep(ctx, window)
	if err != nil {
		return "", fmt.Errorf("list sleep: %w", err)
	}
	activity, err := t.store.ListActivity(ctx, window)
	if err != nil {
		return "", fmt.Errorf("list activity: %w", err)
	}
	sets, err := t.store.ListWorkoutSets(ctx, window)
	if err != nil {
		return "", fmt.Errorf("list workout sets: %w", err)
	}

	return RenderReadinessReport(window, sleep, activity, sets), nil
}

// RenderReadinessReport formats the three-section report, or NoDataSentinel
// when every section is empty.
func RenderReadinessReport(window health.DateRange, sleep []health.SleepRecord, activity []health.ActivityRecord, sets []health.WorkoutSet) string {
	if len(sleep) == 0 && len(activity) == 0 && len(sets) == 0 {
		return NoDataSentinel
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- HEALTH READINESS REPORT (%s) ---\n", window)

	if len(sleep) == 0 {
		fmt.Fprintf(&b, "\nSLEEP SUMMARY: %s\n", noSectionData)
	} else {
		b.WriteString("\nSLEEP SUMMARY:\n")
		for _, r := range sleep {
			duration := 0
			if r.TotalSleepDuration != nil {
				duration = *r.TotalSleepDuration
			}
			h, m := health.SleepHours(duration)
			fmt.Fprintf(&b, " - %s: Score %s, Duration %dh %dm, Efficiency %s%%\n",
				health.FormatDate(r.Day), optInt(r.Score), h, m, optInt(r.Efficiency))
		}
	}

	if len(activity) == 0 {
		fmt.Fprintf(&b, "\nACTIVITY SUMMARY: %s\n", noSectionData)
	} else {
		b.WriteString("\nACTIVITY SUMMARY:\n")
		for _, r := range activity {
			fmt.Fprintf(&b, " - %s: Steps %s, Calories %s, Score %s\n",
				health.FormatDate(r.Day), groupThousands(r.Steps), optInt(r.ActiveCalories), optInt(r.Score))
		}
	}

	if len(sets) == 0 {
		fmt.Fprintf(&b, "\nRECENT WORKOUTS: %s\n", noSectionData)
	} else {
		b.WriteString("\nRECENT WORKOUTS:\n")
		for _, m := range MaxPerExercise(sets) {
			fmt.Fprintf(&b, " - %s: Max %skg x %d reps on %s\n",
				m.Exercise, FormatWeight(m.WeightKg), m.Repetitions, health.FormatDate(m.Date))
		}
	}

	return b.String()
}
