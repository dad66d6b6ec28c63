// Package health holds the time-series records kept in the fact store and
// the read/write contracts the assistant and the ingestion jobs rely on.
package health

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format every tool argument uses.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO (YYYY-MM-DD) date into a UTC midnight time.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return d, nil
}

// FormatDate renders a day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Truncate drops the clock part of t, keeping its calendar day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	day = Truncate(day)
	return !day.Before(Truncate(r.Start)) && !day.After(Truncate(r.End))
}

// Valid reports whether Start <= End.
func (r DateRange) Valid() bool {
	return !Truncate(r.Start).After(Truncate(r.End))
}

func (r DateRange) String() string {
	return FormatDate(r.Start) + " to " + FormatDate(r.End)
}

// SleepRecord is one Oura daily sleep entry.
type SleepRecord struct {
	ID                 string
	Day                time.Time
	Score              *int
	TotalSleepDuration *int // seconds
	DeepSleepDuration  *int
	LightSleepDuration *int
	RemSleepDuration   *int
	AwakeTime          *int
	Efficiency         *int
	Latency            *int
	AverageHRV         *float64
	AverageHeartRate   *float64
	LowestHeartRate    *int
	BedtimeStart       *time.Time
	BedtimeEnd         *time.Time
	RawData            json.RawMessage
}

// ActivityRecord is one Oura daily activity entry.
type ActivityRecord struct {
	ID                        string
	Day                       time.Time
	Score                     *int
	Steps                     int
	ActiveCalories            *int
	TotalCalories             *int
	EquivalentWalkingDistance *int
	HighActivityTime          *int
	MediumActivityTime        *int
	LowActivityTime           *int
	SedentaryTime             *int
	AverageMET                *float64
	RawData                   json.RawMessage
}

// ReadinessRecord is one Oura daily readiness entry.
type ReadinessRecord struct {
	ID                        string
	Day                       time.Time
	Score                     *int
	TemperatureDeviation      *float64
	TemperatureTrendDeviation *float64
	RawData                   json.RawMessage
}

// HeartRateSample is a single Oura heart-rate reading, keyed by timestamp.
type HeartRateSample struct {
	Timestamp time.Time
	BPM       int
	Source    string
}

// WorkoutSet is one manually logged strength-training set.
type WorkoutSet struct {
	ID           string
	WorkoutDate  time.Time
	ExerciseName string
	WeightKg     float64
	Repetitions  int
	SetNumber    int
	CreatedAt    time.Time
}

// PolarExercise is a training session pulled from Polar AccessLink.
type PolarExercise struct {
	PolarUserID     int64
	PolarExerciseID int64
	StartTime       string
	Duration        string
	Sport           string
	Distance        *float64
	Calories        *int
	AverageHR       *int
	MaxHR           *int
}

// PolarDailyActivity is a Polar daily activity summary.
type PolarDailyActivity struct {
	PolarUserID        string
	PolarTransactionID int64
	Date               string
	Calories           *int
	ActiveCalories     *int
	Duration           string
	ActiveSteps        *int
}

// SleepHours converts a duration in seconds into whole hours and minutes.
func SleepHours(seconds int) (hours, minutes int) {
	return seconds / 3600, (seconds % 3600) / 60
}
