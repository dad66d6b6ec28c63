package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/janhq/health-assistant/internal/domain/health"
)

var errMissingKey = errors.New("record is missing its id or day")

type ouraSleepDTO struct {
	ID                 string   `json:"id"`
	Day                string   `json:"day"`
	BedtimeStart       *string  `json:"bedtime_start"`
	BedtimeEnd         *string  `json:"bedtime_end"`
	TotalSleepDuration *int     `json:"total_sleep_duration"`
	DeepSleepDuration  *int     `json:"deep_sleep_duration"`
	LightSleepDuration *int     `json:"light_sleep_duration"`
	RemSleepDuration   *int     `json:"rem_sleep_duration"`
	AwakeTime          *int     `json:"awake_time"`
	Efficiency         *int     `json:"efficiency"`
	Latency            *int     `json:"latency"`
	AverageHRV         *float64 `json:"average_hrv"`
	AverageHeartRate   *float64 `json:"average_heart_rate"`
	LowestHeartRate    *int     `json:"lowest_heart_rate"`
	Score              *int     `json:"score"`
}

type ouraActivityDTO struct {
	ID                        string   `json:"id"`
	Day                       string   `json:"day"`
	Score                     *int     `json:"score"`
	ActiveCalories            *int     `json:"active_calories"`
	TotalCalories             *int     `json:"total_calories"`
	Steps                     *int     `json:"steps"`
	EquivalentWalkingDistance *int     `json:"equivalent_walking_distance"`
	HighActivityTime          *int     `json:"high_activity_time"`
	MediumActivityTime        *int     `json:"medium_activity_time"`
	LowActivityTime           *int     `json:"low_activity_time"`
	SedentaryTime             *int     `json:"sedentary_time"`
	AverageMET                *float64 `json:"average_met"`
}

type ouraReadinessDTO struct {
	ID                        string   `json:"id"`
	Day                       string   `json:"day"`
	Score                     *int     `json:"score"`
	TemperatureDeviation      *float64 `json:"temperature_deviation"`
	TemperatureTrendDeviation *float64 `json:"temperature_trend_deviation"`
}

type ouraHeartRateDTO struct {
	Timestamp string `json:"timestamp"`
	BPM       int    `json:"bpm"`
	Source    string `json:"source"`
}

// DecodeSleep maps a daily_sleep payload, keeping the raw JSON.
func DecodeSleep(raw json.RawMessage) (*health.SleepRecord, error) {
	var dto ouraSleepDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode sleep: %w", err)
	}
	day, err := recordDay(dto.ID, dto.Day)
	if err != nil {
		return nil, err
	}
	return &health.SleepRecord{
		ID:                 dto.ID,
		Day:                day,
		Score:              dto.Score,
		TotalSleepDuration: dto.TotalSleepDuration,
		DeepSleepDuration:  dto.DeepSleepDuration,
		LightSleepDuration: dto.LightSleepDuration,
		RemSleepDuration:   dto.RemSleepDuration,
		AwakeTime:          dto.AwakeTime,
		Efficiency:         dto.Efficiency,
		Latency:            dto.Latency,
		AverageHRV:         dto.AverageHRV,
		AverageHeartRate:   dto.AverageHeartRate,
		LowestHeartRate:    dto.LowestHeartRate,
		BedtimeStart:       parseTimestamp(dto.BedtimeStart),
		BedtimeEnd:         parseTimestamp(dto.BedtimeEnd),
		RawData:            raw,
	}, nil
}

// DecodeActivity maps a daily_activity payload. Missing steps count as zero.
func DecodeActivity(raw json.RawMessage) (*health.ActivityRecord, error) {
	var dto ouraActivityDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	day, err := recordDay(dto.ID, dto.Day)
	if err != nil {
		return nil, err
	}
	rec := &health.ActivityRecord{
		ID:                        dto.ID,
		Day:                       day,
		Score:                     dto.Score,
		ActiveCalories:            dto.ActiveCalories,
		TotalCalories:             dto.TotalCalories,
		EquivalentWalkingDistance: dto.EquivalentWalkingDistance,
		HighActivityTime:          dto.HighActivityTime,
		MediumActivityTime:        dto.MediumActivityTime,
		LowActivityTime:           dto.LowActivityTime,
		SedentaryTime:             dto.SedentaryTime,
		AverageMET:                dto.AverageMET,
		RawData:                   raw,
	}
	if dto.Steps != nil {
		rec.Steps = *dto.Steps
	}
	return rec, nil
}

// DecodeReadiness maps a daily_readiness payload.
func DecodeReadiness(raw json.RawMessage) (*health.ReadinessRecord, error) {
	var dto ouraReadinessDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode readiness: %w", err)
	}
	day, err := recordDay(dto.ID, dto.Day)
	if err != nil {
		return nil, err
	}
	return &health.ReadinessRecord{
		ID:                        dto.ID,
		Day:                       day,
		Score:                     dto.Score,
		TemperatureDeviation:      dto.TemperatureDeviation,
		TemperatureTrendDeviation: dto.TemperatureTrendDeviation,
		RawData:                   raw,
	}, nil
}

// DecodeHeartRate maps one heartrate sample.
func DecodeHeartRate(raw json.RawMessage) (*health.HeartRateSample, error) {
	var dto ouraHeartRateDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode heart rate: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, dto.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("heart rate timestamp %q: %w", dto.Timestamp, err)
	}
	return &health.HeartRateSample{Timestamp: ts.UTC(), BPM: dto.BPM, Source: dto.Source}, nil
}

// MapExercise converts an AccessLink exercise. Summaries without a numeric
// id or a start time are rejected.
func MapExercise(s *ExerciseSummary, fallbackUserID string) (*health.PolarExercise, error) {
	id, err := parsePolarID(s.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.StartTime) == "" {
		return nil, fmt.Errorf("exercise %d has no start time", id)
	}

	userID, err := strconv.ParseInt(lastSegment(s.PolarUser, fallbackUserID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("exercise %d: polar user id: %w", id, err)
	}

	return &health.PolarExercise{
		PolarUserID:     userID,
		PolarExerciseID: id,
		StartTime:       s.StartTime,
		Duration:        s.Duration,
		Sport:           s.DetailedSportInfo,
		Distance:        s.Distance,
		Calories:        s.Calories,
		AverageHR:       s.HeartRate.Average,
		MaxHR:           s.HeartRate.Maximum,
	}, nil
}

// MapActivity converts an AccessLink daily activity; a date is required.
func MapActivity(s *ActivitySummary, transactionID int64, fallbackUserID string) (*health.PolarDailyActivity, error) {
	if strings.TrimSpace(s.Date) == "" {
		return nil, errors.New("activity summary has no date")
	}
	return &health.PolarDailyActivity{
		PolarUserID:        lastSegment(s.PolarUser, fallbackUserID),
		PolarTransactionID: transactionID,
		Date:               s.Date,
		Calories:           s.Calories,
		ActiveCalories:     s.ActiveCalories,
		Duration:           s.ActiveDuration,
		ActiveSteps:        s.ActiveSteps,
	}, nil
}

func recordDay(id, day string) (time.Time, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(day) == "" {
		return time.Time{}, errMissingKey
	}
	return health.ParseDate(day)
}

func parseTimestamp(v *string) *time.Time {
	if v == nil || *v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil
	}
	return &t
}

// parsePolarID accepts the id as a JSON number or a numeric string.
func parsePolarID(raw json.RawMessage) (int64, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, errors.New("exercise has no id")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("exercise id %q is not numeric", s)
	}
	return id, nil
}

func lastSegment(url, fallback string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		return fallback
	}
	return url[strings.LastIndex(url, "/")+1:]
}
