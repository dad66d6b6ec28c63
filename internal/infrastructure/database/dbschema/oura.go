package dbschema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// OuraSleep is a row of oura_sleep.
type OuraSleep struct {
	ID                 string    `gorm:"type:varchar(64);primaryKey"`
	Day                time.Time `gorm:"type:date;not null;uniqueIndex"`
	Score              *int
	TotalSleepDuration *int
	DeepSleepDuration  *int
	LightSleepDuration *int
	RemSleepDuration   *int
	AwakeTime          *int
	Efficiency         *int
	Latency            *int
	AverageHRV         *float64 `gorm:"column:average_hrv"`
	AverageHeartRate   *float64
	LowestHeartRate    *int
	BedtimeStart       *time.Time
	BedtimeEnd         *time.Time
	RawData            datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (OuraSleep) TableName() string { return "oura_sleep" }

func NewSchemaOuraSleep(d *health.SleepRecord) *OuraSleep {
	if d == nil {
		return nil
	}
	return &OuraSleep{
		ID:                 d.ID,
		Day:                health.Truncate(d.Day),
		Score:              d.Score,
		TotalSleepDuration: d.TotalSleepDuration,
		DeepSleepDuration:  d.DeepSleepDuration,
		LightSleepDuration: d.LightSleepDuration,
		RemSleepDuration:   d.RemSleepDuration,
		AwakeTime:          d.AwakeTime,
		Efficiency:         d.Efficiency,
		Latency:            d.Latency,
		AverageHRV:         d.AverageHRV,
		AverageHeartRate:   d.AverageHeartRate,
		LowestHeartRate:    d.LowestHeartRate,
		BedtimeStart:       d.BedtimeStart,
		BedtimeEnd:         d.BedtimeEnd,
		RawData:            rawJSON(d.RawData),
	}
}

func (s *OuraSleep) EtoD() *health.SleepRecord {
	if s == nil {
		return nil
	}
	return &health.SleepRecord{
		ID:                 s.ID,
		Day:                health.Truncate(s.Day),
		Score:              s.Score,
		TotalSleepDuration: s.TotalSleepDuration,
		DeepSleepDuration:  s.DeepSleepDuration,
		LightSleepDuration: s.LightSleepDuration,
		RemSleepDuration:   s.RemSleepDuration,
		AwakeTime:          s.AwakeTime,
		Efficiency:         s.Efficiency,
		Latency:            s.Latency,
		AverageHRV:         s.AverageHRV,
		AverageHeartRate:   s.AverageHeartRate,
		LowestHeartRate:    s.LowestHeartRate,
		BedtimeStart:       s.BedtimeStart,
		BedtimeEnd:         s.BedtimeEnd,
		RawData:            json.RawMessage(s.RawData),
	}
}

// OuraActivity is a row of oura_activity.
type OuraActivity struct {
	ID                        string    `gorm:"type:varchar(64);primaryKey"`
	Day                       time.Time `gorm:"type:date;not null;uniqueIndex"`
	Score                     *int
	Steps                     int `gorm:"not null;default:0"`
	ActiveCalories            *int
	TotalCalories             *int
	EquivalentWalkingDistance *int
	HighActivityTime          *int
	MediumActivityTime        *int
	LowActivityTime           *int
	SedentaryTime             *int
	AverageMET                *float64       `gorm:"column:average_met"`
	RawData                   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

func (OuraActivity) TableName() string { return "oura_activity" }

func NewSchemaOuraActivity(d *health.ActivityRecord) *OuraActivity {
	if d == nil {
		return nil
	}
	return &OuraActivity{
		ID:                        d.ID,
		Day:                       health.Truncate(d.Day),
		Score:                     d.Score,
		Steps:                     d.Steps,
		ActiveCalories:            d.ActiveCalories,
		TotalCalories:             d.TotalCalories,
		EquivalentWalkingDistance: d.EquivalentWalkingDistance,
		HighActivityTime:          d.HighActivityTime,
		MediumActivityTime:        d.MediumActivityTime,
		LowActivityTime:           d.LowActivityTime,
		SedentaryTime:             d.SedentaryTime,
		AverageMET:                d.AverageMET,
		RawData:                   rawJSON(d.RawData),
	}
}

func (s *OuraActivity) EtoD() *health.ActivityRecord {
	if s == nil {
		return nil
	}
	return &health.ActivityRecord{
		ID:                        s.ID,
		Day:                       health.Truncate(s.Day),
		Score:                     s.Score,
		Steps:                     s.Steps,
		ActiveCalories:            s.ActiveCalories,
		TotalCalories:             s.TotalCalories,
		EquivalentWalkingDistance: s.EquivalentWalkingDistance,
		HighActivityTime:          s.HighActivityTime,
		MediumActivityTime:        s.MediumActivityTime,
		LowActivityTime:           s.LowActivityTime,
		SedentaryTime:             s.SedentaryTime,
		AverageMET:                s.AverageMET,
		RawData:                   json.RawMessage(s.RawData),
	}
}

// OuraReadiness is a row of oura_readiness.
type OuraReadiness struct {
	ID                        string    `gorm:"type:varchar(64);primaryKey"`
	Day                       time.Time `gorm:"type:date;not null;uniqueIndex"`
	Score                     *int
	TemperatureDeviation      *float64
	TemperatureTrendDeviation *float64
	RawData                   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

func (OuraReadiness) TableName() string { return "oura_readiness" }

func NewSchemaOuraReadiness(d *health.ReadinessRecord) *OuraReadiness {
	if d == nil {
		return nil
	}
	return &OuraReadiness{
		ID:                        d.ID,
		Day:                       health.Truncate(d.Day),
		Score:                     d.Score,
		TemperatureDeviation:      d.TemperatureDeviation,
		TemperatureTrendDeviation: d.TemperatureTrendDeviation,
		RawData:                   rawJSON(d.RawData),
	}
}

// OuraHeartRate is a row of oura_heart_rate, keyed by sample timestamp.
type OuraHeartRate struct {
	Timestamp time.Time `gorm:"primaryKey"`
	BPM       int       `gorm:"column:bpm;not null"`
	Source    string    `gorm:"type:varchar(32)"`
	CreatedAt time.Time
}

func (OuraHeartRate) TableName() string { return "oura_heart_rate" }

func NewSchemaOuraHeartRate(d *health.HeartRateSample) *OuraHeartRate {
	if d == nil {
		return nil
	}
	return &OuraHeartRate{
		Timestamp: d.Timestamp.UTC(),
		BPM:       d.BPM,
		Source:    d.Source,
	}
}

func rawJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return nil
	}
	return datatypes.JSON(raw)
}
