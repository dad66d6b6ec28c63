// Package ingest pulls wearable data from the vendor APIs into the fact store.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// Sources accepted by Service.Sync.
const (
	SourceOura  = "oura"
	SourcePolar = "polar"
)

// Oura collection endpoints.
const (
	EndpointDailySleep     = "daily_sleep"
	EndpointDailyActivity  = "daily_activity"
	EndpointDailyReadiness = "daily_readiness"
	EndpointHeartRate      = "heartrate"
)

var (
	ErrUnknownSource  = errors.New("unknown sync source")
	ErrNotConfigured  = errors.New("sync source not configured")
	ErrSyncInProgress = errors.New("sync already running")
)

// OuraClient fetches one paginated collection. On a page failure it returns
// the records gathered so far together with the error.
type OuraClient interface {
	FetchCollection(ctx context.Context, endpoint string, window health.DateRange) ([]json.RawMessage, error)
}

// TransactionKind selects a Polar AccessLink transaction family.
type TransactionKind string

const (
	ExerciseTransactions TransactionKind = "exercise-transactions"
	ActivityTransactions TransactionKind = "activity-transactions"
)

// Transaction is an open AccessLink transaction and the resource links it
// returned on creation, if any.
type Transaction struct {
	ID          int64    `json:"transaction-id"`
	Exercises   []string `json:"exercises,omitempty"`
	ActivityLog []string `json:"activity-log,omitempty"`
}

// Links returns the resource URLs for kind.
func (t *Transaction) Links(kind TransactionKind) []string {
	if kind == ActivityTransactions {
		return t.ActivityLog
	}
	return t.Exercises
}

// ExerciseSummary is the AccessLink exercise payload.
type ExerciseSummary struct {
	ID                json.RawMessage `json:"id"`
	PolarUser         string          `json:"polar-user"`
	StartTime         string          `json:"start-time"`
	Duration          string          `json:"duration"`
	DetailedSportInfo string          `json:"detailed-sport-info"`
	Distance          *float64        `json:"distance"`
	Calories          *int            `json:"calories"`
	HeartRate         struct {
		Average *int `json:"average"`
		Maximum *int `json:"maximum"`
	} `json:"heart-rate"`
}

// ActivitySummary is the AccessLink daily activity payload.
type ActivitySummary struct {
	PolarUser      string `json:"polar-user"`
	Date           string `json:"date"`
	Calories       *int   `json:"calories"`
	ActiveCalories *int   `json:"active-calories"`
	ActiveDuration string `json:"active-duration"`
	ActiveSteps    *int   `json:"active-steps"`
}

// PolarClient covers the AccessLink transaction flow.
// CreateTransaction returns nil when there is nothing new (HTTP 204).
type PolarClient interface {
	UserID() string
	CreateTransaction(ctx context.Context, kind TransactionKind) (*Transaction, error)
	ListTransaction(ctx context.Context, kind TransactionKind, id int64) ([]string, error)
	CommitTransaction(ctx context.Context, kind TransactionKind, id int64) error
	GetExerciseSummary(ctx context.Context, url string) (*ExerciseSummary, error)
	GetActivitySummary(ctx context.Context, url string) (*ActivitySummary, error)
}

// TableCount is the outcome for one destination table.
type TableCount struct {
	Fetched int `json:"fetched"`
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Report summarises one sync run.
type Report struct {
	Source     string                 `json:"source"`
	Window     string                 `json:"window,omitempty"`
	Tables     map[string]*TableCount `json:"tables"`
	Errors     []string               `json:"errors,omitempty"`
	BackupPath string                 `json:"backup_path,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
}

func newReport(source string, now time.Time) *Report {
	return &Report{Source: source, Tables: make(map[string]*TableCount), StartedAt: now.UTC()}
}

func (r *Report) table(name string) *TableCount {
	tc, ok := r.Tables[name]
	if !ok {
		tc = &TableCount{}
		r.Tables[name] = tc
	}
	return tc
}
