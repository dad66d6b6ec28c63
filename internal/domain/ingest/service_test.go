package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/health-assistant/internal/domain/health"
)

type memoryIngestRepo struct {
	mu         sync.Mutex
	sleep      []health.SleepRecord
	activity   []health.ActivityRecord
	readiness  []health.ReadinessRecord
	heartRate  []health.HeartRateSample
	exercises  []health.PolarExercise
	activities []health.PolarDailyActivity
	failSleep  bool
	failPolar  bool
}

func (m *memoryIngestRepo) UpsertSleep(ctx context.Context, rec *health.SleepRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSleep {
		return errors.New("write failed")
	}
	m.sleep = append(m.sleep, *rec)
	return nil
}

func (m *memoryIngestRepo) UpsertActivity(ctx context.Context, rec *health.ActivityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity = append(m.activity, *rec)
	return nil
}

func (m *memoryIngestRepo) UpsertReadiness(ctx context.Context, rec *health.ReadinessRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readiness = append(m.readiness, *rec)
	return nil
}

func (m *memoryIngestRepo) UpsertHeartRate(ctx context.Context, sample *health.HeartRateSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heartRate = append(m.heartRate, *sample)
	return nil
}

func (m *memoryIngestRepo) UpsertPolarExercises(ctx context.Context, exercises []health.PolarExercise) (int, error) {
	if m.failPolar {
		return 0, errors.New("write failed")
	}
	m.exercises = append(m.exercises, exercises...)
	return len(exercises), nil
}

func (m *memoryIngestRepo) UpsertPolarActivities(ctx context.Context, activities []health.PolarDailyActivity) (int, error) {
	if m.failPolar {
		return 0, errors.New("write failed")
	}
	m.activities = append(m.activities, activities...)
	return len(activities), nil
}

type fakeOura struct {
	data   map[string][]string
	errs   map[string]error
	mu     sync.Mutex
	window health.DateRange
}

func (f *fakeOura) FetchCollection(ctx context.Context, endpoint string, window health.DateRange) ([]json.RawMessage, error) {
	f.mu.Lock()
	f.window = window
	f.mu.Unlock()
	var out []json.RawMessage
	for _, s := range f.data[endpoint] {
		out = append(out, json.RawMessage(s))
	}
	return out, f.errs[endpoint]
}

var syncNow = func() time.Time { return time.Date(2025, 10, 25, 6, 0, 0, 0, time.UTC) }

func TestSyncOura(t *testing.T) {
	repo := &memoryIngestRepo{}
	oura := &fakeOura{
		data: map[string][]string{
			EndpointDailySleep: {
				`{"id":"s1","day":"2025-10-24","score":81,"total_sleep_duration":27000}`,
				`{"id":"","day":"2025-10-23","score":75}`,
			},
			EndpointDailyActivity:  {`{"id":"a1","day":"2025-10-24","steps":9000,"active_calories":420}`},
			EndpointDailyReadiness: {`{"id":"r1","day":"2025-10-24","score":77,"temperature_deviation":-0.1}`},
			EndpointHeartRate:      {`{"bpm":58,"source":"rest","timestamp":"2025-10-24T03:00:00+00:00"}`, `{"bpm":60}`},
		},
		errs: map[string]error{EndpointHeartRate: errors.New("page 2: 500")},
	}
	backup := filepath.Join(t.TempDir(), "backup.json")
	svc := NewService(repo, Options{Oura: oura, LookbackDays: 30, BackupPath: backup, Now: syncNow}, zerolog.Nop())

	report, err := svc.SyncOura(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-09-25 to 2025-10-25", oura.window.String())
	assert.Equal(t, &TableCount{Fetched: 2, Saved: 1, Skipped: 1}, report.Tables[TableOuraSleep])
	assert.Equal(t, &TableCount{Fetched: 2, Saved: 1, Skipped: 1}, report.Tables[TableOuraHeartRate])
	assert.Equal(t, 1, report.Tables[TableOuraActivity].Saved)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "heartrate")

	require.Len(t, repo.sleep, 1)
	assert.Equal(t, 81, *repo.sleep[0].Score)
	assert.JSONEq(t, `{"id":"s1","day":"2025-10-24","score":81,"total_sleep_duration":27000}`, string(repo.sleep[0].RawData))
	assert.Equal(t, 9000, repo.activity[0].Steps)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "heart_rate")
	assert.Contains(t, doc, "fetched_at")
	assert.Equal(t, backup, report.BackupPath)
}

func TestSyncOura_FailedRecordDoesNotStopBatch(t *testing.T) {
	repo := &memoryIngestRepo{failSleep: true}
	oura := &fakeOura{data: map[string][]string{
		EndpointDailySleep:    {`{"id":"s1","day":"2025-10-24"}`, `{"id":"s2","day":"2025-10-23"}`},
		EndpointDailyActivity: {`{"id":"a1","day":"2025-10-24","steps":1}`},
	}}
	svc := NewService(repo, Options{Oura: oura, Now: syncNow}, zerolog.Nop())

	report, err := svc.SyncOura(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Tables[TableOuraSleep].Failed)
	assert.Equal(t, 1, report.Tables[TableOuraActivity].Saved)
}

func TestSync_UnknownAndUnconfigured(t *testing.T) {
	svc := NewService(&memoryIngestRepo{}, Options{}, zerolog.Nop())

	_, err := svc.Sync(context.Background(), "fitbit")
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = svc.Sync(context.Background(), "Oura")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, svc.Sources())
}

type fakePolar struct {
	created   map[TransactionKind]*Transaction
	listed    map[TransactionKind][]string
	exercises map[string]*ExerciseSummary
	activity  map[string]*ActivitySummary
	committed []TransactionKind
}

func (f *fakePolar) UserID() string { return "777" }

func (f *fakePolar) CreateTransaction(ctx context.Context, kind TransactionKind) (*Transaction, error) {
	return f.created[kind], nil
}

func (f *fakePolar) ListTransaction(ctx context.Context, kind TransactionKind, id int64) ([]string, error) {
	return f.listed[kind], nil
}

func (f *fakePolar) CommitTransaction(ctx context.Context, kind TransactionKind, id int64) error {
	f.committed = append(f.committed, kind)
	return nil
}

func (f *fakePolar) GetExerciseSummary(ctx context.Context, url string) (*ExerciseSummary, error) {
	if s, ok := f.exercises[url]; ok {
		return s, nil
	}
	return nil, errors.New("404")
}

func (f *fakePolar) GetActivitySummary(ctx context.Context, url string) (*ActivitySummary, error) {
	if s, ok := f.activity[url]; ok {
		return s, nil
	}
	return nil, errors.New("404")
}

func TestSyncPolar(t *testing.T) {
	polar := &fakePolar{
		created: map[TransactionKind]*Transaction{
			ExerciseTransactions: {ID: 11},
			ActivityTransactions: {ID: 12, ActivityLog: []string{"act/1", "act/2"}},
		},
		listed: map[TransactionKind][]string{ExerciseTransactions: {"ex/1", "ex/2", "ex/3"}},
		exercises: map[string]*ExerciseSummary{
			"ex/1": {ID: json.RawMessage(`123`), PolarUser: "https://x/v3/users/555", StartTime: "2025-10-24T07:00:00", DetailedSportInfo: "RUNNING"},
			"ex/2": {ID: json.RawMessage(`"abc"`), StartTime: "2025-10-24T08:00:00"},
			"ex/3": {ID: json.RawMessage(`"456"`)},
		},
		activity: map[string]*ActivitySummary{
			"act/1": {Date: "2025-10-24", ActiveSteps: func() *int { v := 8000; return &v }()},
		},
	}
	repo := &memoryIngestRepo{}
	svc := NewService(repo, Options{Polar: polar, Now: syncNow}, zerolog.Nop())

	report, err := svc.SyncPolar(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Errors)

	require.Len(t, repo.exercises, 1)
	assert.Equal(t, int64(123), repo.exercises[0].PolarExerciseID)
	assert.Equal(t, int64(555), repo.exercises[0].PolarUserID)
	assert.Equal(t, &TableCount{Fetched: 3, Saved: 1, Skipped: 2}, report.Tables[TablePolarExercise])

	require.Len(t, repo.activities, 1)
	assert.Equal(t, "777", repo.activities[0].PolarUserID)
	assert.Equal(t, int64(12), repo.activities[0].PolarTransactionID)
	assert.Equal(t, 1, report.Tables[TablePolarActivity].Failed)

	assert.Equal(t, []TransactionKind{ExerciseTransactions, ActivityTransactions}, polar.committed)
}

func TestSyncPolar_NoNewDataAndFailedUpsert(t *testing.T) {
	polar := &fakePolar{created: map[TransactionKind]*Transaction{}}
	svc := NewService(&memoryIngestRepo{}, Options{Polar: polar, Now: syncNow}, zerolog.Nop())

	report, err := svc.SyncPolar(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Empty(t, polar.committed)

	polar = &fakePolar{
		created:   map[TransactionKind]*Transaction{ExerciseTransactions: {ID: 1, Exercises: []string{"ex/1"}}},
		exercises: map[string]*ExerciseSummary{"ex/1": {ID: json.RawMessage(`1`), StartTime: "2025-10-24T07:00:00"}},
	}
	svc = NewService(&memoryIngestRepo{failPolar: true}, Options{Polar: polar, Now: syncNow}, zerolog.Nop())

	report, err = svc.SyncPolar(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "upsert exercises")
	assert.Empty(t, polar.committed, "a transaction whose records were not stored stays open")
}
