package tool

import (
	"context"
	"time"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// MockStore is a mock implementation of health.Store for testing.
type MockStore struct {
	GetSleepByDayFunc    func(ctx context.Context, day time.Time) (*health.SleepRecord, error)
	ListSleepFunc        func(ctx context.Context, window health.DateRange) ([]health.SleepRecord, error)
	RecentSleepFunc      func(ctx context.Context, limit int) ([]health.SleepRecord, error)
	GetActivityByDayFunc func(ctx context.Context, day time.Time) (*health.ActivityRecord, error)
	ListActivityFunc     func(ctx context.Context, window health.DateRange) ([]health.ActivityRecord, error)
	ListWorkoutSetsFunc  func(ctx context.Context, window health.DateRange) ([]health.WorkoutSet, error)
	UpsertWorkoutSetFunc func(ctx context.Context, set *health.WorkoutSet) error
}

func (m *MockStore) GetSleepByDay(ctx context.Context, day time.Time) (*health.SleepRecord, error) {
	if m.GetSleepByDayFunc != nil {
		return m.GetSleepByDayFunc(ctx, day)
	}
	return nil, health.ErrNotFound
}

func (m *MockStore) ListSleep(ctx context.Context, window health.DateRange) ([]health.SleepRecord, error) {
	if m.ListSleepFunc != nil {
		return m.ListSleepFunc(ctx, window)
	}
	return nil, nil
}

func (m *MockStore) RecentSleep(ctx context.Context, limit int) ([]health.SleepRecord, error) {
	if m.RecentSleepFunc != nil {
		return m.RecentSleepFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockStore) GetActivityByDay(ctx context.Context, day time.Time) (*health.ActivityRecord, error) {
	if m.GetActivityByDayFunc != nil {
		return m.GetActivityByDayFunc(ctx, day)
	}
	return nil, health.ErrNotFound
}

func (m *MockStore) ListActivity(ctx context.Context, window health.DateRange) ([]health.ActivityRecord, error) {
	if m.ListActivityFunc != nil {
		return m.ListActivityFunc(ctx, window)
	}
	return nil, nil
}

func (m *MockStore) ListWorkoutSets(ctx context.Context, window health.DateRange) ([]health.WorkoutSet, error) {
	if m.ListWorkoutSetsFunc != nil {
		return m.ListWorkoutSetsFunc(ctx, window)
	}
	return nil, nil
}

func (m *MockStore) UpsertWorkoutSet(ctx context.Context, set *health.WorkoutSet) error {
	if m.UpsertWorkoutSetFunc != nil {
		return m.UpsertWorkoutSetFunc(ctx, set)
	}
	return nil
}

func intPtr(v int) *int { return &v }

func mustDate(s string) time.Time {
	d, err := health.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedNow(s string) func() time.Time {
	return func() time.Time { return mustDate(s).Add(15 * time.Hour) }
}
