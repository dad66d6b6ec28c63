package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/health-assistant/internal/domain/coaching"
	"github.com/janhq/health-assistant/internal/domain/health"
	"github.com/janhq/health-assistant/internal/domain/profile"
	"github.com/janhq/health-assistant/internal/domain/readiness"
	"github.com/janhq/health-assistant/internal/domain/tool"
)

// MockCompleter replays scripted completions and records the prompts it saw.
type MockCompleter struct {
	mu       sync.Mutex
	Prompts  []string
	Stops    [][]string
	Replies  []string
	Errs     []error
	Blocking bool
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string, stop ...string) (string, error) {
	m.mu.Lock()
	i := len(m.Prompts)
	m.Prompts = append(m.Prompts, prompt)
	m.Stops = append(m.Stops, stop)
	m.mu.Unlock()

	if m.Blocking {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if i < len(m.Errs) && m.Errs[i] != nil {
		return "", m.Errs[i]
	}
	if i < len(m.Replies) {
		return m.Replies[i], nil
	}
	return "", nil
}

func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// fakeStore serves fixed records and remembers written sets.
type fakeStore struct {
	sleep   []health.SleepRecord
	written []health.WorkoutSet
}

func (f *fakeStore) GetSleepByDay(ctx context.Context, day time.Time) (*health.SleepRecord, error) {
	for _, r := range f.sleep {
		if r.Day.Equal(day) {
			rec := r
			return &rec, nil
		}
	}
	return nil, health.ErrNotFound
}

func (f *fakeStore) ListSleep(ctx context.Context, window health.DateRange) ([]health.SleepRecord, error) {
	var out []health.SleepRecord
	for _, r := range f.sleep {
		if window.Contains(r.Day) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) RecentSleep(ctx context.Context, limit int) ([]health.SleepRecord, error) {
	return f.sleep, nil
}

func (f *fakeStore) GetActivityByDay(ctx context.Context, day time.Time) (*health.ActivityRecord, error) {
	return nil, health.ErrNotFound
}

func (f *fakeStore) ListActivity(ctx context.Context, window health.DateRange) ([]health.ActivityRecord, error) {
	return nil, nil
}

func (f *fakeStore) ListWorkoutSets(ctx context.Context, window health.DateRange) ([]health.WorkoutSet, error) {
	return f.written, nil
}

func (f *fakeStore) UpsertWorkoutSet(ctx context.Context, set *health.WorkoutSet) error {
	f.written = append(f.written, *set)
	return nil
}

var testToday = time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, completer *MockCompleter, store *fakeStore, timeout time.Duration) (*Service, *readiness.Tracker) {
	t.Helper()
	now := func() time.Time { return testToday }

	registry := tool.NewRegistry()
	require.NoError(t, tool.NewHealthTools(store, 3, now).Register(registry))

	tracker := readiness.NewTracker(readiness.Completion, readiness.Store)
	svc := NewService(Config{
		Completer:  completer,
		Dispatcher: tool.NewDispatcher(registry, zerolog.Nop()),
		Rules:      coaching.DefaultRules(),
		Profile:    profile.Default(),
		Tracker:    tracker,
		Timeout:    timeout,
		Model:      "llama3:8b",
		Now:        now,
	}, zerolog.Nop())
	return svc, tracker
}

func TestAnswer_DirectAnswerSkipsSynthesis(t *testing.T) {
	completer := &MockCompleter{Replies: []string{"ACTION: DIRECT_ANSWER | Hello!"}}
	svc, _ := newTestService(t, completer, &fakeStore{}, time.Second)

	reply, err := svc.Answer(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
	assert.Equal(t, 1, completer.Calls())
	assert.Equal(t, []string{"\n"}, completer.Stops[0], "decision stage requests a single line")
	assert.Contains(t, completer.Prompts[0], "- get_oura_sleep_score: Retrieves the Oura sleep score")
}

func TestAnswer_MalformedDecision(t *testing.T) {
	completer := &MockCompleter{Replies: []string{"I think you should rest | today"}}
	svc, _ := newTestService(t, completer, &fakeStore{}, time.Second)

	reply, err := svc.Answer(context.Background(), "should I train?")
	require.NoError(t, err)
	assert.Equal(t, MalformedDecisionMessage, reply)
	assert.Equal(t, 1, completer.Calls())
}

func TestAnswer_BlankDecisionIsMalformed(t *testing.T) {
	for _, decision := range []string{"", "\n", "   "} {
		completer := &MockCompleter{Replies: []string{decision}}
		svc, tracker := newTestService(t, completer, &fakeStore{}, time.Second)

		reply, err := svc.Answer(context.Background(), "how did I sleep?")
		require.NoError(t, err, "decision %q", decision)
		assert.Equal(t, MalformedDecisionMessage, reply)
		assert.Equal(t, 1, completer.Calls())
		assert.True(t, tracker.Ready(readiness.Completion), "a blank decision is not an outage")
	}
}

func TestAnswer_EmptyDirectAnswerIsMalformed(t *testing.T) {
	completer := &MockCompleter{Replies: []string{"ACTION: DIRECT_ANSWER | "}}
	svc, _ := newTestService(t, completer, &fakeStore{}, time.Second)

	reply, err := svc.Answer(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, MalformedDecisionMessage, reply)
}

func TestAnswer_ToolNotFound(t *testing.T) {
	completer := &MockCompleter{Replies: []string{"ACTION: TOOL_CALL | get_weather | 2025-10-25"}}
	svc, _ := newTestService(t, completer, &fakeStore{}, time.Second)

	reply, err := svc.Answer(context.Background(), "weather?")
	require.NoError(t, err)
	assert.Equal(t, "Error: Tool 'get_weather' not found.", reply)
	assert.Equal(t, 1, completer.Calls())
}

func TestAnswer_ToolCallIsSynthesized(t *testing.T) {
	store := &fakeStore{}
	completer := &MockCompleter{Replies: []string{
		"ACTION: TOOL_CALL | log_gym_set | 2025-10-25 | Squat | 100.0 | 5 | 3",
		"  Nice work on those squats!  ",
	}}
	svc, tracker := newTestService(t, completer, store, time.Second)

	reply, err := svc.Answer(context.Background(), "I squatted 100kg for 5, third set")
	require.NoError(t, err)
	assert.Equal(t, "Nice work on those squats!", reply)

	require.Equal(t, 2, completer.Calls())
	synthesis := completer.Prompts[1]
	assert.Contains(t, synthesis, "Successfully logged Set 3 of Squat (100.0kg x 5 reps) for 2025-10-25.")
	assert.Contains(t, synthesis, `"I squatted 100kg for 5, third set"`)
	assert.NotContains(t, synthesis, "USER PROFILE", "coaching is only added for readiness reports")
	assert.Empty(t, completer.Stops[1])

	require.Len(t, store.written, 1)
	assert.True(t, tracker.Ready(readiness.Completion))
	assert.True(t, tracker.Ready(readiness.Store))
}

func TestAnswer_ReadinessAddsCoaching(t *testing.T) {
	score, duration := 64, 6*3600
	store := &fakeStore{sleep: []health.SleepRecord{
		{Day: health.Truncate(testToday), Score: &score, TotalSleepDuration: &duration},
	}}
	completer := &MockCompleter{Replies: []string{
		"ACTION: TOOL_CALL | get_readiness_report",
		"Take it easy today.",
	}}
	svc, _ := newTestService(t, completer, store, time.Second)

	reply, err := svc.Answer(context.Background(), "Am I ready to train?")
	require.NoError(t, err)
	assert.Equal(t, "Take it easy today.", reply)

	synthesis := completer.Prompts[1]
	assert.Contains(t, synthesis, "--- HEALTH READINESS REPORT (2025-10-22 to 2025-10-25) ---")
	assert.Contains(t, synthesis, "USER PROFILE: Age 35, Weight 59kg, Height 162cm, Gender FEMALE.")
	assert.Contains(t, synthesis, "below 70 or total sleep is below 7h")
}

func TestAnswer_ValidationErrorStillSynthesized(t *testing.T) {
	store := &fakeStore{}
	completer := &MockCompleter{Replies: []string{
		"ACTION: TOOL_CALL | log_gym_set | 2025-10-25 | Squat | 0 | 5 | 3",
		"That weight doesn't look right.",
	}}
	svc, tracker := newTestService(t, completer, store, time.Second)

	_, err := svc.Answer(context.Background(), "log squat 0kg")
	require.NoError(t, err)
	assert.Contains(t, completer.Prompts[1], "Error: invalid weight: must be greater than 0, got 0")
	assert.Empty(t, store.written)
	assert.True(t, tracker.Ready(readiness.Store), "validation failures do not mark the store unhealthy")
}

func TestAnswer_SynthesisFailurePropagates(t *testing.T) {
	completer := &MockCompleter{
		Replies: []string{"ACTION: TOOL_CALL | get_oura_sleep_score | 2025-10-24"},
		Errs:    []error{nil, errors.New("connection refused")},
	}
	svc, tracker := newTestService(t, completer, &fakeStore{}, time.Second)

	reply, err := svc.Answer(context.Background(), "sleep?")
	require.Error(t, err)
	assert.Empty(t, reply)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Contains(t, err.Error(), "synthesis stage")
	assert.Equal(t, UnavailableMessage, RenderFailure(err))
	assert.False(t, tracker.Ready(readiness.Completion))
}

func TestAnswer_EmptySynthesisIsUnavailable(t *testing.T) {
	completer := &MockCompleter{Replies: []string{"ACTION: TOOL_CALL | get_oura_sleep_score | 2025-10-24", "   "}}
	svc, _ := newTestService(t, completer, &fakeStore{}, time.Second)

	_, err := svc.Answer(context.Background(), "sleep?")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestAnswer_TimeoutIsUnavailable(t *testing.T) {
	completer := &MockCompleter{Blocking: true}
	svc, _ := newTestService(t, completer, &fakeStore{}, 20*time.Millisecond)

	start := time.Now()
	_, err := svc.Answer(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "decision stage")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRenderFailure(t *testing.T) {
	assert.Equal(t, UnavailableMessage, RenderFailure(ErrServiceUnavailable))
	assert.Equal(t, FailureMessage, RenderFailure(errors.New("other")))
}
