package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubDescriptor(kind Kind, description string) Descriptor {
	return Descriptor{
		Kind:        kind,
		Description: description,
		Invoke: func(ctx context.Context, args Args) (string, error) {
			return kind.String(), nil
		},
	}
}

func TestRegistry_DescribeAllFollowsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubDescriptor(KindReadinessReport, "Readiness summary.\nSecond line is ignored.")))
	require.NoError(t, r.Register(stubDescriptor(KindLogGymSet, "Logs a set.")))
	require.NoError(t, r.Register(stubDescriptor(KindSleepScore, "\n  Sleep score for a day.  ")))

	want := []string{
		"get_readiness_report: Readiness summary.",
		"log_gym_set: Logs a set.",
		"get_oura_sleep_score: Sleep score for a day.",
	}
	assert.Equal(t, want, r.DescribeAll())
	assert.Equal(t, want, r.DescribeAll(), "output must be stable across calls")
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubDescriptor(KindSleepScore, "a")))

	err := r.Register(stubDescriptor(KindSleepScore, "b"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateTool))
	assert.Equal(t, []string{"get_oura_sleep_score: a"}, r.DescribeAll())
}

func TestRegistry_RegisterRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(Descriptor{Kind: KindUnknown, Invoke: stubDescriptor(KindSleepScore, "").Invoke}))
	assert.Error(t, r.Register(Descriptor{Kind: KindSleepScore}))
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubDescriptor(KindActivitySteps, "steps")))

	d, err := r.Lookup("get_oura_activity_steps")
	require.NoError(t, err)
	assert.Equal(t, KindActivitySteps, d.Kind)

	_, err = r.Lookup("get_oura_sleep_score")
	assert.ErrorIs(t, err, ErrToolNotFound, "known kind that was never registered")

	_, err = r.Lookup("delete_everything")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestParseKind(t *testing.T) {
	for kind, name := range kindNames {
		got, ok := ParseKind(" " + name + " ")
		assert.True(t, ok)
		assert.Equal(t, kind, got)
	}
	_, ok := ParseKind("")
	assert.False(t, ok)
	assert.Equal(t, "unknown", KindUnknown.String())
}
