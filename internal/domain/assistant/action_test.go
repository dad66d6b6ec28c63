package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecision_GoldenPrefixes(t *testing.T) {
	assert.Equal(t, "ACTION: TOOL_CALL", ToolCallPrefix)
	assert.Equal(t, "ACTION: DIRECT_ANSWER", DirectAnswerPrefix)
}

func TestParseDecision_ToolCall(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *ToolCall
	}{
		{
			name: "gym set",
			line: "ACTION: TOOL_CALL | log_gym_set | 2025-10-25 | Squat | 100.0 | 5 | 3",
			want: &ToolCall{Name: "log_gym_set", Args: []string{"2025-10-25", "Squat", "100.0", "5", "3"}},
		},
		{
			name: "no arguments",
			line: "ACTION: TOOL_CALL | get_readiness_report",
			want: &ToolCall{Name: "get_readiness_report", Args: []string{}},
		},
		{
			name: "empty fields are kept for dispatch",
			line: "  ACTION: TOOL_CALL|get_readiness_report|  |2025-10-20 ",
			want: &ToolCall{Name: "get_readiness_report", Args: []string{"", "2025-10-20"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecision(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "tool_call", KindOf(got))
		})
	}
}

func TestParseDecision_DirectAnswer(t *testing.T) {
	got, err := ParseDecision("ACTION: DIRECT_ANSWER | Hello!")
	require.NoError(t, err)
	assert.Equal(t, &DirectAnswer{Text: "Hello!"}, got)

	got, err = ParseDecision("ACTION: DIRECT_ANSWER | Sleep well | and hydrate")
	require.NoError(t, err)
	assert.Equal(t, &DirectAnswer{Text: "Sleep well | and hydrate"}, got, "only the leading separator is removed")
}

func TestParseDecision_Malformed(t *testing.T) {
	lines := []string{
		"",
		"Hello there!",
		"TOOL_CALL | get_oura_sleep_score | 2025-10-24",
		"Sure! ACTION: TOOL_CALL | get_oura_sleep_score | 2025-10-24",
		"action: tool_call | get_oura_sleep_score | 2025-10-24",
		"ACTION: TOOL_CALLS | get_oura_sleep_score",
		"ACTION: TOOL_CALL get_oura_sleep_score",
		"ACTION: TOOL_CALL |  | 2025-10-24",
		"ACTION: DIRECT_ANSWER |",
		"ACTION: DIRECT_ANSWER |   ",
		"ACTION: DIRECT_ANSWER",
	}
	for _, line := range lines {
		got, err := ParseDecision(line)
		assert.ErrorIs(t, err, ErrMalformedDecision, line)
		assert.Nil(t, got)
		assert.Equal(t, "malformed", KindOf(got))
	}
}
