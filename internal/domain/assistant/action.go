package assistant

import (
	"errors"
	"strings"
)

// Decision line prefixes the completion service must emit.
const (
	ToolCallPrefix     = "ACTION: TOOL_CALL"
	DirectAnswerPrefix = "ACTION: DIRECT_ANSWER"
	fieldSeparator     = "|"
)

// ErrMalformedDecision is returned for decision lines matching neither
// grammar, and for direct answers with no text.
var ErrMalformedDecision = errors.New("malformed decision")

// Action is the tagged result of the decision stage: exactly one of
// *ToolCall or *DirectAnswer.
type Action interface {
	actionKind() string
}

// ToolCall asks for a tool by name with raw positional fields.
type ToolCall struct {
	Name string
	Args []string
}

// DirectAnswer carries a reply that needs no tool.
type DirectAnswer struct {
	Text string
}

func (*ToolCall) actionKind() string     { return "tool_call" }
func (*DirectAnswer) actionKind() string { return "direct_answer" }

// KindOf names the action variant for logs and metrics.
func KindOf(a Action) string {
	if a == nil {
		return "malformed"
	}
	return a.actionKind()
}

// ParseDecision parses one decision line. Anything that does not start with
// a known prefix is rejected before any field splitting happens.
//
//	ACTION: TOOL_CALL | <tool_name> | <arg1> | <arg2> ...
//	ACTION: DIRECT_ANSWER | <free text>
func ParseDecision(line string) (Action, error) {
	line = strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(line, ToolCallPrefix):
		parts := strings.Split(strings.TrimPrefix(line, ToolCallPrefix), fieldSeparator)
		// parts[0] is whatever sat between the prefix and the first separator.
		if len(parts) < 2 || strings.TrimSpace(parts[0]) != "" {
			return nil, ErrMalformedDecision
		}
		name := strings.TrimSpace(parts[1])
		if name == "" {
			return nil, ErrMalformedDecision
		}
		args := make([]string, 0, len(parts)-2)
		for _, p := range parts[2:] {
			args = append(args, strings.TrimSpace(p))
		}
		return &ToolCall{Name: name, Args: args}, nil

	case strings.HasPrefix(line, DirectAnswerPrefix):
		text := strings.TrimSpace(strings.TrimPrefix(line, DirectAnswerPrefix))
		text = strings.TrimSpace(strings.TrimPrefix(text, fieldSeparator))
		if text == "" {
			return nil, ErrMalformedDecision
		}
		return &DirectAnswer{Text: text}, nil

	default:
		return nil, ErrMalformedDecision
	}
}
