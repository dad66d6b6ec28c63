package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// DecisionPrompt builds the single-line action prompt. Relative day words are
// resolved here by stating today's and yesterday's ISO dates.
func DecisionPrompt(query string, today time.Time, toolLines []string) string {
	today = health.Truncate(today)
	todayISO := health.FormatDate(today)
	yesterdayISO := health.FormatDate(today.AddDate(0, 0, -1))

	var tools strings.Builder
	for i, line := range toolLines {
		if i > 0 {
			tools.WriteString("\n")
		}
		tools.WriteString("- " + line)
	}

	return fmt.Sprintf(`You are a health assistant and decision-maker. Your sole task is to determine the appropriate action based on the user's request.

Available tools:
%[1]s

Current Date Context:
- Today's date: %[2]s
- Yesterday's date: %[3]s

User Request: "%[4]s"

---
Decide ONLY ONE of the following actions. DO NOT include any extra text.

%[5]s | <tool_name> | <tool_input_1> | <tool_input_2> ...
%[6]s | <Your natural language response>

If the request is a simple greeting (e.g., 'hi'), or non-data related, use DIRECT_ANSWER.
If the tool needs a date but the user says 'yesterday', use the exact date %[3]s.
Dates must always be written as YYYY-MM-DD.

Example Output 1 (Log): %[5]s | log_gym_set | %[2]s | Bench Press | 80.5 | 5 | 1
Example Output 2 (Query): %[5]s | get_oura_sleep_score | %[3]s
Example Output 3 (Greeting): %[6]s | Hello there! How can I help you check your metrics today?

Your concise response (start immediately with %[5]s or %[6]s):`,
		tools.String(), todayISO, yesterdayISO, query, ToolCallPrefix, DirectAnswerPrefix)
}

// SynthesisPrompt asks for the final conversational reply. coaching is empty
// unless the readiness report produced the data.
func SynthesisPrompt(query, toolResult, coaching string) string {
	var b strings.Builder
	b.WriteString("Based on this data:\n")
	b.WriteString(toolResult)
	fmt.Fprintf(&b, "\nProvide a friendly, natural, conversational answer to the user request: %q\n", query)
	if coaching != "" {
		b.WriteString(coaching)
		b.WriteString("\n")
	}
	b.WriteString("Be concise, warm, and helpful. Do not mention the word 'tool' or 'database'. Just give a natural response.")
	return b.String()
}
