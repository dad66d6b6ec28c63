package assistant

import "fmt"

// User-facing fixed replies.
const (
	MalformedDecisionMessage = "Sorry, I couldn't understand the AI's response format. Try asking a specific question about sleep, activity, or logging a set."
	UnavailableMessage       = "Sorry, the AI assistant is not available right now. Please try again in a moment."
	FailureMessage           = "Sorry, I encountered an error while processing your request. Please try again."
)

// ToolNotFoundMessage is the reply when the decision names an unknown tool.
func ToolNotFoundMessage(name string) string {
	return fmt.Sprintf("Error: Tool '%s' not found.", name)
}
