package llm

import (
	"context"
	"errors"
)

// ErrServiceUnavailable marks a completion request that could not be served:
// transport failure, timeout, non-2xx status, or an empty completion.
var ErrServiceUnavailable = errors.New("completion service unavailable")

// Completer is the text-completion contract used by both assistant stages.
// Stop sequences are optional; the decision stage passes "\n" to force a
// single-line answer.
type Completer interface {
	Complete(ctx context.Context, prompt string, stop ...string) (string, error)
}

// Pinger is implemented by completers that can be probed at startup.
type Pinger interface {
	Ping(ctx context.Context) error
}
