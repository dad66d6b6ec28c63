// Package assistant implements the two-stage answer pipeline: a decision
// completion picks a tool or answers directly, the tool runs, and a
// synthesis completion phrases the result.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/domain/coaching"
	"github.com/janhq/health-assistant/internal/domain/llm"
	"github.com/janhq/health-assistant/internal/domain/profile"
	"github.com/janhq/health-assistant/internal/domain/readiness"
	"github.com/janhq/health-assistant/internal/domain/tool"
	"github.com/janhq/health-assistant/internal/infrastructure/metrics"
	"github.com/janhq/health-assistant/internal/infrastructure/observability"
)

// ErrServiceUnavailable is the completion-service failure surfaced by Answer.
var ErrServiceUnavailable = llm.ErrServiceUnavailable

const (
	stageDecision  = "decision"
	stageSynthesis = "synthesis"

	// DefaultCompletionTimeout bounds each completion call.
	DefaultCompletionTimeout = 30 * time.Second
)

// Config carries the pipeline's collaborators.
type Config struct {
	Completer  llm.Completer
	Dispatcher *tool.Dispatcher
	Rules      coaching.Rules
	Profile    profile.Profile
	Tracker    *readiness.Tracker
	Timeout    time.Duration
	Model      string
	Now        func() time.Time
}

// Service answers free-text health questions.
type Service struct {
	completer  llm.Completer
	dispatcher *tool.Dispatcher
	coaching   string
	tracker    *readiness.Tracker
	timeout    time.Duration
	model      string
	now        func() time.Time
	log        zerolog.Logger
}

func NewService(cfg Config, log zerolog.Logger) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		completer:  cfg.Completer,
		dispatcher: cfg.Dispatcher,
		coaching:   cfg.Rules.Instruction(cfg.Profile),
		tracker:    cfg.Tracker,
		timeout:    timeout,
		model:      cfg.Model,
		now:        now,
		log:        log.With().Str("component", "assistant").Logger(),
	}
}

// Answer resolves one query. Malformed decisions and unknown tools produce
// fixed replies with a nil error; only completion failures are returned as
// errors, wrapping ErrServiceUnavailable.
func (s *Service) Answer(ctx context.Context, query string) (reply string, err error) {
	ctx, span := observability.StartAnswerSpan(ctx)
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "unavailable"
			observability.RecordError(span, err)
		}
		observability.CountAnswer(ctx, outcome)
		span.End()
	}()

	s.log.Debug().Str("query", query).Msg("answering query")

	prompt := DecisionPrompt(query, s.now(), s.dispatcher.Registry().DescribeAll())
	decision, err := s.complete(ctx, stageDecision, prompt, "\n")
	if err != nil {
		return "", err
	}
	s.log.Info().Str("decision", decision).Msg("decision received")

	action, err := ParseDecision(decision)
	metrics.RecordDecision(KindOf(action))
	if err != nil {
		s.log.Warn().Str("decision", decision).Msg("malformed decision")
		return MalformedDecisionMessage, nil
	}

	switch a := action.(type) {
	case *DirectAnswer:
		return a.Text, nil
	case *ToolCall:
		return s.runTool(ctx, query, a)
	default:
		return MalformedDecisionMessage, nil
	}
}

func (s *Service) runTool(ctx context.Context, query string, call *ToolCall) (string, error) {
	result, err := s.dispatcher.Execute(ctx, tool.Call{Name: call.Name, Args: call.Args})
	if errors.Is(err, tool.ErrToolNotFound) {
		s.log.Warn().Str("tool", call.Name).Msg("decision named unknown tool")
		return ToolNotFoundMessage(call.Name), nil
	}
	if err != nil {
		return "", err
	}
	s.tracker.Record(readiness.Store, storeOutcome(result))

	var coachingBlock string
	if result.Kind == tool.KindReadinessReport {
		coachingBlock = s.coaching
	}

	reply, err := s.complete(ctx, stageSynthesis, SynthesisPrompt(query, result.Output, coachingBlock))
	if err != nil {
		return "", err
	}
	return reply, nil
}

// complete issues one bounded completion call. Every failure is reported as
// ErrServiceUnavailable, as is a blank synthesis; a blank decision is left to
// ParseDecision.
func (s *Service) complete(ctx context.Context, stage, prompt string, stop ...string) (string, error) {
	ctx, span := observability.StartCompletionSpan(ctx, stage, s.model)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.completer.Complete(ctx, prompt, stop...)
	elapsed := time.Since(start)

	if err == nil && stage == stageSynthesis && strings.TrimSpace(out) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", s.timeout, err)
		}
		if !errors.Is(err, ErrServiceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
		}
		err = fmt.Errorf("%s stage: %w", stage, err)

		metrics.RecordCompletion(stage, "error", elapsed.Seconds())
		observability.RecordError(span, err)
		s.tracker.Record(readiness.Completion, err)
		s.log.Error().Err(err).Str("stage", stage).Dur("duration", elapsed).Msg("completion failed")
		return "", err
	}

	metrics.RecordCompletion(stage, "success", elapsed.Seconds())
	s.tracker.Record(readiness.Completion, nil)
	return strings.TrimSpace(out), nil
}

// storeOutcome treats a failed tool run as a store problem unless the
// arguments were rejected.
func storeOutcome(r tool.Result) error {
	if r.Failed && !r.Invalid {
		return errors.New(r.Output)
	}
	return nil
}

// RenderFailure maps an Answer error to the fixed reply shown to the user.
func RenderFailure(err error) string {
	if errors.Is(err, ErrServiceUnavailable) {
		return UnavailableMessage
	}
	return FailureMessage
}
