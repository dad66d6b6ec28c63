package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/infrastructure/metrics"
	"github.com/janhq/health-assistant/internal/infrastructure/observability"
)

// Dispatcher resolves, coerces and runs tool calls. Every outcome other than
// an unknown tool name is reported as a Result string.
type Dispatcher struct {
	registry *Registry
	log      zerolog.Logger
}

func NewDispatcher(registry *Registry, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		log:      log.With().Str("component", "tool-dispatcher").Logger(),
	}
}

// Registry exposes the underlying registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Execute runs call. It returns ErrToolNotFound without invoking anything
// when the name is not registered.
func (d *Dispatcher) Execute(ctx context.Context, call Call) (Result, error) {
	desc, err := d.registry.Lookup(call.Name)
	if err != nil {
		metrics.RecordToolCall(call.Name, "not_found", 0)
		return Result{}, err
	}

	ctx, span := observability.StartToolSpan(ctx, desc.Name(), len(call.Args))
	defer span.End()

	start := time.Now()
	result := Result{Kind: desc.Kind}

	args, err := Coerce(desc, call.Args)
	if err == nil {
		result.Output, err = d.invoke(ctx, desc, args)
	}
	if err != nil {
		var verr *ValidationError
		result.Output = RenderError(desc.Name(), err)
		result.Failed = true
		result.Invalid = errors.As(err, &verr)
	}
	result.Duration = time.Since(start)

	status := "success"
	if result.Failed {
		status = "error"
		observability.RecordError(span, err)
	}
	metrics.RecordToolCall(desc.Name(), status, result.Duration.Seconds())

	d.log.Info().
		Str("tool", desc.Name()).
		Str("status", status).
		Dur("duration", result.Duration).
		Msg("tool executed")
	if err != nil {
		d.log.Debug().Err(err).Str("tool", desc.Name()).Msg("tool error")
	}

	return result, nil
}

// invoke runs the handler and converts a panic into an error.
func (d *Dispatcher) invoke(ctx context.Context, desc Descriptor, args Args) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("tool", desc.Name()).Msg("tool panicked")
			err = fmt.Errorf("internal failure: %v", r)
		}
	}()
	return desc.Invoke(ctx, args)
}

// RenderError formats a tool failure as the text handed to synthesis.
func RenderError(toolName string, err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("Error: invalid %s: %s", verr.Field, verr.Detail)
	}
	return fmt.Sprintf("Error while running %s: %v", toolName, err)
}
