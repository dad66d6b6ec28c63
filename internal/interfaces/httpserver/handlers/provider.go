package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/domain/coaching"
	"github.com/janhq/health-assistant/internal/domain/readiness"
	"github.com/janhq/health-assistant/internal/domain/tool"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat   *ChatHandler
	Tool   *ToolHandler
	Sleep  *SleepHandler
	Sync   *SyncHandler
	Status *StatusHandler
}

// ProviderDeps collects what the handlers consume.
type ProviderDeps struct {
	ServiceName string
	Model       string
	Chat        ChatService
	Registry    *tool.Registry
	Sleep       SleepReader
	Rules       coaching.Rules
	Syncer      Syncer
	Tracker     *readiness.Tracker
}

// NewProvider constructs the handler provider. A nil Syncer leaves the sync
// route unregistered.
func NewProvider(deps ProviderDeps, log zerolog.Logger) *Provider {
	p := &Provider{
		Chat:   NewChatHandler(deps.Chat, log),
		Tool:   NewToolHandler(deps.Registry),
		Sleep:  NewSleepHandler(deps.Sleep, deps.Rules, log),
		Status: NewStatusHandler(deps.ServiceName, deps.Model, deps.Tracker, deps.Registry, deps.Syncer),
	}
	if deps.Syncer != nil {
		p.Sync = NewSyncHandler(deps.Syncer, log)
	}
	return p
}
