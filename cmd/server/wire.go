//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/app"
	"github.com/janhq/health-assistant/internal/config"
	"github.com/janhq/health-assistant/internal/infrastructure/crontab"
	"github.com/janhq/health-assistant/internal/infrastructure/logger"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/handlers"
)

var serverSet = wire.NewSet(
	newHandlerDeps,
	handlers.NewProvider,
	httpserver.New,
	newScheduler,
	NewApplication,
)

// BuildApplication assembles the server with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		app.Build,
		serverSet,
	)
	return nil, nil
}

func newHandlerDeps(c *app.Container) handlers.ProviderDeps {
	return c.HandlerDeps()
}

func newScheduler(cfg *config.Config, c *app.Container, log zerolog.Logger) *crontab.Crontab {
	if !cfg.SyncEnabled {
		return nil
	}
	return crontab.NewCrontab(c.Ingest, cfg.SyncSchedule, true, log)
}
