package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/health-assistant/internal/app"
	"github.com/janhq/health-assistant/internal/config"
	"github.com/janhq/health-assistant/internal/infrastructure/crontab"
	"github.com/janhq/health-assistant/internal/infrastructure/logger"
	"github.com/janhq/health-assistant/internal/infrastructure/observability"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/handlers"
)

type Application struct {
	httpServer *httpserver.HttpServer
	scheduler  *crontab.Crontab
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, scheduler *crontab.Crontab, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		scheduler:  scheduler,
		log:        log,
	}
}

// Start runs the HTTP server and, when enabled, the ingestion schedule until
// ctx is cancelled or either of them fails.
func (a *Application) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.httpServer.Run(gctx) })
	if a.scheduler != nil {
		g.Go(func() error { return a.scheduler.Run(gctx) })
	}
	return g.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	container, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build application")
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	httpServer := httpserver.New(cfg, log, handlers.NewProvider(container.HandlerDeps(), log))

	var scheduler *crontab.Crontab
	if cfg.SyncEnabled {
		scheduler = crontab.NewCrontab(container.Ingest, cfg.SyncSchedule, true, log)
	}

	application := NewApplication(httpServer, scheduler, log)
	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
