// Package app assembles the assistant's collaborators from configuration.
// The server and the CLI share it so both run the same pipeline.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/janhq/health-assistant/internal/config"
	"github.com/janhq/health-assistant/internal/domain/assistant"
	"github.com/janhq/health-assistant/internal/domain/chat"
	"github.com/janhq/health-assistant/internal/domain/coaching"
	"github.com/janhq/health-assistant/internal/domain/ingest"
	"github.com/janhq/health-assistant/internal/domain/profile"
	"github.com/janhq/health-assistant/internal/domain/readiness"
	"github.com/janhq/health-assistant/internal/domain/tool"
	"github.com/janhq/health-assistant/internal/infrastructure/database"
	"github.com/janhq/health-assistant/internal/infrastructure/database/repository/chatrepo"
	"github.com/janhq/health-assistant/internal/infrastructure/database/repository/healthrepo"
	"github.com/janhq/health-assistant/internal/infrastructure/llmprovider"
	"github.com/janhq/health-assistant/internal/infrastructure/oura"
	"github.com/janhq/health-assistant/internal/infrastructure/polar"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/handlers"
)

const probeTimeout = 15 * time.Second

// Container holds every constructed dependency.
type Container struct {
	Config     *config.Config
	Log        zerolog.Logger
	DB         *gorm.DB
	Store      *healthrepo.Repository
	LLM        *llmprovider.Client
	Tracker    *readiness.Tracker
	Profile    profile.Profile
	Rules      coaching.Rules
	Registry   *tool.Registry
	Dispatcher *tool.Dispatcher
	Assistant  *assistant.Service
	Chat       *chat.Service
	Ingest     *ingest.Service
}

// Build connects to the database, applies migrations, probes the completion
// service and wires the pipeline. Probe failures are recorded in the tracker
// and logged; only database and registry failures abort.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Log:     log,
		Tracker: readiness.NewTracker(readiness.Completion, readiness.Store),
	}

	db, err := database.Connect(ctx, database.ConfigFromApp(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.AutoMigrate(db, log); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	c.DB = db
	c.Tracker.Record(readiness.Store, database.Ping(ctx, db))
	c.Store = healthrepo.NewRepository(db)

	c.Profile, err = profile.Load(cfg.ProfilePath())
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.ProfilePath()).Msg("profile fields unreadable, defaults substituted")
	}
	c.Rules, err = coaching.LoadRules(cfg.CoachingRules)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.CoachingRules).Msg("coaching rules unreadable, using defaults")
	}

	c.LLM = llmprovider.NewClient(llmprovider.OptionsFromConfig(cfg))
	if cfg.LLMProbe {
		c.probeCompletion(ctx)
	}

	c.Registry = tool.NewRegistry()
	if err := tool.NewHealthTools(c.Store, cfg.ReadinessWindow, nil).Register(c.Registry); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("register tools: %w", err)
	}
	c.Dispatcher = tool.NewDispatcher(c.Registry, log)

	c.Assistant = assistant.NewService(assistant.Config{
		Completer:  c.LLM,
		Dispatcher: c.Dispatcher,
		Rules:      c.Rules,
		Profile:    c.Profile,
		Tracker:    c.Tracker,
		Timeout:    cfg.LLMTimeout,
		Model:      cfg.LLMModel,
	}, log)
	c.Chat = chat.NewService(chatrepo.NewChatRepository(db), c.Assistant, log)
	c.Ingest = ingest.NewService(c.Store, c.ingestOptions(), log)

	log.Info().
		Str("model", cfg.LLMModel).
		Str("profile", c.Profile.String()).
		Strs("tools", c.Registry.DescribeAll()).
		Strs("sync_sources", c.Ingest.Sources()).
		Msg("assistant ready")
	return c, nil
}

func (c *Container) probeCompletion(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	err := c.LLM.Ping(probeCtx)
	c.Tracker.Record(readiness.Completion, err)
	if err != nil {
		c.Log.Warn().Err(err).Str("model", c.Config.LLMModel).Msg("completion service probe failed")
		return
	}
	c.Log.Info().Str("model", c.Config.LLMModel).Msg("completion service reachable")
}

func (c *Container) ingestOptions() ingest.Options {
	cfg := c.Config
	opts := ingest.Options{
		LookbackDays: cfg.SyncLookbackDays,
		BackupPath:   cfg.OuraBackupPath,
	}
	if cfg.SyncOura && cfg.OuraAccessToken != "" {
		opts.Oura = oura.NewClient(cfg.OuraBaseURL, cfg.OuraAccessToken, c.Log)
	}
	if cfg.SyncPolar && cfg.PolarTokenFile != "" {
		tok, err := polar.LoadToken(cfg.PolarTokenFile)
		if err != nil {
			c.Log.Debug().Err(err).Msg("polar sync disabled")
		} else {
			opts.Polar = polar.NewClient(cfg.PolarBaseURL, tok)
		}
	}
	return opts
}

// HandlerDeps maps the container onto the HTTP handler dependencies.
func (c *Container) HandlerDeps() handlers.ProviderDeps {
	return handlers.ProviderDeps{
		ServiceName: c.Config.ServiceName,
		Model:       c.Config.LLMModel,
		Chat:        c.Chat,
		Registry:    c.Registry,
		Sleep:       c.Store,
		Rules:       c.Rules,
		Syncer:      c.Ingest,
		Tracker:     c.Tracker,
	}
}

// Close releases the database pool.
func (c *Container) Close() error {
	if c.DB == nil {
		return nil
	}
	return database.Close(c.DB)
}
