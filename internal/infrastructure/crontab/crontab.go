package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/domain/ingest"
	"github.com/janhq/health-assistant/internal/utils/platformerrors"
)

const (
	DefaultSyncSchedule = "0 */6 * * *"
	CronJobTimeout      = 10 * time.Minute // Timeout for each cron job execution
)

// Syncer is the slice of ingest.Service the scheduler drives.
type Syncer interface {
	Sources() []string
	Sync(ctx context.Context, source string) (*ingest.Report, error)
}

type Crontab struct {
	ctab       *crontab.Crontab
	syncer     Syncer
	schedule   string
	runOnStart bool
	log        zerolog.Logger
}

func NewCrontab(syncer Syncer, schedule string, runOnStart bool, log zerolog.Logger) *Crontab {
	if schedule == "" {
		schedule = DefaultSyncSchedule
	}
	return &Crontab{
		ctab:       crontab.New(),
		syncer:     syncer,
		schedule:   schedule,
		runOnStart: runOnStart,
		log:        log.With().Str("component", "crontab").Logger(),
	}
}

// Run schedules the ingestion job and blocks until ctx is done.
func (c *Crontab) Run(ctx context.Context) error {
	if c.runOnStart {
		c.syncAll(ctx)
	}

	if err := c.ctab.AddJob(c.schedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
		defer cancel()
		c.syncAll(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add sync job")
	}
	c.log.Info().Str("schedule", c.schedule).Strs("sources", c.syncer.Sources()).Msg("ingestion scheduled")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) syncAll(ctx context.Context) {
	for _, source := range c.syncer.Sources() {
		if ctx.Err() != nil {
			return
		}
		if _, err := c.syncer.Sync(ctx, source); err != nil {
			c.log.Error().Err(err).Str("source", source).Msg("scheduled sync failed")
		}
	}
}
