package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/domain/ingest"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/responses"
	"github.com/janhq/health-assistant/internal/utils/platformerrors"
)

// Syncer runs ingestion on demand.
type Syncer interface {
	Sources() []string
	Sync(ctx context.Context, source string) (*ingest.Report, error)
}

type SyncHandler struct {
	syncer Syncer
	log    zerolog.Logger
}

func NewSyncHandler(syncer Syncer, log zerolog.Logger) *SyncHandler {
	return &SyncHandler{
		syncer: syncer,
		log:    log.With().Str("handler", "sync").Logger(),
	}
}

// Run handles POST /v1/sync/:source and returns the per-table report.
func (h *SyncHandler) Run(c *gin.Context) {
	source := c.Param("source")

	report, err := h.syncer.Sync(c.Request.Context(), source)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnknownSource):
			responses.HandleError(c, h.log, err, platformerrors.ErrorTypeValidation, "unknown sync source")
		case errors.Is(err, ingest.ErrNotConfigured):
			responses.HandleError(c, h.log, err, platformerrors.ErrorTypeNotFound, "sync source not configured")
		case errors.Is(err, ingest.ErrSyncInProgress):
			responses.HandleError(c, h.log, err, platformerrors.ErrorTypeConflict, "sync already running")
		default:
			responses.HandleError(c, h.log, err, platformerrors.ErrorTypeExternal, "sync failed")
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
