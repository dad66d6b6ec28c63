package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/domain/coaching"
	"github.com/janhq/health-assistant/internal/domain/health"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/requests"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/responses"
	"github.com/janhq/health-assistant/internal/utils/platformerrors"
)

const defaultRecentSleep = 7

// SleepReader is the read the sleep trend view needs.
type SleepReader interface {
	RecentSleep(ctx context.Context, limit int) ([]health.SleepRecord, error)
}

type SleepHandler struct {
	store SleepReader
	rules coaching.Rules
	log   zerolog.Logger
}

func NewSleepHandler(store SleepReader, rules coaching.Rules, log zerolog.Logger) *SleepHandler {
	return &SleepHandler{
		store: store,
		rules: rules,
		log:   log.With().Str("handler", "sleep").Logger(),
	}
}

// Recent handles GET /v1/sleep/recent?limit=7, oldest first.
func (h *SleepHandler) Recent(c *gin.Context) {
	var q requests.LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.HandleError(c, h.log, err, platformerrors.ErrorTypeValidation, "invalid limit")
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultRecentSleep
	}

	records, err := h.store.RecentSleep(c.Request.Context(), q.Limit)
	if err != nil {
		responses.HandleError(c, h.log, err, platformerrors.ErrorTypeDatabaseError, "failed to list sleep records")
		return
	}

	out := make([]responses.SleepEntry, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		out = append(out, responses.FromSleep(rec, h.rules.NeedsRecovery(rec.Score, rec.TotalSleepDuration)))
	}
	c.JSON(http.StatusOK, responses.NewList(out))
}
