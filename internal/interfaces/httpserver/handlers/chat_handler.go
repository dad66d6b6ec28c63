package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/domain/chat"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/requests"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/responses"
	"github.com/janhq/health-assistant/internal/utils/platformerrors"
)

// ChatService is the transcript-aware entry point to the assistant.
type ChatService interface {
	Ask(ctx context.Context, query string) (*chat.Exchange, error)
	History(ctx context.Context, limit int) ([]chat.Message, error)
}

// ChatHandler exposes the assistant over HTTP.
type ChatHandler struct {
	service ChatService
	log     zerolog.Logger
}

func NewChatHandler(service ChatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Ask handles POST /v1/chat. Pipeline failures still answer 200 with the
// fixed reply and degraded=true.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleError(c, h.log, err, platformerrors.ErrorTypeValidation, "query is required")
		return
	}

	ex, err := h.service.Ask(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyQuery) {
			responses.HandleError(c, h.log, err, platformerrors.ErrorTypeValidation, "query must not be empty")
			return
		}
		responses.HandleError(c, h.log, err, platformerrors.ErrorTypeInternal, "failed to answer query")
		return
	}

	c.JSON(http.StatusOK, responses.FromExchange(ex))
}

// Messages handles GET /v1/chat/messages?limit=N.
func (h *ChatHandler) Messages(c *gin.Context) {
	var q requests.LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.HandleError(c, h.log, err, platformerrors.ErrorTypeValidation, "invalid limit")
		return
	}

	msgs, err := h.service.History(c.Request.Context(), q.Limit)
	if err != nil {
		responses.HandleError(c, h.log, err, platformerrors.ErrorTypeDatabaseError, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, responses.NewList(msgs))
}
