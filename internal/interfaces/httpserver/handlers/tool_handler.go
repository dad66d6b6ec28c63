package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/health-assistant/internal/domain/tool"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/responses"
)

type ToolHandler struct {
	registry *tool.Registry
}

func NewToolHandler(registry *tool.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// List handles GET /v1/tools in registration order.
func (h *ToolHandler) List(c *gin.Context) {
	descriptors := h.registry.Descriptors()
	out := make([]responses.ToolResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, responses.FromDescriptor(d))
	}
	c.JSON(http.StatusOK, responses.NewList(out))
}
