package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/health-assistant/internal/domain/readiness"
	"github.com/janhq/health-assistant/internal/domain/tool"
	"github.com/janhq/health-assistant/internal/interfaces/httpserver/responses"
)

type StatusHandler struct {
	service  string
	model    string
	tracker  *readiness.Tracker
	registry *tool.Registry
	syncer   Syncer
}

func NewStatusHandler(service, model string, tracker *readiness.Tracker, registry *tool.Registry, syncer Syncer) *StatusHandler {
	return &StatusHandler{
		service:  service,
		model:    model,
		tracker:  tracker,
		registry: registry,
		syncer:   syncer,
	}
}

// Health handles GET /healthz.
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Ready handles GET /readyz. It reports 503 until every dependency has
// answered its last probe or call.
func (h *StatusHandler) Ready(c *gin.Context) {
	status, code := "ready", http.StatusOK
	if !h.tracker.AllReady() {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, responses.StatusResponse{
		Service:      h.service,
		Status:       status,
		Dependencies: h.tracker.Snapshot(),
	})
}

// Status handles GET /v1/status.
func (h *StatusHandler) Status(c *gin.Context) {
	status := "ready"
	if !h.tracker.AllReady() {
		status = "degraded"
	}
	resp := responses.StatusResponse{
		Service:      h.service,
		Status:       status,
		Model:        h.model,
		Dependencies: h.tracker.Snapshot(),
	}
	for _, d := range h.registry.Descriptors() {
		resp.Tools = append(resp.Tools, d.Name())
	}
	if h.syncer != nil {
		resp.SyncSources = h.syncer.Sources()
	}
	c.JSON(http.StatusOK, resp)
}
